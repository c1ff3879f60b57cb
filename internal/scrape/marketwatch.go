package scrape

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/marketmind/newssense/internal/infra"
	"github.com/marketmind/newssense/pkg/models"
)

const (
	marketWatchName     = "MarketWatch"
	marketWatchBaseURL  = "https://www.marketwatch.com"
	marketWatchMaxItems = 5
)

// MarketWatch scrapes the news module of a MarketWatch stock page.
type MarketWatch struct {
	limiter *infra.RateLimiter
}

// NewMarketWatch creates the MarketWatch adapter.
func NewMarketWatch(limiter *infra.RateLimiter) *MarketWatch {
	return &MarketWatch{limiter: limiter}
}

// Name returns the source name.
func (m *MarketWatch) Name() string { return marketWatchName }

// Fetch returns up to 5 recent articles for the ticker.
func (m *MarketWatch) Fetch(ctx context.Context, ticker string) ([]models.RawArticle, error) {
	pageURL := fmt.Sprintf("%s/investing/stock/%s", marketWatchBaseURL, url.PathEscape(strings.ToLower(ticker)))

	doc, err := fetchDocument(ctx, m.limiter, marketWatchName, pageURL)
	if err != nil {
		return nil, fmt.Errorf("marketwatch %s: %w", ticker, err)
	}

	var articles []models.RawArticle
	doc.Find("div.article__content").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		titleLink := s.Find("a.link").First()
		title := strings.TrimSpace(titleLink.Text())
		if title == "" {
			return true
		}

		href, _ := titleLink.Attr("href")
		published := strings.TrimSpace(s.Find("span.article__timestamp").First().Text())

		articles = append(articles, models.RawArticle{
			Title:       collapseWhitespace(title),
			URL:         resolveURL(marketWatchBaseURL, href),
			Source:      marketWatchName,
			PublishedAt: parsePublished(published),
		})
		return len(articles) < marketWatchMaxItems
	})

	return articles, nil
}

// parsePublished makes a best effort at turning a source timestamp
// string into a time. Relative phrases ("2 hours ago") and the common
// absolute formats are recognized; anything else falls back to now,
// keeping the article in today's correlation bucket.
func parsePublished(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Now()
	}

	if t, ok := parseRelative(s); ok {
		return t
	}

	layouts := []string{
		time.RFC3339,
		"Jan. 2, 2006 at 3:04 p.m. ET",
		"Jan 2, 2006",
		"2006-01-02 15:04:05",
		"2006-01-02",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Now()
}

func parseRelative(s string) (time.Time, bool) {
	fields := strings.Fields(strings.ToLower(s))
	if len(fields) < 3 || fields[len(fields)-1] != "ago" {
		return time.Time{}, false
	}

	var n int
	if _, err := fmt.Sscanf(fields[0], "%d", &n); err != nil {
		return time.Time{}, false
	}

	unit := strings.TrimSuffix(fields[1], "s")
	switch unit {
	case "minute", "min":
		return time.Now().Add(-time.Duration(n) * time.Minute), true
	case "hour":
		return time.Now().Add(-time.Duration(n) * time.Hour), true
	case "day":
		return time.Now().AddDate(0, 0, -n), true
	}
	return time.Time{}, false
}
