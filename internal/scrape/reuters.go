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
	reutersName     = "Reuters"
	reutersBaseURL  = "https://www.reuters.com"
	reutersMaxItems = 5
)

// Reuters scrapes the story cards on a Reuters company page.
type Reuters struct {
	limiter *infra.RateLimiter
}

// NewReuters creates the Reuters adapter.
func NewReuters(limiter *infra.RateLimiter) *Reuters {
	return &Reuters{limiter: limiter}
}

// Name returns the source name.
func (r *Reuters) Name() string { return reutersName }

// Fetch returns up to 5 recent articles for the ticker.
func (r *Reuters) Fetch(ctx context.Context, ticker string) ([]models.RawArticle, error) {
	// Reuters keys company pages by the NASDAQ-suffixed RIC.
	pageURL := fmt.Sprintf("%s/companies/%s.O", reutersBaseURL, url.PathEscape(ticker))

	doc, err := fetchDocument(ctx, r.limiter, reutersName, pageURL)
	if err != nil {
		return nil, fmt.Errorf("reuters %s: %w", ticker, err)
	}

	var articles []models.RawArticle
	doc.Find("div[data-testid='media-story-card']").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		titleLink := s.Find("a[data-testid='heading-link']").First()
		title := strings.TrimSpace(titleLink.Text())
		if title == "" {
			return true
		}

		href, _ := titleLink.Attr("href")
		published := time.Now()
		if dt, ok := s.Find("time").First().Attr("datetime"); ok {
			if t, err := time.Parse(time.RFC3339, dt); err == nil {
				published = t
			}
		}

		articles = append(articles, models.RawArticle{
			Title:       collapseWhitespace(title),
			URL:         resolveURL(reutersBaseURL, href),
			Source:      reutersName,
			PublishedAt: published,
		})
		return len(articles) < reutersMaxItems
	})

	return articles, nil
}
