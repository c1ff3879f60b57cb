package scrape

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/marketmind/newssense/internal/infra"
	"github.com/marketmind/newssense/pkg/models"
)

const (
	yahooName     = "Yahoo Finance"
	yahooBaseURL  = "https://finance.yahoo.com"
	yahooMaxItems = 10
)

// YahooFinance scrapes the news tab of a Yahoo Finance quote page.
type YahooFinance struct {
	limiter *infra.RateLimiter
}

// NewYahooFinance creates the Yahoo Finance adapter.
func NewYahooFinance(limiter *infra.RateLimiter) *YahooFinance {
	return &YahooFinance{limiter: limiter}
}

// Name returns the source name.
func (y *YahooFinance) Name() string { return yahooName }

// Fetch returns up to 10 recent articles for the ticker.
func (y *YahooFinance) Fetch(ctx context.Context, ticker string) ([]models.RawArticle, error) {
	pageURL := fmt.Sprintf("%s/quote/%s/news", yahooBaseURL, url.PathEscape(ticker))

	doc, err := fetchDocument(ctx, y.limiter, yahooName, pageURL)
	if err != nil {
		return nil, fmt.Errorf("yahoo finance %s: %w", ticker, err)
	}

	var articles []models.RawArticle
	doc.Find("div[class*='Py(14px)'], li.stream-item").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		title := strings.TrimSpace(s.Find("h3").First().Text())
		link, _ := s.Find("a").First().Attr("href")
		if title == "" || link == "" {
			return true
		}

		summary := strings.TrimSpace(s.Find("p").First().Text())
		published := strings.TrimSpace(s.Find("span[class*='C($c-fuji-grey-j)'], div.publishing").First().Text())

		articles = append(articles, models.RawArticle{
			Title:       collapseWhitespace(title),
			Summary:     collapseWhitespace(summary),
			URL:         resolveURL(yahooBaseURL, link),
			Source:      yahooName,
			PublishedAt: parsePublished(published),
		})
		return len(articles) < yahooMaxItems
	})

	return articles, nil
}

// resolveURL joins a possibly relative href against the source base URL.
func resolveURL(base, href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if u.IsAbs() {
		return href
	}
	b, err := url.Parse(base)
	if err != nil {
		return href
	}
	return b.ResolveReference(u).String()
}

// collapseWhitespace normalizes runs of whitespace to single spaces.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
