package scrape

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"github.com/marketmind/newssense/internal/infra"
	"github.com/marketmind/newssense/pkg/models"
)

const rssMaxItems = 10

// RSSFeed names a single market news RSS feed.
type RSSFeed struct {
	Name string
	URL  string
}

// DefaultRSSFeeds lists the market-wide feeds polled by the RSS adapter.
var DefaultRSSFeeds = []RSSFeed{
	{Name: "Yahoo Finance RSS", URL: "https://feeds.finance.yahoo.com/rss/2.0/headline?s=%s&region=US&lang=en-US"},
	{Name: "CNBC Markets", URL: "https://search.cnbc.com/rs/search/combinedcms/view.xml?partnerId=wrss01&id=20910258"},
}

// RSSAdapter pulls ticker news from RSS feeds. Feeds whose URL contains
// a %s verb are expanded with the ticker; market-wide feeds are filtered
// to items that mention the ticker in title or description.
type RSSAdapter struct {
	feeds   []RSSFeed
	limiter *infra.RateLimiter
	parser  *gofeed.Parser
}

// NewRSSAdapter creates the RSS adapter with the given feeds, falling
// back to DefaultRSSFeeds when none are configured.
func NewRSSAdapter(limiter *infra.RateLimiter, feeds []RSSFeed) *RSSAdapter {
	if len(feeds) == 0 {
		feeds = DefaultRSSFeeds
	}
	return &RSSAdapter{
		feeds:   feeds,
		limiter: limiter,
		parser:  gofeed.NewParser(),
	}
}

// Name returns the source name.
func (r *RSSAdapter) Name() string { return "RSS" }

// Fetch returns up to 10 articles mentioning the ticker across all
// configured feeds. Feeds that fail to parse are skipped.
func (r *RSSAdapter) Fetch(ctx context.Context, ticker string) ([]models.RawArticle, error) {
	var articles []models.RawArticle
	var lastErr error

	for _, feed := range r.feeds {
		if len(articles) >= rssMaxItems {
			break
		}

		if err := r.limiter.Acquire(ctx, r.Name()); err != nil {
			return articles, err
		}

		feedURL := feed.URL
		if strings.Contains(feedURL, "%s") {
			feedURL = fmt.Sprintf(feedURL, ticker)
		}

		parsed, err := r.parser.ParseURLWithContext(feedURL, ctx)
		if err != nil {
			lastErr = fmt.Errorf("parse RSS %s: %w", feed.Name, err)
			continue
		}

		ticked := strings.Contains(feed.URL, "%s")
		for _, item := range parsed.Items {
			if len(articles) >= rssMaxItems {
				break
			}
			summary := cleanHTML(item.Description)
			if !ticked && !mentionsTicker(item.Title+" "+summary, ticker) {
				continue
			}

			a := models.RawArticle{
				Title:   collapseWhitespace(item.Title),
				Summary: summary,
				URL:     item.Link,
				Source:  feed.Name,
			}
			if item.PublishedParsed != nil {
				a.PublishedAt = *item.PublishedParsed
			} else {
				a.PublishedAt = parsePublished(item.Published)
			}
			articles = append(articles, a)
		}
	}

	if len(articles) == 0 && lastErr != nil {
		return nil, lastErr
	}
	return articles, nil
}

// cleanHTML strips HTML tags from a string using goquery.
func cleanHTML(s string) string {
	if s == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<body>" + s + "</body>"))
	if err != nil {
		return s
	}
	return collapseWhitespace(doc.Text())
}

// mentionsTicker reports whether text contains the ticker as a word.
func mentionsTicker(text, ticker string) bool {
	upper := strings.ToUpper(text)
	idx := 0
	for {
		i := strings.Index(upper[idx:], ticker)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(ticker)
		beforeOK := start == 0 || !isWordByte(upper[start-1])
		afterOK := end == len(upper) || !isWordByte(upper[end])
		if beforeOK && afterOK {
			return true
		}
		idx = end
	}
}

func isWordByte(b byte) bool {
	return b >= 'A' && b <= 'Z' || b >= 'a' && b <= 'z' || b >= '0' && b <= '9'
}
