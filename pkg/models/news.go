// Package models defines the core data structures used throughout NewsSense.
package models

import "time"

// RawArticle is a single news item as returned by a source adapter.
// It is immutable once created; tagging produces a TaggedArticle copy.
type RawArticle struct {
	Title       string    `json:"title"`
	Summary     string    `json:"summary,omitempty"`
	URL         string    `json:"url"`
	Source      string    `json:"source"`
	PublishedAt time.Time `json:"published_at"`
}

// TopicTag is a fixed-vocabulary label attached to an article via
// keyword matching.
type TopicTag string

const (
	TopicEarnings   TopicTag = "earnings"
	TopicMarket     TopicTag = "market"
	TopicCompany    TopicTag = "company"
	TopicTechnology TopicTag = "technology"
	TopicRegulatory TopicTag = "legal_regulatory"
)

// AllTopics lists every defined topic tag in display order.
var AllTopics = []TopicTag{
	TopicEarnings,
	TopicMarket,
	TopicCompany,
	TopicTechnology,
	TopicRegulatory,
}

// SentimentCategory buckets a polarity score.
type SentimentCategory string

const (
	SentimentPositive SentimentCategory = "positive"
	SentimentNegative SentimentCategory = "negative"
	SentimentNeutral  SentimentCategory = "neutral"
)

// TaggedArticle is a RawArticle enriched with detected tickers, topic
// tags, and a sentiment score. Never mutated after creation.
type TaggedArticle struct {
	RawArticle
	Tickers           []string          `json:"tickers,omitempty"`
	Topics            []TopicTag        `json:"topics,omitempty"`
	SentimentScore    float64           `json:"sentiment_score"`
	SentimentCategory SentimentCategory `json:"sentiment_category"`
}

// HasTopic reports whether the article carries the given topic tag.
func (a TaggedArticle) HasTopic(topic TopicTag) bool {
	for _, t := range a.Topics {
		if t == topic {
			return true
		}
	}
	return false
}

// SentimentDistribution counts articles per sentiment bucket.
type SentimentDistribution struct {
	Positive int `json:"positive"`
	Negative int `json:"negative"`
	Neutral  int `json:"neutral"`
}

// Total returns the number of articles covered by the distribution.
func (d SentimentDistribution) Total() int {
	return d.Positive + d.Negative + d.Neutral
}

// NewsAnalysis aggregates sentiment and topic data over a batch of
// articles for one ticker. Invariant: Distribution.Total() == len(Articles),
// and AverageSentiment is 0 (not NaN) for an empty batch.
type NewsAnalysis struct {
	Ticker           string                `json:"ticker,omitempty"`
	Articles         []TaggedArticle       `json:"articles"`
	AverageSentiment float64               `json:"average_sentiment"`
	Distribution     SentimentDistribution `json:"distribution"`
	TopicCounts      map[TopicTag]int      `json:"topic_counts"`
	SourceCounts     map[string]int        `json:"source_counts"`
	Keywords         []string              `json:"keywords,omitempty"`
	AnalyzedAt       time.Time             `json:"analyzed_at"`
}
