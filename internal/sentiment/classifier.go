// Package sentiment scores article text with a weighted keyword
// lexicon, tags tickers and topics, and aggregates batches into a
// NewsAnalysis. Scoring is deterministic, bounded to [-1, 1], and
// near zero for neutral factual text; no network or model calls.
package sentiment

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/marketmind/newssense/pkg/models"
)

// Categorization thresholds. Fixed contract shared with every consumer
// and with the tests: boundaries are exclusive, so a score of exactly
// 0.2 or -0.2 is neutral.
const (
	PositiveThreshold = 0.2
	NegativeThreshold = -0.2
)

// topKeywords is the number of ranked keywords kept per analysis.
const topKeywords = 20

var tickerTokenPattern = regexp.MustCompile(`\b[A-Z]{1,5}\b`)

// Classifier tags and scores articles. The zero value is not usable;
// construct with NewClassifier.
type Classifier struct{}

// NewClassifier creates a classifier.
func NewClassifier() *Classifier {
	return &Classifier{}
}

// Score computes the polarity of text in [-1, 1]: the signed net
// weight of matched lexicon entries normalized by the total matched
// weight, or 0 when nothing matches.
func Score(text string) float64 {
	lower := strings.ToLower(text)

	var posWeight, negWeight float64
	for _, w := range positiveWords {
		if strings.Contains(lower, w.word) {
			posWeight += w.weight
		}
	}
	for _, w := range negativeWords {
		if strings.Contains(lower, w.word) {
			negWeight += w.weight
		}
	}

	total := posWeight + negWeight
	if total == 0 {
		return 0
	}
	return (posWeight - negWeight) / total
}

// Categorize buckets a polarity score. Scores above PositiveThreshold
// are positive, below NegativeThreshold negative, everything else
// (boundaries included) neutral.
func Categorize(score float64) models.SentimentCategory {
	switch {
	case score > PositiveThreshold:
		return models.SentimentPositive
	case score < NegativeThreshold:
		return models.SentimentNegative
	default:
		return models.SentimentNeutral
	}
}

// DetectTopics returns the topic tags whose keywords appear in the
// text, in the fixed AllTopics order. An article may carry zero, one,
// or many tags; topic detection is independent of sentiment.
func DetectTopics(text string) []models.TopicTag {
	lower := strings.ToLower(text)
	var tags []models.TopicTag
	for _, topic := range models.AllTopics {
		for _, kw := range topicKeywords[topic] {
			if strings.Contains(lower, kw) {
				tags = append(tags, topic)
				break
			}
		}
	}
	return tags
}

// DetectTickers returns the queried ticker plus any ticker-like tokens
// (1-5 uppercase letters, stop-list excluded) found in the text, in
// order of first appearance with the queried ticker first.
func DetectTickers(text, queried string) []string {
	seen := map[string]struct{}{}
	var tickers []string
	if queried != "" {
		tickers = append(tickers, queried)
		seen[queried] = struct{}{}
	}
	for _, tok := range tickerTokenPattern.FindAllString(text, -1) {
		if _, stop := tickerStopList[tok]; stop {
			continue
		}
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		tickers = append(tickers, tok)
	}
	return tickers
}

// Tag produces a TaggedArticle from a raw article: detected tickers,
// topic tags, and the sentiment score and category of the concatenated
// title and summary. The input article is copied, never mutated.
func (c *Classifier) Tag(a models.RawArticle, queriedTicker string) models.TaggedArticle {
	text := articleText(a)
	score := Score(text)
	return models.TaggedArticle{
		RawArticle:        a,
		Tickers:           DetectTickers(text, queriedTicker),
		Topics:            DetectTopics(text),
		SentimentScore:    score,
		SentimentCategory: Categorize(score),
	}
}

// Analyze aggregates a batch of tagged articles for one ticker. An
// empty batch yields a zero-count analysis with AverageSentiment 0;
// that is the defined empty-input behavior, not an error.
func (c *Classifier) Analyze(ticker string, articles []models.TaggedArticle) models.NewsAnalysis {
	analysis := models.NewsAnalysis{
		Ticker:       ticker,
		Articles:     articles,
		TopicCounts:  make(map[models.TopicTag]int),
		SourceCounts: make(map[string]int),
		AnalyzedAt:   time.Now(),
	}

	var sum float64
	for _, a := range articles {
		sum += a.SentimentScore
		switch a.SentimentCategory {
		case models.SentimentPositive:
			analysis.Distribution.Positive++
		case models.SentimentNegative:
			analysis.Distribution.Negative++
		default:
			analysis.Distribution.Neutral++
		}
		for _, topic := range a.Topics {
			analysis.TopicCounts[topic]++
		}
		analysis.SourceCounts[a.Source]++
	}

	if len(articles) > 0 {
		analysis.AverageSentiment = sum / float64(len(articles))
	}
	analysis.Keywords = extractKeywords(articles)
	return analysis
}

// AnalyzeRaw tags each raw article and aggregates the batch.
func (c *Classifier) AnalyzeRaw(ticker string, articles []models.RawArticle) models.NewsAnalysis {
	tagged := make([]models.TaggedArticle, 0, len(articles))
	for _, a := range articles {
		tagged = append(tagged, c.Tag(a, ticker))
	}
	return c.Analyze(ticker, tagged)
}

// extractKeywords ranks words longer than three characters, stop words
// excluded, by frequency across the whole batch and keeps the top 20.
// Ties break alphabetically so output is stable.
func extractKeywords(articles []models.TaggedArticle) []string {
	counts := map[string]int{}
	for _, a := range articles {
		for _, word := range strings.Fields(strings.ToLower(articleText(a.RawArticle))) {
			word = strings.Trim(word, ".,:;!?\"'()[]$%")
			if len(word) <= 3 {
				continue
			}
			if _, stop := stopWords[word]; stop {
				continue
			}
			counts[word]++
		}
	}
	if len(counts) == 0 {
		return nil
	}

	words := make([]string, 0, len(counts))
	for w := range counts {
		words = append(words, w)
	}
	sort.Slice(words, func(i, j int) bool {
		if counts[words[i]] != counts[words[j]] {
			return counts[words[i]] > counts[words[j]]
		}
		return words[i] < words[j]
	})

	if len(words) > topKeywords {
		words = words[:topKeywords]
	}
	return words
}

func articleText(a models.RawArticle) string {
	if a.Summary == "" {
		return a.Title
	}
	return a.Title + " " + a.Summary
}
