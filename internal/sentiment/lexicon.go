package sentiment

import "github.com/marketmind/newssense/pkg/models"

// Weighted keyword lexicon (lowercase, stemmed). Scoring walks the
// slices in order so identical input always produces the identical
// score.

type weightedWord struct {
	word   string
	weight float64
}

var positiveWords = []weightedWord{
	{"accumulate", 0.5},
	{"all-time high", 0.7},
	{"beat", 0.5},
	{"beats estimate", 0.6},
	{"breakout", 0.6},
	{"bullish", 0.7},
	{"buy", 0.5},
	{"dividend", 0.4},
	{"exceeds", 0.5},
	{"expansion", 0.4},
	{"gain", 0.4},
	{"growth", 0.4},
	{"jump", 0.5},
	{"outperform", 0.6},
	{"positive", 0.4},
	{"profit", 0.3},
	{"rally", 0.6},
	{"rebound", 0.5},
	{"record high", 0.7},
	{"recovery", 0.5},
	{"soar", 0.7},
	{"strong", 0.4},
	{"surge", 0.7},
	{"upbeat", 0.5},
	{"upgrade", 0.6},
}

var negativeWords = []weightedWord{
	{"bearish", 0.7},
	{"concern", 0.3},
	{"correction", 0.5},
	{"crash", 0.8},
	{"cut", 0.3},
	{"decline", 0.5},
	{"default", 0.7},
	{"downgrade", 0.6},
	{"drop", 0.4},
	{"fall", 0.4},
	{"fraud", 0.8},
	{"investigation", 0.5},
	{"lawsuit", 0.6},
	{"loss", 0.4},
	{"miss", 0.5},
	{"negative", 0.4},
	{"plunge", 0.7},
	{"recall", 0.5},
	{"sell", 0.5},
	{"selloff", 0.7},
	{"slump", 0.6},
	{"tumble", 0.6},
	{"underperform", 0.6},
	{"warning", 0.5},
	{"weak", 0.4},
}

// topicKeywords maps each topic tag to its trigger keywords
// (case-insensitive substring match).
var topicKeywords = map[models.TopicTag][]string{
	models.TopicEarnings:   {"earnings", "revenue", "profit", "quarter", "eps", "guidance"},
	models.TopicMarket:     {"market", "trading", "stock", "shares", "investors"},
	models.TopicCompany:    {"announces", "launch", "releases", "introduces", "company"},
	models.TopicTechnology: {"tech", "technology", "innovation", "product", "development"},
	models.TopicRegulatory: {"sec", "regulation", "lawsuit", "legal", "compliance"},
}

// tickerStopList holds uppercase tokens that look like tickers but are
// common words or acronyms, excluded from entity detection.
var tickerStopList = map[string]struct{}{}

var tickerStopWords = []string{
	"A", "I", "AM", "PM", "IS", "ARE", "BE", "TO", "IN", "FOR", "ON",
	"AT", "BY", "THE", "OF", "AND", "OR", "WHY", "WHAT", "WHEN", "WHO",
	"HOW", "UP", "DOWN", "OVER", "UNDER", "ABOVE", "BELOW", "MY", "ITS",
	"THAT", "THIS", "THESE", "THOSE", "FROM", "WITH", "ABOUT", "AFTER",
	"SINCE", "UNTIL", "WHILE", "SO", "SUCH", "THAN", "AS", "JUST", "TOO",
	"MOST", "ALL", "ANY", "SOME", "NO", "NOT", "ONLY", "BOTH", "EACH",
	"MANY", "MUCH", "MORE", "LESS", "FEW", "OWN", "SAME", "LIKE", "ALSO",
	"WELL", "NOW", "NEW", "CEO", "CFO", "IPO", "ETF", "USA", "US", "UK",
	"GDP", "FED", "NYSE", "WEEK", "YEAR", "TIME", "SAYS", "SAID", "WILL",
	"HAS", "HAD", "GET", "OUT", "TOP", "BIG", "LOW", "HIGH", "DAY", "Q",
}

// stopWords excludes common English words from keyword extraction.
var stopWords = map[string]struct{}{}

var stopWordList = []string{
	"this", "that", "these", "those", "with", "from", "into", "over",
	"under", "after", "before", "about", "above", "below", "between",
	"during", "through", "their", "there", "where", "which", "while",
	"would", "could", "should", "have", "been", "being", "will", "says",
	"said", "more", "most", "less", "than", "then", "them", "they",
	"what", "when", "your", "just", "also", "only", "some", "such",
	"here", "other", "because", "were", "does", "amid", "year", "week",
}

func init() {
	for _, w := range tickerStopWords {
		tickerStopList[w] = struct{}{}
	}
	for _, w := range stopWordList {
		stopWords[w] = struct{}{}
	}
}
