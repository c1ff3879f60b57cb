package sentiment

import (
	"math"
	"testing"
	"time"

	"github.com/marketmind/newssense/pkg/models"
)

func TestScoreBullishHeadline(t *testing.T) {
	score := Score("Shares rally on strong growth and record high revenue")
	if score <= 0 {
		t.Errorf("expected positive score for bullish headline, got %.4f", score)
	}
	if score > 1 {
		t.Errorf("score %.4f out of [-1,1]", score)
	}
}

func TestScoreBearishHeadline(t *testing.T) {
	score := Score("Stocks plunge amid fraud investigation")
	if score >= 0 {
		t.Errorf("expected negative score for bearish headline, got %.4f", score)
	}
	if score < -1 {
		t.Errorf("score %.4f out of [-1,1]", score)
	}
}

func TestScoreNeutralHeadline(t *testing.T) {
	if score := Score("Firm opens office in Dallas"); score != 0 {
		t.Errorf("expected zero score for neutral headline, got %.4f", score)
	}
}

func TestScoreDeterministic(t *testing.T) {
	text := "Profit surge offsets weak guidance warning in mixed quarter"
	first := Score(text)
	for i := 0; i < 10; i++ {
		if got := Score(text); got != first {
			t.Fatalf("score changed between runs: %.17g vs %.17g", first, got)
		}
	}
}

func TestScoreBounded(t *testing.T) {
	texts := []string{
		"rally surge breakout upgrade bullish record high",
		"crash plunge fraud selloff downgrade bearish",
		"",
	}
	for _, text := range texts {
		score := Score(text)
		if score < -1 || score > 1 {
			t.Errorf("Score(%q) = %.4f out of [-1,1]", text, score)
		}
	}
}

func TestCategorizeBoundaries(t *testing.T) {
	tests := []struct {
		score float64
		want  models.SentimentCategory
	}{
		{0.25, models.SentimentPositive},
		{0.2, models.SentimentNeutral}, // boundary is exclusive
		{0.0, models.SentimentNeutral},
		{-0.2, models.SentimentNeutral},
		{-0.25, models.SentimentNegative},
		{1.0, models.SentimentPositive},
		{-1.0, models.SentimentNegative},
	}
	for _, tt := range tests {
		if got := Categorize(tt.score); got != tt.want {
			t.Errorf("Categorize(%v) = %s, want %s", tt.score, got, tt.want)
		}
	}
}

func TestDetectTopics(t *testing.T) {
	tests := []struct {
		text string
		want []models.TopicTag
	}{
		{
			"Quarterly earnings beat revenue estimates",
			[]models.TopicTag{models.TopicEarnings},
		},
		{
			"Firm announces new product launch",
			[]models.TopicTag{models.TopicCompany, models.TopicTechnology},
		},
		{
			"Regulator files lawsuit over compliance failures",
			[]models.TopicTag{models.TopicRegulatory},
		},
		{
			"Heavy rain expected this weekend",
			nil,
		},
	}
	for _, tt := range tests {
		got := DetectTopics(tt.text)
		if len(got) != len(tt.want) {
			t.Errorf("DetectTopics(%q) = %v, want %v", tt.text, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("DetectTopics(%q)[%d] = %s, want %s", tt.text, i, got[i], tt.want[i])
			}
		}
	}
}

func TestDetectTickers(t *testing.T) {
	got := DetectTickers("AAPL beats MSFT as THE broader index moves UP", "AAPL")
	want := []string{"AAPL", "MSFT"}
	if len(got) != len(want) {
		t.Fatalf("DetectTickers = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("DetectTickers[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestDetectTickersQueriedFirst(t *testing.T) {
	got := DetectTickers("NVDA supply deal lifts TSM", "TSLA")
	if len(got) == 0 || got[0] != "TSLA" {
		t.Fatalf("queried ticker must come first, got %v", got)
	}
}

func TestTagCopiesArticle(t *testing.T) {
	c := NewClassifier()
	raw := models.RawArticle{
		Title:       "Shares surge after earnings beat",
		Summary:     "Revenue and profit exceed estimates for the quarter.",
		URL:         "https://example.com/a",
		Source:      "Yahoo Finance",
		PublishedAt: time.Now(),
	}

	tagged := c.Tag(raw, "AAPL")
	if tagged.Title != raw.Title || tagged.URL != raw.URL {
		t.Error("tagging must preserve the raw article fields")
	}
	if tagged.SentimentCategory != models.SentimentPositive {
		t.Errorf("category = %s, want positive", tagged.SentimentCategory)
	}
	if !tagged.HasTopic(models.TopicEarnings) {
		t.Errorf("expected earnings topic, got %v", tagged.Topics)
	}
	if len(tagged.Tickers) == 0 || tagged.Tickers[0] != "AAPL" {
		t.Errorf("tickers = %v, want AAPL first", tagged.Tickers)
	}
}

func TestAnalyzeDistributionSumsToLen(t *testing.T) {
	c := NewClassifier()
	raw := []models.RawArticle{
		{Title: "Shares rally on strong growth", Source: "A"},
		{Title: "Stock plunges after fraud investigation", Source: "B"},
		{Title: "Firm opens office in Dallas", Source: "A"},
		{Title: "Revenue surges past estimates", Source: "C"},
	}

	analysis := c.AnalyzeRaw("TEST", raw)
	if got := analysis.Distribution.Total(); got != len(raw) {
		t.Errorf("distribution total = %d, want %d", got, len(raw))
	}
	if analysis.SourceCounts["A"] != 2 {
		t.Errorf("SourceCounts[A] = %d, want 2", analysis.SourceCounts["A"])
	}
}

func TestAnalyzeAverageSentiment(t *testing.T) {
	c := NewClassifier()
	tagged := []models.TaggedArticle{
		{SentimentScore: 0.5, SentimentCategory: models.SentimentPositive},
		{SentimentScore: -0.5, SentimentCategory: models.SentimentNegative},
		{SentimentScore: 0.25, SentimentCategory: models.SentimentPositive},
	}

	analysis := c.Analyze("TEST", tagged)
	want := 0.25 / 3
	if math.Abs(analysis.AverageSentiment-want) > 1e-12 {
		t.Errorf("AverageSentiment = %v, want %v", analysis.AverageSentiment, want)
	}
}

func TestAnalyzeEmptyBatch(t *testing.T) {
	c := NewClassifier()
	analysis := c.Analyze("TEST", nil)

	if analysis.AverageSentiment != 0 {
		t.Errorf("AverageSentiment = %v, want exactly 0", analysis.AverageSentiment)
	}
	if math.IsNaN(analysis.AverageSentiment) {
		t.Error("AverageSentiment must not be NaN for an empty batch")
	}
	if analysis.Distribution.Total() != 0 {
		t.Errorf("distribution total = %d, want 0", analysis.Distribution.Total())
	}
	if len(analysis.Keywords) != 0 {
		t.Errorf("keywords = %v, want none", analysis.Keywords)
	}
}

func TestExtractKeywords(t *testing.T) {
	c := NewClassifier()
	raw := []models.RawArticle{
		{Title: "Semiconductor demand drives semiconductor rally"},
		{Title: "Semiconductor outlook hinges on datacenter demand"},
		{Title: "The quick update"},
	}

	analysis := c.AnalyzeRaw("TEST", raw)
	if len(analysis.Keywords) == 0 {
		t.Fatal("expected keywords")
	}
	if analysis.Keywords[0] != "semiconductor" {
		t.Errorf("top keyword = %q, want semiconductor", analysis.Keywords[0])
	}
	for _, kw := range analysis.Keywords {
		if len(kw) <= 3 {
			t.Errorf("keyword %q shorter than 4 characters", kw)
		}
	}
}
