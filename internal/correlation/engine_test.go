package correlation

import (
	"math"
	"testing"
	"time"

	"github.com/marketmind/newssense/pkg/models"
)

func day(n int) time.Time {
	return time.Date(2026, time.March, n, 0, 0, 0, 0, time.UTC)
}

func negativeArticles(published time.Time, n int) []models.TaggedArticle {
	out := make([]models.TaggedArticle, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, models.TaggedArticle{
			RawArticle:        models.RawArticle{Title: "downbeat", PublishedAt: published},
			SentimentCategory: models.SentimentNegative,
		})
	}
	return out
}

func neutralArticle(published time.Time) models.TaggedArticle {
	return models.TaggedArticle{
		RawArticle:        models.RawArticle{Title: "flat", PublishedAt: published},
		SentimentCategory: models.SentimentNeutral,
	}
}

func TestCorrelateRisingNegativeNewsFallingPrice(t *testing.T) {
	prices := []models.PricePoint{
		{Date: day(1), Close: 100},
		{Date: day(2), Close: 105},
		{Date: day(3), Close: 95},
	}
	var articles []models.TaggedArticle
	articles = append(articles, neutralArticle(day(1)))
	articles = append(articles, negativeArticles(day(2), 1)...)
	articles = append(articles, negativeArticles(day(3), 3)...)

	result := Correlate(prices, articles)
	if result.Err != "" {
		t.Fatalf("unexpected Err %q", result.Err)
	}
	if result.DaysAnalyzed != 3 {
		t.Fatalf("DaysAnalyzed = %d, want 3", result.DaysAnalyzed)
	}
	if result.Coefficient == nil {
		t.Fatal("expected a coefficient")
	}
	if *result.Coefficient >= 0 {
		t.Errorf("coefficient = %v, want negative", *result.Coefficient)
	}
	if math.Abs(*result.Coefficient) > 1 {
		t.Errorf("coefficient = %v, outside [-1, 1]", *result.Coefficient)
	}
}

func TestCorrelatePointsChronological(t *testing.T) {
	prices := []models.PricePoint{
		{Date: day(3), Close: 95},
		{Date: day(1), Close: 100},
		{Date: day(2), Close: 105},
	}
	var articles []models.TaggedArticle
	for n := 1; n <= 3; n++ {
		articles = append(articles, negativeArticles(day(n), n)...)
	}

	result := Correlate(prices, articles)
	if len(result.Points) != 3 {
		t.Fatalf("got %d points, want 3", len(result.Points))
	}
	for i := 1; i < len(result.Points); i++ {
		if !result.Points[i-1].Date.Before(result.Points[i].Date) {
			t.Errorf("points out of order at %d: %v then %v",
				i, result.Points[i-1].Date, result.Points[i].Date)
		}
	}
}

func TestCorrelateInnerJoinSkipsUncoveredDays(t *testing.T) {
	prices := []models.PricePoint{
		{Date: day(1), Close: 100},
		{Date: day(2), Close: 101},
		{Date: day(3), Close: 102},
		{Date: day(4), Close: 103},
	}
	var articles []models.TaggedArticle
	articles = append(articles, negativeArticles(day(1), 2)...)
	// day 2 has no articles at all, day 3 has only non-negative coverage.
	articles = append(articles, neutralArticle(day(3)))
	articles = append(articles, negativeArticles(day(4), 1)...)

	result := Correlate(prices, articles)
	if result.DaysAnalyzed != 3 {
		t.Fatalf("DaysAnalyzed = %d, want 3", result.DaysAnalyzed)
	}
	counts := map[string]int{}
	for _, p := range result.Points {
		counts[p.Date.Format("2006-01-02")] = p.NegativeNewsCount
	}
	if counts["2026-03-03"] != 0 {
		t.Errorf("covered day with no negative news should count 0, got %d", counts["2026-03-03"])
	}
	if _, joined := counts["2026-03-02"]; joined {
		t.Error("day without any articles should not join")
	}
}

func TestCorrelateInsufficientData(t *testing.T) {
	prices := []models.PricePoint{{Date: day(1), Close: 100}}
	articles := negativeArticles(day(1), 2)

	result := Correlate(prices, articles)
	if result.Err != ErrInsufficientData {
		t.Fatalf("Err = %q, want %q", result.Err, ErrInsufficientData)
	}
	if result.Coefficient != nil {
		t.Error("coefficient should be nil on insufficient data")
	}
	if result.DaysAnalyzed != 0 {
		t.Errorf("DaysAnalyzed = %d, want 0", result.DaysAnalyzed)
	}
}

func TestCorrelateNoArticles(t *testing.T) {
	prices := []models.PricePoint{
		{Date: day(1), Close: 100},
		{Date: day(2), Close: 101},
	}
	result := Correlate(prices, nil)
	if result.Err != ErrInsufficientData {
		t.Fatalf("Err = %q, want %q", result.Err, ErrInsufficientData)
	}
}

func TestCorrelateZeroVariance(t *testing.T) {
	prices := []models.PricePoint{
		{Date: day(1), Close: 100},
		{Date: day(2), Close: 100},
		{Date: day(3), Close: 100},
	}
	var articles []models.TaggedArticle
	for n := 1; n <= 3; n++ {
		articles = append(articles, negativeArticles(day(n), n)...)
	}

	result := Correlate(prices, articles)
	if result.Coefficient != nil {
		t.Errorf("flat price series should yield nil coefficient, got %v", *result.Coefficient)
	}
	if result.DaysAnalyzed != 3 {
		t.Errorf("DaysAnalyzed = %d, want 3", result.DaysAnalyzed)
	}
}

func TestCorrelatePerfectPositive(t *testing.T) {
	prices := []models.PricePoint{
		{Date: day(1), Close: 100},
		{Date: day(2), Close: 110},
		{Date: day(3), Close: 120},
	}
	var articles []models.TaggedArticle
	for n := 1; n <= 3; n++ {
		articles = append(articles, negativeArticles(day(n), n)...)
	}

	result := Correlate(prices, articles)
	if result.Coefficient == nil {
		t.Fatal("expected a coefficient")
	}
	if math.Abs(*result.Coefficient-1) > 1e-9 {
		t.Errorf("coefficient = %v, want 1", *result.Coefficient)
	}
}

func TestInterpret(t *testing.T) {
	ptr := func(v float64) *float64 { return &v }
	tests := []struct {
		name string
		r    *float64
		want string
	}{
		{"nil", nil, "insufficient data to measure a relationship"},
		{"strong negative", ptr(-0.85), "strong negative correlation"},
		{"strong positive", ptr(0.9), "strong positive correlation"},
		{"moderate", ptr(-0.5), "moderate negative correlation"},
		{"weak", ptr(0.3), "weak positive correlation"},
		{"boundary weak", ptr(0.2), "no clear correlation"},
		{"none", ptr(0.05), "no clear correlation"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Interpret(tt.r); got != tt.want {
				t.Errorf("Interpret(%v) = %q, want %q", tt.r, got, tt.want)
			}
		})
	}
}
