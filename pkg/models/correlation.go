package models

import "time"

// CorrelationPoint is the inner-joined per-day view of price versus
// negative-news volume. Only dates present in both the price series and
// the news index appear.
type CorrelationPoint struct {
	Date              time.Time `json:"date"`
	Price             float64   `json:"price"`
	NegativeNewsCount int       `json:"negative_news_count"`
}

// CorrelationResult is the outcome of relating a daily price series to
// daily negative-news counts. Coefficient is nil when fewer than two
// joined points exist or either series has zero variance; that is a
// normal outcome, not a failure.
type CorrelationResult struct {
	Points       []CorrelationPoint `json:"points"`
	Coefficient  *float64           `json:"coefficient"`
	DaysAnalyzed int                `json:"days_analyzed"`
	Err          string             `json:"error,omitempty"`
}
