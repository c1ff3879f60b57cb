package models

import "time"

// OHLCV represents a single candlestick bar of price data.
type OHLCV struct {
	Timestamp time.Time `json:"timestamp"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    int64     `json:"volume"`
	AdjClose  float64   `json:"adj_close,omitempty"`
}

// Quote represents a near-real-time quote with company metadata.
type Quote struct {
	Ticker        string    `json:"ticker"`
	Name          string    `json:"name"`
	Exchange      string    `json:"exchange,omitempty"`
	Currency      string    `json:"currency,omitempty"`
	LastPrice     float64   `json:"last_price"`
	Change        float64   `json:"change"`
	ChangePct     float64   `json:"change_pct"`
	Open          float64   `json:"open"`
	High          float64   `json:"high"`
	Low           float64   `json:"low"`
	PrevClose     float64   `json:"prev_close"`
	Volume        int64     `json:"volume"`
	WeekHigh52    float64   `json:"week_high_52"`
	WeekLow52     float64   `json:"week_low_52"`
	MarketCap     int64     `json:"market_cap,omitempty"`
	PE            float64   `json:"pe,omitempty"`
	EPS           float64   `json:"eps,omitempty"`
	DividendYield float64   `json:"dividend_yield,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

// Period names a lookback window for a daily price series.
type Period string

const (
	PeriodToday Period = "today"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
)

// Days returns the calendar length of the period in days.
func (p Period) Days() int {
	switch p {
	case PeriodToday:
		return 1
	case PeriodWeek:
		return 7
	case PeriodMonth:
		return 30
	case PeriodYear:
		return 365
	default:
		return 30
	}
}

// Valid reports whether p is one of the named periods.
func (p Period) Valid() bool {
	switch p {
	case PeriodToday, PeriodWeek, PeriodMonth, PeriodYear:
		return true
	}
	return false
}

// PricePoint is one day of a closing-price series.
type PricePoint struct {
	Date  time.Time `json:"date"`
	Close float64   `json:"close"`
}
