// Package marketdata fetches quotes and price history from Yahoo
// Finance through the piquette finance-go client.
package marketdata

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
	"github.com/piquette/finance-go/equity"
	"github.com/shopspring/decimal"

	"github.com/marketmind/newssense/internal/infra"
	"github.com/marketmind/newssense/pkg/models"
	"github.com/marketmind/newssense/pkg/utils"
)

// limiterKey throttles all market data calls as one upstream. The
// quote API tolerates far more traffic than the news pages, but it
// still bans hot loops.
const limiterKey = "yahoo-api"

// Provider wraps the Yahoo quote and chart endpoints behind the
// shared cache and rate limiter.
type Provider struct {
	cache   *infra.Cache
	limiter *infra.RateLimiter
	logger  *slog.Logger
}

func NewProvider(cache *infra.Cache, limiter *infra.RateLimiter, logger *slog.Logger) *Provider {
	if logger == nil {
		logger = slog.Default()
	}
	return &Provider{cache: cache, limiter: limiter, logger: logger}
}

// GetQuote returns the current quote with company metadata.
func (p *Provider) GetQuote(ctx context.Context, ticker string) (*models.Quote, error) {
	ticker = utils.NormalizeTicker(ticker)
	if err := utils.ValidateTicker(ticker); err != nil {
		return nil, err
	}

	key := infra.CacheKey("quote:"+ticker, utils.HourBucket(time.Now()))
	if cached, ok := p.cache.Get(key); ok {
		if q, ok := cached.(*models.Quote); ok {
			return q, nil
		}
	}

	if err := p.limiter.Acquire(ctx, limiterKey); err != nil {
		return nil, err
	}
	eq, err := equity.Get(ticker)
	if err != nil {
		return nil, fmt.Errorf("quote %s: %w", ticker, err)
	}
	if eq == nil {
		return nil, fmt.Errorf("quote %s: no data", ticker)
	}
	p.limiter.Reset(limiterKey)

	q := &models.Quote{
		Ticker:        ticker,
		Name:          eq.ShortName,
		Exchange:      eq.FullExchangeName,
		Currency:      eq.CurrencyID,
		LastPrice:     eq.RegularMarketPrice,
		Change:        eq.RegularMarketChange,
		ChangePct:     eq.RegularMarketChangePercent,
		Open:          eq.RegularMarketOpen,
		High:          eq.RegularMarketDayHigh,
		Low:           eq.RegularMarketDayLow,
		PrevClose:     eq.RegularMarketPreviousClose,
		Volume:        int64(eq.RegularMarketVolume),
		WeekHigh52:    eq.FiftyTwoWeekHigh,
		WeekLow52:     eq.FiftyTwoWeekLow,
		MarketCap:     eq.MarketCap,
		PE:            eq.TrailingPE,
		EPS:           eq.EpsTrailingTwelveMonths,
		DividendYield: eq.TrailingAnnualDividendYield,
		Timestamp:     time.Now(),
	}
	p.cache.Set(key, q)
	return q, nil
}

// GetDailySeries returns one closing price per trading day over the
// period, oldest first. An empty series is a valid answer when the
// upstream has no bars for the window.
func (p *Provider) GetDailySeries(ctx context.Context, ticker string, period models.Period) ([]models.PricePoint, error) {
	ticker = utils.NormalizeTicker(ticker)
	if err := utils.ValidateTicker(ticker); err != nil {
		return nil, err
	}
	if !period.Valid() {
		period = models.PeriodMonth
	}

	key := infra.CacheKey(fmt.Sprintf("chart:%s:%s", ticker, period), utils.HourBucket(time.Now()))
	if cached, ok := p.cache.Get(key); ok {
		if series, ok := cached.([]models.PricePoint); ok {
			return series, nil
		}
	}

	bars, err := p.fetchBars(ctx, ticker, period.Days(), datetime.OneDay)
	if err != nil {
		return nil, err
	}

	series := make([]models.PricePoint, 0, len(bars))
	for _, bar := range bars {
		series = append(series, models.PricePoint{
			Date:  utils.Midnight(bar.Timestamp),
			Close: bar.Close,
		})
	}
	p.cache.Set(key, series)
	return series, nil
}

// GetIntraday returns fifteen minute bars for the current session.
func (p *Provider) GetIntraday(ctx context.Context, ticker string) ([]models.OHLCV, error) {
	ticker = utils.NormalizeTicker(ticker)
	if err := utils.ValidateTicker(ticker); err != nil {
		return nil, err
	}
	return p.fetchBars(ctx, ticker, 1, datetime.FifteenMins)
}

func (p *Provider) fetchBars(ctx context.Context, ticker string, days int, interval datetime.Interval) ([]models.OHLCV, error) {
	if err := p.limiter.Acquire(ctx, limiterKey); err != nil {
		return nil, err
	}

	end := time.Now()
	start := end.AddDate(0, 0, -days)
	iter := chart.Get(&chart.Params{
		Symbol:   ticker,
		Start:    datetime.New(&start),
		End:      datetime.New(&end),
		Interval: interval,
	})

	var bars []models.OHLCV
	for iter.Next() {
		bar := iter.Bar()
		bars = append(bars, models.OHLCV{
			Timestamp: time.Unix(int64(bar.Timestamp), 0).UTC(),
			Open:      toFloat(bar.Open),
			High:      toFloat(bar.High),
			Low:       toFloat(bar.Low),
			Close:     toFloat(bar.Close),
			AdjClose:  toFloat(bar.AdjClose),
			Volume:    int64(bar.Volume),
		})
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("chart %s: %w", ticker, err)
	}

	p.limiter.Reset(limiterKey)
	p.logger.Debug("price bars fetched", "ticker", ticker, "bars", len(bars), "interval", interval)
	return bars, nil
}

func toFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}
