// Package correlation relates a ticker's daily price series to its
// daily negative-news volume.
package correlation

import (
	"math"
	"sort"

	"github.com/marketmind/newssense/pkg/models"
	"github.com/marketmind/newssense/pkg/utils"
)

// ErrInsufficientData is the Err value reported when fewer than two
// joined points exist. It is a normal result variant the caller
// branches on, not a failure.
const ErrInsufficientData = "insufficient data"

// Correlation strength bands. Fixed contract used by every
// presentation layer; sign picks positive versus negative language.
const (
	StrongThreshold   = 0.7
	ModerateThreshold = 0.4
	WeakThreshold     = 0.2
)

// Correlate joins the daily price series with per-day negative-news
// counts and computes the Pearson coefficient over the joined points.
// Only dates present in both series appear, in chronological order.
// Inputs are never mutated.
func Correlate(pricePoints []models.PricePoint, articles []models.TaggedArticle) models.CorrelationResult {
	// Days with any coverage join the price series. A covered day with
	// no negative articles contributes a zero, which is signal; a day
	// with no articles at all is a gap and is skipped.
	negByDay := make(map[string]int)
	for _, a := range articles {
		day := utils.DayKey(a.PublishedAt)
		if _, seen := negByDay[day]; !seen {
			negByDay[day] = 0
		}
		if a.SentimentCategory == models.SentimentNegative {
			negByDay[day]++
		}
	}

	var points []models.CorrelationPoint
	for _, p := range pricePoints {
		count, ok := negByDay[utils.DayKey(p.Date)]
		if !ok {
			continue
		}
		points = append(points, models.CorrelationPoint{
			Date:              p.Date,
			Price:             p.Close,
			NegativeNewsCount: count,
		})
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i].Date.Before(points[j].Date)
	})

	if len(points) < 2 {
		return models.CorrelationResult{
			Points:       nil,
			Coefficient:  nil,
			DaysAnalyzed: 0,
			Err:          ErrInsufficientData,
		}
	}

	prices := make([]float64, len(points))
	counts := make([]float64, len(points))
	for i, p := range points {
		prices[i] = p.Price
		counts[i] = float64(p.NegativeNewsCount)
	}

	result := models.CorrelationResult{
		Points:       points,
		DaysAnalyzed: len(points),
	}
	if r, ok := pearson(prices, counts); ok {
		result.Coefficient = &r
	}
	return result
}

// pearson computes the Pearson correlation coefficient of two equal
// length series. ok is false when either series has zero variance,
// where the coefficient is undefined.
func pearson(xs, ys []float64) (r float64, ok bool) {
	n := float64(len(xs))
	if n < 2 {
		return 0, false
	}

	var meanX, meanY float64
	for i := range xs {
		meanX += xs[i]
		meanY += ys[i]
	}
	meanX /= n
	meanY /= n

	var cov, varX, varY float64
	for i := range xs {
		dx := xs[i] - meanX
		dy := ys[i] - meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}
	if varX == 0 || varY == 0 {
		return 0, false
	}

	r = cov / math.Sqrt(varX*varY)
	// Guard against float drift pushing past the bounds.
	return math.Max(-1, math.Min(1, r)), true
}

// Interpret maps a coefficient into the qualitative wording used by
// presentation layers: |r| > 0.7 strong, > 0.4 moderate, > 0.2 weak,
// otherwise no clear relationship.
func Interpret(coefficient *float64) string {
	if coefficient == nil {
		return "insufficient data to measure a relationship"
	}

	r := *coefficient
	direction := "positive"
	if r < 0 {
		direction = "negative"
	}

	switch abs := math.Abs(r); {
	case abs > StrongThreshold:
		return "strong " + direction + " correlation"
	case abs > ModerateThreshold:
		return "moderate " + direction + " correlation"
	case abs > WeakThreshold:
		return "weak " + direction + " correlation"
	default:
		return "no clear correlation"
	}
}
