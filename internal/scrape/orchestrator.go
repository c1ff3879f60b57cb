package scrape

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/marketmind/newssense/internal/infra"
	"github.com/marketmind/newssense/internal/sentiment"
	"github.com/marketmind/newssense/pkg/models"
	"github.com/marketmind/newssense/pkg/utils"
)

// DefaultCollectTimeout bounds one full fan-out across all adapters.
const DefaultCollectTimeout = 45 * time.Second

// Orchestrator fans a ticker out across every registered adapter,
// merges and deduplicates the results, tags them, and caches the
// final batch for the current hour bucket.
type Orchestrator struct {
	adapters   []SourceAdapter
	cache      *infra.Cache
	classifier *sentiment.Classifier
	audit      *AuditLog
	logger     *slog.Logger
	timeout    time.Duration
}

// NewOrchestrator wires the collection pipeline. Adapter order is
// significant: merged results keep registration order, which fixes
// which copy of a duplicated title survives. audit may be nil to
// disable the on-disk trail.
func NewOrchestrator(adapters []SourceAdapter, cache *infra.Cache, audit *AuditLog, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		adapters:   adapters,
		cache:      cache,
		classifier: sentiment.NewClassifier(),
		audit:      audit,
		logger:     logger,
		timeout:    DefaultCollectTimeout,
	}
}

// SetTimeout overrides the fan-out deadline. Non-positive values keep
// the default.
func (o *Orchestrator) SetTimeout(d time.Duration) {
	if d > 0 {
		o.timeout = d
	}
}

// Collect returns the tagged, deduplicated batch for a ticker. Source
// failures degrade to partial or empty results; the only hard error
// is a malformed ticker. An empty batch is a valid answer and is
// cached like any other.
func (o *Orchestrator) Collect(ctx context.Context, ticker string) ([]models.TaggedArticle, error) {
	ticker = utils.NormalizeTicker(ticker)
	if err := utils.ValidateTicker(ticker); err != nil {
		return nil, err
	}

	key := infra.CacheKey("news:"+ticker, utils.HourBucket(time.Now()))
	if cached, ok := o.cache.Get(key); ok {
		if batch, ok := cached.([]models.TaggedArticle); ok {
			o.logger.Debug("news cache hit", "ticker", ticker, "articles", len(batch))
			return batch, nil
		}
	}

	raw := o.fanOut(ctx, ticker)
	deduped := dedupeByTitle(raw)

	tagged := make([]models.TaggedArticle, 0, len(deduped))
	for _, article := range deduped {
		tagged = append(tagged, o.classifier.Tag(article, ticker))
	}

	if o.audit != nil && len(tagged) > 0 {
		if path, err := o.audit.Record(ticker, tagged); err != nil {
			o.logger.Warn("audit record failed", "ticker", ticker, "error", err)
		} else {
			o.logger.Debug("audit record written", "ticker", ticker, "path", path)
		}
	}

	o.cache.Set(key, tagged)
	o.logger.Info("news collected",
		"ticker", ticker,
		"raw", len(raw),
		"deduped", len(deduped),
	)
	return tagged, nil
}

// fanOut runs every adapter concurrently and gathers results into
// per-adapter slots so the merged order is the registration order
// rather than completion order. Adapter errors are logged and
// absorbed; an expired deadline yields whatever completed in time.
func (o *Orchestrator) fanOut(ctx context.Context, ticker string) []models.RawArticle {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	slots := make([][]models.RawArticle, len(o.adapters))
	g, ctx := errgroup.WithContext(ctx)
	for i, adapter := range o.adapters {
		i, adapter := i, adapter
		g.Go(func() error {
			articles, err := adapter.Fetch(ctx, ticker)
			if err != nil {
				o.logger.Warn("source fetch failed",
					"source", adapter.Name(),
					"ticker", ticker,
					"error", err,
				)
				return nil
			}
			slots[i] = articles
			return nil
		})
	}
	g.Wait()

	var merged []models.RawArticle
	for _, slot := range slots {
		merged = append(merged, slot...)
	}
	return merged
}

// dedupeByTitle drops later articles whose title exactly matches an
// earlier one, so the first-enumerated source wins.
func dedupeByTitle(articles []models.RawArticle) []models.RawArticle {
	seen := make(map[string]struct{}, len(articles))
	out := make([]models.RawArticle, 0, len(articles))
	for _, a := range articles {
		if _, dup := seen[a.Title]; dup {
			continue
		}
		seen[a.Title] = struct{}{}
		out = append(out, a)
	}
	return out
}
