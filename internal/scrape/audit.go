package scrape

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/marketmind/newssense/pkg/models"
)

// AuditLog persists every scraped batch as a timestamped JSON file
// under <dataDir>/scraped_news/<TICKER>/. Files are append-only raw
// material for offline inspection and are never read back at runtime.
type AuditLog struct {
	dataDir string
}

func NewAuditLog(dataDir string) *AuditLog {
	return &AuditLog{dataDir: dataDir}
}

type auditRecord struct {
	Ticker    string                 `json:"ticker"`
	ScrapedAt time.Time              `json:"scraped_at"`
	Count     int                    `json:"count"`
	Articles  []models.TaggedArticle `json:"articles"`
}

// Record writes one batch for the ticker. A failure to persist is
// reported but must not fail the scrape that produced the batch.
func (a *AuditLog) Record(ticker string, articles []models.TaggedArticle) (string, error) {
	dir := filepath.Join(a.dataDir, "scraped_news", ticker)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create audit dir: %w", err)
	}

	now := time.Now()
	name := fmt.Sprintf("%s_news_%s.json", ticker, now.Format("20060102_150405"))
	path := filepath.Join(dir, name)

	data, err := json.MarshalIndent(auditRecord{
		Ticker:    ticker,
		ScrapedAt: now,
		Count:     len(articles),
		Articles:  articles,
	}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode audit record: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write audit record: %w", err)
	}
	return path, nil
}
