// NewsSense — news aggregation and price-news correlation for stock tickers.
//
// Main CLI entrypoint using cobra command framework.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/marketmind/newssense/api"
	"github.com/marketmind/newssense/internal/config"
	"github.com/marketmind/newssense/internal/correlation"
	"github.com/marketmind/newssense/internal/infra"
	"github.com/marketmind/newssense/internal/marketdata"
	"github.com/marketmind/newssense/internal/scrape"
	"github.com/marketmind/newssense/internal/sentiment"
	"github.com/marketmind/newssense/pkg/models"
	"github.com/marketmind/newssense/pkg/utils"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Global config
var cfg *config.Config

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "newssense",
	Short: "NewsSense — stock news aggregation and price-news correlation",
	Long: `NewsSense scrapes financial news for stock tickers from multiple
sources, scores headline sentiment, tags topics, and correlates
negative-news volume against daily price movement.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		configFile, _ := cmd.Flags().GetString("config")
		if configFile != "" {
			cfg, err = config.LoadFromFile(configFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if level, _ := cmd.Flags().GetString("log-level"); level != "" {
			cfg.Logging.Level = level
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level override (debug, info, warn, error)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(newsCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(correlateCmd)
	rootCmd.AddCommand(quoteCmd)
	rootCmd.AddCommand(serveCmd)
}

// app bundles the wired collection and market data services.
type app struct {
	orch   *scrape.Orchestrator
	market *marketdata.Provider
	logger *slog.Logger
}

// buildApp wires the full pipeline from the loaded config.
func buildApp() *app {
	logger := buildLogger(cfg.Logging)
	cache := infra.NewCache(cfg.Cache.TTL())
	limiter := infra.NewRateLimiter(limiterConfig(cfg.RateLimit))

	var adapters []scrape.SourceAdapter
	if cfg.Scrape.EnableYahoo {
		adapters = append(adapters, scrape.NewYahooFinance(limiter))
	}
	if cfg.Scrape.EnableMarketWatch {
		adapters = append(adapters, scrape.NewMarketWatch(limiter))
	}
	if cfg.Scrape.EnableReuters {
		adapters = append(adapters, scrape.NewReuters(limiter))
	}
	if cfg.Scrape.EnableRSS {
		feeds := append([]scrape.RSSFeed(nil), scrape.DefaultRSSFeeds...)
		feeds = append(feeds, parseExtraFeeds(cfg.Scrape.ExtraRSSFeeds)...)
		adapters = append(adapters, scrape.NewRSSAdapter(limiter, feeds))
	}

	var audit *scrape.AuditLog
	if cfg.Storage.AuditEnabled {
		audit = scrape.NewAuditLog(cfg.Storage.DataDir)
	}

	orch := scrape.NewOrchestrator(adapters, cache, audit, logger)
	orch.SetTimeout(cfg.Scrape.Timeout())

	return &app{
		orch:   orch,
		market: marketdata.NewProvider(cache, limiter, logger),
		logger: logger,
	}
}

func buildLogger(lc config.LoggingConfig) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(lc.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if lc.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}

func limiterConfig(rl config.RateLimitConfig) infra.LimiterConfig {
	ms := func(v int) time.Duration { return time.Duration(v) * time.Millisecond }
	return infra.LimiterConfig{
		MinInterval: ms(rl.MinIntervalMs),
		MaxInterval: ms(rl.MaxIntervalMs),
		MinJitter:   ms(rl.MinJitterMs),
		MaxJitter:   ms(rl.MaxJitterMs),
		BackoffBase: ms(rl.BackoffBaseMs),
		BackoffCap:  ms(rl.BackoffCapMs),
	}
}

// parseExtraFeeds turns "name=url" config entries into feeds. Entries
// without a name use the URL host as the source label.
func parseExtraFeeds(entries []string) []scrape.RSSFeed {
	var feeds []scrape.RSSFeed
	for _, entry := range entries {
		name, url, found := strings.Cut(entry, "=")
		if !found {
			feeds = append(feeds, scrape.RSSFeed{Name: "rss", URL: entry})
			continue
		}
		feeds = append(feeds, scrape.RSSFeed{Name: name, URL: url})
	}
	return feeds
}

// --- Version Command ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("NewsSense %s\n", version)
		fmt.Printf("  commit:  %s\n", commit)
		fmt.Printf("  built:   %s\n", date)
	},
}

// --- News Command ---

var newsCmd = &cobra.Command{
	Use:   "news [ticker]",
	Short: "Fetch recent news headlines for a ticker",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := buildApp()
		ticker := utils.NormalizeTicker(args[0])

		articles, err := a.orch.Collect(cmd.Context(), ticker)
		if err != nil {
			return err
		}

		fmt.Printf("📰 News for %s — %d article(s)\n\n", ticker, len(articles))
		if len(articles) == 0 {
			fmt.Println("No recent news found.")
			return nil
		}
		for _, art := range articles {
			fmt.Printf("  [%s] %s\n", art.SentimentCategory, art.Title)
			fmt.Printf("      %s · %s", art.Source, art.PublishedAt.Format("2006-01-02 15:04"))
			if len(art.Topics) > 0 {
				fmt.Printf(" · topics: %s", joinTopics(art.Topics))
			}
			fmt.Println()
		}
		return nil
	},
}

// --- Analyze Command ---

var analyzeCmd = &cobra.Command{
	Use:   "analyze [ticker]",
	Short: "Aggregate sentiment analysis of recent news for a ticker",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := buildApp()
		ticker := utils.NormalizeTicker(args[0])

		articles, err := a.orch.Collect(cmd.Context(), ticker)
		if err != nil {
			return err
		}
		analysis := sentiment.NewClassifier().Analyze(ticker, articles)

		fmt.Printf("🔍 Sentiment Analysis: %s\n\n", ticker)
		fmt.Printf("  Articles:          %d\n", len(analysis.Articles))
		fmt.Printf("  Average sentiment: %+.3f\n", analysis.AverageSentiment)
		fmt.Printf("  Distribution:      %d positive / %d negative / %d neutral\n",
			analysis.Distribution.Positive,
			analysis.Distribution.Negative,
			analysis.Distribution.Neutral)
		if len(analysis.TopicCounts) > 0 {
			fmt.Println("\n  Topics:")
			for _, topic := range models.AllTopics {
				if n := analysis.TopicCounts[topic]; n > 0 {
					fmt.Printf("    %-18s %d\n", string(topic)+":", n)
				}
			}
		}
		if len(analysis.Keywords) > 0 {
			max := len(analysis.Keywords)
			if max > 10 {
				max = 10
			}
			fmt.Printf("\n  Keywords: %s\n", strings.Join(analysis.Keywords[:max], ", "))
		}
		return nil
	},
}

// --- Correlate Command ---

var correlateCmd = &cobra.Command{
	Use:   "correlate [ticker]",
	Short: "Correlate negative-news volume with daily price movement",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := buildApp()
		ticker := utils.NormalizeTicker(args[0])

		periodFlag, _ := cmd.Flags().GetString("period")
		period := models.Period(periodFlag)
		if !period.Valid() {
			return fmt.Errorf("invalid period %q; use today, week, month, or year", periodFlag)
		}

		articles, err := a.orch.Collect(cmd.Context(), ticker)
		if err != nil {
			return err
		}
		prices, err := a.market.GetDailySeries(cmd.Context(), ticker, period)
		if err != nil {
			return err
		}

		result := correlation.Correlate(prices, articles)

		fmt.Printf("📉 Price-News Correlation: %s (%s)\n\n", ticker, period)
		if result.Err != "" {
			fmt.Printf("  %s: need at least two days with both price and news coverage\n", result.Err)
			return nil
		}
		fmt.Printf("  Days analyzed: %d\n", result.DaysAnalyzed)
		if result.Coefficient != nil {
			fmt.Printf("  Coefficient:   %+.4f\n", *result.Coefficient)
		} else {
			fmt.Println("  Coefficient:   undefined (zero variance)")
		}
		fmt.Printf("  Read:          %s\n\n", correlation.Interpret(result.Coefficient))
		for _, p := range result.Points {
			fmt.Printf("    %s  close %9.2f  negative news %d\n",
				p.Date.Format("2006-01-02"), p.Price, p.NegativeNewsCount)
		}
		return nil
	},
}

func init() {
	correlateCmd.Flags().String("period", "month", "lookback period (today, week, month, year)")
}

// --- Quote Command ---

var quoteCmd = &cobra.Command{
	Use:   "quote [ticker]",
	Short: "Show the current quote for a ticker",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := buildApp()
		ticker := utils.NormalizeTicker(args[0])

		q, err := a.market.GetQuote(cmd.Context(), ticker)
		if err != nil {
			return err
		}

		fmt.Printf("💹 %s (%s)\n\n", q.Name, q.Ticker)
		fmt.Printf("  Price:      %.2f %s (%+.2f, %+.2f%%)\n", q.LastPrice, q.Currency, q.Change, q.ChangePct)
		fmt.Printf("  Day range:  %.2f – %.2f (open %.2f, prev close %.2f)\n", q.Low, q.High, q.Open, q.PrevClose)
		fmt.Printf("  52w range:  %.2f – %.2f\n", q.WeekLow52, q.WeekHigh52)
		fmt.Printf("  Volume:     %d\n", q.Volume)
		if q.PE > 0 {
			fmt.Printf("  P/E:        %.2f (EPS %.2f)\n", q.PE, q.EPS)
		}
		if q.Exchange != "" {
			fmt.Printf("  Exchange:   %s\n", q.Exchange)
		}

		if bars, _ := cmd.Flags().GetBool("bars"); bars {
			ohlcv, err := a.market.GetIntraday(cmd.Context(), ticker)
			if err != nil {
				return err
			}
			fmt.Printf("\n  Intraday (15m bars):\n")
			for _, bar := range ohlcv {
				fmt.Printf("    %s  o %.2f  h %.2f  l %.2f  c %.2f  vol %d\n",
					bar.Timestamp.Format("15:04"), bar.Open, bar.High, bar.Low, bar.Close, bar.Volume)
			}
		}
		return nil
	},
}

func init() {
	quoteCmd.Flags().Bool("bars", false, "also print today's intraday bars")
}

// --- Serve Command (API Server) ---

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		a := buildApp()
		srv := api.NewServer(cfg, a.orch, a.market)

		addr := fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port)
		fmt.Printf("🌐 Starting NewsSense API server on %s\n", addr)
		return srv.ListenAndServe(addr)
	},
}

func joinTopics(topics []models.TopicTag) string {
	names := make([]string, len(topics))
	for i, t := range topics {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}
