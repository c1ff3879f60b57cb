// Package api provides the HTTP REST API server for NewsSense.
//
// It exposes endpoints for ticker news, sentiment analysis,
// price-news correlation, and quotes.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/marketmind/newssense/internal/config"
	"github.com/marketmind/newssense/internal/correlation"
	"github.com/marketmind/newssense/internal/sentiment"
	"github.com/marketmind/newssense/pkg/models"
	"github.com/marketmind/newssense/pkg/utils"
)

// NewsService collects the tagged article batch for a ticker.
type NewsService interface {
	Collect(ctx context.Context, ticker string) ([]models.TaggedArticle, error)
}

// MarketService serves quotes and daily price series.
type MarketService interface {
	GetQuote(ctx context.Context, ticker string) (*models.Quote, error)
	GetDailySeries(ctx context.Context, ticker string, period models.Period) ([]models.PricePoint, error)
}

// Server is the HTTP API server.
type Server struct {
	router     chi.Router
	cfg        *config.Config
	news       NewsService
	market     MarketService
	classifier *sentiment.Classifier
}

// NewServer creates a configured API server with all routes and middleware.
func NewServer(cfg *config.Config, news NewsService, market MarketService) *Server {
	srv := &Server{
		cfg:        cfg,
		news:       news,
		market:     market,
		classifier: sentiment.NewClassifier(),
	}
	srv.router = srv.buildRouter()
	return srv
}

// Router returns the chi router for testing.
func (s *Server) Router() chi.Router {
	return s.router
}

// ListenAndServe starts the HTTP server with graceful shutdown.
func (s *Server) ListenAndServe(addr string) error {
	httpSrv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	<-done
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	return httpSrv.Shutdown(ctx)
}

// buildRouter configures all routes and middleware.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(120 * time.Second))

	origins := []string{"*"}
	if len(s.cfg.API.CORSOrigins) > 0 {
		origins = s.cfg.API.CORSOrigins
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/news/{ticker}", s.handleNews)
		r.Get("/analysis/{ticker}", s.handleAnalysis)
		r.Get("/correlation/{ticker}", s.handleCorrelation)
		r.Get("/quote/{ticker}", s.handleQuote)
	})

	return r
}

// ============================================================
// Request / Response types
// ============================================================

// APIResponse is the standard JSON envelope.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// NewsResponse is the payload for GET /api/v1/news/{ticker}.
type NewsResponse struct {
	Ticker   string                 `json:"ticker"`
	Count    int                    `json:"count"`
	Articles []models.TaggedArticle `json:"articles"`
}

// CorrelationResponse is the payload for GET /api/v1/correlation/{ticker}.
type CorrelationResponse struct {
	Ticker         string                   `json:"ticker"`
	Period         models.Period            `json:"period"`
	Result         models.CorrelationResult `json:"result"`
	Interpretation string                   `json:"interpretation"`
}

// ============================================================
// Handlers
// ============================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: map[string]interface{}{
			"status":  "ok",
			"version": "dev",
			"time":    time.Now().UTC().Format(time.RFC3339),
		},
	})
}

func (s *Server) handleNews(w http.ResponseWriter, r *http.Request) {
	ticker, ok := s.tickerParam(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), time.Minute)
	defer cancel()

	articles, err := s.news.Collect(ctx, ticker)
	if err != nil {
		writeCollectError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: NewsResponse{
			Ticker:   ticker,
			Count:    len(articles),
			Articles: articles,
		},
	})
}

func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	ticker, ok := s.tickerParam(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), time.Minute)
	defer cancel()

	articles, err := s.news.Collect(ctx, ticker)
	if err != nil {
		writeCollectError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    s.classifier.Analyze(ticker, articles),
	})
}

func (s *Server) handleCorrelation(w http.ResponseWriter, r *http.Request) {
	ticker, ok := s.tickerParam(w, r)
	if !ok {
		return
	}

	period := models.Period(r.URL.Query().Get("period"))
	if period == "" {
		period = models.PeriodMonth
	}
	if !period.Valid() {
		writeError(w, http.StatusBadRequest, "invalid period; use today, week, month, or year")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Minute)
	defer cancel()

	articles, err := s.news.Collect(ctx, ticker)
	if err != nil {
		writeCollectError(w, err)
		return
	}

	prices, err := s.market.GetDailySeries(ctx, ticker, period)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	result := correlation.Correlate(prices, articles)
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: CorrelationResponse{
			Ticker:         ticker,
			Period:         period,
			Result:         result,
			Interpretation: correlation.Interpret(result.Coefficient),
		},
	})
}

func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	ticker, ok := s.tickerParam(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	quote, err := s.market.GetQuote(ctx, ticker)
	if err != nil {
		if errors.Is(err, utils.ErrInvalidTicker) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    quote,
	})
}

// tickerParam extracts and validates the {ticker} path parameter,
// writing the error response itself when the value is unusable.
func (s *Server) tickerParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	ticker := utils.NormalizeTicker(chi.URLParam(r, "ticker"))
	if err := utils.ValidateTicker(ticker); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return "", false
	}
	return ticker, true
}

// writeCollectError maps a collection failure onto a status code.
// Source outages never reach here, the collector absorbs them; only
// ticker validation fails hard.
func writeCollectError(w http.ResponseWriter, err error) {
	if errors.Is(err, utils.ErrInvalidTicker) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("failed to write JSON response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, APIResponse{
		Success: false,
		Error:   msg,
	})
}
