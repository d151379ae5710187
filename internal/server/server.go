// Package server exposes the scraper operations as JSON tool endpoints
// over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/pfrederiksen/event-scraper/internal/event"
	"github.com/pfrederiksen/event-scraper/internal/logger"
	"github.com/pfrederiksen/event-scraper/internal/metrics"
	"github.com/pfrederiksen/event-scraper/internal/scraper"
)

// ServiceName labels spans and logs.
const ServiceName = "event-scraper"

const shutdownTimeout = 10 * time.Second

// Service is the set of operations the server exposes.
type Service interface {
	ScrapeEvent(ctx context.Context, url string) scraper.ScrapeResult
	ScrapeEventWithFallbacks(ctx context.Context, url string) scraper.FallbackResult
	SearchListings(ctx context.Context, url, location, keyword string) scraper.ListingResult
	SearchListingsWithRetry(ctx context.Context, url, location, keyword string) scraper.RetryResult
	ExtractMedia(ctx context.Context, url string) scraper.MediaResult
	CheckTicketAvailability(ctx context.Context, url string) scraper.TicketResult
	CapturePDF(ctx context.Context, url string) scraper.PDFResult
}

// Server routes tool calls to a Service.
type Server struct {
	svc     Service
	metrics *metrics.Metrics
	log     *logger.Logger
	router  *mux.Router
}

// New creates a Server. m and log may be nil.
func New(svc Service, m *metrics.Metrics, log *logger.Logger) *Server {
	if log == nil {
		log = logger.Default()
	}
	s := &Server{svc: svc, metrics: m, log: log}
	s.router = s.routes()
	return s
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(requestID, s.logging, s.recovery)

	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/tools", s.handleList).Methods(http.MethodGet)
	r.HandleFunc("/tools/{name}", s.handleTool).Methods(http.MethodPost)
	return r
}

// Handler returns the instrumented HTTP handler.
func (s *Server) Handler() http.Handler {
	return otelhttp.NewHandler(s.router, ServiceName)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 3 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("Server starting", logger.Fields{"address": addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serving: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Info("Shutting down server", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}

// ToolRequest is the JSON body accepted by every tool.
type ToolRequest struct {
	URL      string       `json:"url"`
	Location string       `json:"location,omitempty"`
	Keyword  string       `json:"keyword,omitempty"`
	Event    *event.Event `json:"event,omitempty"`
}
