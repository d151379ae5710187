package scraper

import (
	"context"
	"errors"
	"fmt"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/event-scraper/internal/adapter"
	"github.com/pfrederiksen/event-scraper/internal/event"
	"github.com/pfrederiksen/event-scraper/internal/extract"
	"github.com/pfrederiksen/event-scraper/internal/logger"
	"github.com/pfrederiksen/event-scraper/internal/metrics"
)

// Tier names, also used as generic scrape method stamps.
const (
	TierStatic      = "static"
	TierDynamic     = "dynamic"
	TierTicketProbe = "ticket_probe"
	TierScreenshot  = "screenshot"

	MethodScreenshotOnly = "screenshot_only"
	MethodFailed         = "failed"
)

// ErrNoBrowser is reported by browser tiers when no Renderer is configured.
var ErrNoBrowser = errors.New("browser unavailable")

// StaticFetcher fetches raw page HTML over plain HTTP.
type StaticFetcher interface {
	FetchStatic(ctx context.Context, url string) (string, error)
}

// Renderer drives a headless browser.
type Renderer interface {
	FetchRendered(ctx context.Context, url string) (string, error)
	Screenshot(ctx context.Context, url string) ([]byte, error)
	RenderPDF(ctx context.Context, url string) ([]byte, error)
	Evaluate(ctx context.Context, url, script string, out any) error
}

// Scraper extracts events using a static fetcher and an optional browser.
// It holds no per-request state and is safe for concurrent use.
type Scraper struct {
	static   StaticFetcher
	browser  Renderer
	registry *adapter.Registry
	metrics  *metrics.Metrics
	log      *logger.Logger
}

// Option configures a Scraper.
type Option func(*Scraper)

// WithRegistry replaces the default adapter registry.
func WithRegistry(r *adapter.Registry) Option {
	return func(s *Scraper) { s.registry = r }
}

// WithMetrics records tier and result metrics on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Scraper) { s.metrics = m }
}

// WithLogger sets the logger used for tier diagnostics.
func WithLogger(l *logger.Logger) Option {
	return func(s *Scraper) { s.log = l }
}

// New creates a Scraper. browser may be nil, in which case every browser
// tier fails with ErrNoBrowser and the pipeline degrades accordingly.
func New(static StaticFetcher, browser Renderer, opts ...Option) *Scraper {
	s := &Scraper{
		static:   static,
		browser:  browser,
		registry: adapter.Default(),
		log:      logger.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Scraper) fetchStatic(ctx context.Context, url string) (string, error) {
	if s.static == nil {
		return "", errors.New("static fetcher unavailable")
	}
	return s.static.FetchStatic(ctx, url)
}

func (s *Scraper) fetchRendered(ctx context.Context, url string) (string, error) {
	if s.browser == nil {
		return "", ErrNoBrowser
	}
	return s.browser.FetchRendered(ctx, url)
}

// extractEvent runs the matching adapter and, when it does not produce a
// rich record, the generic parser. An adapter partial takes precedence
// over the generic record field by field, but the record keeps the tier
// stamp since the generic parser made it rich.
func (s *Scraper) extractEvent(html, url, method string) *event.Event {
	doc := extract.Parse(html)

	var partial *event.Event
	if a := s.registry.Select(url); a != nil {
		evt, ok := s.runAdapter(a, doc, url)
		if ok {
			return event.EnsureShape(evt, url)
		}
		partial = evt
		if partial != nil {
			partial.ScrapeMethod = nil
		}
	}

	generic := extract.Event(doc, url)
	generic.ScrapeMethod = event.String(method)
	return event.EnsureShape(event.MergeFields(partial, generic), url)
}

// runAdapter treats a panicking adapter as one that found nothing.
func (s *Scraper) runAdapter(a adapter.Adapter, doc *goquery.Document, url string) (evt *event.Event, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Warn("Adapter panicked", logger.Fields{
				"adapter": a.Name(),
				"url":     url,
				"panic":   fmt.Sprint(r),
			})
			evt, ok = nil, false
		}
	}()
	return a.Extract(doc, url)
}

// recoverError converts a recovered panic value into an error message.
func recoverError(op string, r any) string {
	return fmt.Sprintf("internal error in %s: %v", op, r)
}
