package scraper

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pfrederiksen/event-scraper/internal/event"
	"github.com/pfrederiksen/event-scraper/internal/extract"
	"github.com/pfrederiksen/event-scraper/internal/logger"
)

// errNoMarkup is reported by the ticket probe when no earlier tier
// returned page markup to fall back on.
var errNoMarkup = errors.New("no page markup from earlier tiers")

// ScreenshotNote accompanies screenshot-only results.
const ScreenshotNote = "Text extraction failed; only a screenshot of the page was captured."

// Attempt records one strategy tried for a URL.
type Attempt struct {
	Strategy     string `json:"strategy"`
	Success      bool   `json:"success"`
	ScrapeMethod string `json:"scrape_method,omitempty"`
	Error        string `json:"error,omitempty"`
	DurationMS   int64  `json:"duration_ms"`
}

// ScrapeResult is returned by ScrapeEvent.
type ScrapeResult struct {
	Event        *event.Event `json:"event"`
	ScrapeMethod string       `json:"scrape_method"`
	Error        string       `json:"error,omitempty"`
}

// FallbackResult is returned by ScrapeEventWithFallbacks.
type FallbackResult struct {
	Event        *event.Event `json:"event"`
	ScrapeMethod string       `json:"scrape_method"`
	Attempts     []Attempt    `json:"attempts"`
	Error        string       `json:"error,omitempty"`
	Note         string       `json:"note,omitempty"`
	Screenshot   []byte       `json:"screenshot,omitempty"`
}

type stage int

const (
	stageStatic stage = iota
	stageDynamic
	stageTicketProbe
	stageScreenshot
	stageFailed
	stageDone
)

// run holds the state of one pipeline execution.
type run struct {
	url       string
	fallbacks bool

	attempts    []Attempt
	failures    []string
	staticHTML  string
	dynamicHTML string
	static      *event.Event
	dynamic     *event.Event

	result     *event.Event
	err        string
	note       string
	screenshot []byte
}

// tierOutcome is the explicit result of one fetch-and-extract tier.
type tierOutcome struct {
	html  string
	event *event.Event
	err   error
}

func (o tierOutcome) rich() bool {
	return o.err == nil && event.IsRich(o.event)
}

// ScrapeEvent runs the static and dynamic tiers. When neither yields a
// rich record it returns the best partial with scrape method "failed".
func (s *Scraper) ScrapeEvent(ctx context.Context, url string) (res ScrapeResult) {
	defer func() {
		if r := recover(); r != nil {
			res = failedScrape(url, recoverError("ScrapeEvent", r))
		}
	}()

	r := s.execute(ctx, url, false)
	s.metrics.ObserveResult("scrape_event", r.result.Method())
	return ScrapeResult{Event: r.result, ScrapeMethod: r.result.Method(), Error: r.err}
}

// ScrapeEventWithFallbacks runs the full escalation: static, dynamic,
// ticket probe, screenshot-only, failed. Every strategy tried is listed in
// the attempt trail.
func (s *Scraper) ScrapeEventWithFallbacks(ctx context.Context, url string) (res FallbackResult) {
	defer func() {
		if r := recover(); r != nil {
			f := failedScrape(url, recoverError("ScrapeEventWithFallbacks", r))
			res = FallbackResult{Event: f.Event, ScrapeMethod: f.ScrapeMethod, Attempts: []Attempt{}, Error: f.Error}
		}
	}()

	r := s.execute(ctx, url, true)
	s.metrics.ObserveResult("scrape_event_with_fallbacks", r.result.Method())
	return FallbackResult{
		Event:        r.result,
		ScrapeMethod: r.result.Method(),
		Attempts:     r.attempts,
		Error:        r.err,
		Note:         r.note,
		Screenshot:   r.screenshot,
	}
}

// execute walks the tier state machine. Each stage inspects the previous
// outcome and picks the next stage; the richness predicate gates every
// transition.
func (s *Scraper) execute(ctx context.Context, url string, fallbacks bool) *run {
	r := &run{url: url, fallbacks: fallbacks, attempts: []Attempt{}}

	for st := stageStatic; st != stageDone; {
		switch st {
		case stageStatic:
			out := s.runTier(ctx, r, TierStatic, s.fetchStatic)
			if out.err == nil {
				r.staticHTML = out.html
				r.static = out.event
			}
			if out.rich() {
				r.result = out.event
				st = stageDone
				continue
			}
			st = stageDynamic

		case stageDynamic:
			out := s.runTier(ctx, r, TierDynamic, s.fetchRendered)
			if out.err == nil {
				r.dynamicHTML = out.html
				r.dynamic = out.event
			}
			switch {
			case out.rich():
				r.result = out.event
				st = stageDone
			case r.fallbacks:
				st = stageTicketProbe
			default:
				st = stageFailed
			}

		case stageTicketProbe:
			if s.ticketStage(ctx, r) {
				st = stageDone
				continue
			}
			st = stageScreenshot

		case stageScreenshot:
			if s.screenshotStage(ctx, r) {
				st = stageDone
				continue
			}
			st = stageFailed

		case stageFailed:
			s.failStage(r)
			st = stageDone
		}
	}
	return r
}

// runTier fetches with fetch and extracts from the result. Panics become
// a failed outcome.
func (s *Scraper) runTier(ctx context.Context, r *run, tier string, fetch func(context.Context, string) (string, error)) (out tierOutcome) {
	start := time.Now()
	defer func() {
		if p := recover(); p != nil {
			out = tierOutcome{err: fmt.Errorf("%s tier panicked: %v", tier, p)}
		}
		s.recordTier(r, tier, out.rich(), out.event.Method(), out.err, start)
		if out.err != nil {
			r.failures = append(r.failures, fmt.Sprintf("%s: %v", tier, out.err))
		} else if !out.rich() {
			r.failures = append(r.failures, fmt.Sprintf("%s: record not rich", tier))
		}
	}()

	html, err := fetch(ctx, r.url)
	if err != nil {
		return tierOutcome{err: err}
	}
	return tierOutcome{html: html, event: s.extractEvent(html, r.url, tier)}
}

// ticketStage probes for ticket signals and, when any are found, folds
// them into a fresh record backfilled from the best partial.
func (s *Scraper) ticketStage(ctx context.Context, r *run) (ok bool) {
	start := time.Now()
	var err error
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("ticket probe panicked: %v", p)
			ok = false
		}
		s.recordTier(r, TierTicketProbe, ok, r.result.Method(), err, start)
	}()

	info, err := s.probeTickets(ctx, r.url, r.markup)
	if err != nil {
		r.failures = append(r.failures, fmt.Sprintf("%s: %v", TierTicketProbe, err))
		return false
	}
	if !info.HasSignal() {
		r.failures = append(r.failures, fmt.Sprintf("%s: no ticket signals", TierTicketProbe))
		return false
	}

	fresh := event.New(r.url)
	if len(info.Prices) > 0 {
		amount, currency := extract.SplitPrice(info.Prices[0])
		fresh.Price = event.String(amount)
		fresh.Currency = event.String(currency)
	}
	fresh.ScrapeMethod = event.String(TierTicketProbe)
	fresh.SetExtra("ticket_status", info.Status)
	fresh.SetExtra("ticket_info", info)

	r.result = event.EnsureShape(event.MergeFields(fresh, r.best()), r.url)
	return true
}

// screenshotStage captures the page visually and returns an empty but
// well-shaped record.
func (s *Scraper) screenshotStage(ctx context.Context, r *run) (ok bool) {
	start := time.Now()
	var err error
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("screenshot panicked: %v", p)
			ok = false
		}
		method := ""
		if ok {
			method = MethodScreenshotOnly
		}
		s.recordTier(r, TierScreenshot, ok, method, err, start)
		if err != nil {
			r.failures = append(r.failures, fmt.Sprintf("%s: %v", TierScreenshot, err))
		}
	}()

	if s.browser == nil {
		err = ErrNoBrowser
		return false
	}
	png, err := s.browser.Screenshot(ctx, r.url)
	if err != nil {
		return false
	}

	evt := event.New(r.url)
	evt.ScrapeMethod = event.String(MethodScreenshotOnly)
	r.result = evt
	r.screenshot = png
	r.note = ScreenshotNote
	return true
}

// failStage returns the best partial stamped "failed".
func (s *Scraper) failStage(r *run) {
	evt := event.EnsureShape(r.best(), r.url)
	evt.ScrapeMethod = event.String(MethodFailed)

	r.err = "no rich event data could be extracted"
	if len(r.failures) > 0 {
		r.err += " (" + strings.Join(r.failures, "; ") + ")"
	}
	evt.SetExtra("error", r.err)
	r.result = evt

	s.log.Warn("Event scrape failed", logger.Fields{
		"url":      r.url,
		"attempts": len(r.attempts),
		"error":    r.err,
	})
}

// markup returns the HTML already fetched by this run, rendered first.
// A failed static fetch is never repeated here.
func (r *run) markup(context.Context) (string, error) {
	switch {
	case r.dynamicHTML != "":
		return r.dynamicHTML, nil
	case r.staticHTML != "":
		return r.staticHTML, nil
	}
	return "", errNoMarkup
}

// best prefers the dynamic partial over the static one.
func (r *run) best() *event.Event {
	if r.dynamic != nil {
		return r.dynamic
	}
	return r.static
}

func (s *Scraper) recordTier(r *run, tier string, success bool, method string, err error, start time.Time) {
	elapsed := time.Since(start)
	a := Attempt{
		Strategy:   tier,
		Success:    success,
		DurationMS: elapsed.Milliseconds(),
	}
	if success {
		a.ScrapeMethod = method
	}
	if err != nil {
		a.Error = err.Error()
	}
	r.attempts = append(r.attempts, a)
	s.metrics.ObserveTier(tier, success, elapsed)

	fields := logger.Fields{
		"url":         r.url,
		"tier":        tier,
		"success":     success,
		"duration_ms": a.DurationMS,
	}
	if err != nil {
		fields["error"] = err.Error()
	}
	if success {
		s.log.Debug("Tier succeeded", fields)
	} else {
		s.log.Debug("Tier did not produce a result", fields)
	}
}

func failedScrape(url, msg string) ScrapeResult {
	evt := event.New(url)
	evt.ScrapeMethod = event.String(MethodFailed)
	evt.SetExtra("error", msg)
	return ScrapeResult{Event: evt, ScrapeMethod: MethodFailed, Error: msg}
}
