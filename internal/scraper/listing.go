package scraper

import (
	"context"
	"errors"
	"fmt"

	"github.com/pfrederiksen/event-scraper/internal/adapter"
	"github.com/pfrederiksen/event-scraper/internal/event"
	"github.com/pfrederiksen/event-scraper/internal/extract"
	"github.com/pfrederiksen/event-scraper/internal/filter"
	"github.com/pfrederiksen/event-scraper/internal/logger"
)

// Listing retry strategies.
const (
	StrategyFiltered         = "filtered"
	StrategyUnfiltered       = "unfiltered"
	StrategyPlatformFallback = "platform_fallback"
	StrategyExhausted        = "exhausted"
)

// ListingResult is returned by SearchListings.
type ListingResult struct {
	Events     []*event.Event `json:"events"`
	TotalFound int            `json:"total_found"`
	Error      string         `json:"error,omitempty"`
}

// RetryAttempt records one listing search tried by SearchListingsWithRetry.
type RetryAttempt struct {
	Strategy string `json:"strategy"`
	URL      string `json:"url"`
	Found    int    `json:"found"`
	Error    string `json:"error,omitempty"`
}

// RetryResult is returned by SearchListingsWithRetry.
type RetryResult struct {
	Events        []*event.Event `json:"events"`
	Strategy      string         `json:"strategy"`
	RetryAttempts []RetryAttempt `json:"retry_attempts"`
	Suggestions   []string       `json:"suggestions,omitempty"`
}

// SearchListings reads the events on a listing page. Filters are added to
// the URL as query parameters and also applied to the extracted events.
func (s *Scraper) SearchListings(ctx context.Context, url, location, keyword string) (res ListingResult) {
	defer func() {
		if r := recover(); r != nil {
			res = ListingResult{Events: []*event.Event{}, Error: recoverError("SearchListings", r)}
		}
	}()

	target := adapter.WithFilters(url, location, keyword)
	events, err := s.listing(ctx, target)
	events = filter.ForSearch(location, keyword).Apply(events)

	res = ListingResult{Events: events, TotalFound: len(events)}
	if err != nil && len(events) == 0 {
		res.Error = err.Error()
	}
	return res
}

// SearchListingsWithRetry searches with filters, then without, then
// against the platform's known listing pages. When all fail it returns no
// events and suggestions for the caller.
func (s *Scraper) SearchListingsWithRetry(ctx context.Context, url, location, keyword string) (res RetryResult) {
	defer func() {
		if r := recover(); r != nil {
			res = RetryResult{
				Events:        []*event.Event{},
				Strategy:      StrategyExhausted,
				RetryAttempts: res.RetryAttempts,
				Suggestions:   []string{recoverError("SearchListingsWithRetry", r)},
			}
		}
	}()

	res = RetryResult{Events: []*event.Event{}, RetryAttempts: []RetryAttempt{}}
	try := func(strategy, target, loc, kw string) bool {
		lr := s.SearchListings(ctx, target, loc, kw)
		res.RetryAttempts = append(res.RetryAttempts, RetryAttempt{
			Strategy: strategy,
			URL:      adapter.WithFilters(target, loc, kw),
			Found:    lr.TotalFound,
			Error:    lr.Error,
		})
		if lr.TotalFound == 0 {
			return false
		}
		res.Events = lr.Events
		res.Strategy = strategy
		s.metrics.ObserveListing(strategy, lr.TotalFound)
		return true
	}

	filtered := location != "" || keyword != ""
	if filtered && try(StrategyFiltered, url, location, keyword) {
		return res
	}
	if try(StrategyUnfiltered, url, "", "") {
		return res
	}

	platform, known := adapter.PlatformFor(url)
	if known {
		for _, fallback := range platform.FallbackURLs(url) {
			if try(StrategyPlatformFallback, fallback, "", "") {
				return res
			}
		}
	}

	res.Strategy = StrategyExhausted
	res.Suggestions = suggestions(url, filtered, platform, known)
	s.log.Warn("Listing search exhausted", logger.Fields{
		"url":      url,
		"attempts": len(res.RetryAttempts),
	})
	return res
}

// listing fetches a listing page statically, rendering it in the browser
// when the static page fails or shows no events.
func (s *Scraper) listing(ctx context.Context, url string) ([]*event.Event, error) {
	var errs []error

	html, err := s.fetchStatic(ctx, url)
	if err == nil {
		if events := extract.ListingFromHTML(html, url); len(events) > 0 {
			return events, nil
		}
	} else {
		errs = append(errs, fmt.Errorf("static: %w", err))
	}

	html, err = s.fetchRendered(ctx, url)
	if err != nil {
		errs = append(errs, fmt.Errorf("dynamic: %w", err))
		return []*event.Event{}, errors.Join(errs...)
	}
	events := extract.ListingFromHTML(html, url)
	if events == nil {
		events = []*event.Event{}
	}
	return events, errors.Join(errs...)
}

func suggestions(url string, filtered bool, platform adapter.Platform, known bool) []string {
	out := []string{"Check that the URL points to an event listing or search results page."}
	if filtered {
		out = append(out, "Try broader location or keyword filters, or none at all.")
	}
	if known {
		out = append(out, fmt.Sprintf("Try a specific %s event page with scrapeEventWithFallbacks.", platform.Name))
	} else {
		out = append(out,
			"The site may load listings only after login or through an API; try an individual event URL instead.",
			"Try a platform with public listings such as Eventbrite or Meetup.",
		)
	}
	return out
}
