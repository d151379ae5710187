package scraper

import (
	"context"
	"testing"

	"github.com/pfrederiksen/event-scraper/internal/event"
)

const cardsHTML = `<html><body>
<div class="event-card"><a href="/e/1"><h3>Jazz in the Park</h3></a><span class="venue">Austin Park</span></div>
<div class="event-card"><a href="/e/2"><h3>Rock Night</h3></a><span class="venue">Dallas Hall</span></div>
<div class="event-card"><a href="/e/3"><h3>Jazz Brunch</h3></a></div>
</body></html>`

func TestSearchListings_Filters(t *testing.T) {
	base := "https://example.com/events"
	filtered := "https://example.com/events?location=Austin&q=jazz"
	static := &fakeStatic{pages: map[string]string{filtered: cardsHTML}}

	res := newTestScraper(static, nil).SearchListings(context.Background(), base, "Austin", "jazz")

	if len(static.calls) != 1 || static.calls[0] != filtered {
		t.Fatalf("fetched %v, want [%s]", static.calls, filtered)
	}
	// "Rock Night" fails the keyword filter; "Jazz Brunch" has no venue
	// and is kept.
	if res.TotalFound != 2 {
		t.Fatalf("total_found = %d, want 2", res.TotalFound)
	}
	if got := event.Value(res.Events[0].Title); got != "Jazz in the Park" {
		t.Errorf("events[0].title = %q", got)
	}
	if got := event.Value(res.Events[1].Title); got != "Jazz Brunch" {
		t.Errorf("events[1].title = %q", got)
	}
	if res.Events[0].Extra["event_url"] != "https://example.com/e/1" {
		t.Errorf("event_url = %v", res.Events[0].Extra["event_url"])
	}
}

func TestSearchListings_RendersWhenStaticEmpty(t *testing.T) {
	url := "https://example.com/events"
	static := &fakeStatic{pages: map[string]string{url: "<html><body><div id=root></div></body></html>"}}
	browser := &fakeBrowser{pages: map[string]string{url: cardsHTML}}

	res := newTestScraper(static, browser).SearchListings(context.Background(), url, "", "")

	if res.TotalFound != 3 {
		t.Errorf("total_found = %d, want 3", res.TotalFound)
	}
	if res.Error != "" {
		t.Errorf("error = %q, want empty", res.Error)
	}
}

func TestSearchListings_Error(t *testing.T) {
	res := newTestScraper(&fakeStatic{}, nil).SearchListings(context.Background(), "https://example.com/x", "", "")

	if res.TotalFound != 0 || res.Events == nil {
		t.Errorf("want empty non-nil events, got %+v", res)
	}
	if res.Error == "" {
		t.Error("expected an error")
	}
}

func TestSearchListingsWithRetry_Unfiltered(t *testing.T) {
	url := "https://example.com/events"
	static := &fakeStatic{pages: map[string]string{
		"https://example.com/events?q=opera": "<html><body>No results</body></html>",
		url:                                  cardsHTML,
	}}

	res := newTestScraper(static, nil).SearchListingsWithRetry(context.Background(), url, "", "opera")

	if res.Strategy != StrategyUnfiltered {
		t.Errorf("strategy = %q, want unfiltered", res.Strategy)
	}
	if len(res.Events) != 3 {
		t.Errorf("got %d events, want 3", len(res.Events))
	}
	if len(res.RetryAttempts) != 2 {
		t.Fatalf("retry attempts = %+v, want 2", res.RetryAttempts)
	}
	if res.RetryAttempts[0].Strategy != StrategyFiltered || res.RetryAttempts[0].Found != 0 {
		t.Errorf("first attempt = %+v", res.RetryAttempts[0])
	}
	if res.Suggestions != nil {
		t.Errorf("suggestions = %v, want none on success", res.Suggestions)
	}
}

func TestSearchListingsWithRetry_Filtered(t *testing.T) {
	url := "https://example.com/events"
	static := &fakeStatic{pages: map[string]string{
		"https://example.com/events?q=jazz": cardsHTML,
	}}

	res := newTestScraper(static, nil).SearchListingsWithRetry(context.Background(), url, "", "jazz")

	if res.Strategy != StrategyFiltered {
		t.Errorf("strategy = %q, want filtered", res.Strategy)
	}
	if len(res.Events) != 2 || len(res.RetryAttempts) != 1 {
		t.Errorf("events = %d, attempts = %d; want 2 and 1", len(res.Events), len(res.RetryAttempts))
	}
}

func TestSearchListingsWithRetry_PlatformFallback(t *testing.T) {
	url := "https://www.meetup.com/find/?keywords=zzz"
	static := &fakeStatic{pages: map[string]string{
		"https://www.meetup.com/find/events/": cardsHTML,
	}}

	res := newTestScraper(static, nil).SearchListingsWithRetry(context.Background(), url, "", "")

	if res.Strategy != StrategyPlatformFallback {
		t.Fatalf("strategy = %q, want platform_fallback (attempts %+v)", res.Strategy, res.RetryAttempts)
	}
	want := []struct{ strategy, url string }{
		{StrategyUnfiltered, url},
		{StrategyPlatformFallback, "https://www.meetup.com/find/?source=EVENTS"},
		{StrategyPlatformFallback, "https://www.meetup.com/find/events/"},
	}
	if len(res.RetryAttempts) != len(want) {
		t.Fatalf("attempts = %+v", res.RetryAttempts)
	}
	for i, w := range want {
		got := res.RetryAttempts[i]
		if got.Strategy != w.strategy || got.URL != w.url {
			t.Errorf("attempts[%d] = %+v, want %s %s", i, got, w.strategy, w.url)
		}
	}
}

func TestSearchListingsWithRetry_Exhausted(t *testing.T) {
	res := newTestScraper(&fakeStatic{}, nil).SearchListingsWithRetry(context.Background(), "https://example.com/events", "Austin", "jazz")

	if res.Strategy != StrategyExhausted {
		t.Errorf("strategy = %q, want exhausted", res.Strategy)
	}
	if res.Events == nil || len(res.Events) != 0 {
		t.Errorf("events = %v, want empty list", res.Events)
	}
	if len(res.Suggestions) == 0 {
		t.Error("expected suggestions")
	}
	if len(res.RetryAttempts) != 2 {
		t.Errorf("got %d attempts, want 2 for an unknown platform", len(res.RetryAttempts))
	}
}
