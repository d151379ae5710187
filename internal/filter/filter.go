// Package filter narrows listing results by keyword, location, date and
// price.
//
// Criteria the event does not expose never exclude it: an event without a
// location passes a location filter, and an event whose start cannot be
// read passes a date filter. Listing cards often omit those fields.
//
// Example usage:
//
//	f := filter.NewFilter()
//	f.Keywords = []string{"jazz"}
//	f.WeekendsOnly = true
//	events = f.Apply(events)
package filter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pfrederiksen/event-scraper/internal/event"
)

// Filter represents listing filtering criteria
type Filter struct {
	// Date range filtering on the event start
	DateFrom *time.Time `json:"date_from,omitempty"`
	DateTo   *time.Time `json:"date_to,omitempty"`

	// Keyword filtering on title and description (case-insensitive substring match)
	Keywords []string `json:"keywords,omitempty"`

	// Location filtering (case-insensitive substring match)
	Locations []string `json:"locations,omitempty"`

	// Weekend-only filtering (Saturday/Sunday)
	WeekendsOnly bool `json:"weekends_only,omitempty"`

	// MaxPrice drops events whose numeric price is higher; zero disables it
	MaxPrice float64 `json:"max_price,omitempty"`
}

// NewFilter creates a new empty filter with no active criteria.
func NewFilter() *Filter {
	return &Filter{
		Keywords:  []string{},
		Locations: []string{},
	}
}

// ForSearch builds the filter for a listing search's location and keyword
// arguments. Empty arguments add no criteria.
func ForSearch(location, keyword string) *Filter {
	f := NewFilter()
	if kw := strings.TrimSpace(keyword); kw != "" {
		f.Keywords = append(f.Keywords, kw)
	}
	if loc := strings.TrimSpace(location); loc != "" {
		f.Locations = append(f.Locations, loc)
	}
	return f
}

// IsEmpty checks if the filter has any active criteria.
func (f *Filter) IsEmpty() bool {
	return f == nil ||
		f.DateFrom == nil &&
			f.DateTo == nil &&
			len(f.Keywords) == 0 &&
			len(f.Locations) == 0 &&
			!f.WeekendsOnly &&
			f.MaxPrice == 0
}

// Matches checks if an event matches all active filter criteria.
func (f *Filter) Matches(evt *event.Event) bool {
	if f.IsEmpty() {
		return true
	}
	if evt == nil {
		return false
	}

	if start := ParseStart(event.Value(evt.Start)); start != nil {
		if f.DateFrom != nil && start.Before(*f.DateFrom) {
			return false
		}
		if f.DateTo != nil && start.After(*f.DateTo) {
			return false
		}
		if f.WeekendsOnly {
			if wd := start.Weekday(); wd != time.Saturday && wd != time.Sunday {
				return false
			}
		}
	}

	if len(f.Keywords) > 0 {
		text := event.Value(evt.Title) + " " + event.Value(evt.Description)
		if !containsAny(text, f.Keywords) {
			return false
		}
	}

	if len(f.Locations) > 0 {
		if loc := event.Value(evt.Location); loc != "" && !containsAny(loc, f.Locations) {
			return false
		}
	}

	if f.MaxPrice > 0 {
		if price, err := strconv.ParseFloat(event.Value(evt.Price), 64); err == nil && price > f.MaxPrice {
			return false
		}
	}

	return true
}

// Apply returns the events matching the filter, preserving order. The
// result is never nil.
func (f *Filter) Apply(events []*event.Event) []*event.Event {
	filtered := make([]*event.Event, 0, len(events))
	for _, evt := range events {
		if f.Matches(evt) {
			filtered = append(filtered, evt)
		}
	}
	return filtered
}

// String returns a human-readable description of the active filter criteria.
// Format: "From: Jan 2, 2026 | To: Jan 15, 2026 | Keywords: jazz | Weekends only"
func (f *Filter) String() string {
	if f.IsEmpty() {
		return "No active filters"
	}

	var parts []string
	if f.DateFrom != nil {
		parts = append(parts, fmt.Sprintf("From: %s", f.DateFrom.Format("Jan 2, 2006")))
	}
	if f.DateTo != nil {
		parts = append(parts, fmt.Sprintf("To: %s", f.DateTo.Format("Jan 2, 2006")))
	}
	if len(f.Keywords) > 0 {
		parts = append(parts, fmt.Sprintf("Keywords: %s", strings.Join(f.Keywords, ", ")))
	}
	if len(f.Locations) > 0 {
		parts = append(parts, fmt.Sprintf("Locations: %s", strings.Join(f.Locations, ", ")))
	}
	if f.WeekendsOnly {
		parts = append(parts, "Weekends only")
	}
	if f.MaxPrice > 0 {
		parts = append(parts, fmt.Sprintf("Max price: %.2f", f.MaxPrice))
	}
	return strings.Join(parts, " | ")
}

// startLayouts covers the ISO 8601 shapes structured data and time
// elements use.
var startLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseStart reads an event start value. Returns nil if parsing fails.
func ParseStart(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range startLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

func containsAny(s string, needles []string) bool {
	lower := strings.ToLower(s)
	for _, n := range needles {
		if strings.Contains(lower, strings.ToLower(n)) {
			return true
		}
	}
	return false
}
