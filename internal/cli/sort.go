package cli

import (
	"sort"
	"strings"

	"github.com/pfrederiksen/event-scraper/internal/event"
	"github.com/pfrederiksen/event-scraper/internal/filter"
)

// SortOrder represents the available sorting options
type SortOrder string

const (
	SortByDate     SortOrder = "date"
	SortByTitle    SortOrder = "title"
	SortByLocation SortOrder = "location"
)

// sortEvents sorts a slice of events based on the specified sort order.
// An empty order keeps page order.
func sortEvents(events []*event.Event, sortOrder SortOrder) {
	switch sortOrder {
	case SortByDate:
		sort.SliceStable(events, func(i, j int) bool {
			return compareByDate(events[i], events[j])
		})
	case SortByTitle:
		sort.SliceStable(events, func(i, j int) bool {
			ti, tj := lower(events[i].Title), lower(events[j].Title)
			if ti != tj {
				return ti < tj
			}
			return compareByDate(events[i], events[j])
		})
	case SortByLocation:
		sort.SliceStable(events, func(i, j int) bool {
			li, lj := lower(events[i].Location), lower(events[j].Location)
			if li != lj {
				// Events without a location go last
				if li == "" || lj == "" {
					return lj == ""
				}
				return li < lj
			}
			return compareByDate(events[i], events[j])
		})
	}
}

// compareByDate compares two events by their start
// Returns true if event i should come before event j
func compareByDate(i, j *event.Event) bool {
	dateI := filter.ParseStart(event.Value(i.Start))
	dateJ := filter.ParseStart(event.Value(j.Start))

	// If both dates are valid, compare them
	if dateI != nil && dateJ != nil {
		return dateI.Before(*dateJ)
	}

	// If only one date is valid, put the valid one first
	if dateI != nil {
		return true
	}
	if dateJ != nil {
		return false
	}

	return lower(i.Title) < lower(j.Title)
}

func lower(s *string) string {
	return strings.ToLower(event.Value(s))
}
