package cli

import (
	"testing"

	"github.com/pfrederiksen/event-scraper/internal/event"
)

func titles(events []*event.Event) []string {
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = event.Value(e.Title)
	}
	return out
}

func newEvent(title, start, location string) *event.Event {
	e := event.New("https://example.com/events")
	e.Title = event.String(title)
	e.Start = event.String(start)
	e.Location = event.String(location)
	return e
}

func TestSortEvents(t *testing.T) {
	tests := []struct {
		name  string
		order SortOrder
		want  []string
	}{
		{"page order", "", []string{"b", "a", "c", "d"}},
		{"date", SortByDate, []string{"a", "b", "c", "d"}},
		{"title", SortByTitle, []string{"a", "b", "c", "d"}},
		{"location", SortByLocation, []string{"c", "a", "b", "d"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events := []*event.Event{
				newEvent("b", "2024-05-02", "Dallas"),
				newEvent("a", "2024-05-01T20:00:00Z", "Dallas"),
				newEvent("c", "June 5th", "Austin"),
				newEvent("d", "", ""),
			}
			sortEvents(events, tt.order)
			got := titles(events)
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("sortEvents(%q) = %v, want %v", tt.order, got, tt.want)
					break
				}
			}
		})
	}
}
