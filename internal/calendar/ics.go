package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/pfrederiksen/event-scraper/internal/event"
)

// ProdID identifies this program in generated calendars.
const ProdID = "-//Event Scraper//event-scraper//EN"

// now is replaced in tests.
var now = time.Now

// GenerateCalendarFile renders evt as an iCalendar (.ics) document with a
// single VEVENT. Start and end are written as stored; lines for empty
// fields are omitted.
func GenerateCalendarFile(evt *event.Event) string {
	evt = event.EnsureShape(evt, sourceURL(evt))

	var ics strings.Builder
	line := func(format string, args ...any) {
		ics.WriteString(fmt.Sprintf(format, args...))
		ics.WriteString("\r\n")
	}

	line("BEGIN:VCALENDAR")
	line("VERSION:2.0")
	line("PRODID:%s", ProdID)
	line("CALSCALE:GREGORIAN")
	line("METHOD:PUBLISH")
	line("BEGIN:VEVENT")

	line("UID:%s", evt.SourceURL)
	line("DTSTAMP:%s", formatICSTime(now()))

	if start := event.Value(evt.Start); start != "" {
		line("DTSTART:%s", start)
	}
	if end := event.Value(evt.End); end != "" {
		line("DTEND:%s", end)
	}

	if title := event.Value(evt.Title); title != "" {
		line("SUMMARY:%s", escapeICS(title))
	}
	if desc := event.Value(evt.Description); desc != "" {
		line("DESCRIPTION:%s", escapeICS(desc))
	}
	if loc := event.Value(evt.Location); loc != "" {
		line("LOCATION:%s", escapeICS(loc))
	}
	if evt.SourceURL != "" {
		line("URL:%s", evt.SourceURL)
	}

	line("END:VEVENT")
	line("END:VCALENDAR")

	return ics.String()
}

func sourceURL(evt *event.Event) string {
	if evt == nil {
		return ""
	}
	return evt.SourceURL
}

// formatICSTime formats a time.Time as an iCalendar UTC datetime.
func formatICSTime(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}

// escapeICS escapes text values per RFC 5545.
func escapeICS(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, ";", "\\;")
	s = strings.ReplaceAll(s, "\r\n", "\\n")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}
