package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pfrederiksen/event-scraper/internal/event"
	"github.com/pfrederiksen/event-scraper/internal/scraper"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// WriteOutput writes an operation result in the specified format
func WriteOutput(w io.Writer, result any, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeText(w, result, verbose)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs results as JSON
func writeJSON(w io.Writer, result any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// writeText outputs results as human-readable text
func writeText(w io.Writer, result any, verbose bool) error {
	switch r := result.(type) {
	case scraper.ScrapeResult:
		writeEvent(w, r.Event, "", verbose)
		writeError(w, r.Error)

	case scraper.FallbackResult:
		writeEvent(w, r.Event, "", verbose)
		if r.Note != "" {
			fmt.Fprintf(w, "Note: %s\n", r.Note)
		}
		if len(r.Screenshot) > 0 {
			fmt.Fprintf(w, "Screenshot: %d bytes\n", len(r.Screenshot))
		}
		writeError(w, r.Error)
		if verbose {
			fmt.Fprintln(w, "\nAttempts:")
			for _, a := range r.Attempts {
				status := "failed"
				if a.Success {
					status = "ok"
				}
				fmt.Fprintf(w, "  %-13s %-6s %dms", a.Strategy, status, a.DurationMS)
				if a.Error != "" {
					fmt.Fprintf(w, "  %s", a.Error)
				}
				fmt.Fprintln(w)
			}
		}

	case scraper.ListingResult:
		writeEvents(w, r.Events, verbose)
		writeError(w, r.Error)

	case scraper.RetryResult:
		writeEvents(w, r.Events, verbose)
		fmt.Fprintf(w, "Strategy: %s (%d attempts)\n", r.Strategy, len(r.RetryAttempts))
		if verbose {
			for _, a := range r.RetryAttempts {
				fmt.Fprintf(w, "  %-17s %3d  %s\n", a.Strategy, a.Found, a.URL)
			}
		}
		for _, s := range r.Suggestions {
			fmt.Fprintf(w, "Suggestion: %s\n", s)
		}

	case scraper.MediaResult:
		fmt.Fprintf(w, "Images (%d):\n", r.TotalImages)
		for _, img := range r.Images {
			fmt.Fprintf(w, "  %s\n", img)
		}
		fmt.Fprintf(w, "Videos (%d):\n", r.TotalVideos)
		for _, v := range r.Videos {
			fmt.Fprintf(w, "  %s\n", v)
		}
		writeError(w, r.Error)

	case scraper.TicketResult:
		fmt.Fprintf(w, "Tickets: %s\n", r.Status)
		if len(r.TicketInfo.Prices) > 0 {
			fmt.Fprintf(w, "Prices: %s\n", strings.Join(r.TicketInfo.Prices, ", "))
		}
		if verbose {
			if len(r.TicketInfo.MatchedButtons) > 0 {
				fmt.Fprintf(w, "Buttons: %s\n", strings.Join(r.TicketInfo.MatchedButtons, ", "))
			}
			if r.TicketInfo.Source != "" {
				fmt.Fprintf(w, "Source: %s\n", r.TicketInfo.Source)
			}
		}
		writeError(w, r.Error)

	default:
		return writeJSON(w, result)
	}
	return nil
}

func writeEvents(w io.Writer, events []*event.Event, verbose bool) {
	if len(events) == 0 {
		fmt.Fprintln(w, "No events found.")
		return
	}
	for i, evt := range events {
		writeEvent(w, evt, fmt.Sprintf("%d. ", i+1), verbose)
	}
	fmt.Fprintf(w, "\nTotal: %d events\n", len(events))
}

func writeEvent(w io.Writer, evt *event.Event, prefix string, verbose bool) {
	if evt == nil {
		return
	}
	title := event.Value(evt.Title)
	if title == "" {
		title = "(untitled)"
	}
	indent := strings.Repeat(" ", len(prefix))

	fmt.Fprintf(w, "%s%s\n", prefix, title)
	field := func(label string, v *string) {
		if s := event.Value(v); s != "" {
			fmt.Fprintf(w, "%s  %s: %s\n", indent, label, s)
		}
	}
	field("Start", evt.Start)
	field("End", evt.End)
	field("Location", evt.Location)
	if price := event.Value(evt.Price); price != "" {
		fmt.Fprintf(w, "%s  Price: %s\n", indent, strings.TrimSpace(price+" "+event.Value(evt.Currency)))
	}
	if link, ok := evt.Extra["event_url"].(string); ok && link != "" {
		fmt.Fprintf(w, "%s  URL: %s\n", indent, link)
	}
	if verbose {
		field("Organizer", evt.Organizer)
		field("Status", evt.Status)
		field("Description", evt.Description)
		for _, img := range evt.Images {
			fmt.Fprintf(w, "%s  Image: %s\n", indent, img)
		}
		fmt.Fprintf(w, "%s  Source: %s\n", indent, evt.SourceURL)
	}
	if m := evt.Method(); m != "" && prefix == "" {
		fmt.Fprintf(w, "%s  Method: %s\n", indent, m)
	}
}

func writeError(w io.Writer, msg string) {
	if msg != "" {
		fmt.Fprintf(w, "Error: %s\n", msg)
	}
}
