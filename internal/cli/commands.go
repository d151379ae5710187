package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/event-scraper/internal/calendar"
	"github.com/pfrederiksen/event-scraper/internal/event"
	"github.com/pfrederiksen/event-scraper/internal/extract"
	"github.com/pfrederiksen/event-scraper/internal/filter"
	"github.com/pfrederiksen/event-scraper/internal/scraper"
	"github.com/pfrederiksen/event-scraper/internal/server"
)

func newScrapeCmd() *cobra.Command {
	var fallbacks bool
	var screenshotPath string

	cmd := &cobra.Command{
		Use:   "scrape <url>",
		Short: "Extract one event from an event page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			if !fallbacks {
				res := e.svc.ScrapeEvent(ctx, args[0])
				if err := WriteOutput(cmd.OutOrStdout(), res, e.format, flagVerbose); err != nil {
					return fmt.Errorf("writing output: %w", err)
				}
				if res.ScrapeMethod == scraper.MethodFailed {
					return errNoResult
				}
				return nil
			}

			res := e.svc.ScrapeEventWithFallbacks(ctx, args[0])
			if screenshotPath != "" && len(res.Screenshot) > 0 {
				if err := os.WriteFile(screenshotPath, res.Screenshot, 0o644); err != nil {
					return fmt.Errorf("writing screenshot: %w", err)
				}
			}
			if err := WriteOutput(cmd.OutOrStdout(), res, e.format, flagVerbose); err != nil {
				return fmt.Errorf("writing output: %w", err)
			}
			if res.ScrapeMethod == scraper.MethodFailed {
				return errNoResult
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&fallbacks, "fallbacks", false, "Escalate to ticket probing and screenshot capture")
	cmd.Flags().StringVar(&screenshotPath, "screenshot", "", "Write a captured screenshot to this file")
	return cmd
}

func newSearchCmd() *cobra.Command {
	var location, keyword, sortBy, dates string
	var retry, weekends bool
	var maxPrice float64

	cmd := &cobra.Command{
		Use:   "search <listing-url>",
		Short: "List the events on a listing or search page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			order := SortOrder(sortBy)
			if order != "" && order != SortByDate && order != SortByTitle && order != SortByLocation {
				return fmt.Errorf("invalid sort: %s (must be 'date', 'title' or 'location')", sortBy)
			}
			extra := filter.NewFilter()
			extra.WeekendsOnly = weekends
			extra.MaxPrice = maxPrice
			if dates != "" {
				from, to, err := filter.ParseDateRange(dates)
				if err != nil {
					return fmt.Errorf("parsing --dates: %w", err)
				}
				extra.DateFrom, extra.DateTo = from, to
			}

			e, err := setup(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if flagVerbose && !extra.IsEmpty() {
				fmt.Fprintf(cmd.ErrOrStderr(), "Filters: %s\n", extra)
			}

			var result any
			var found int
			if retry {
				res := e.svc.SearchListingsWithRetry(ctx, args[0], location, keyword)
				res.Events = extra.Apply(res.Events)
				sortEvents(res.Events, order)
				result, found = res, len(res.Events)
			} else {
				res := e.svc.SearchListings(ctx, args[0], location, keyword)
				res.Events = extra.Apply(res.Events)
				res.TotalFound = len(res.Events)
				sortEvents(res.Events, order)
				result, found = res, res.TotalFound
			}

			if err := WriteOutput(cmd.OutOrStdout(), result, e.format, flagVerbose); err != nil {
				return fmt.Errorf("writing output: %w", err)
			}
			if found == 0 {
				return errNoResult
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&location, "location", "", "Only events at this location")
	cmd.Flags().StringVar(&keyword, "keyword", "", "Only events mentioning this keyword")
	cmd.Flags().BoolVar(&retry, "retry", false, "Retry unfiltered and on known listing pages when nothing is found")
	cmd.Flags().StringVar(&sortBy, "sort", "", "Sort events by: date, title or location")
	cmd.Flags().StringVar(&dates, "dates", "", "Only events starting in this range (e.g. 'Mar 1-15', 'March', '2026-03-01..2026-03-15')")
	cmd.Flags().BoolVar(&weekends, "weekends", false, "Only events on Saturday or Sunday")
	cmd.Flags().Float64Var(&maxPrice, "max-price", 0, "Drop events priced above this amount")
	return cmd
}

func newMediaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "media <url>",
		Short: "List the images and videos on a page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd)
			if err != nil {
				return err
			}
			res := e.svc.ExtractMedia(cmd.Context(), args[0])
			if err := WriteOutput(cmd.OutOrStdout(), res, e.format, flagVerbose); err != nil {
				return fmt.Errorf("writing output: %w", err)
			}
			if res.Error != "" {
				return errNoResult
			}
			return nil
		},
	}
}

func newTicketsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tickets <url>",
		Short: "Check whether tickets are on sale",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd)
			if err != nil {
				return err
			}
			res := e.svc.CheckTicketAvailability(cmd.Context(), args[0])
			if err := WriteOutput(cmd.OutOrStdout(), res, e.format, flagVerbose); err != nil {
				return fmt.Errorf("writing output: %w", err)
			}
			if res.Status == extract.TicketUnknown {
				return errNoResult
			}
			return nil
		},
	}
}

func newICSCmd() *cobra.Command {
	var fromFile, output string

	cmd := &cobra.Command{
		Use:   "ics [url]",
		Short: "Write an iCalendar file for an event",
		Long: `Write an iCalendar file for an event. The event is scraped from the
given URL, or read from a JSON file produced by "scrape --format json".`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if (fromFile == "") == (len(args) == 0) {
				return fmt.Errorf("pass either a URL or --from-json")
			}

			var evt *event.Event
			if fromFile != "" {
				var err error
				if evt, err = readEvent(fromFile); err != nil {
					return err
				}
			} else {
				e, err := setup(cmd)
				if err != nil {
					return err
				}
				res := e.svc.ScrapeEvent(cmd.Context(), args[0])
				if res.ScrapeMethod == scraper.MethodFailed {
					return fmt.Errorf("scraping %s: %s", args[0], res.Error)
				}
				evt = res.Event
			}

			ics := calendar.GenerateCalendarFile(evt)
			if output == "" {
				_, err := fmt.Fprint(cmd.OutOrStdout(), ics)
				return err
			}
			if err := os.WriteFile(output, []byte(ics), 0o644); err != nil {
				return fmt.Errorf("writing calendar file: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&fromFile, "from-json", "", "Read the event from a scrape result or event JSON file")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to this file instead of stdout")
	return cmd
}

// readEvent accepts either a bare event or a scrape result wrapping one.
func readEvent(path string) (*event.Event, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading event file: %w", err)
	}
	var wrapped struct {
		Event *event.Event `json:"event"`
	}
	if err := json.Unmarshal(data, &wrapped); err == nil && wrapped.Event != nil {
		return wrapped.Event, nil
	}
	var evt event.Event
	if err := json.Unmarshal(data, &evt); err != nil {
		return nil, fmt.Errorf("parsing event file: %w", err)
	}
	return &evt, nil
}

func newPDFCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "pdf <url>",
		Short: "Render a page to PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				return fmt.Errorf("--output is required")
			}
			e, err := setup(cmd)
			if err != nil {
				return err
			}
			res := e.svc.CapturePDF(cmd.Context(), args[0])
			if res.Error != "" {
				return fmt.Errorf("capturing PDF: %s", res.Error)
			}
			if err := os.WriteFile(output, res.PDF, 0o644); err != nil {
				return fmt.Errorf("writing PDF: %w", err)
			}
			if flagVerbose {
				fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d bytes to %s\n", len(res.PDF), output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "PDF file to write (required)")
	return cmd
}

func newServeCmd() *cobra.Command {
	var host string
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the scraper operations as HTTP tool endpoints",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := setup(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("host") {
				e.cfg.Host = host
			}
			if cmd.Flags().Changed("port") {
				e.cfg.Port = port
			}
			if err := e.cfg.Validate(); err != nil {
				return fmt.Errorf("invalid settings: %w", err)
			}

			srv := server.New(e.svc, e.metrics, e.log)
			return srv.ListenAndServe(cmd.Context(), e.cfg.Addr())
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "Listen address (default from MCP_HOST or 0.0.0.0)")
	cmd.Flags().IntVar(&port, "port", 0, "Listen port (default from MCP_PORT or 8765)")
	return cmd
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
