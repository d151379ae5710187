package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/gorilla/mux"

	"github.com/pfrederiksen/event-scraper/internal/calendar"
)

// Tool names.
const (
	ToolScrapeEvent              = "scrapeEventPage"
	ToolScrapeEventWithFallbacks = "scrapeEventWithFallbacks"
	ToolSearchListings           = "searchListings"
	ToolSearchListingsWithRetry  = "searchListingsWithRetry"
	ToolExtractMedia             = "extractMedia"
	ToolCheckTickets             = "checkTicketAvailability"
	ToolGenerateCalendarFile     = "generateCalendarFile"
	ToolCapturePDF               = "capturePdf"
)

const maxRequestBytes = 1 << 20

var errMissingURL = errors.New("url is required")

type toolFunc func(ctx context.Context, req ToolRequest) (any, error)

// CalendarResult is returned by the generateCalendarFile tool.
type CalendarResult struct {
	ICS string `json:"ics"`
}

func (s *Server) tools() map[string]toolFunc {
	return map[string]toolFunc{
		ToolScrapeEvent: withURL(func(ctx context.Context, req ToolRequest) any {
			return s.svc.ScrapeEvent(ctx, req.URL)
		}),
		ToolScrapeEventWithFallbacks: withURL(func(ctx context.Context, req ToolRequest) any {
			return s.svc.ScrapeEventWithFallbacks(ctx, req.URL)
		}),
		ToolSearchListings: withURL(func(ctx context.Context, req ToolRequest) any {
			return s.svc.SearchListings(ctx, req.URL, req.Location, req.Keyword)
		}),
		ToolSearchListingsWithRetry: withURL(func(ctx context.Context, req ToolRequest) any {
			return s.svc.SearchListingsWithRetry(ctx, req.URL, req.Location, req.Keyword)
		}),
		ToolExtractMedia: withURL(func(ctx context.Context, req ToolRequest) any {
			return s.svc.ExtractMedia(ctx, req.URL)
		}),
		ToolCheckTickets: withURL(func(ctx context.Context, req ToolRequest) any {
			return s.svc.CheckTicketAvailability(ctx, req.URL)
		}),
		ToolCapturePDF: withURL(func(ctx context.Context, req ToolRequest) any {
			return s.svc.CapturePDF(ctx, req.URL)
		}),
		ToolGenerateCalendarFile: func(_ context.Context, req ToolRequest) (any, error) {
			if req.Event == nil {
				return nil, errors.New("event is required")
			}
			return CalendarResult{ICS: calendar.GenerateCalendarFile(req.Event)}, nil
		},
	}
}

func withURL(fn func(context.Context, ToolRequest) any) toolFunc {
	return func(ctx context.Context, req ToolRequest) (any, error) {
		if strings.TrimSpace(req.URL) == "" {
			return nil, errMissingURL
		}
		return fn(ctx, req), nil
	}
}

func (s *Server) handleTool(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	tool, ok := s.tools()[name]
	if !ok {
		s.writeError(w, http.StatusNotFound, fmt.Errorf("unknown tool %q", name))
		return
	}
	setToolName(r, name)

	var req ToolRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	if err := dec.Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("decoding request: %w", err))
		return
	}

	result, err := tool(r.Context(), req)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleList(w http.ResponseWriter, _ *http.Request) {
	names := make([]string, 0, len(s.tools()))
	for name := range s.tools() {
		names = append(names, name)
	}
	sort.Strings(names)
	s.writeJSON(w, http.StatusOK, map[string][]string{"tools": names})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("Failed to encode response", nil, err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}
