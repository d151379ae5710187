package extract

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/event-scraper/internal/event"
)

const jsonLDSelector = `script[type="application/ld+json"]`

// StructuredData returns the first schema.org Event found in the document's
// JSON-LD blocks, normalized to the canonical shape, or nil when none exists.
// Malformed blocks are skipped.
func StructuredData(doc *goquery.Document, url string) *event.Event {
	for _, obj := range jsonLDObjects(doc) {
		if isEventType(obj["@type"]) {
			return normalizeJSONLD(obj, url)
		}
	}
	return nil
}

// StructuredDataFromHTML parses rawHTML and runs StructuredData.
func StructuredDataFromHTML(rawHTML, url string) *event.Event {
	return StructuredData(Parse(rawHTML), url)
}

// jsonLDObjects decodes every JSON-LD block and flattens list payloads
// into one candidate list in document order.
func jsonLDObjects(doc *goquery.Document) []map[string]any {
	var out []map[string]any
	doc.Find(jsonLDSelector).Each(func(_ int, s *goquery.Selection) {
		data, ok := decodeJSONLD(s.Text())
		if !ok {
			return
		}
		out = append(out, flatten(data)...)
	})
	return out
}

func decodeJSONLD(text string) (any, bool) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()
	var data any
	if err := dec.Decode(&data); err != nil {
		return nil, false
	}
	return data, true
}

func flatten(data any) []map[string]any {
	var out []map[string]any
	switch v := data.(type) {
	case []any:
		for _, item := range v {
			if obj, ok := item.(map[string]any); ok {
				out = append(out, obj)
			}
		}
	case map[string]any:
		out = append(out, v)
		if graph, ok := v["@graph"].([]any); ok {
			for _, item := range graph {
				if obj, ok := item.(map[string]any); ok {
					out = append(out, obj)
				}
			}
		}
	}
	return out
}

// isEventType matches "Event" or a single-element list holding it.
func isEventType(t any) bool {
	switch v := t.(type) {
	case string:
		return v == "Event"
	case []any:
		if len(v) != 1 {
			return false
		}
		s, ok := v[0].(string)
		return ok && s == "Event"
	}
	return false
}

func normalizeJSONLD(obj map[string]any, url string) *event.Event {
	evt := event.New(url)
	evt.Title = event.String(scalar(obj["name"]))
	evt.Description = event.String(scalar(obj["description"]))
	evt.Start = event.String(scalar(obj["startDate"]))
	evt.End = event.String(scalar(obj["endDate"]))
	evt.Status = event.String(scalar(obj["eventStatus"]))
	evt.EventAttendanceMode = event.String(scalar(obj["eventAttendanceMode"]))

	loc := obj["location"]
	evt.RawLocation = loc
	evt.Location = event.String(formatLocation(loc))

	if offer, ok := obj["offers"].(map[string]any); ok {
		evt.Price = event.String(scalar(offer["price"]))
		evt.Currency = event.String(scalar(offer["priceCurrency"]))
	}

	switch org := obj["organizer"].(type) {
	case map[string]any:
		evt.Organizer = event.String(scalar(org["name"]))
	case string:
		evt.Organizer = event.String(org)
	}

	evt.Images = images(obj["image"])
	evt.RawJSONLD = obj
	return evt
}

// formatLocation joins the place name with its address parts.
func formatLocation(loc any) string {
	place, ok := loc.(map[string]any)
	if !ok {
		return ""
	}

	name := scalar(place["name"])
	if name == "" {
		name = scalar(place["@name"])
	}

	var address string
	switch addr := place["address"].(type) {
	case map[string]any:
		address = joinNonEmpty(
			scalar(addr["streetAddress"]),
			scalar(addr["addressLocality"]),
			scalar(addr["addressRegion"]),
			scalar(addr["postalCode"]),
			scalar(addr["addressCountry"]),
		)
	case string:
		address = addr
	}

	return joinNonEmpty(name, address)
}

func images(v any) []string {
	switch img := v.(type) {
	case string:
		return []string{img}
	case []any:
		out := make([]string, 0, len(img))
		for _, item := range img {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return []string{}
}

// scalar renders strings and numbers; anything else is empty.
func scalar(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	}
	return ""
}

func joinNonEmpty(parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, ", ")
}
