package event

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Event is the canonical record returned by every extraction path.
// Optional text fields are nil when the page did not provide them.
type Event struct {
	SourceURL           string         `json:"source_url"`
	Title               *string        `json:"title"`
	Description         *string        `json:"description"`
	Start               *string        `json:"start"`
	End                 *string        `json:"end"`
	Location            *string        `json:"location"`
	RawLocation         any            `json:"raw_location"`
	Price               *string        `json:"price"`
	Currency            *string        `json:"currency"`
	Organizer           *string        `json:"organizer"`
	Status              *string        `json:"status"`
	EventAttendanceMode *string        `json:"event_attendance_mode"`
	Images              []string       `json:"images"`
	RawJSONLD           map[string]any `json:"raw_jsonld"`
	ScrapeMethod        *string        `json:"scrape_method"`

	// Extra holds keys outside the canonical shape. They are written inline
	// and never replace a canonical key.
	Extra map[string]any `json:"-"`
}

// CanonicalKeys lists every key an Event always carries, in output order.
var CanonicalKeys = []string{
	"source_url", "title", "description", "start", "end", "location",
	"raw_location", "price", "currency", "organizer", "status",
	"event_attendance_mode", "images", "raw_jsonld", "scrape_method",
}

// String returns a pointer to s, or nil when s is blank.
func String(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

// Value dereferences an optional field, returning "" for nil.
func Value(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// New creates an empty, fully shaped Event for url.
func New(url string) *Event {
	return &Event{
		SourceURL: url,
		Images:    []string{},
	}
}

// Clone returns a copy of e that shares no slices or maps with it.
func (e *Event) Clone() *Event {
	if e == nil {
		return nil
	}
	c := *e
	if e.Images != nil {
		c.Images = append([]string(nil), e.Images...)
	}
	if e.RawJSONLD != nil {
		c.RawJSONLD = make(map[string]any, len(e.RawJSONLD))
		for k, v := range e.RawJSONLD {
			c.RawJSONLD[k] = v
		}
	}
	if e.Extra != nil {
		c.Extra = make(map[string]any, len(e.Extra))
		for k, v := range e.Extra {
			c.Extra[k] = v
		}
	}
	return &c
}

// SetExtra stores a non-canonical key on the event.
func (e *Event) SetExtra(key string, value any) {
	if isCanonical(key) {
		return
	}
	if e.Extra == nil {
		e.Extra = make(map[string]any)
	}
	e.Extra[key] = value
}

// Method returns the scrape method, or "" when unset.
func (e *Event) Method() string {
	if e == nil {
		return ""
	}
	return Value(e.ScrapeMethod)
}

// MarshalJSON writes the canonical keys followed by any extra keys.
func (e Event) MarshalJSON() ([]byte, error) {
	type plain Event
	base, err := json.Marshal(plain(e))
	if err != nil {
		return nil, err
	}
	if len(e.Extra) == 0 {
		return base, nil
	}

	fields := make(map[string]json.RawMessage, len(CanonicalKeys)+len(e.Extra))
	if err := json.Unmarshal(base, &fields); err != nil {
		return nil, err
	}
	for k, v := range e.Extra {
		if _, taken := fields[k]; taken {
			continue
		}
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encoding extra key %q: %w", k, err)
		}
		fields[k] = raw
	}
	return json.Marshal(fields)
}

// UnmarshalJSON reads canonical keys into fields and keeps the rest in Extra.
func (e *Event) UnmarshalJSON(data []byte) error {
	type plain Event
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	for k, raw := range fields {
		if isCanonical(k) {
			continue
		}
		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			return fmt.Errorf("decoding extra key %q: %w", k, err)
		}
		if p.Extra == nil {
			p.Extra = make(map[string]any)
		}
		p.Extra[k] = v
	}

	*e = Event(p)
	return nil
}

func isCanonical(key string) bool {
	for _, k := range CanonicalKeys {
		if k == key {
			return true
		}
	}
	return false
}
