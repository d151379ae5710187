package event

// EnsureShape returns a fully keyed copy of ev bound to url.
// A nil ev yields an all-default record.
func EnsureShape(ev *Event, url string) *Event {
	if ev == nil {
		return New(url)
	}
	out := ev.Clone()
	out.SourceURL = url
	if out.Images == nil {
		out.Images = []string{}
	}
	return out
}

// MergeFields keeps every non-empty field of primary and fills the empty
// ones from secondary. Neither input is modified.
func MergeFields(primary, secondary *Event) *Event {
	if primary == nil {
		return secondary.Clone()
	}
	out := primary.Clone()
	if secondary == nil {
		return out
	}

	if out.SourceURL == "" {
		out.SourceURL = secondary.SourceURL
	}
	out.Title = pick(out.Title, secondary.Title)
	out.Description = pick(out.Description, secondary.Description)
	out.Start = pick(out.Start, secondary.Start)
	out.End = pick(out.End, secondary.End)
	out.Location = pick(out.Location, secondary.Location)
	out.Price = pick(out.Price, secondary.Price)
	out.Currency = pick(out.Currency, secondary.Currency)
	out.Organizer = pick(out.Organizer, secondary.Organizer)
	out.Status = pick(out.Status, secondary.Status)
	out.EventAttendanceMode = pick(out.EventAttendanceMode, secondary.EventAttendanceMode)
	out.ScrapeMethod = pick(out.ScrapeMethod, secondary.ScrapeMethod)

	if isEmptyValue(out.RawLocation) && !isEmptyValue(secondary.RawLocation) {
		out.RawLocation = secondary.RawLocation
	}
	if len(out.Images) == 0 && len(secondary.Images) > 0 {
		out.Images = append([]string(nil), secondary.Images...)
	}
	if len(out.RawJSONLD) == 0 && len(secondary.RawJSONLD) > 0 {
		out.RawJSONLD = secondary.Clone().RawJSONLD
	}
	for k, v := range secondary.Extra {
		if _, ok := out.Extra[k]; !ok {
			out.SetExtra(k, v)
		}
	}
	return out
}

// IsRich reports whether at least two of title, start and location are set.
func IsRich(ev *Event) bool {
	if ev == nil {
		return false
	}
	score := 0
	for _, f := range []*string{ev.Title, ev.Start, ev.Location} {
		if Value(f) != "" {
			score++
		}
	}
	return score >= 2
}

func pick(primary, secondary *string) *string {
	if Value(primary) != "" {
		return primary
	}
	if Value(secondary) != "" {
		return secondary
	}
	return primary
}

func isEmptyValue(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case map[string]any:
		return len(t) == 0
	case []any:
		return len(t) == 0
	}
	return false
}
