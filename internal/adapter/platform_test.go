package adapter

import (
	"net/url"
	"reflect"
	"testing"
)

func TestPlatformFor(t *testing.T) {
	tests := []struct {
		url  string
		want string
		ok   bool
	}{
		{"https://www.eventbrite.com/d/ca--oakland/events/", "eventbrite", true},
		{"https://www.eventbrite.co.uk/d/london/events/", "eventbrite", true},
		{"https://www.meetup.com/find/", "meetup", true},
		{"https://example.com/?ref=meetup.com", "", false},
		{"not a url", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			p, ok := PlatformFor(tt.url)
			if ok != tt.ok || p.Name != tt.want {
				t.Errorf("PlatformFor(%q) = (%q, %v), want (%q, %v)", tt.url, p.Name, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestFallbackURLs(t *testing.T) {
	p, _ := PlatformFor("https://www.meetup.com/find/?keywords=go")
	got := p.FallbackURLs("https://www.meetup.com/find/?keywords=go")
	want := []string{
		"https://www.meetup.com/find/?source=EVENTS",
		"https://www.meetup.com/find/events/",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FallbackURLs() = %v, want %v", got, want)
	}
}

func TestWithFilters(t *testing.T) {
	tests := []struct {
		name              string
		url               string
		location, keyword string
		wantParams        map[string]string
	}{
		{
			name:       "meetup params",
			url:        "https://www.meetup.com/find/",
			location:   "Austin",
			keyword:    "go",
			wantParams: map[string]string{"keywords": "go", "location": "Austin"},
		},
		{
			name:       "generic params keep existing query",
			url:        "https://example.com/events?page=2",
			keyword:    "jazz",
			wantParams: map[string]string{"q": "jazz", "page": "2"},
		},
		{
			name:       "no filters",
			url:        "https://example.com/events",
			wantParams: map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WithFilters(tt.url, tt.location, tt.keyword)
			u, err := url.Parse(got)
			if err != nil {
				t.Fatalf("WithFilters() returned bad URL %q: %v", got, err)
			}
			q := u.Query()
			if len(q) != len(tt.wantParams) {
				t.Errorf("query = %v, want %v", q, tt.wantParams)
			}
			for k, v := range tt.wantParams {
				if q.Get(k) != v {
					t.Errorf("param %s = %q, want %q", k, q.Get(k), v)
				}
			}
		})
	}
}
