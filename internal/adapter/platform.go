package adapter

import (
	"net/url"
	"strings"
)

// Platform describes how a recognised site lays out its listing pages.
type Platform struct {
	Name          string
	Domain        string
	KeywordParam  string
	LocationParam string
	// ListingPaths are known listing pages, relative to the site root,
	// tried when a search returns nothing.
	ListingPaths []string
}

var platforms = []Platform{
	{
		Name:          "ticketmaster",
		Domain:        "ticketmaster",
		KeywordParam:  "q",
		LocationParam: "city",
		ListingPaths:  []string{"/discover/concerts", "/discover/sports"},
	},
	{
		Name:          "eventbrite",
		Domain:        "eventbrite",
		KeywordParam:  "q",
		LocationParam: "location",
		ListingPaths:  []string{"/d/online/all-events/", "/d/united-states/all-events/"},
	},
	{
		Name:          "facebook",
		Domain:        "facebook.com",
		KeywordParam:  "q",
		LocationParam: "location",
		ListingPaths:  []string{"/events/discovery/", "/events/"},
	},
	{
		Name:          "meetup",
		Domain:        "meetup.com",
		KeywordParam:  "keywords",
		LocationParam: "location",
		ListingPaths:  []string{"/find/?source=EVENTS", "/find/events/"},
	},
	{
		Name:          "eventful",
		Domain:        "eventful.com",
		KeywordParam:  "q",
		LocationParam: "l",
		ListingPaths:  []string{"/events", "/events/categories"},
	},
}

// Generic query parameters for sites without platform metadata.
const (
	DefaultKeywordParam  = "q"
	DefaultLocationParam = "location"
)

// PlatformFor returns the platform whose domain appears in rawURL's host.
func PlatformFor(rawURL string) (Platform, bool) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return Platform{}, false
	}
	host := strings.ToLower(u.Hostname())
	for _, p := range platforms {
		if strings.Contains(host, p.Domain) {
			return p, true
		}
	}
	return Platform{}, false
}

// FallbackURLs returns the platform's listing pages rooted at rawURL's
// scheme and host.
func (p Platform) FallbackURLs(rawURL string) []string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return nil
	}
	root := u.Scheme + "://" + u.Host
	out := make([]string, 0, len(p.ListingPaths))
	for _, path := range p.ListingPaths {
		out = append(out, root+path)
	}
	return out
}

// WithFilters adds keyword and location query parameters to rawURL, using
// the platform's parameter names for recognised sites. Empty filters are
// skipped and an unparseable URL is returned unchanged.
func WithFilters(rawURL, location, keyword string) string {
	if location == "" && keyword == "" {
		return rawURL
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	kp, lp := DefaultKeywordParam, DefaultLocationParam
	if p, ok := PlatformFor(rawURL); ok {
		kp, lp = p.KeywordParam, p.LocationParam
	}

	q := u.Query()
	if keyword != "" {
		q.Set(kp, keyword)
	}
	if location != "" {
		q.Set(lp, location)
	}
	u.RawQuery = q.Encode()
	return u.String()
}
