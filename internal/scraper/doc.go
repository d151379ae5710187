// Package scraper drives event extraction across retrieval tiers.
//
// A Scraper fetches a page statically, runs the matching site adapter and
// the generic parser, and escalates to a headless render when the result
// is not rich enough. ScrapeEventWithFallbacks adds a ticket probe and a
// screenshot-only capture after the render tier. Listing searches retry
// without filters and then against known listing pages of the platform.
//
// Exposed operations never return errors or panic: failures degrade to a
// well-shaped result with a populated error field.
package scraper
