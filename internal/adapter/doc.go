// Package adapter holds per-platform overrides of the generic extraction
// pipeline.
//
// Adapters are consulted in a fixed order and the first whose URL
// predicate matches is the only one used. Most adapters run the combined
// JSON-LD and DOM parser and then replace fields from platform markup;
// the Facebook adapter reads Open Graph metadata only. The package also
// describes the listing layout of each recognised platform (Platform).
package adapter
