// Package extract turns HTML into event records.
//
// It holds the JSON-LD extractor (StructuredData), the DOM heuristic
// extractor (DOM) and the combined parser (Event) that backfills the first
// from the second. It also reads listing pages (Listing), harvests media
// URLs (HarvestMedia) and classifies ticket availability (ClassifyTickets).
// All functions operate on goquery documents and never fail: malformed
// input degrades to empty fields.
package extract
