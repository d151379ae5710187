// Package cli implements the command-line interface for event-scraper.
//
// The cli package provides the Cobra-based CLI with one subcommand per
// scraper operation (scrape, search, media, tickets, ics, pdf) plus serve,
// which exposes the same operations over HTTP. Results are written as text
// or JSON. Settings come from the config package and may be overridden by
// flags.
package cli
