// Package cli provides the dictlookup commands: serve runs the HTTP backend
// for the lookup tool, lookup runs the pipeline once per input from the
// shell, and list-models shows what the configured endpoint offers.
package cli
