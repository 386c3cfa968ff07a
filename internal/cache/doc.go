// Package cache memoizes rendered lookup pages keyed by text and feature
// selection, evicting the oldest insertion when full.
package cache
