// Package batch reads lookup inputs for the lookup command, one entry per
// line. Lines starting with "#" are comments; a leading "~" marks a grammar
// check.
package batch
