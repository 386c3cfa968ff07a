// Package prompt builds the model prompts for translation, vocabulary
// analysis and grammar checks, and detects whether input is Chinese or English.
package prompt
