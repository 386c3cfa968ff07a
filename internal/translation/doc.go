// Package translation asks the configured language model for translations,
// vocabulary analyses and grammar checks, and returns the decoded replies.
package translation
