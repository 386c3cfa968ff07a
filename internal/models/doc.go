// Package models lists the chat and speech models reachable with the
// configured OpenAI-compatible endpoint, so the provider and audio model
// settings can be picked from what the account actually offers.
package models
