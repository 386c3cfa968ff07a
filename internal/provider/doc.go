// Package provider wraps the large-language-model backends used for
// translation, vocabulary analysis and grammar checks. Each backend turns a
// prompt into raw text and decodes the JSON object embedded in that text.
// Backends are looked up by name in a Registry; Resilient adds a circuit
// breaker and retries on top of any backend.
package provider
