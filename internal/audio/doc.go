// Package audio synthesizes pronunciation audio for lookups using OpenAI
// text-to-speech, with an optional on-disk cache keyed by text and voice.
package audio
