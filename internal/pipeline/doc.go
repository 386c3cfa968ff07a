// Package pipeline fans a lookup out into up to four independent calls
// (translation, vocabulary analysis, grammar check and speech synthesis),
// waits for all of them, and merges whatever succeeded. A failed call never
// affects its siblings; it simply leaves its slot empty.
package pipeline
