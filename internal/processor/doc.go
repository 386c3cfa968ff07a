// Package processor applies the lookup policy to incoming text. It decides
// whether a text is worth looking up, which calls to make, and routes the
// work through the result cache, the dispatcher and the renderer.
package processor
