// Package server exposes the lookup processor, the flashcard connector and
// the settings endpoints over HTTP.
//
// All request handlers read the active service set from an App. A settings
// update builds a complete new set from the updated configuration and swaps
// it in with a single atomic store, so in-flight requests finish on the set
// they started with.
package server
