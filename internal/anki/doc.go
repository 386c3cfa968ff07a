// Package anki adds notes to a running Anki through the AnkiConnect add-on.
// Decks and models the connector has already ensured are remembered in a
// small sqlite database so steady-state calls go straight to addNote.
package anki
