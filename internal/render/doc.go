// Package render turns lookup results into the HTML page shown in the
// dictionary popup, including the term tooltips and the flashcard button.
package render
