package display

import "github.com/muesli/reflow/wordwrap"

// Width the admin console wraps to. Telnet and ssh clients both default
// to 80 columns.
const DefaultWidth = 80

// Wrap word-wraps console output to DefaultWidth, preserving ANSI escape
// sequences.
func Wrap(text string) string {
	return wordwrap.String(text, DefaultWidth)
}
