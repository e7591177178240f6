package ui

import "time"

// tickMsg drives the redraw cadence.
type tickMsg time.Time

// DoneMsg tells the meter that the producer stopped, with the error that stopped it if any.
type DoneMsg struct {
	Err error
}
