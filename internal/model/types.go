// Package model defines shared data structures.
package model

// Person is a selectable entity with proposal history counters.
type Person struct {
	Name            string `json:"name"`
	TimesUnproposed int    `json:"timesUnproposed"`
	TimesRejected   int    `json:"timesRejected"`

	// Active is session-scoped and never persisted; excluded persons
	// keep their counters untouched for the whole run.
	Active bool `json:"-"`
}

// Settings is the persisted picker state: both weight factors plus the
// ordered person list.
type Settings struct {
	UnproposedFactor float64   `json:"unproposedFactor"`
	RejectedFactor   float64   `json:"rejectedFactor"`
	Persons          []*Person `json:"persons"`
}

// SessionTally tracks decisions made during one run.
type SessionTally struct {
	Proposals int
	Accepts   int
	Rejects   int
}
