package cue

import (
	"sort"
	"time"
)

// Status classifies a cue relative to the playback time. It is a display
// hint, computed independently of ActiveIndex.
type Status int

const (
	Future Status = iota
	Active
	Past
)

func (s Status) String() string {
	switch s {
	case Past:
		return "past"
	case Active:
		return "active"
	case Future:
		return "future"
	default:
		return "unknown"
	}
}

// ActiveIndex returns the index of the first cue whose inclusive window
// contains t, or None. Overlapping cues resolve to the lowest index.
func (s Sequence) ActiveIndex(t time.Duration) int {
	limit := len(s.cues)
	if s.Ordered() {
		// cues with Start <= t form a prefix
		limit = sort.Search(len(s.cues), func(i int) bool {
			return s.cues[i].Start > t
		})
	}
	for i := 0; i < limit; i++ {
		if s.cues[i].Contains(t) {
			return i
		}
	}
	return None
}

// StatusOf reports Past when the cue ended at or before t, Future when it
// starts after t, and Active otherwise. A cue exactly at its end bound is Past.
func StatusOf(c Cue, t time.Duration) Status {
	switch {
	case c.End <= t:
		return Past
	case c.Start > t:
		return Future
	default:
		return Active
	}
}

// Statuses returns StatusOf for every cue, in sequence order.
func (s Sequence) Statuses(t time.Duration) []Status {
	out := make([]Status, len(s.cues))
	for i, c := range s.cues {
		out[i] = StatusOf(c, t)
	}
	return out
}
