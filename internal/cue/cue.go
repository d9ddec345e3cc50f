package cue

import (
	"strings"
	"time"
)

// None is the active index reported when no cue covers the query time.
const None = -1

// represents single timed transcript entry
type Cue struct {
	Start   time.Duration // inclusive
	End     time.Duration // inclusive, never before Start
	Content string
}

// New builds a cue, clamping negative bounds to zero and End to Start.
func New(start, end time.Duration, content string) Cue {
	if start < 0 {
		start = 0
	}
	if end < start {
		end = start
	}
	return Cue{
		Start:   start.Truncate(time.Millisecond),
		End:     end.Truncate(time.Millisecond),
		Content: strings.TrimSpace(content),
	}
}

// Words splits the content on whitespace.
func (c Cue) Words() []string {
	return strings.Fields(c.Content)
}

// Contains reports whether t falls inside the inclusive display window.
func (c Cue) Contains(t time.Duration) bool {
	return c.Start <= t && t <= c.End
}

// Sequence is an immutable, ordered collection of cues. The zero value is an
// empty sequence.
type Sequence struct {
	cues    []Cue
	ordered bool
}

// NewSequence copies cues into a new sequence. Order is kept as given.
func NewSequence(cues ...Cue) Sequence {
	owned := make([]Cue, len(cues))
	copy(owned, cues)
	return Sequence{cues: owned, ordered: startsNonDecreasing(owned)}
}

func startsNonDecreasing(cues []Cue) bool {
	for i := 1; i < len(cues); i++ {
		if cues[i].Start < cues[i-1].Start {
			return false
		}
	}
	return true
}

func (s Sequence) Len() int {
	return len(s.cues)
}

func (s Sequence) Empty() bool {
	return len(s.cues) == 0
}

// At returns the cue at index i. It panics when i is out of range, like a
// slice index.
func (s Sequence) At(i int) Cue {
	return s.cues[i]
}

// Cues returns a copy of the underlying cues.
func (s Sequence) Cues() []Cue {
	out := make([]Cue, len(s.cues))
	copy(out, s.cues)
	return out
}

// Ordered reports whether starts are non-decreasing. Sequences are never
// re-sorted; this only decides whether lookups may skip the tail.
func (s Sequence) Ordered() bool {
	return s.ordered || len(s.cues) < 2
}

// Equal reports structural equality.
func (s Sequence) Equal(other Sequence) bool {
	if len(s.cues) != len(other.cues) {
		return false
	}
	for i := range s.cues {
		if s.cues[i] != other.cues[i] {
			return false
		}
	}
	return true
}

// Duration is the largest end bound, or zero for an empty sequence.
func (s Sequence) Duration() time.Duration {
	var d time.Duration
	for _, c := range s.cues {
		if c.End > d {
			d = c.End
		}
	}
	return d
}
