package playback

import (
	"context"

	"github.com/mgpai22/cuesync/internal/cue"
)

// Event is delivered by a media source. A non-nil Sequence replaces the
// loaded transcript; otherwise Position is a time update in seconds.
type Event struct {
	Position float64
	Sequence *cue.Sequence
}

// TimeUpdate builds a time-update event.
func TimeUpdate(seconds float64) Event {
	return Event{Position: seconds}
}

// Replace builds a sequence-replacement event.
func Replace(seq cue.Sequence) Event {
	return Event{Sequence: &seq}
}

// Follow applies events in delivery order until the channel is closed or ctx
// is done.
func (c *Controller) Follow(ctx context.Context, events <-chan Event) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if ev.Sequence != nil {
				c.Load(*ev.Sequence)
				continue
			}
			c.UpdateSeconds(ev.Position)
		}
	}
}
