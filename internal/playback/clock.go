package playback

import (
	"context"
	"fmt"
	"time"
)

// DefaultInterval is roughly how often browsers fire timeupdate.
const DefaultInterval = 250 * time.Millisecond

// Clock simulates a playing media element. Every Interval of wall time it
// emits a time update advanced by Interval*Rate of media time.
type Clock struct {
	From     time.Duration
	Until    time.Duration
	Interval time.Duration
	Rate     float64
}

func (c Clock) validate() error {
	if c.Interval <= 0 {
		return fmt.Errorf("clock interval must be positive, got %v", c.Interval)
	}
	if c.Rate <= 0 {
		return fmt.Errorf("playback rate must be positive, got %v", c.Rate)
	}
	if c.From < 0 {
		return fmt.Errorf("start position must not be negative, got %v", c.From)
	}
	return nil
}

// Positions returns the media positions Run emits, in order. The last one is
// always Until (or From when Until is not after it).
func (c Clock) Positions() []time.Duration {
	if c.validate() != nil {
		return nil
	}
	step := time.Duration(float64(c.Interval) * c.Rate)
	if step <= 0 {
		step = time.Millisecond
	}
	positions := []time.Duration{c.From}
	for pos := c.From + step; pos < c.Until; pos += step {
		positions = append(positions, pos)
	}
	if c.Until > c.From {
		positions = append(positions, c.Until)
	}
	return positions
}

// Run emits time updates on out, one per tick, then closes out. It returns
// ctx.Err() if cancelled before the end.
func (c Clock) Run(ctx context.Context, out chan<- Event) error {
	defer close(out)

	if err := c.validate(); err != nil {
		return err
	}

	ticker := time.NewTicker(c.Interval)
	defer ticker.Stop()

	for i, pos := range c.Positions() {
		if i > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
			}
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case out <- TimeUpdate(pos.Seconds()):
		}
	}
	return nil
}
