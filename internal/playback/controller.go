package playback

import (
	"math"
	"sync"
	"time"

	"github.com/mgpai22/cuesync/internal/cue"
	"github.com/mgpai22/cuesync/internal/logging"
)

// State of a Controller.
type State int

const (
	Idle State = iota
	Ready
)

func (s State) String() string {
	if s == Ready {
		return "ready"
	}
	return "idle"
}

// Change is emitted when the active cue differs from the last update.
type Change struct {
	Index    int // cue.None when no cue is active
	Previous int
	Time     time.Duration
}

// Snapshot is the view of the controller handed to presentation code.
type Snapshot struct {
	State    State
	Time     time.Duration
	Active   int
	Cues     []cue.Cue
	Statuses []cue.Status
}

// Controller owns the playback time and the loaded cue sequence, and
// reports when the active cue changes.
type Controller struct {
	logger *logging.Logger

	// held from computing a change until its listeners return, so changes
	// reach listeners in the order they were computed
	deliverMu sync.Mutex

	mu     sync.Mutex
	state  State
	seq    cue.Sequence
	now    time.Duration
	active int

	listenersMu sync.Mutex
	listeners   []func(Change)
}

type Option func(*Controller)

// WithListener registers fn as a change listener at construction.
func WithListener(fn func(Change)) Option {
	return func(c *Controller) {
		c.listeners = append(c.listeners, fn)
	}
}

func NewController(logger *logging.Logger, opts ...Option) *Controller {
	c := &Controller{
		logger: logging.OrNop(logger).Named("playback"),
		active: cue.None,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// OnChange registers fn. Listeners run in registration order, outside the
// state lock, so they may read Snapshot or ActiveIndex. They must not call
// Update or Load.
func (c *Controller) OnChange(fn func(Change)) {
	c.listenersMu.Lock()
	defer c.listenersMu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// Load replaces the sequence and resets the cached active cue and time.
func (c *Controller) Load(seq cue.Sequence) {
	c.deliverMu.Lock()
	defer c.deliverMu.Unlock()

	c.mu.Lock()
	c.state = Ready
	c.seq = seq
	c.active = cue.None
	c.now = 0
	c.mu.Unlock()

	c.logger.Debugw("sequence loaded", "cues", seq.Len())
}

// Update records t and recomputes the active cue. It returns the change and
// true only when the active index differs from the previous update.
// Concurrent callers are serialized, listeners included.
func (c *Controller) Update(t time.Duration) (Change, bool) {
	if t < 0 {
		t = 0
	}

	c.deliverMu.Lock()
	defer c.deliverMu.Unlock()

	c.mu.Lock()
	c.now = t
	if c.state != Ready {
		c.mu.Unlock()
		return Change{}, false
	}
	idx := c.seq.ActiveIndex(t)
	if idx == c.active {
		c.mu.Unlock()
		return Change{}, false
	}
	change := Change{Index: idx, Previous: c.active, Time: t}
	c.active = idx
	c.mu.Unlock()

	c.logger.Debugw("active cue changed",
		"index", change.Index,
		"previous", change.Previous,
		"time", t,
	)
	c.notify(change)
	return change, true
}

// UpdateSeconds accepts a media time-update position in seconds.
func (c *Controller) UpdateSeconds(seconds float64) (Change, bool) {
	return c.Update(SecondsToDuration(seconds))
}

// SecondsToDuration converts a media position to a millisecond-resolution
// duration. Negative and NaN positions become zero.
func SecondsToDuration(seconds float64) time.Duration {
	if math.IsNaN(seconds) || seconds <= 0 {
		return 0
	}
	nanos := math.Round(seconds * float64(time.Second))
	if nanos >= math.MaxInt64 {
		return time.Duration(math.MaxInt64).Truncate(time.Millisecond)
	}
	return time.Duration(nanos).Truncate(time.Millisecond)
}

func (c *Controller) notify(change Change) {
	c.listenersMu.Lock()
	listeners := make([]func(Change), len(c.listeners))
	copy(listeners, c.listeners)
	c.listenersMu.Unlock()

	for _, fn := range listeners {
		fn(change)
	}
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) ActiveIndex() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

func (c *Controller) Time() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Snapshot captures the current state with freshly computed statuses.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		State:    c.state,
		Time:     c.now,
		Active:   c.active,
		Cues:     c.seq.Cues(),
		Statuses: c.seq.Statuses(c.now),
	}
}
