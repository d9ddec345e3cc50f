package playback

import (
	"context"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/mgpai22/cuesync/internal/cue"
)

func scenario() cue.Sequence {
	return cue.Parse("0:00 --> 0:02\nhello world\n\n0:02 --> 0:05\nsecond line")
}

func TestControllerIdleIgnoresUpdates(t *testing.T) {
	var calls int
	c := NewController(nil, WithListener(func(Change) { calls++ }))

	if c.State() != Idle {
		t.Fatalf("new controller state = %s, want idle", c.State())
	}
	if _, changed := c.UpdateSeconds(1); changed {
		t.Error("idle controller reported a change")
	}
	if calls != 0 {
		t.Errorf("listener called %d times while idle", calls)
	}
	if c.Time() != time.Second {
		t.Errorf("idle controller should still record time, got %v", c.Time())
	}
}

func TestControllerSuppressesRepeatedIndex(t *testing.T) {
	var changes []Change
	c := NewController(nil)
	c.OnChange(func(ch Change) { changes = append(changes, ch) })
	c.Load(scenario())

	updates := []float64{0.5, 1.0, 1.5, 3.0, 3.5, 4.0, 10.0, 11.0, 1.0}
	for _, u := range updates {
		c.UpdateSeconds(u)
	}

	want := []Change{
		{Index: 0, Previous: cue.None, Time: 500 * time.Millisecond},
		{Index: 1, Previous: 0, Time: 3 * time.Second},
		{Index: cue.None, Previous: 1, Time: 10 * time.Second},
		{Index: 0, Previous: cue.None, Time: time.Second},
	}
	if len(changes) != len(want) {
		t.Fatalf("got %d changes, want %d: %+v", len(changes), len(want), changes)
	}
	for i := range want {
		if changes[i] != want[i] {
			t.Errorf("change %d = %+v, want %+v", i, changes[i], want[i])
		}
	}
}

func TestControllerUpdateReturnsChange(t *testing.T) {
	c := NewController(nil)
	c.Load(scenario())

	ch, changed := c.Update(3 * time.Second)
	if !changed || ch.Index != 1 {
		t.Fatalf("Update = %+v, %v", ch, changed)
	}
	if _, changed := c.Update(4 * time.Second); changed {
		t.Error("second update into the same cue reported a change")
	}
	if c.ActiveIndex() != 1 {
		t.Errorf("ActiveIndex = %d, want 1", c.ActiveIndex())
	}
}

func TestControllerLoadResetsCache(t *testing.T) {
	c := NewController(nil)
	c.Load(scenario())
	c.UpdateSeconds(1)
	if c.ActiveIndex() != 0 {
		t.Fatalf("ActiveIndex = %d, want 0", c.ActiveIndex())
	}

	c.Load(cue.Parse("0:00 --> 0:09\nreplacement"))
	if c.ActiveIndex() != cue.None || c.Time() != 0 {
		t.Errorf("Load did not reset state: active=%d time=%v", c.ActiveIndex(), c.Time())
	}

	// same index as before the reload, but the cache was reset so it is a change
	ch, changed := c.UpdateSeconds(1)
	if !changed || ch.Index != 0 || ch.Previous != cue.None {
		t.Errorf("expected change into 0 after reload, got %+v %v", ch, changed)
	}
}

func TestControllerEmptySequence(t *testing.T) {
	c := NewController(nil)
	c.Load(cue.Sequence{})
	for _, s := range []float64{0, 1, 100} {
		if _, changed := c.UpdateSeconds(s); changed {
			t.Errorf("empty sequence reported change at %vs", s)
		}
	}
	snap := c.Snapshot()
	if snap.State != Ready || snap.Active != cue.None || len(snap.Statuses) != 0 {
		t.Errorf("unexpected snapshot %+v", snap)
	}
}

func TestControllerSnapshot(t *testing.T) {
	c := NewController(nil)
	c.Load(scenario())
	c.UpdateSeconds(3)

	snap := c.Snapshot()
	if snap.Active != 1 || snap.Time != 3*time.Second {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	want := []cue.Status{cue.Past, cue.Active}
	for i := range want {
		if snap.Statuses[i] != want[i] {
			t.Errorf("status %d = %s, want %s", i, snap.Statuses[i], want[i])
		}
	}
}

func TestSecondsToDuration(t *testing.T) {
	tests := []struct {
		in   float64
		want time.Duration
	}{
		{0, 0},
		{1, time.Second},
		{0.3, 300 * time.Millisecond},
		{2.0005, 2000 * time.Millisecond},
		{-4, 0},
		{math.NaN(), 0},
	}
	for _, tt := range tests {
		if got := SecondsToDuration(tt.in); got != tt.want {
			t.Errorf("SecondsToDuration(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFollowAppliesEventsInOrder(t *testing.T) {
	c := NewController(nil)
	var got []int
	c.OnChange(func(ch Change) { got = append(got, ch.Index) })

	events := make(chan Event, 8)
	events <- Replace(scenario())
	events <- TimeUpdate(1)
	events <- TimeUpdate(3)
	events <- Replace(cue.Parse("0:00 --> 0:01\nother"))
	events <- TimeUpdate(0.5)
	events <- TimeUpdate(0.7)
	close(events)

	if err := c.Follow(context.Background(), events); err != nil {
		t.Fatalf("Follow: %v", err)
	}

	want := []int{0, 1, 0}
	if len(got) != len(want) {
		t.Fatalf("got changes %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("change %d = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestFollowStopsOnCancel(t *testing.T) {
	c := NewController(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.Follow(ctx, make(chan Event))
	if err != context.Canceled {
		t.Errorf("Follow after cancel = %v, want context.Canceled", err)
	}
}

func TestConcurrentLoadAndUpdate(t *testing.T) {
	c := NewController(nil)
	a := scenario()
	b := cue.Parse("0:00 --> 0:01\nx\n\n0:01 --> 0:02\ny\n\n0:02 --> 0:03\nz")

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			if i%2 == 0 {
				c.Load(a)
			} else {
				c.Load(b)
			}
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			c.UpdateSeconds(float64(i%4) + 0.5)
		}
	}()
	wg.Wait()

	snap := c.Snapshot()
	if snap.Active >= len(snap.Cues) {
		t.Errorf("active index %d out of range for %d cues", snap.Active, len(snap.Cues))
	}
}

func TestConcurrentUpdatesDeliverInOrder(t *testing.T) {
	c := NewController(nil)
	c.Load(cue.Parse("0:00 --> 0:01\na\n\n0:01 --> 0:02\nb\n\n0:02 --> 0:03\nc\n\n0:03 --> 0:04\nd"))

	var (
		mu      sync.Mutex
		changes []Change
	)
	c.OnChange(func(ch Change) {
		mu.Lock()
		changes = append(changes, ch)
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 250; i++ {
				c.UpdateSeconds(float64((i+w)%5) + 0.5)
			}
		}(w)
	}
	wg.Wait()

	prev := cue.None
	for i, ch := range changes {
		if ch.Previous != prev {
			t.Fatalf("change %d: previous = %d, want %d (delivered out of order)", i, ch.Previous, prev)
		}
		if ch.Index == ch.Previous {
			t.Fatalf("change %d repeats index %d", i, ch.Index)
		}
		prev = ch.Index
	}
	if got := c.ActiveIndex(); got != prev {
		t.Errorf("ActiveIndex = %d, last delivered index %d", got, prev)
	}
}
