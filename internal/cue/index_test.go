package cue

import (
	"testing"
	"time"
)

func ms(n int) time.Duration {
	return time.Duration(n) * time.Millisecond
}

func TestActiveIndexInclusiveBounds(t *testing.T) {
	seq := NewSequence(New(ms(1000), ms(2000), "only"))

	tests := []struct {
		at   time.Duration
		want int
	}{
		{ms(999), None},
		{ms(1000), 0},
		{ms(1500), 0},
		{ms(2000), 0},
		{ms(2001), None},
	}
	for _, tt := range tests {
		if got := seq.ActiveIndex(tt.at); got != tt.want {
			t.Errorf("ActiveIndex(%v) = %d, want %d", tt.at, got, tt.want)
		}
	}
}

func TestActiveIndexFirstMatchWins(t *testing.T) {
	tests := []struct {
		name string
		seq  Sequence
		at   time.Duration
		want int
	}{
		{
			name: "overlap in order",
			seq: NewSequence(
				New(ms(0), ms(5000), "wide"),
				New(ms(1000), ms(3000), "narrow"),
			),
			at:   ms(2000),
			want: 0,
		},
		{
			name: "shared boundary",
			seq: NewSequence(
				New(ms(0), ms(2000), "first"),
				New(ms(2000), ms(5000), "second"),
			),
			at:   ms(2000),
			want: 0,
		},
		{
			name: "unordered input still scans everything",
			seq: NewSequence(
				New(ms(10000), ms(12000), "later"),
				New(ms(1000), ms(3000), "earlier"),
			),
			at:   ms(2000),
			want: 1,
		},
		{
			name: "unordered overlap picks lowest index",
			seq: NewSequence(
				New(ms(1500), ms(4000), "second start"),
				New(ms(1000), ms(3000), "first start"),
			),
			at:   ms(2000),
			want: 0,
		},
		{
			name: "gap between cues",
			seq: NewSequence(
				New(ms(0), ms(1000), "a"),
				New(ms(3000), ms(4000), "b"),
			),
			at:   ms(2000),
			want: None,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.seq.ActiveIndex(tt.at); got != tt.want {
				t.Errorf("ActiveIndex(%v) = %d, want %d", tt.at, got, tt.want)
			}
		})
	}
}

func TestActiveIndexMatchesLinearScan(t *testing.T) {
	seq := NewSequence(
		New(ms(0), ms(4000), "a"),
		New(ms(1000), ms(1500), "b"),
		New(ms(2000), ms(9000), "c"),
		New(ms(2000), ms(2500), "d"),
		New(ms(6000), ms(7000), "e"),
		New(ms(12000), ms(12000), "f"),
	)
	if !seq.Ordered() {
		t.Fatal("fixture should be ordered")
	}

	for at := ms(-500); at <= ms(13000); at += ms(250) {
		want := None
		for i, c := range seq.Cues() {
			if c.Start <= at && at <= c.End {
				want = i
				break
			}
		}
		if got := seq.ActiveIndex(at); got != want {
			t.Errorf("ActiveIndex(%v) = %d, linear scan gives %d", at, got, want)
		}
	}
}

func TestEmptySequence(t *testing.T) {
	var seq Sequence
	for _, at := range []time.Duration{0, ms(1), time.Hour} {
		if got := seq.ActiveIndex(at); got != None {
			t.Errorf("ActiveIndex(%v) on empty sequence = %d", at, got)
		}
		if got := seq.Statuses(at); len(got) != 0 {
			t.Errorf("expected no statuses, got %v", got)
		}
	}
	if !seq.Empty() || seq.Duration() != 0 {
		t.Error("zero sequence should be empty with zero duration")
	}
}

func TestStatusOf(t *testing.T) {
	c := New(ms(1000), ms(2000), "x")
	tests := []struct {
		at   time.Duration
		want Status
	}{
		{ms(0), Future},
		{ms(999), Future},
		{ms(1000), Active},
		{ms(1999), Active},
		{ms(2000), Past},
		{ms(5000), Past},
	}
	for _, tt := range tests {
		if got := StatusOf(c, tt.at); got != tt.want {
			t.Errorf("StatusOf(%v) = %s, want %s", tt.at, got, tt.want)
		}
	}
}

func TestEndBoundaryIsPastAndActive(t *testing.T) {
	seq := NewSequence(New(ms(1000), ms(2000), "edge"))
	if got := seq.ActiveIndex(ms(2000)); got != 0 {
		t.Errorf("ActiveIndex at end bound = %d, want 0", got)
	}
	if got := seq.Statuses(ms(2000))[0]; got != Past {
		t.Errorf("status at end bound = %s, want past", got)
	}
}

func TestEndToEndScenario(t *testing.T) {
	seq := Parse("0:00 --> 0:02\nhello world\n\n0:02 --> 0:05\nsecond line\n")

	tests := []struct {
		at       time.Duration
		active   int
		statuses []Status
	}{
		{ms(1000), 0, []Status{Active, Future}},
		{ms(3000), 1, []Status{Past, Active}},
		{ms(10000), None, []Status{Past, Past}},
	}

	for _, tt := range tests {
		if got := seq.ActiveIndex(tt.at); got != tt.active {
			t.Errorf("t=%v: active = %d, want %d", tt.at, got, tt.active)
		}
		got := seq.Statuses(tt.at)
		for i := range tt.statuses {
			if got[i] != tt.statuses[i] {
				t.Errorf("t=%v: cue %d status = %s, want %s", tt.at, i, got[i], tt.statuses[i])
			}
		}
	}

	if words := seq.At(0).Words(); len(words) != 2 || words[1] != "world" {
		t.Errorf("unexpected words %q", words)
	}
}

func TestSequenceDoesNotAliasInput(t *testing.T) {
	cues := []Cue{New(0, time.Second, "a")}
	seq := NewSequence(cues...)
	cues[0].Content = "mutated"
	if seq.At(0).Content != "a" {
		t.Error("sequence shares storage with its input")
	}

	out := seq.Cues()
	out[0].Content = "mutated"
	if seq.At(0).Content != "a" {
		t.Error("Cues() exposes internal storage")
	}
}
