package transcribe

import (
	"context"
	"errors"
	"math"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mgpai22/cuesync/internal/cue"
	"github.com/mgpai22/cuesync/internal/media"
)

// answers every path with one cue named after it
type fakeTranscriber struct {
	calls  atomic.Int32
	failOn string
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, audioPath string) (*Result, error) {
	f.calls.Add(1)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.failOn != "" && audioPath == f.failOn {
		return nil, errors.New("boom")
	}
	return &Result{Cues: []cue.Cue{cue.New(time.Second, 2*time.Second, audioPath)}}, nil
}

func testChunks(n int) []media.ChunkInfo {
	chunks := make([]media.ChunkInfo, n)
	for i := range chunks {
		chunks[i] = media.ChunkInfo{
			Path:      string(rune('a' + i)),
			Index:     i,
			StartTime: time.Duration(i) * time.Minute,
			EndTime:   time.Duration(i+1) * time.Minute,
		}
	}
	return chunks
}

func TestTranscribeChunksMergesInOrder(t *testing.T) {
	fake := &fakeTranscriber{}
	chunks := testChunks(5)

	result, err := TranscribeChunks(context.Background(), fake, chunks, 3, nil)
	if err != nil {
		t.Fatalf("TranscribeChunks: %v", err)
	}

	if len(result.Cues) != len(chunks) {
		t.Fatalf("got %d cues, want %d", len(result.Cues), len(chunks))
	}
	for i, c := range result.Cues {
		if c.Content != chunks[i].Path {
			t.Errorf("cue %d content = %q, want %q", i, c.Content, chunks[i].Path)
		}
		wantStart := chunks[i].StartTime + time.Second
		if c.Start != wantStart || c.End != wantStart+time.Second {
			t.Errorf("cue %d not shifted by chunk offset: %+v", i, c)
		}
	}
	if !cue.NewSequence(result.Cues...).Ordered() {
		t.Error("merged cues are not ordered")
	}
	if result.Duration != 5*time.Minute {
		t.Errorf("Duration = %v", result.Duration)
	}
}

func TestTranscribeChunksStopsOnError(t *testing.T) {
	fake := &fakeTranscriber{failOn: "b"}

	_, err := TranscribeChunks(context.Background(), fake, testChunks(4), 1, nil)
	if err == nil || !strings.Contains(err.Error(), "chunk 1 failed") {
		t.Fatalf("expected chunk 1 failure, got %v", err)
	}
}

func TestTranscribeChunksEmpty(t *testing.T) {
	result, err := TranscribeChunks(context.Background(), &fakeTranscriber{}, nil, 0, nil)
	if err != nil {
		t.Fatalf("TranscribeChunks: %v", err)
	}
	if len(result.Cues) != 0 {
		t.Errorf("expected no cues, got %d", len(result.Cues))
	}
}

func TestTranscribeChunksCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := TranscribeChunks(ctx, &fakeTranscriber{}, testChunks(3), 2, nil); err == nil {
		t.Error("expected error for canceled context")
	}
}

func TestFactoryUnknownProvider(t *testing.T) {
	if _, err := Factory(context.Background(), Provider("whisper-local"), "key", Options{}); err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestNewOpenAITranscriberRequiresKey(t *testing.T) {
	if _, err := NewOpenAITranscriber(context.Background(), "", Options{}); err == nil {
		t.Error("expected error without API key")
	}
}

func TestSpokenCue(t *testing.T) {
	tests := []struct {
		name       string
		start, end float64
		text       string
		want       cue.Cue
		ok         bool
	}{
		{"truncates both bounds", 1.2, 3.99, " hi ", cue.Cue{Start: time.Second, End: 3 * time.Second, Content: "hi"}, true},
		{"sub-second span collapses", 4.1, 4.8, "uh", cue.Cue{Start: 4 * time.Second, End: 4 * time.Second, Content: "uh"}, true},
		{"negative start", -0.5, 0.7, "x", cue.Cue{Content: "x"}, true},
		{"end before start", 9.5, 2, "y", cue.Cue{Start: 9 * time.Second, End: 9 * time.Second, Content: "y"}, true},
		{"blank text", 0, 1, " \n ", cue.Cue{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := spokenCue(tt.start, tt.end, tt.text)
			if ok != tt.ok || got != tt.want {
				t.Errorf("spokenCue(%v, %v, %q) = %+v, %v; want %+v, %v",
					tt.start, tt.end, tt.text, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestWholeSecondsBounds(t *testing.T) {
	if got := wholeSeconds(math.NaN()); got != 0 {
		t.Errorf("NaN = %v, want 0", got)
	}
	if got := wholeSeconds(1e30); got <= 0 || got%time.Second != 0 {
		t.Errorf("huge value = %v, want a positive whole-second duration", got)
	}
}

// chunk offsets are whole minutes, so shifted cues keep whole seconds
func TestTranscribeChunksKeepsWholeSeconds(t *testing.T) {
	chunks := testChunks(3)
	tr := transcriberFunc(func(ctx context.Context, path string) (*Result, error) {
		c, _ := spokenCue(12.6, 14.2, path)
		return &Result{Cues: []cue.Cue{c}}, nil
	})

	result, err := TranscribeChunks(context.Background(), tr, chunks, 2, nil)
	if err != nil {
		t.Fatalf("TranscribeChunks: %v", err)
	}
	for i, c := range result.Cues {
		if c.Start != chunks[i].StartTime+12*time.Second || c.End != chunks[i].StartTime+14*time.Second {
			t.Errorf("cue %d = %v-%v", i, c.Start, c.End)
		}
	}
}

type transcriberFunc func(ctx context.Context, path string) (*Result, error)

func (f transcriberFunc) Transcribe(ctx context.Context, path string) (*Result, error) {
	return f(ctx, path)
}
