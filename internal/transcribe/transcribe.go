package transcribe

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/mgpai22/cuesync/internal/cue"
)

// Result is what a provider heard in one audio file.
type Result struct {
	Cues     []cue.Cue
	Language string
	Duration time.Duration
}

// Transcriber turns an audio file into timed cues.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (*Result, error)
}

type Provider string

const (
	ProviderOpenAI Provider = "openai"
	ProviderGemini Provider = "gemini"
)

type Options struct {
	Language string // spoken language hint, empty to auto-detect
	Model    string
	Prompt   string // extra vocabulary or context for the model
}

// Factory builds the transcriber for provider.
func Factory(
	ctx context.Context,
	provider Provider,
	apiKey string,
	opts Options,
) (Transcriber, error) {
	switch provider {
	case ProviderGemini:
		return NewGeminiTranscriber(ctx, apiKey, opts)
	case ProviderOpenAI:
		return NewOpenAITranscriber(ctx, apiKey, opts)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}

// spokenCue builds a cue from a span reported in fractional seconds. Both
// bounds drop to the whole second below them, the resolution a note keeps,
// so a generated note reads back exactly. Blank text yields no cue.
func spokenCue(start, end float64, text string) (cue.Cue, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return cue.Cue{}, false
	}
	return cue.New(wholeSeconds(start), wholeSeconds(end), text), true
}

const maxWholeSeconds = math.MaxInt64 / int64(time.Second)

func wholeSeconds(s float64) time.Duration {
	switch {
	case math.IsNaN(s) || s <= 0:
		return 0
	case s >= float64(maxWholeSeconds):
		return time.Duration(maxWholeSeconds) * time.Second
	}
	return time.Duration(math.Floor(s)) * time.Second
}

// shift moves c later by offset, used to place chunk-relative cues on the
// timeline of the whole recording.
func shift(c cue.Cue, offset time.Duration) cue.Cue {
	return cue.New(c.Start+offset, c.End+offset, c.Content)
}
