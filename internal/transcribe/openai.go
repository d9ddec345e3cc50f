package transcribe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/mgpai22/cuesync/internal/cue"
	"github.com/mgpai22/cuesync/internal/media"
)

const defaultWhisperModel = "whisper-1"

// OpenAITranscriber sends audio to the OpenAI transcription endpoint and
// asks for segment timestamps.
type OpenAITranscriber struct {
	client openai.Client
	model  string
	opts   Options
}

// fields of a verbose_json transcription read here
type verboseTranscript struct {
	Text     string  `json:"text"`
	Duration float64 `json:"duration"`
	Segments []struct {
		Start float64 `json:"start"`
		End   float64 `json:"end"`
		Text  string  `json:"text"`
	} `json:"segments"`
}

func NewOpenAITranscriber(_ context.Context, apiKey string, opts Options) (*OpenAITranscriber, error) {
	if apiKey == "" {
		return nil, errors.New("API key is required")
	}

	model := opts.Model
	if model == "" {
		model = defaultWhisperModel
	}
	return &OpenAITranscriber{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
		opts:   opts,
	}, nil
}

func (o *OpenAITranscriber) Transcribe(ctx context.Context, audioPath string) (*Result, error) {
	audio, err := os.Open(audioPath)
	if err != nil {
		return nil, fmt.Errorf("audio file: %w", err)
	}
	defer audio.Close()

	params := openai.AudioTranscriptionNewParams{
		File:                   audio,
		Model:                  openai.AudioModel(o.model),
		ResponseFormat:         openai.AudioResponseFormatVerboseJSON,
		TimestampGranularities: []string{"segment"},
	}
	if o.opts.Language != "" {
		params.Language = openai.String(o.opts.Language)
	}
	if o.opts.Prompt != "" {
		params.Prompt = openai.String(o.opts.Prompt)
	}

	resp, err := o.client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("transcription failed: %w", err)
	}

	duration, _ := media.GetDuration(ctx, audioPath)
	return &Result{
		Cues:     whisperCues(resp.RawJSON(), resp.Text, duration),
		Language: o.opts.Language,
		Duration: duration,
	}, nil
}

// whisperCues turns each reported segment into a cue. Without segments the
// whole text becomes one cue spanning the audio, using the reported duration
// when there is one and length otherwise.
func whisperCues(raw, text string, length time.Duration) []cue.Cue {
	var vt verboseTranscript
	if err := json.Unmarshal([]byte(raw), &vt); err == nil && len(vt.Segments) > 0 {
		cues := make([]cue.Cue, 0, len(vt.Segments))
		for _, s := range vt.Segments {
			if c, ok := spokenCue(s.Start, s.End, s.Text); ok {
				cues = append(cues, c)
			}
		}
		return cues
	}

	span := length.Seconds()
	if vt.Duration > 0 {
		span = vt.Duration
	}
	if vt.Text != "" {
		text = vt.Text
	}
	c, ok := spokenCue(0, span, text)
	if !ok {
		return nil
	}
	return []cue.Cue{c}
}
