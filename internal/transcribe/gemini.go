package transcribe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"
	"strconv"
	"strings"

	"google.golang.org/genai"

	"github.com/mgpai22/cuesync/internal/cue"
	"github.com/mgpai22/cuesync/internal/media"
)

const defaultGeminiModel = "gemini-2.5-flash"

var errNoPhrases = errors.New("no timed phrases in response")

// GeminiTranscriber uploads audio through the Gemini Files API and asks the
// model for a timed transcript as JSON.
type GeminiTranscriber struct {
	client *genai.Client
	model  string
	opts   Options
}

// one timed phrase as the model reports it
type geminiPhrase struct {
	Start, End float64
	Text       string
}

func NewGeminiTranscriber(ctx context.Context, apiKey string, opts Options) (*GeminiTranscriber, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := opts.Model
	if model == "" {
		model = defaultGeminiModel
	}
	return &GeminiTranscriber{client: client, model: model, opts: opts}, nil
}

func (g *GeminiTranscriber) Transcribe(ctx context.Context, audioPath string) (*Result, error) {
	if _, err := os.Stat(audioPath); err != nil {
		return nil, fmt.Errorf("audio file: %w", err)
	}

	upload, err := g.client.Files.UploadFromPath(ctx, audioPath, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to upload audio file: %w", err)
	}
	defer func() {
		_, _ = g.client.Files.Delete(context.WithoutCancel(ctx), upload.Name, nil)
	}()

	request := genai.NewContentFromParts([]*genai.Part{
		genai.NewPartFromText(g.instructions()),
		genai.NewPartFromURI(upload.URI, upload.MIMEType),
	}, genai.RoleUser)

	resp, err := g.client.Models.GenerateContent(ctx, g.model, []*genai.Content{request}, nil)
	if err != nil {
		return nil, fmt.Errorf("transcription failed: %w", err)
	}

	cues, err := decodeGeminiCues(resp)
	if err != nil {
		return nil, err
	}

	duration, _ := media.GetDuration(ctx, audioPath)
	return &Result{Cues: cues, Language: g.opts.Language, Duration: duration}, nil
}

func (g *GeminiTranscriber) instructions() string {
	lines := []string{
		"Transcribe the speech in this audio phrase by phrase.",
		`Answer with a JSON array of objects {"start": <seconds>, "end": <seconds>, "text": <words spoken>}.`,
		"Times are plain numbers of seconds from the beginning of the audio.",
	}
	if g.opts.Language != "" {
		lines = append(lines, fmt.Sprintf("The speaker uses %s.", g.opts.Language))
	}
	if g.opts.Prompt != "" {
		lines = append(lines, g.opts.Prompt)
	}
	lines = append(lines, "Reply with the array alone.")
	return strings.Join(lines, "\n")
}

// decodeGeminiCues reads the first phrase array out of the model's reply.
// Prose, markdown fences and wrapping objects around the array are skipped.
func decodeGeminiCues(resp *genai.GenerateContentResponse) ([]cue.Cue, error) {
	var reply strings.Builder
	if resp != nil {
		for _, cand := range resp.Candidates {
			if cand == nil || cand.Content == nil {
				continue
			}
			for _, part := range cand.Content.Parts {
				if part != nil {
					reply.WriteString(part.Text)
				}
			}
		}
	}
	text := reply.String()
	if strings.TrimSpace(text) == "" {
		return nil, errors.New("empty response from Gemini")
	}

	phrases, err := findPhrases(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %.200q", err, text)
	}

	cues := make([]cue.Cue, 0, len(phrases))
	for _, p := range phrases {
		if c, ok := spokenCue(p.Start, p.End, p.Text); ok {
			cues = append(cues, c)
		}
	}
	return cues, nil
}

// findPhrases tries every '[' or '{' in text as the start of a JSON value
// and returns the first one holding phrases.
func findPhrases(text string) ([]geminiPhrase, error) {
	for i := 0; i < len(text); i++ {
		if text[i] != '[' && text[i] != '{' {
			continue
		}
		var v any
		if err := json.NewDecoder(strings.NewReader(text[i:])).Decode(&v); err != nil {
			continue
		}
		if phrases, ok := phrasesIn(v); ok {
			return phrases, nil
		}
	}
	return nil, errNoPhrases
}

// phrasesIn accepts an array of phrase objects, or an object with such an
// array somewhere below it. Keys are visited in sorted order.
func phrasesIn(v any) ([]geminiPhrase, bool) {
	switch v := v.(type) {
	case []any:
		phrases := make([]geminiPhrase, 0, len(v))
		timed := len(v) == 0
		for _, item := range v {
			obj, ok := item.(map[string]any)
			if !ok {
				return nil, false
			}
			p := geminiPhrase{Start: seconds(obj["start"]), End: seconds(obj["end"])}
			p.Text, _ = obj["text"].(string)
			if p.Text != "" || p.Start != 0 || p.End != 0 {
				timed = true
			}
			phrases = append(phrases, p)
		}
		return phrases, timed
	case map[string]any:
		for _, key := range slices.Sorted(maps.Keys(v)) {
			if phrases, ok := phrasesIn(v[key]); ok {
				return phrases, true
			}
		}
	}
	return nil, false
}

// models sometimes quote their numbers
func seconds(v any) float64 {
	switch v := v.(type) {
	case float64:
		return v
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err == nil {
			return f
		}
	}
	return 0
}
