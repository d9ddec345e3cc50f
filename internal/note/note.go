package note

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mgpai22/cuesync/internal/cue"
	"gopkg.in/yaml.v3"
)

const (
	fence       = "---"
	videoPrefix = "---\nvideo:"
)

// ErrNotVideoNote is returned for notes that do not open with a video
// front-matter key.
var ErrNotVideoNote = errors.New("note is not a video note")

// front-matter keys read from a video note
type FrontMatter struct {
	Video string `yaml:"video"`
	Title string `yaml:"title,omitempty"`
}

// parsed video note
type Note struct {
	Path        string
	Name        string
	FrontMatter FrontMatter
	Transcript  string // raw transcript blocks after the front-matter
}

// Load reads and parses the note at path.
func Load(path string) (*Note, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read note: %w", err)
	}
	n, err := Parse(filepath.Base(path), string(data))
	if err != nil {
		return nil, err
	}
	n.Path = path
	return n, nil
}

// Parse extracts the front-matter and transcript from note content. Only
// content starting with "---\nvideo:" is a video note.
func Parse(name, content string) (*Note, error) {
	content = strings.TrimPrefix(content, "\ufeff")
	content = strings.ReplaceAll(content, "\r\n", "\n")

	if !strings.HasPrefix(content, videoPrefix) {
		return nil, fmt.Errorf("%s: %w", name, ErrNotVideoNote)
	}

	end := strings.Index(content[len(fence):], fence)
	if end < 0 {
		return nil, fmt.Errorf("%s: front-matter is not closed", name)
	}
	end += len(fence)

	raw := strings.TrimSpace(content[len(fence):end])
	var fm FrontMatter
	if err := yaml.Unmarshal([]byte(raw), &fm); err != nil {
		return nil, fmt.Errorf("failed to parse front-matter of %s: %w", name, err)
	}
	fm.Video = strings.TrimSpace(fm.Video)
	if fm.Video == "" {
		return nil, fmt.Errorf("%s: %w", name, ErrNotVideoNote)
	}

	return &Note{
		Name:        name,
		FrontMatter: fm,
		Transcript:  strings.TrimSpace(content[end+len(fence):]),
	}, nil
}

// Cues parses the transcript with p.
func (n *Note) Cues(p *cue.Parser) cue.Sequence {
	if p == nil {
		return cue.Parse(n.Transcript)
	}
	return p.Parse(n.Transcript)
}

// Dir is the directory holding the note, or "." for notes parsed from memory.
func (n *Note) Dir() string {
	if n.Path == "" {
		return "."
	}
	return filepath.Dir(n.Path)
}

// Render writes a video note for fm with seq as its transcript.
func Render(fm FrontMatter, seq cue.Sequence) ([]byte, error) {
	if strings.TrimSpace(fm.Video) == "" {
		return nil, fmt.Errorf("video path is required")
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(fm); err != nil {
		return nil, fmt.Errorf("failed to encode front-matter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode front-matter: %w", err)
	}

	var out bytes.Buffer
	out.WriteString(fence + "\n")
	out.Write(buf.Bytes())
	out.WriteString(fence + "\n\n")
	if !seq.Empty() {
		out.WriteString(cue.Format(seq))
		out.WriteString("\n")
	}
	return out.Bytes(), nil
}

// Write renders the note and writes it to path, creating parent directories.
func Write(path string, fm FrontMatter, seq cue.Sequence) error {
	data, err := Render(fm, seq)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create note directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write note: %w", err)
	}
	return nil
}
