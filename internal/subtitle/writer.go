package subtitle

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mgpai22/cuesync/internal/cue"
)

// SubRip format
type SRTEncoder struct{}

// WebVTT format
type VTTEncoder struct{}

// Advanced SubStation Alpha format
type ASSEncoder struct {
	Title    string
	FontName string
	FontSize int
}

func NewEncoder(format Format) (Encoder, error) {
	switch format {
	case FormatSRT:
		return &SRTEncoder{}, nil
	case FormatVTT:
		return &VTTEncoder{}, nil
	case FormatASS:
		return &ASSEncoder{
			Title:    "cuesync transcript",
			FontName: "Arial",
			FontSize: 20,
		}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

// WriteFile encodes seq in format to path, creating parent directories.
func WriteFile(path string, format Format, seq cue.Sequence) error {
	enc, err := NewEncoder(format)
	if err != nil {
		return err
	}
	if err := ensureDir(path); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create subtitle file: %w", err)
	}
	if err := enc.Encode(file, seq); err != nil {
		_ = file.Close()
		return fmt.Errorf("failed to write subtitle file: %w", err)
	}
	return file.Close()
}

func (e *SRTEncoder) Encode(w io.Writer, seq cue.Sequence) error {
	bw := bufio.NewWriter(w)
	for i, c := range seq.Cues() {
		// index (1-based)
		fmt.Fprintf(bw, "%d\n", i+1)
		fmt.Fprintf(bw, "%s --> %s\n", formatSRTTime(c.Start), formatSRTTime(c.End))
		bw.WriteString(c.Content)
		bw.WriteString("\n\n")
	}
	return bw.Flush()
}

func (e *VTTEncoder) Encode(w io.Writer, seq cue.Sequence) error {
	bw := bufio.NewWriter(w)
	bw.WriteString("WEBVTT\n\n")
	for i, c := range seq.Cues() {
		fmt.Fprintf(bw, "%d\n", i+1)
		fmt.Fprintf(bw, "%s --> %s\n", formatVTTTime(c.Start), formatVTTTime(c.End))
		bw.WriteString(c.Content)
		bw.WriteString("\n\n")
	}
	return bw.Flush()
}

func (e *ASSEncoder) Encode(w io.Writer, seq cue.Sequence) error {
	bw := bufio.NewWriter(w)

	// script info section
	bw.WriteString("[Script Info]\n")
	fmt.Fprintf(bw, "Title: %s\n", e.Title)
	bw.WriteString("ScriptType: v4.00+\n")
	bw.WriteString("Collisions: Normal\n")
	bw.WriteString("PlayDepth: 0\n\n")

	// v4+ styles section
	bw.WriteString("[V4+ Styles]\n")
	bw.WriteString("Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding\n")
	fmt.Fprintf(bw, "Style: Default,%s,%d,&H00FFFFFF,&H000000FF,&H00000000,&H00000000,0,0,0,0,100,100,0,0,1,2,2,2,10,10,10,1\n\n",
		e.FontName, e.FontSize)

	// events section
	bw.WriteString("[Events]\n")
	bw.WriteString("Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text\n")
	for _, c := range seq.Cues() {
		fmt.Fprintf(bw, "Dialogue: 0,%s,%s,Default,,0,0,0,,%s\n",
			formatASSTime(c.Start),
			formatASSTime(c.End),
			escapeASSText(c.Content))
	}
	return bw.Flush()
}

func formatSRTTime(d time.Duration) string {
	h, m, s, ms := clockParts(d)
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms)
}

func formatVTTTime(d time.Duration) string {
	h, m, s, ms := clockParts(d)
	return fmt.Sprintf("%02d:%02d:%02d.%03d", h, m, s, ms)
}

func formatASSTime(d time.Duration) string {
	h, m, s, ms := clockParts(d)
	return fmt.Sprintf("%d:%02d:%02d.%02d", h, m, s, ms/10)
}

func clockParts(d time.Duration) (hours, minutes, seconds, millis int) {
	total := int(d.Milliseconds())
	return total / 3600000, total / 60000 % 60, total / 1000 % 60, total % 1000
}

func escapeASSText(text string) string {
	return strings.ReplaceAll(text, "\n", "\\N")
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}
