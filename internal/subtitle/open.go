package subtitle

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mgpai22/cuesync/internal/cue"
)

// Open reads a standard subtitle file, picking the format from its extension.
func Open(path string) (cue.Sequence, Format, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return cue.Sequence{}, "", err
	}

	file, err := os.Open(path)
	if err != nil {
		return cue.Sequence{}, "", fmt.Errorf("failed to open %s file: %w", strings.ToUpper(string(format)), err)
	}
	defer func() {
		_ = file.Close()
	}()

	seq, err := Decode(file, format)
	if err != nil {
		return cue.Sequence{}, "", err
	}
	return seq, format, nil
}

// Decode reads cues of the given format from r. Entries without text are
// skipped since a cue needs content.
func Decode(r io.Reader, format Format) (cue.Sequence, error) {
	var decode decodeFunc
	switch format {
	case FormatSRT:
		decode = decodeSRT
	case FormatVTT:
		decode = decodeVTT
	case FormatASS:
		decode = decodeASS
	default:
		return cue.Sequence{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}

	cues, err := decode(r)
	if err != nil {
		return cue.Sequence{}, err
	}
	kept := cues[:0]
	for _, c := range cues {
		if c.Content != "" {
			kept = append(kept, c)
		}
	}
	return cue.NewSequence(kept...), nil
}

// subtitle format based on file extension
func FormatFromPath(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".srt":
		return FormatSRT, nil
	case ".vtt":
		return FormatVTT, nil
	case ".ass", ".ssa":
		return FormatASS, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
}

// ParseFormat accepts a format name such as "srt" or ".VTT".
func ParseFormat(s string) (Format, error) {
	switch Format(strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), ".")) {
	case FormatSRT:
		return FormatSRT, nil
	case FormatVTT:
		return FormatVTT, nil
	case FormatASS, "ssa":
		return FormatASS, nil
	default:
		return "", fmt.Errorf("%w %q: use srt, vtt, or ass", ErrUnsupportedFormat, s)
	}
}

// file extension for a format
func GetExtensionForFormat(format Format) string {
	switch format {
	case FormatVTT:
		return ".vtt"
	case FormatASS:
		return ".ass"
	default:
		return ".srt"
	}
}
