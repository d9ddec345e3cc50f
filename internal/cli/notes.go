package cli

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mgpai22/cuesync/internal/cue"
	"github.com/mgpai22/cuesync/internal/note"
)

// loads a video note and parses its transcript
func loadNote(path string) (*note.Note, cue.Sequence, error) {
	n, err := note.Load(path)
	if err != nil {
		if errors.Is(err, note.ErrNotVideoNote) {
			return nil, cue.Sequence{}, fmt.Errorf("%w (front-matter must start with \"video:\")", err)
		}
		return nil, cue.Sequence{}, err
	}
	return n, n.Cues(cue.NewParser(logger)), nil
}

func resolver() note.Resolver {
	return note.VaultResolver{Root: cfg.VaultDir}
}

// parseTimeFlag accepts "m:ss", "h:mm:ss" or plain seconds ("12.5").
// Unlike transcript timestamps it rejects anything malformed.
func parseTimeFlag(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty time")
	}

	if !strings.Contains(s, ":") {
		seconds, err := strconv.ParseFloat(s, 64)
		if err != nil || seconds < 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
			return 0, fmt.Errorf("invalid time %q", s)
		}
		return time.Duration(math.Round(seconds * 1000)) * time.Millisecond, nil
	}

	parts := strings.Split(s, ":")
	if len(parts) > 3 {
		return 0, fmt.Errorf("invalid time %q", s)
	}

	var total time.Duration
	for i, part := range parts {
		unit := time.Second
		switch len(parts) - i {
		case 2:
			unit = time.Minute
		case 3:
			unit = time.Hour
		}

		if i == len(parts)-1 {
			seconds, err := strconv.ParseFloat(part, 64)
			if err != nil || seconds < 0 || seconds >= 60 || math.IsNaN(seconds) {
				return 0, fmt.Errorf("invalid seconds in %q", s)
			}
			total += time.Duration(math.Round(seconds*1000)) * time.Millisecond
			continue
		}

		n, err := strconv.Atoi(part)
		if err != nil || n < 0 || (i > 0 && n > 59) {
			return 0, fmt.Errorf("invalid time %q", s)
		}
		total += time.Duration(n) * unit
	}
	return total, nil
}

// replaces the extension of path with ext
func swapExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}
