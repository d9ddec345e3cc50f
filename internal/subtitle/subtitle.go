package subtitle

import (
	"errors"
	"io"

	"github.com/mgpai22/cuesync/internal/cue"
)

// represents supported subtitle formats
type Format string

const (
	FormatSRT Format = "srt"
	FormatVTT Format = "vtt"
	FormatASS Format = "ass"
)

var ErrUnsupportedFormat = errors.New("unsupported subtitle format")

// interface for writing cues in a standard subtitle format
type Encoder interface {
	Encode(w io.Writer, seq cue.Sequence) error
}

type decodeFunc func(r io.Reader) ([]cue.Cue, error)
