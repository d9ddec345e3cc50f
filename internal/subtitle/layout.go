package subtitle

import (
	"cmp"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mgpai22/cuesync/internal/cue"
)

// Layout bounds how much text a cue carries and how long it stays up.
type Layout struct {
	LineRunes int // widest line before wrapping
	Lines     int
	MinLength time.Duration
	MaxLength time.Duration
}

func DefaultLayout() Layout {
	return Layout{
		LineRunes: 42,
		Lines:     2,
		MinLength: time.Second,
		MaxLength: 7 * time.Second,
	}
}

// Apply orders cues by start, drops blank ones and breaks any cue that is too
// wordy or too long into consecutive pieces. Piece boundaries land on whole
// seconds.
func (l Layout) Apply(cues []cue.Cue) cue.Sequence {
	ordered := slices.Clone(cues)
	slices.SortStableFunc(ordered, func(a, b cue.Cue) int {
		return cmp.Compare(a.Start, b.Start)
	})

	var out []cue.Cue
	for _, c := range ordered {
		words := c.Words()
		if len(words) == 0 {
			continue
		}
		if c.End < c.Start {
			c.End = c.Start
		}
		out = append(out, l.pieces(c, words)...)
	}
	return cue.NewSequence(out...)
}

func (l Layout) pieces(c cue.Cue, words []string) []cue.Cue {
	text := strings.Join(words, " ")
	span := c.End - c.Start

	n := max(
		ceilDiv(utf8.RuneCountInString(text), l.LineRunes*l.Lines),
		ceilDiv(int(span), int(l.MaxLength)),
		1,
	)
	perPiece := ceilDiv(len(words), n)
	n = ceilDiv(len(words), perPiece)

	if n == 1 {
		end := max(c.End, c.Start+l.MinLength)
		return []cue.Cue{cue.New(c.Start, end, l.wrap(text))}
	}

	out := make([]cue.Cue, 0, n)
	start := c.Start
	for i := 1; i <= n; i++ {
		end := c.End
		if i < n {
			end = max((c.Start + span*time.Duration(i)/time.Duration(n)).Truncate(time.Second), start)
		}
		take := min(perPiece, len(words))
		out = append(out, cue.New(start, end, l.wrap(strings.Join(words[:take], " "))))
		words = words[take:]
		start = end
	}
	return out
}

// wrap breaks text onto two lines at the word gap that keeps the longer line
// shortest.
func (l Layout) wrap(text string) string {
	total := utf8.RuneCountInString(text)
	if l.Lines < 2 || total <= l.LineRunes {
		return text
	}

	words := strings.Fields(text)
	cut, widest := 0, total
	left := -1
	for i, w := range words[:len(words)-1] {
		left += utf8.RuneCountInString(w) + 1
		if width := max(left, total-left-1); width < widest {
			cut, widest = i+1, width
		}
	}
	if cut == 0 {
		return text
	}
	return strings.Join(words[:cut], " ") + "\n" + strings.Join(words[cut:], " ")
}

func ceilDiv(a, b int) int {
	if b <= 0 {
		return 1
	}
	return (a + b - 1) / b
}
