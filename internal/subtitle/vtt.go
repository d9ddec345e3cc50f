package subtitle

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/mgpai22/cuesync/internal/cue"
)

var (
	vttTimestampRegex = regexp.MustCompile(
		`(\d{1,2}):(\d{2}):(\d{2})\.(\d{3})\s*-->\s*(\d{1,2}):(\d{2}):(\d{2})\.(\d{3})`,
	)
	vttShortTimestampRegex = regexp.MustCompile(
		`^\s*(\d{2}):(\d{2})\.(\d{3})\s*-->\s*(\d{2}):(\d{2})\.(\d{3})`,
	)
	vttTagRegex = regexp.MustCompile(`</?[a-zA-Z][^>]*>|<\d{2}:[^>]*>`)
)

func decodeVTT(r io.Reader) ([]cue.Cue, error) {
	var cues []cue.Cue
	scanner := bufio.NewScanner(r)

	var (
		current   *cue.Cue
		textLines []string
		lineNum   int
		skipBlock bool
	)

	flush := func() {
		if current != nil && len(textLines) > 0 {
			cues = append(cues, cue.New(current.Start, current.End, strings.Join(textLines, "\n")))
		}
		current = nil
		textLines = nil
	}

	for scanner.Scan() {
		line := scanner.Text()
		lineNum++

		if lineNum == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
			if strings.HasPrefix(strings.TrimSpace(line), "WEBVTT") {
				skipBlock = true
				continue
			}
		}

		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			flush()
			skipBlock = false
			continue
		}
		if skipBlock {
			continue
		}

		if current == nil {
			if strings.HasPrefix(trimmed, "NOTE") ||
				strings.HasPrefix(trimmed, "STYLE") ||
				strings.HasPrefix(trimmed, "REGION") {
				skipBlock = true
				continue
			}
		}

		if matches := vttTimestampRegex.FindStringSubmatch(line); len(matches) == 9 {
			flush()
			start, end, err := parseRange(matches[1:])
			if err != nil {
				return nil, fmt.Errorf("invalid timestamp at line %d: %w", lineNum, err)
			}
			current = &cue.Cue{Start: start, End: end}
			continue
		}

		if matches := vttShortTimestampRegex.FindStringSubmatch(line); len(matches) == 7 {
			flush()
			start, end, err := parseRange([]string{
				"0", matches[1], matches[2], matches[3],
				"0", matches[4], matches[5], matches[6],
			})
			if err != nil {
				return nil, fmt.Errorf("invalid timestamp at line %d: %w", lineNum, err)
			}
			current = &cue.Cue{Start: start, End: end}
			continue
		}

		// cue identifiers precede the timing line and are ignored
		if current != nil {
			textLines = append(textLines, stripVTTTags(line))
		}
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading VTT file: %w", err)
	}
	return cues, nil
}

func stripVTTTags(s string) string {
	return strings.TrimSpace(vttTagRegex.ReplaceAllString(s, ""))
}
