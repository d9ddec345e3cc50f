package subtitle

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/mgpai22/cuesync/internal/cue"
)

var assOverrideRegex = regexp.MustCompile(`\{[^}]*\}`)

// layout of the [Events] Format line
type assColumns struct {
	count int
	start int
	end   int
	text  int
}

// decodeASS reads Dialogue events. Styling and override tags are dropped,
// only timing and plain text survive.
func decodeASS(r io.Reader) ([]cue.Cue, error) {
	var cues []cue.Cue
	scanner := bufio.NewScanner(r)

	inEvents := false
	var cols *assColumns
	lineNum := 0

	for scanner.Scan() {
		line := scanner.Text()
		lineNum++

		if lineNum == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
			section := strings.ToLower(strings.Trim(trimmed, "[]"))
			inEvents = section == "events"
			continue
		}
		if !inEvents {
			continue
		}

		if rest, ok := strings.CutPrefix(trimmed, "Format:"); ok {
			parsed, err := parseASSColumns(rest)
			if err != nil {
				return nil, fmt.Errorf("invalid Format at line %d: %w", lineNum, err)
			}
			cols = parsed
			continue
		}

		rest, ok := strings.CutPrefix(trimmed, "Dialogue:")
		if !ok {
			continue
		}
		if cols == nil {
			return nil, fmt.Errorf("ASS file missing Format line in [Events] section")
		}

		fields := splitASSFields(strings.TrimSpace(rest), cols.count)
		if len(fields) < cols.count {
			return nil, fmt.Errorf(
				"failed to parse Dialogue at line %d: expected %d fields, got %d",
				lineNum,
				cols.count,
				len(fields),
			)
		}

		cues = append(cues, cue.New(
			parseASSTimestamp(fields[cols.start]),
			parseASSTimestamp(fields[cols.end]),
			assPlainText(fields[cols.text]),
		))
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading ASS file: %w", err)
	}
	return cues, nil
}

func parseASSColumns(format string) (*assColumns, error) {
	columns := strings.Split(format, ",")
	cols := &assColumns{count: len(columns), start: -1, end: -1, text: -1}
	for i, col := range columns {
		switch strings.ToLower(strings.TrimSpace(col)) {
		case "start":
			cols.start = i
		case "end":
			cols.end = i
		case "text":
			cols.text = i
		}
	}
	if cols.start < 0 || cols.end < 0 || cols.text < 0 {
		return nil, fmt.Errorf("need Start, End and Text columns, got %q", format)
	}
	return cols, nil
}

// splits into at most numFields, the last field keeps its commas
func splitASSFields(content string, numFields int) []string {
	if numFields <= 0 {
		return nil
	}
	return strings.SplitN(content, ",", numFields)
}

func assPlainText(text string) string {
	text = assOverrideRegex.ReplaceAllString(text, "")
	text = strings.ReplaceAll(text, "\\N", "\n")
	text = strings.ReplaceAll(text, "\\n", "\n")
	text = strings.ReplaceAll(text, "\\h", " ")
	return text
}

// H:MM:SS.cc, malformed values read as zero
func parseASSTimestamp(ts string) time.Duration {
	parts := strings.Split(strings.TrimSpace(ts), ":")
	if len(parts) != 3 {
		return 0
	}

	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0
	}

	secStr, centiStr, _ := strings.Cut(parts[2], ".")
	seconds, err := strconv.Atoi(secStr)
	if err != nil {
		return 0
	}
	centis := 0
	if centiStr != "" {
		if centis, err = strconv.Atoi(centiStr); err != nil {
			return 0
		}
	}

	return time.Duration(hours)*time.Hour +
		time.Duration(minutes)*time.Minute +
		time.Duration(seconds)*time.Second +
		time.Duration(centis)*10*time.Millisecond
}
