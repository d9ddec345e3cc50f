package cue

import (
	"fmt"
	"strings"
	"time"
)

// FormatTimestamp renders d as "m:ss", dropping sub-second precision.
func FormatTimestamp(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	seconds := int64(d / time.Second)
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// Format writes seq back into the transcript block format read by Parse.
func Format(seq Sequence) string {
	var sb strings.Builder
	for i, c := range seq.cues {
		if i > 0 {
			sb.WriteString(blockSeparator)
		}
		sb.WriteString(FormatTimestamp(c.Start))
		sb.WriteString(rangeSeparator)
		sb.WriteString(FormatTimestamp(c.End))
		sb.WriteString("\n")
		sb.WriteString(flattenBlankLines(c.Content))
	}
	return sb.String()
}

// content may not contain a blank line or the range arrow, either would
// split the block differently on the way back in
func flattenBlankLines(s string) string {
	lines := strings.Split(s, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		kept = append(kept, strings.ReplaceAll(line, rangeSeparator, " -> "))
	}
	return strings.Join(kept, "\n")
}
