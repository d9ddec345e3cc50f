package cue

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/mgpai22/cuesync/internal/logging"
)

const (
	blockSeparator = "\n\n"
	rangeSeparator = " --> "
)

// Parser turns raw transcript text into a Sequence. Malformed input never
// fails the parse; anomalies go to the logger.
type Parser struct {
	logger *logging.Logger
}

func NewParser(logger *logging.Logger) *Parser {
	return &Parser{logger: logging.OrNop(logger).Named("cue")}
}

// Parse parses raw with a parser that discards diagnostics.
func Parse(raw string) Sequence {
	return NewParser(nil).Parse(raw)
}

// Parse splits raw into blank-line separated blocks of the form
//
//	m:ss --> m:ss
//	content lines...
//
// Blocks without a start, end or content are dropped. Accepted cues keep
// their source order.
func (p *Parser) Parse(raw string) Sequence {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	if strings.TrimSpace(raw) == "" {
		return Sequence{}
	}

	blocks := strings.Split(raw, blockSeparator)
	cues := make([]Cue, 0, len(blocks))
	for i, block := range blocks {
		c, ok := p.parseBlock(i+1, block)
		if !ok {
			continue
		}
		cues = append(cues, c)
	}

	seq := NewSequence(cues...)
	if !seq.Ordered() {
		p.logger.Warnw("cues are not in start order, active cue lookups may be surprising",
			"cues", seq.Len(),
		)
	}
	p.logger.Debugw("parsed transcript",
		"blocks", len(blocks),
		"cues", seq.Len(),
	)
	return seq
}

func (p *Parser) parseBlock(num int, block string) (Cue, bool) {
	if strings.TrimSpace(block) == "" {
		return Cue{}, false
	}

	parts := strings.Split(block, rangeSeparator)
	if len(parts) < 2 {
		p.logger.Debugw("dropping block without time range", "block", num)
		return Cue{}, false
	}

	start := strings.TrimSpace(parts[0])
	endLine, body, _ := strings.Cut(parts[1], "\n")
	end := strings.TrimSpace(endLine)
	content := strings.TrimSpace(body)

	if start == "" || end == "" || content == "" {
		p.logger.Debugw("dropping incomplete block",
			"block", num,
			"has_start", start != "",
			"has_end", end != "",
			"has_content", content != "",
		)
		return Cue{}, false
	}

	startTime := p.parseTimestamp(num, start)
	endTime := p.parseTimestamp(num, end)
	if endTime < startTime {
		p.logger.Infow("cue ends before it starts, clamping end to start",
			"block", num,
			"start", start,
			"end", end,
		)
		endTime = startTime
	}

	return Cue{Start: startTime, End: endTime, Content: content}, true
}

func (p *Parser) parseTimestamp(num int, s string) time.Duration {
	d, exact := parseTimestamp(s)
	if !exact {
		p.logger.Infow("malformed timestamp, unreadable parts count as zero",
			"block", num,
			"timestamp", s,
			"parsed", FormatTimestamp(d),
		)
	}
	return d
}

// ParseTimestamp converts "minutes:seconds" into a duration. Missing or
// malformed components count as zero; it never fails.
func ParseTimestamp(s string) time.Duration {
	d, _ := parseTimestamp(s)
	return d
}

// components are bounded so the total always fits a time.Duration
const (
	maxMinutes = math.MaxInt64 / int64(time.Minute)
	maxSeconds = math.MaxInt64 / int64(time.Second)
)

func parseTimestamp(s string) (time.Duration, bool) {
	fields := strings.Split(s, ":")
	minutes, okMin := parseComponent(fields[0], maxMinutes)
	var seconds int64
	okSec := false
	if len(fields) > 1 {
		seconds, okSec = parseComponent(fields[1], maxSeconds)
	}

	total := time.Duration(minutes) * time.Minute
	if time.Duration(seconds) > (math.MaxInt64-total)/time.Second {
		seconds, okSec = 0, false
	}
	return total + time.Duration(seconds)*time.Second,
		okMin && okSec && len(fields) == 2
}

// parseComponent reads a whole non-negative number no larger than limit.
// Like a lenient integer parse it accepts a leading run of digits ("30.5"
// reads as 30), but reports that the input was not exact. Negative or
// out-of-range numbers read as 0.
func parseComponent(s string, limit int64) (int64, bool) {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		if n < 0 || n > limit {
			return 0, false
		}
		return n, true
	}

	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil || n > limit {
		return 0, false
	}
	return n, false
}
