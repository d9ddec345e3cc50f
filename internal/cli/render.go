package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"

	"github.com/mgpai22/cuesync/internal/cue"
)

// shown in place of a transcript that has no cues
const emptyPlaceholder = "no subtitle now, you can add it in the note"

const (
	ansiReset  = "\x1b[0m"
	ansiGreen  = "\x1b[32m"
	ansiDim    = "\x1b[2m"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := 0; i < columns; i++ {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}

// one row per cue: number, bounds, word count, content
func renderCueTable(seq cue.Sequence) string {
	rows := make([][]string, 0, seq.Len())
	for i, c := range seq.Cues() {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			cue.FormatTimestamp(c.Start),
			cue.FormatTimestamp(c.End),
			strconv.Itoa(len(c.Words())),
			c.Content,
		})
	}
	return renderTable(
		[]string{"#", "Start", "End", "Words", "Content"},
		rows,
		[]columnAlignment{alignRight, alignRight, alignRight, alignRight, alignLeft},
	)
}

// like renderCueTable but with each cue's status instead of its word count
func renderStatusTable(seq cue.Sequence, statuses []cue.Status) string {
	rows := make([][]string, 0, seq.Len())
	for i, c := range seq.Cues() {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			cue.FormatTimestamp(c.Start),
			cue.FormatTimestamp(c.End),
			statuses[i].String(),
			c.Content,
		})
	}
	return renderTable(
		[]string{"#", "Start", "End", "Status", "Content"},
		rows,
		[]columnAlignment{alignRight, alignRight, alignRight, alignLeft, alignLeft},
	)
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func colorize(s, color string, enabled bool) string {
	if !enabled || color == "" {
		return s
	}
	return color + s + ansiReset
}

// single-line rendering of an active cue change
func renderChangeLine(seq cue.Sequence, index int, at string, color bool) string {
	prefix := fmt.Sprintf("[%s]", at)
	if index == cue.None {
		return colorize(prefix+" (no active cue)", ansiDim, color)
	}
	c := seq.At(index)
	content := strings.ReplaceAll(c.Content, "\n", " / ")
	line := fmt.Sprintf("%s #%d %s --> %s  %s",
		prefix,
		index+1,
		cue.FormatTimestamp(c.Start),
		cue.FormatTimestamp(c.End),
		content,
	)
	return colorize(line, ansiGreen, color)
}
