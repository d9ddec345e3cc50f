package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mgpai22/cuesync/internal/cue"
)

var showCmd = &cobra.Command{
	Use:   "show [note]",
	Short: "Show the video and transcript cues of a note",
	Long: `Parse a video note and print the resolved video path followed by a
table of its transcript cues.

Examples:
  cuesync show lectures/week1.md
  cuesync show talk.md --vault ~/notes`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	n, seq, err := loadNote(args[0])
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	video, err := resolver().Resolve(n)
	if err != nil {
		logger.Warnw("Video could not be resolved", "note", n.Path, "error", err)
		video = n.FrontMatter.Video + " (unresolved)"
	}

	if n.FrontMatter.Title != "" {
		fmt.Fprintf(out, "Title: %s\n", n.FrontMatter.Title)
	}
	fmt.Fprintf(out, "Video: %s\n", video)

	if seq.Empty() {
		fmt.Fprintln(out, emptyPlaceholder)
		return nil
	}

	fmt.Fprintf(out, "Cues:  %d (%s)\n", seq.Len(), cue.FormatTimestamp(seq.Duration()))
	fmt.Fprintln(out, renderCueTable(seq))
	return nil
}
