package cli

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/mgpai22/cuesync/internal/cue"
	"github.com/mgpai22/cuesync/internal/note"
	"github.com/mgpai22/cuesync/internal/subtitle"
)

var importCmd = &cobra.Command{
	Use:   "import [subtitle_file]",
	Short: "Create a video note from an SRT, VTT or ASS file",
	Long: `Convert a standard subtitle file into a video note. Timestamps in
notes have whole-second precision, so sub-second parts are dropped.

Examples:
  cuesync import talk.srt --video talk.mp4
  cuesync import talk.vtt --video https://example.com/talk.mp4 -o notes/talk.md`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

var exportCmd = &cobra.Command{
	Use:   "export [note]",
	Short: "Write a note's transcript as an SRT, VTT or ASS file",
	Long: `Convert the transcript of a video note into a standard subtitle file.

Examples:
  cuesync export talk.md
  cuesync export talk.md -f vtt -o talk.vtt`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(exportCmd)

	importCmd.Flags().
		String("video", "", "Video path or URL recorded in the note (required)")
	importCmd.Flags().
		String("title", "", "Optional note title")
	_ = importCmd.MarkFlagRequired("video")

	exportCmd.Flags().
		StringP("format", "f", "srt", "Output subtitle format (srt, vtt, ass)")
}

func runImport(cmd *cobra.Command, args []string) error {
	subPath := args[0]
	video, _ := cmd.Flags().GetString("video")
	title, _ := cmd.Flags().GetString("title")

	seq, format, err := subtitle.Open(subPath)
	if err != nil {
		return fmt.Errorf("failed to read subtitles: %w", err)
	}

	if n := subSecondCues(seq); n > 0 {
		logger.Warnw("Sub-second timing dropped", "cues", n)
	}

	outputPath := outputFlag(cmd)
	if outputPath == "" {
		outputPath = swapExt(subPath, ".md")
	}

	fm := note.FrontMatter{Video: video, Title: title}
	if err := note.Write(outputPath, fm, seq); err != nil {
		return err
	}

	logger.Infow("Imported subtitles",
		"input", subPath,
		"format", string(format),
		"cues", seq.Len(),
	)
	absOutput, _ := filepath.Abs(outputPath)
	fmt.Fprintf(cmd.OutOrStdout(), "Note written: %s (%d cues)\n", absOutput, seq.Len())
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	formatStr, _ := cmd.Flags().GetString("format")
	format, err := subtitle.ParseFormat(formatStr)
	if err != nil {
		return err
	}

	_, seq, err := loadNote(args[0])
	if err != nil {
		return err
	}
	if seq.Empty() {
		return fmt.Errorf("%s: %s", args[0], emptyPlaceholder)
	}

	outputPath := outputFlag(cmd)
	if outputPath == "" {
		outputPath = swapExt(args[0], subtitle.GetExtensionForFormat(format))
	}

	if err := subtitle.WriteFile(outputPath, format, seq); err != nil {
		return err
	}

	absOutput, _ := filepath.Abs(outputPath)
	fmt.Fprintf(cmd.OutOrStdout(), "Subtitles written: %s (%d cues)\n", absOutput, seq.Len())
	return nil
}

// number of cues whose bounds do not fall on whole seconds
func subSecondCues(seq cue.Sequence) int {
	count := 0
	for _, c := range seq.Cues() {
		if c.Start%time.Second != 0 || c.End%time.Second != 0 {
			count++
		}
	}
	return count
}
