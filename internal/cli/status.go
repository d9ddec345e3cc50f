package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mgpai22/cuesync/internal/cue"
	"github.com/mgpai22/cuesync/internal/playback"
)

var statusCmd = &cobra.Command{
	Use:   "status [note]",
	Short: "Show which cue is active at a playback position",
	Long: `Report the active cue of a note at the given position and the status
(past, active or future) of every cue.

Examples:
  cuesync status talk.md --at 1:05
  cuesync status talk.md --at 65.5`,
	Args: cobra.ExactArgs(1),
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().
		String("at", "0:00", "Playback position (m:ss, h:mm:ss or seconds)")
}

func runStatus(cmd *cobra.Command, args []string) error {
	atStr, _ := cmd.Flags().GetString("at")
	at, err := parseTimeFlag(atStr)
	if err != nil {
		return fmt.Errorf("invalid --at: %w", err)
	}

	_, seq, err := loadNote(args[0])
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if seq.Empty() {
		fmt.Fprintln(out, emptyPlaceholder)
		return nil
	}

	ctrl := playback.NewController(logger)
	ctrl.Load(seq)
	ctrl.Update(at)
	snap := ctrl.Snapshot()

	if snap.Active == cue.None {
		fmt.Fprintf(out, "At %s: no active cue\n", cue.FormatTimestamp(snap.Time))
	} else {
		fmt.Fprintf(out, "At %s: cue #%d is active\n", cue.FormatTimestamp(snap.Time), snap.Active+1)
	}
	fmt.Fprintln(out, renderStatusTable(snap.Cues, snap.Statuses))
	return nil
}
