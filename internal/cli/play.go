package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mgpai22/cuesync/internal/cue"
	"github.com/mgpai22/cuesync/internal/media"
	"github.com/mgpai22/cuesync/internal/note"
	"github.com/mgpai22/cuesync/internal/playback"
)

var playCmd = &cobra.Command{
	Use:   "play [note]",
	Short: "Follow a simulated playback of the note's video",
	Long: `Simulate playing the note's video and print a line every time the
active transcript cue changes.

Playback runs until --until, which defaults to the video's duration as
reported by ffprobe, or the end of the last cue when the video cannot be
probed.

Examples:
  cuesync play talk.md
  cuesync play talk.md --from 2:00 --rate 4
  cuesync play talk.md --until 0:30 --interval 100ms`,
	Args: cobra.ExactArgs(1),
	RunE: runPlay,
}

func init() {
	rootCmd.AddCommand(playCmd)

	playCmd.Flags().
		String("from", "0:00", "Start position (m:ss, h:mm:ss or seconds)")
	playCmd.Flags().
		String("until", "", "Stop position (default: media duration)")
	playCmd.Flags().
		Float64("rate", 0, "Playback rate (default from config)")
	playCmd.Flags().
		Duration("interval", 0, "Wall time between time updates (default from config)")
}

func runPlay(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	n, seq, err := loadNote(args[0])
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	clock, err := playClock(ctx, cmd, n, seq)
	if err != nil {
		return err
	}

	if seq.Empty() {
		fmt.Fprintln(out, emptyPlaceholder)
		return nil
	}

	color := shouldColorize(out)
	ctrl := playback.NewController(logger)
	ctrl.Load(seq)
	ctrl.OnChange(func(change playback.Change) {
		fmt.Fprintln(out, renderChangeLine(seq, change.Index, cue.FormatTimestamp(change.Time), color))
	})

	logger.Infow("Starting playback",
		"from", clock.From.String(),
		"until", clock.Until.String(),
		"rate", clock.Rate,
		"interval", clock.Interval.String(),
	)

	events := make(chan playback.Event)
	runErr := make(chan error, 1)
	go func() {
		runErr <- clock.Run(ctx, events)
	}()

	followErr := ctrl.Follow(ctx, events)
	if err := <-runErr; err != nil {
		return fmt.Errorf("playback stopped: %w", err)
	}
	if followErr != nil {
		return fmt.Errorf("playback stopped: %w", followErr)
	}

	logger.Infow("Playback finished", "position", ctrl.Time().String())
	return nil
}

// builds the clock from flags, falling back to the config file
func playClock(
	ctx context.Context,
	cmd *cobra.Command,
	n *note.Note,
	seq cue.Sequence,
) (playback.Clock, error) {
	fromStr, _ := cmd.Flags().GetString("from")
	untilStr, _ := cmd.Flags().GetString("until")
	rate, _ := cmd.Flags().GetFloat64("rate")
	interval, _ := cmd.Flags().GetDuration("interval")

	from, err := parseTimeFlag(fromStr)
	if err != nil {
		return playback.Clock{}, fmt.Errorf("invalid --from: %w", err)
	}

	var until time.Duration
	if untilStr != "" {
		if until, err = parseTimeFlag(untilStr); err != nil {
			return playback.Clock{}, fmt.Errorf("invalid --until: %w", err)
		}
	} else {
		until = mediaLength(ctx, n, seq)
	}

	if rate == 0 {
		rate = cfg.Playback.Rate
	}
	if interval == 0 {
		interval = cfg.Playback.Interval
	}

	clock := playback.Clock{
		From:     from,
		Until:    until,
		Interval: interval,
		Rate:     rate,
	}
	if clock.Positions() == nil {
		return playback.Clock{}, fmt.Errorf("invalid playback settings: rate %v, interval %v", rate, interval)
	}
	return clock, nil
}

// duration of the note's video, or the end of its last cue
func mediaLength(ctx context.Context, n *note.Note, seq cue.Sequence) time.Duration {
	path, err := resolver().Resolve(n)
	if err == nil && media.IsMediaFile(path) {
		d, err := media.GetDuration(ctx, path)
		if err == nil {
			return d
		}
		logger.Debugw("Could not probe video, using transcript length", "video", path, "error", err)
	}
	return seq.Duration()
}
