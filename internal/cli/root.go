package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/mgpai22/cuesync/internal/config"
	"github.com/mgpai22/cuesync/internal/logging"
)

var (
	verbose    bool
	configPath string
	vaultDir   string
	logger     *logging.Logger
	cfg        *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "cuesync",
	Short: "Follow video transcripts kept in markdown notes",
	Long: `cuesync reads video notes: markdown files whose front-matter names a
video and whose body is a transcript of timed blocks

  0:05 --> 0:09
  what is said between five and nine seconds

It shows which block is active at any playback position, follows a
simulated playback, converts between notes and SRT/VTT/ASS subtitles and
can generate a transcript note from audio or video using AI transcription.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = logging.NewLogger(verbose)

		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if vaultDir != "" {
			loaded.VaultDir = vaultDir
		}
		cfg = loaded

		logger.Debugw("configuration loaded",
			"path", cfg.Path(),
			"vault", cfg.VaultDir,
		)
		return nil
	},
}

func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the CLI with ctx, so long commands stop on cancel.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().
		BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		StringVar(&configPath, "config", "", "Config file (default is $XDG_CONFIG_HOME/cuesync/config.yaml)")
	rootCmd.PersistentFlags().
		StringVar(&vaultDir, "vault", "", "Vault root used to resolve relative video paths")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output file path")
}

func outputFlag(cmd *cobra.Command) string {
	out, _ := cmd.Flags().GetString("output")
	return out
}
