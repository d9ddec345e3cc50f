package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mgpai22/cuesync/internal/config"
	"github.com/mgpai22/cuesync/internal/media"
	"github.com/mgpai22/cuesync/internal/note"
	"github.com/mgpai22/cuesync/internal/subtitle"
	"github.com/mgpai22/cuesync/internal/transcribe"
)

var generateCmd = &cobra.Command{
	Use:   "generate [media_file]",
	Short: "Generate a transcript note for an audio or video file",
	Long: `Generate a video note with a timed transcript for the specified audio
or video file using AI transcription.

The audio track is extracted and compressed, split into chunks (default 1
minute) and transcribed in parallel using Google Gemini or OpenAI. Cue
bounds are kept to whole seconds and long cues are broken up so every cue
stays readable.

Examples:
  cuesync generate lecture.mp4
  cuesync generate podcast.mp3 --provider openai
  cuesync generate talk.mkv --chunk-duration 2 --concurrency 5 -o notes/talk.md`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().
		StringP("api-key", "k", "", "API key (or set GEMINI_API_KEY / OPENAI_API_KEY)")
	generateCmd.Flags().
		String("provider", "", "Transcription provider: gemini or openai (default from config)")
	generateCmd.Flags().
		String("model", "", "Model to use for transcription (default per provider)")
	generateCmd.Flags().
		StringP("language", "l", "", "Language of the audio (e.g., en, es, fr)")
	generateCmd.Flags().
		IntP("chunk-duration", "d", 0, "Chunk duration in minutes for splitting audio")
	generateCmd.Flags().
		Int("concurrency", 0, "Number of parallel transcription workers")
	generateCmd.Flags().
		String("title", "", "Optional note title")
}

// generate settings after merging flags over the config file
type generateOptions struct {
	provider      transcribe.Provider
	apiKey        string
	model         string
	language      string
	chunkDuration time.Duration
	concurrency   int
}

func generateSettings(cmd *cobra.Command, c *config.Config) (generateOptions, error) {
	apiKey, _ := cmd.Flags().GetString("api-key")
	provider, _ := cmd.Flags().GetString("provider")
	model, _ := cmd.Flags().GetString("model")
	language, _ := cmd.Flags().GetString("language")
	chunkMinutes, _ := cmd.Flags().GetInt("chunk-duration")
	concurrency, _ := cmd.Flags().GetInt("concurrency")

	if provider == "" {
		provider = c.Transcribe.Provider
	}
	provider = strings.ToLower(strings.TrimSpace(provider))
	switch transcribe.Provider(provider) {
	case transcribe.ProviderGemini, transcribe.ProviderOpenAI:
	default:
		return generateOptions{}, fmt.Errorf("unsupported provider %q: use gemini or openai", provider)
	}

	if model == "" {
		model = c.Transcribe.Model
	}
	if language == "" {
		language = c.Transcribe.Language
	}
	if chunkMinutes <= 0 {
		chunkMinutes = c.Transcribe.ChunkMinutes
	}
	if concurrency <= 0 {
		concurrency = c.Transcribe.Concurrency
	}
	if apiKey == "" {
		apiKey = config.APIKey(provider)
	}
	if apiKey == "" {
		envVar := "GEMINI_API_KEY"
		if provider == string(transcribe.ProviderOpenAI) {
			envVar = "OPENAI_API_KEY"
		}
		return generateOptions{}, fmt.Errorf("%s API key is required: use --api-key flag or set %s environment variable", provider, envVar)
	}

	return generateOptions{
		provider:      transcribe.Provider(provider),
		apiKey:        apiKey,
		model:         model,
		language:      language,
		chunkDuration: time.Duration(chunkMinutes) * time.Minute,
		concurrency:   concurrency,
	}, nil
}

func runGenerate(cmd *cobra.Command, args []string) error {
	mediaPath := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if _, err := os.Stat(mediaPath); os.IsNotExist(err) {
		return fmt.Errorf("file not found: %s", mediaPath)
	}
	if !media.IsMediaFile(mediaPath) {
		return fmt.Errorf("unsupported file type: %s (expected audio or video file)", filepath.Ext(mediaPath))
	}

	opts, err := generateSettings(cmd, cfg)
	if err != nil {
		return err
	}
	title, _ := cmd.Flags().GetString("title")

	outputPath := outputFlag(cmd)
	if outputPath == "" {
		outputPath = swapExt(mediaPath, ".md")
	}

	logger.Infow("Starting transcript generation",
		"input", mediaPath,
		"output", outputPath,
		"provider", string(opts.provider),
		"chunk_duration", opts.chunkDuration.String(),
		"concurrency", opts.concurrency,
	)

	tempDir, err := os.MkdirTemp("", "cuesync-*")
	if err != nil {
		return fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer os.RemoveAll(tempDir)

	audioOpts := media.DefaultAudioOptions()
	audioPath := filepath.Join(tempDir, "audio"+audioOpts.Extension())

	if media.IsVideoFile(mediaPath) {
		logger.Infow("Extracting audio from video")
	} else {
		logger.Infow("Compressing audio for transcription")
	}
	if err := media.ExtractAudio(ctx, mediaPath, audioPath, audioOpts); err != nil {
		return fmt.Errorf("failed to prepare audio: %w", err)
	}

	duration, err := media.GetDuration(ctx, audioPath)
	if err != nil {
		return fmt.Errorf("failed to get audio duration: %w", err)
	}
	logger.Infow("Audio prepared",
		"duration", duration.String(),
	)

	chunks, err := media.ChunkAudio(ctx, audioPath, opts.chunkDuration, filepath.Join(tempDir, "chunks"))
	if err != nil {
		return fmt.Errorf("failed to split audio: %w", err)
	}
	logger.Infow("Created audio chunks",
		"count", len(chunks),
	)

	transcriber, err := transcribe.Factory(ctx, opts.provider, opts.apiKey, transcribe.Options{
		Language: opts.language,
		Model:    opts.model,
	})
	if err != nil {
		return fmt.Errorf("failed to create transcriber: %w", err)
	}

	logger.Infow("Transcribing audio",
		"concurrency", opts.concurrency,
	)
	result, err := transcribe.TranscribeChunks(ctx, transcriber, chunks, opts.concurrency, logger)
	if err != nil {
		return fmt.Errorf("transcription failed: %w", err)
	}
	logger.Infow("Transcription complete",
		"cues", len(result.Cues),
	)

	seq := subtitle.DefaultLayout().Apply(result.Cues)

	fm := note.FrontMatter{
		Video: videoLocator(mediaPath, cfg.VaultDir),
		Title: title,
	}
	if err := note.Write(outputPath, fm, seq); err != nil {
		return err
	}

	absOutput, _ := filepath.Abs(outputPath)
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Transcript note generated successfully: %s\n", absOutput)
	fmt.Fprintf(out, "  Cues: %d\n", seq.Len())
	fmt.Fprintf(out, "  Duration: %s\n", duration.String())

	return nil
}

// videoLocator records mediaPath relative to the vault when it lives inside
// it, otherwise as an absolute path.
func videoLocator(mediaPath, vault string) string {
	abs, err := filepath.Abs(mediaPath)
	if err != nil {
		return mediaPath
	}
	if vault == "" {
		return abs
	}
	root, err := filepath.Abs(vault)
	if err != nil {
		return abs
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return abs
	}
	return filepath.ToSlash(rel)
}
