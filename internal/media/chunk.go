package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	ffmpegbin "github.com/mgpai22/cuesync/internal/ffmpeg"
)

const defaultChunkConcurrency = 10

// audio chunk info
type ChunkInfo struct {
	Path      string
	Index     int
	StartTime time.Duration
	EndTime   time.Duration
}

// Span is a half-open window [Start, End) of the source media.
type Span struct {
	Start time.Duration
	End   time.Duration
}

// PlanChunks cuts total into consecutive windows of at most size. The
// last window ends exactly at total.
func PlanChunks(total, size time.Duration) []Span {
	if total <= 0 || size <= 0 {
		return nil
	}

	var spans []Span
	for start := time.Duration(0); start < total; start += size {
		end := start + size
		if end > total {
			end = total
		}
		spans = append(spans, Span{Start: start, End: end})
	}
	return spans
}

// splits an audio file into chunks of specified duration
func ChunkAudio(
	ctx context.Context,
	audioPath string,
	chunkDuration time.Duration,
	outputDir string,
) ([]ChunkInfo, error) {
	return ChunkAudioConcurrent(ctx, audioPath, chunkDuration, outputDir, 0)
}

// ChunkAudioConcurrent splits an audio file into chunks with configurable concurrency.
// If concurrency is 0 or negative, it defaults to 10 concurrent workers.
func ChunkAudioConcurrent(
	ctx context.Context,
	audioPath string,
	chunkDuration time.Duration,
	outputDir string,
	concurrency int,
) ([]ChunkInfo, error) {
	if chunkDuration <= 0 {
		return nil, fmt.Errorf(
			"chunk duration must be positive, got %v",
			chunkDuration,
		)
	}
	if concurrency <= 0 {
		concurrency = defaultChunkConcurrency
	}

	totalDuration, err := GetDuration(ctx, audioPath)
	if err != nil {
		return nil, fmt.Errorf("failed to get audio duration: %w", err)
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	ffmpegPath, err := ffmpegbin.FFmpegPath()
	if err != nil {
		return nil, err
	}

	ext := filepath.Ext(audioPath)
	baseName := strings.TrimSuffix(filepath.Base(audioPath), ext)

	spans := PlanChunks(totalDuration, chunkDuration)
	chunks := make([]ChunkInfo, len(spans))
	for i, span := range spans {
		chunks[i] = ChunkInfo{
			Path:      filepath.Join(outputDir, fmt.Sprintf("%s_chunk_%03d%s", baseName, i, ext)),
			Index:     i,
			StartTime: span.Start,
			EndTime:   span.End,
		}
	}

	var (
		mu       sync.Mutex
		firstErr error
		wg       sync.WaitGroup
	)
	setErr := func(err error) {
		mu.Lock()
		defer mu.Unlock()
		if firstErr == nil {
			firstErr = err
		}
	}
	failed := func() bool {
		mu.Lock()
		defer mu.Unlock()
		return firstErr != nil
	}

	// semaphore to limit concurrency
	sem := make(chan struct{}, concurrency)

	for _, chunk := range chunks {
		if ctx.Err() != nil || failed() {
			break
		}

		wg.Add(1)
		go func(c ChunkInfo) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			if ctx.Err() != nil || failed() {
				return
			}

			kwargs := ffmpeg.KwArgs{
				"ss": c.StartTime.Seconds(),
				"t":  (c.EndTime - c.StartTime).Seconds(),
				"c":  "copy", // Copy codec for speed
			}

			err := ffmpeg.Input(audioPath).
				Output(c.Path, kwargs).
				OverWriteOutput().
				SetFfmpegPath(ffmpegPath).
				Run()
			if err != nil {
				setErr(fmt.Errorf("failed to create chunk %d: %w", c.Index, err))
			}
		}(chunk)
	}

	wg.Wait()

	if err := ctx.Err(); err != nil {
		_ = CleanupChunks(chunks)
		return nil, err
	}
	if firstErr != nil {
		_ = CleanupChunks(chunks)
		return nil, firstErr
	}

	return chunks, nil
}

// removes all chunk files
func CleanupChunks(chunks []ChunkInfo) error {
	var lastErr error
	for _, chunk := range chunks {
		if err := os.Remove(chunk.Path); err != nil && !os.IsNotExist(err) {
			lastErr = err
		}
	}
	return lastErr
}
