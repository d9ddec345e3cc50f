package transcribe

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/mgpai22/cuesync/internal/cue"
	"github.com/mgpai22/cuesync/internal/logging"
	"github.com/mgpai22/cuesync/internal/media"
)

const defaultConcurrency = 3

// holds the result of transcribing a chunk
type chunkResult struct {
	Index int
	Cues  []cue.Cue
	Error error
}

// transcribes a single chunk and moves its cues onto the recording timeline
func transcribeChunk(
	ctx context.Context,
	t Transcriber,
	chunk media.ChunkInfo,
) ([]cue.Cue, error) {
	result, err := t.Transcribe(ctx, chunk.Path)
	if err != nil {
		return nil, err
	}

	placed := make([]cue.Cue, len(result.Cues))
	for i, c := range result.Cues {
		placed[i] = shift(c, chunk.StartTime)
	}
	return placed, nil
}

// TranscribeChunks runs t over chunks with at most concurrency workers and
// merges the cues in chunk order. The first failure cancels the rest.
func TranscribeChunks(
	ctx context.Context,
	t Transcriber,
	chunks []media.ChunkInfo,
	concurrency int,
	logger *logging.Logger,
) (*Result, error) {
	if len(chunks) == 0 {
		return &Result{}, nil
	}
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	logger = logging.OrNop(logger).Named("transcribe")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	workChan := make(chan media.ChunkInfo)
	resultChan := make(chan chunkResult, len(chunks))

	var wg sync.WaitGroup
	for i := 0; i < concurrency; i++ {
		wg.Go(func() {
			for {
				select {
				case <-ctx.Done():
					return
				case chunk, ok := <-workChan:
					if !ok {
						return
					}

					logger.Debugw("Transcribing chunk",
						"index", chunk.Index,
						"start", chunk.StartTime.String(),
					)
					cues, err := transcribeChunk(ctx, t, chunk)
					if err != nil {
						cancel()
					}
					resultChan <- chunkResult{
						Index: chunk.Index,
						Cues:  cues,
						Error: err,
					}
				}
			}
		})
	}

	go func() {
		defer close(workChan)
		for _, chunk := range chunks {
			select {
			case <-ctx.Done():
				return
			case workChan <- chunk:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	results := make([]chunkResult, 0, len(chunks))
	var firstErr error
	for result := range resultChan {
		if result.Error != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("chunk %d failed: %w", result.Index, result.Error)
				cancel()
			}
			continue
		}
		results = append(results, result)
	}
	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil && len(results) < len(chunks) {
		return nil, err
	}

	// sort by index to maintain order
	sort.Slice(results, func(i, j int) bool {
		return results[i].Index < results[j].Index
	})

	var merged []cue.Cue
	for _, r := range results {
		merged = append(merged, r.Cues...)
	}

	return &Result{
		Cues:     merged,
		Duration: chunks[len(chunks)-1].EndTime,
	}, nil
}
