package ffmpeg

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sync"
)

const (
	envFFmpegPath  = "CUESYNC_FFMPEG_PATH"
	envFFprobePath = "CUESYNC_FFPROBE_PATH"
)

var ErrNotFound = errors.New("ffmpeg binaries not found")

type BinaryPaths struct {
	FFmpeg  string
	FFprobe string
}

var (
	ensureOnce sync.Once
	ensureErr  error
	ensurePath BinaryPaths
)

// Ensure locates ffmpeg and ffprobe once per process. Explicit paths from
// CUESYNC_FFMPEG_PATH and CUESYNC_FFPROBE_PATH win over $PATH.
func Ensure() (BinaryPaths, error) {
	ensureOnce.Do(func() {
		ensurePath, ensureErr = locate(os.Getenv, exec.LookPath)
	})
	return ensurePath, ensureErr
}

func FFmpegPath() (string, error) {
	paths, err := Ensure()
	if err != nil {
		return "", err
	}
	return paths.FFmpeg, nil
}

func FFprobePath() (string, error) {
	paths, err := Ensure()
	if err != nil {
		return "", err
	}
	return paths.FFprobe, nil
}

func locate(
	getenv func(string) string,
	lookPath func(string) (string, error),
) (BinaryPaths, error) {
	paths := BinaryPaths{
		FFmpeg:  getenv(envFFmpegPath),
		FFprobe: getenv(envFFprobePath),
	}

	if paths.FFmpeg == "" {
		if found, err := lookPath("ffmpeg"); err == nil {
			paths.FFmpeg = found
		}
	}
	if paths.FFprobe == "" {
		if found, err := lookPath("ffprobe"); err == nil {
			paths.FFprobe = found
		}
	}

	var missing []string
	if paths.FFmpeg == "" {
		missing = append(missing, "ffmpeg")
	}
	if paths.FFprobe == "" {
		missing = append(missing, "ffprobe")
	}
	if len(missing) > 0 {
		return BinaryPaths{}, fmt.Errorf(
			"%w: %v (install them or set %s and %s)",
			ErrNotFound,
			missing,
			envFFmpegPath,
			envFFprobePath,
		)
	}
	return paths, nil
}
