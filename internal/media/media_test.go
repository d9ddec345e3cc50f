package media

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFileKinds(t *testing.T) {
	tests := []struct {
		path  string
		video bool
		audio bool
	}{
		{"talk.mp4", true, false},
		{"TALK.MKV", true, false},
		{"podcast.mp3", false, true},
		{"/a/b/voice.M4A", false, true},
		{"notes.md", false, false},
		{"noext", false, false},
	}

	for _, tt := range tests {
		if got := IsVideoFile(tt.path); got != tt.video {
			t.Errorf("IsVideoFile(%q) = %v", tt.path, got)
		}
		if got := IsAudioFile(tt.path); got != tt.audio {
			t.Errorf("IsAudioFile(%q) = %v", tt.path, got)
		}
		if got := IsMediaFile(tt.path); got != (tt.video || tt.audio) {
			t.Errorf("IsMediaFile(%q) = %v", tt.path, got)
		}
	}
}

func TestPlanChunks(t *testing.T) {
	tests := []struct {
		name  string
		total time.Duration
		size  time.Duration
		want  []Span
	}{
		{"empty", 0, time.Minute, nil},
		{"bad size", time.Minute, 0, nil},
		{"exact", 2 * time.Minute, time.Minute, []Span{
			{0, time.Minute},
			{time.Minute, 2 * time.Minute},
		}},
		{"remainder", 150 * time.Second, time.Minute, []Span{
			{0, time.Minute},
			{time.Minute, 2 * time.Minute},
			{2 * time.Minute, 150 * time.Second},
		}},
		{"shorter than chunk", 10 * time.Second, time.Minute, []Span{
			{0, 10 * time.Second},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PlanChunks(tt.total, tt.size)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d spans, want %d: %+v", len(got), len(tt.want), got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("span %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestParseProbe(t *testing.T) {
	data := []byte(`{
		"streams": [{"codec_type": "video"}, {"codec_type": "audio"}],
		"format": {"duration": "125.432100"}
	}`)

	info, err := parseProbe("clip.mp4", data)
	if err != nil {
		t.Fatalf("parseProbe: %v", err)
	}
	if info.Duration != 125432*time.Millisecond {
		t.Errorf("Duration = %v", info.Duration)
	}
	if !info.HasAudio || !info.HasVideo {
		t.Errorf("streams not detected: %+v", info)
	}

	if _, err := parseProbe("clip.mp4", []byte(`{"format": {"duration": "N/A"}}`)); err == nil {
		t.Error("expected error for missing duration")
	}
}

func TestAudioOptions(t *testing.T) {
	opts := DefaultAudioOptions()
	if opts.Extension() != ".mp3" {
		t.Errorf("Extension = %q", opts.Extension())
	}
	kw := opts.kwargs()
	if kw["acodec"] != "libmp3lame" || kw["b:a"] != "64k" {
		t.Errorf("unexpected kwargs %v", kw)
	}

	wav := AudioOptions{Format: "wav", SampleRate: 16000, Channels: 1, Bitrate: "64k"}
	kw = wav.kwargs()
	if kw["acodec"] != "pcm_s16le" {
		t.Errorf("wav acodec = %v", kw["acodec"])
	}
	if _, ok := kw["b:a"]; ok {
		t.Error("wav should not carry a bitrate")
	}
}

func TestMissingInputs(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.mp3")
	ctx := context.Background()

	if _, err := Probe(ctx, missing); err == nil {
		t.Error("Probe: expected error")
	}
	if err := ExtractAudio(ctx, missing, missing+".out.mp3", DefaultAudioOptions()); err == nil {
		t.Error("ExtractAudio: expected error")
	}
	if _, err := ChunkAudio(ctx, missing, 0, t.TempDir()); err == nil {
		t.Error("ChunkAudio: expected error for zero chunk size")
	}
}

func TestCleanupChunks(t *testing.T) {
	dir := t.TempDir()
	var chunks []ChunkInfo
	for i, name := range []string{"a.mp3", "b.mp3"} {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
		chunks = append(chunks, ChunkInfo{Path: p, Index: i})
	}
	chunks = append(chunks, ChunkInfo{Path: filepath.Join(dir, "gone.mp3"), Index: 2})

	if err := CleanupChunks(chunks); err != nil {
		t.Fatalf("CleanupChunks: %v", err)
	}
	for _, c := range chunks {
		if _, err := os.Stat(c.Path); !os.IsNotExist(err) {
			t.Errorf("%s still exists", c.Path)
		}
	}
}
