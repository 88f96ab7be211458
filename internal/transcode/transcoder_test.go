package transcode

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// stubFFmpeg writes a shell script that stands in for ffmpeg and returns
// its path. The script emits body on stdout.
func stubFFmpeg(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "ffmpeg")
	script := "#!/bin/sh\nprintf '%s' '" + body + "'\n"
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestTranscodeStreamsOutput(t *testing.T) {
	binary := stubFFmpeg(t, "ENCODED")
	tr := NewTranscoder(binary)

	var out bytes.Buffer
	err := tr.Transcode(context.Background(), "https://example.test/audio.flac", Options{Format: "mp3", BitrateKbps: 192}, &out)
	if err != nil {
		t.Fatalf("Transcode: %v", err)
	}
	if out.String() != "ENCODED" {
		t.Fatalf("output = %q, want ENCODED", out.String())
	}
}

func TestTranscodeRejectsUnknownFormat(t *testing.T) {
	tr := NewTranscoder("ffmpeg")
	err := tr.Transcode(context.Background(), "src", Options{Format: "wav", BitrateKbps: 192}, &bytes.Buffer{})
	if err == nil || !strings.Contains(err.Error(), "unsupported") {
		t.Fatalf("expected unsupported format error, got %v", err)
	}
}

func TestTranscodeRejectsBitrateOutOfRange(t *testing.T) {
	tr := NewTranscoder("ffmpeg")
	for _, kbps := range []int{0, 16, 1000} {
		err := tr.Transcode(context.Background(), "src", Options{Format: "mp3", BitrateKbps: kbps}, &bytes.Buffer{})
		if err == nil {
			t.Fatalf("bitrate %d: expected error", kbps)
		}
	}
}

func TestTranscodeRejectsEmptySource(t *testing.T) {
	tr := NewTranscoder("ffmpeg")
	err := tr.Transcode(context.Background(), "  ", Options{Format: "mp3", BitrateKbps: 192}, &bytes.Buffer{})
	if err == nil {
		t.Fatal("expected error for empty source")
	}
}

func TestTranscodeReportsStderrOnFailure(t *testing.T) {
	dir := t.TempDir()
	binary := filepath.Join(dir, "ffmpeg")
	script := "#!/bin/sh\necho 'decoder blew up' >&2\nexit 1\n"
	if err := os.WriteFile(binary, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}

	tr := NewTranscoder(binary)
	err := tr.Transcode(context.Background(), "src", Options{Format: "opus", BitrateKbps: 96}, &bytes.Buffer{})
	if err == nil || !strings.Contains(err.Error(), "decoder blew up") {
		t.Fatalf("expected stderr detail in error, got %v", err)
	}
}

func TestTranscodeCancellation(t *testing.T) {
	dir := t.TempDir()
	binary := filepath.Join(dir, "ffmpeg")
	script := "#!/bin/sh\nsleep 10\n"
	if err := os.WriteFile(binary, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	tr := NewTranscoder(binary)
	err := tr.Transcode(ctx, "src", Options{Format: "mp3", BitrateKbps: 128}, &bytes.Buffer{})
	if err != context.DeadlineExceeded {
		t.Fatalf("err = %v, want context.DeadlineExceeded", err)
	}
}

func TestMimeType(t *testing.T) {
	cases := map[string]string{
		"mp3":     "audio/mpeg",
		"OGG":     "audio/ogg",
		"opus":    "audio/ogg",
		"unknown": "application/octet-stream",
	}
	for format, want := range cases {
		if got := MimeType(format); got != want {
			t.Errorf("MimeType(%q) = %q, want %q", format, got, want)
		}
	}
}

func TestValidBitrate(t *testing.T) {
	for _, kbps := range []int{32, 192, 512} {
		if !ValidBitrate(kbps) {
			t.Errorf("ValidBitrate(%d) = false, want true", kbps)
		}
	}
	for _, kbps := range []int{0, 16, 513, 9999} {
		if ValidBitrate(kbps) {
			t.Errorf("ValidBitrate(%d) = true, want false", kbps)
		}
	}
}

func TestSupportedFormat(t *testing.T) {
	if !SupportedFormat(" MP3 ") {
		t.Error("mp3 should be supported")
	}
	if SupportedFormat("flac") {
		t.Error("flac output is not supported")
	}
}
