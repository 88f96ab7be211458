package ffprobe

import (
	"math"
	"testing"
)

func TestResultHelpers(t *testing.T) {
	result := Result{
		Streams: []Stream{
			{CodecType: "video"},
			{CodecType: "audio", CodecName: "flac", SampleRate: "44100", Channels: 2},
			{CodecType: "audio", CodecName: "mp3"},
		},
		Format: Format{
			Duration: "123.45",
			Size:     "1000",
			BitRate:  "32000",
		},
	}
	if result.AudioStreamCount() != 2 {
		t.Fatalf("expected 2 audio streams, got %d", result.AudioStreamCount())
	}
	stream, ok := result.FirstAudioStream()
	if !ok || stream.CodecName != "flac" {
		t.Fatalf("unexpected first audio stream: %#v", stream)
	}
	if !result.IsLossless() {
		t.Fatal("expected flac source to be lossless")
	}
	if result.SampleRateHz() != 44100 {
		t.Fatalf("unexpected sample rate: %d", result.SampleRateHz())
	}
	if result.DurationSeconds() != 123.45 {
		t.Fatalf("unexpected duration: %v", result.DurationSeconds())
	}
	if result.SizeBytes() != 1000 {
		t.Fatalf("unexpected size: %d", result.SizeBytes())
	}
	if result.BitRate() != 32000 {
		t.Fatalf("unexpected bitrate: %d", result.BitRate())
	}
}

func TestResultHelpersHandleInvalidNumbers(t *testing.T) {
	result := Result{
		Format: Format{
			Duration: "bad",
			Size:     "-1",
			BitRate:  "nope",
		},
	}
	if !math.IsNaN(result.DurationSeconds()) {
		t.Fatalf("expected duration NaN, got %v", result.DurationSeconds())
	}
	if result.SizeBytes() != 0 {
		t.Fatalf("expected size 0, got %d", result.SizeBytes())
	}
	if result.BitRate() != 0 {
		t.Fatalf("expected bitrate 0, got %d", result.BitRate())
	}
}

func TestIsLosslessWithLossySource(t *testing.T) {
	result := Result{Streams: []Stream{{CodecType: "audio", CodecName: "mp3"}}}
	if result.IsLossless() {
		t.Fatal("mp3 source must not be lossless")
	}
	if (Result{}).IsLossless() {
		t.Fatal("empty result must not be lossless")
	}
}
