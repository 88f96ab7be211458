// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// This package has no freedify-specific dependencies and could be extracted
// as a standalone library.
//
// Key types:
//   - Result: parsed ffprobe output containing streams and format metadata
//   - Stream: individual stream properties (codec, sample rate, channels)
//   - Format: container-level metadata (duration, size, bitrate)
//
// Primary entry point:
//   - Inspect: executes ffprobe against a path or URL and returns a Result
//
// Helper methods on Result answer the questions the transcoder asks before
// it commits to a pipeline: source codec, losslessness, duration.
package ffprobe
