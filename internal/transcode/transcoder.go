package transcode

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"
)

// Options selects the output rendition for one transcode.
type Options struct {
	Format      string
	BitrateKbps int
}

type codecSpec struct {
	codec string
	muxer string
	mime  string
}

// codecSpecs maps output formats to their ffmpeg codec and muxer. Opus and
// vorbis both travel in an Ogg container.
var codecSpecs = map[string]codecSpec{
	"mp3":  {codec: "libmp3lame", muxer: "mp3", mime: "audio/mpeg"},
	"ogg":  {codec: "libvorbis", muxer: "ogg", mime: "audio/ogg"},
	"opus": {codec: "libopus", muxer: "ogg", mime: "audio/ogg"},
}

const (
	minBitrateKbps = 32
	maxBitrateKbps = 512
)

// SupportedFormat reports whether a format can be produced.
func SupportedFormat(format string) bool {
	_, ok := codecSpecs[strings.ToLower(strings.TrimSpace(format))]
	return ok
}

// ValidBitrate reports whether a bitrate can be produced.
func ValidBitrate(kbps int) bool {
	return kbps >= minBitrateKbps && kbps <= maxBitrateKbps
}

// MimeType returns the Content-Type for a produced format.
func MimeType(format string) string {
	if spec, ok := codecSpecs[strings.ToLower(strings.TrimSpace(format))]; ok {
		return spec.mime
	}
	return "application/octet-stream"
}

// Transcoder runs ffmpeg to convert a source URL or path into the requested
// rendition.
type Transcoder struct {
	binary string
}

// NewTranscoder builds a transcoder around the given ffmpeg binary. An empty
// binary resolves "ffmpeg" from PATH.
func NewTranscoder(binary string) *Transcoder {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffmpeg"
	}
	return &Transcoder{binary: binary}
}

func (o Options) validate() (codecSpec, error) {
	spec, ok := codecSpecs[strings.ToLower(strings.TrimSpace(o.Format))]
	if !ok {
		return codecSpec{}, fmt.Errorf("unsupported transcode format %q", o.Format)
	}
	if !ValidBitrate(o.BitrateKbps) {
		return codecSpec{}, fmt.Errorf("bitrate %d out of range %d-%d kbps", o.BitrateKbps, minBitrateKbps, maxBitrateKbps)
	}
	return spec, nil
}

// Transcode converts source into the requested rendition, writing encoded
// bytes to out as they are produced. Cancelling the context kills ffmpeg.
func (t *Transcoder) Transcode(ctx context.Context, source string, opts Options, out io.Writer) error {
	source = strings.TrimSpace(source)
	if source == "" {
		return errors.New("transcode: empty source")
	}
	spec, err := opts.validate()
	if err != nil {
		return err
	}

	args := []string{
		"-hide_banner", "-loglevel", "error",
		"-i", source,
		"-vn",
		"-c:a", spec.codec,
		"-b:a", strconv.Itoa(opts.BitrateKbps) + "k",
		"-f", spec.muxer,
		"pipe:1",
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, t.binary, args...)
	cmd.Stdout = out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		detail := strings.TrimSpace(stderr.String())
		if len(detail) > 512 {
			detail = detail[len(detail)-512:]
		}
		return fmt.Errorf("ffmpeg transcode: %w: %s", err, detail)
	}
	return nil
}
