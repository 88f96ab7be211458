package config

import (
	"errors"
	"fmt"
	"net"
	"strings"
)

var supportedTranscodeFormats = map[string]struct{}{
	"mp3":  {},
	"ogg":  {},
	"opus": {},
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateBind(); err != nil {
		return err
	}
	if err := c.validateJamendo(); err != nil {
		return err
	}
	if err := c.validateTranscode(); err != nil {
		return err
	}
	if err := c.validateScrobble(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateBind() error {
	if _, _, err := net.SplitHostPort(c.Paths.APIBind); err != nil {
		return fmt.Errorf("paths.api_bind %q is not a valid host:port address", c.Paths.APIBind)
	}
	return nil
}

func (c *Config) validateJamendo() error {
	if strings.TrimSpace(c.Jamendo.ClientID) == "" {
		return errors.New("jamendo.client_id must be set (or export JAMENDO_CLIENT_ID)")
	}
	switch c.Jamendo.AudioFormat {
	case "flac", "mp32", "mp31", "ogg":
	default:
		return fmt.Errorf("jamendo.audio_format %q is not a Jamendo audio format", c.Jamendo.AudioFormat)
	}
	return nil
}

func (c *Config) validateTranscode() error {
	if _, ok := supportedTranscodeFormats[c.Transcode.DefaultFormat]; !ok {
		return fmt.Errorf("transcode.default_format %q is unsupported (mp3, ogg, opus)", c.Transcode.DefaultFormat)
	}
	if c.Transcode.DefaultBitrateKbps < 32 || c.Transcode.DefaultBitrateKbps > 512 {
		return errors.New("transcode.default_bitrate_kbps must be between 32 and 512")
	}
	if c.Transcode.CacheEnabled {
		if strings.TrimSpace(c.Paths.TranscodeCacheDir) == "" {
			return errors.New("paths.transcode_cache_dir must be set when transcode.cache_enabled is true")
		}
		if c.Transcode.CacheMaxGiB <= 0 {
			return errors.New("transcode.cache_max_gib must be positive when transcode.cache_enabled is true")
		}
	}
	return nil
}

func (c *Config) validateScrobble() error {
	if c.Scrobble.FlushIntervalSeconds <= 0 {
		return errors.New("scrobble.flush_interval_seconds must be positive")
	}
	if c.Scrobble.MaxAttempts <= 0 {
		return errors.New("scrobble.max_attempts must be positive")
	}
	return nil
}
