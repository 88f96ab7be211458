package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeJamendo()
	c.normalizeMusicBrainz()
	c.normalizeListenBrainz()
	c.normalizeSetlistFM()
	c.normalizeTranscode()
	c.normalizeScrobble()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.TranscodeCacheDir) == "" {
		c.Paths.TranscodeCacheDir = defaultTranscodeCacheDir()
	}
	if c.Paths.TranscodeCacheDir, err = expandPath(c.Paths.TranscodeCacheDir); err != nil {
		return fmt.Errorf("paths.transcode_cache_dir: %w", err)
	}
	c.Paths.APIBind = strings.TrimSpace(c.Paths.APIBind)
	if c.Paths.APIBind == "" {
		c.Paths.APIBind = defaultAPIBind
	}
	if err := c.applyPortOverride(); err != nil {
		return err
	}
	c.Paths.APIToken = strings.TrimSpace(c.Paths.APIToken)
	return nil
}

// applyPortOverride honors the PORT environment variable used by container
// runtimes: only the port of the bind address changes, the host is kept.
func (c *Config) applyPortOverride() error {
	value, ok := os.LookupEnv("PORT")
	if !ok || strings.TrimSpace(value) == "" {
		return nil
	}
	port, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("PORT environment variable %q is not a valid port", value)
	}
	host, _, err := net.SplitHostPort(c.Paths.APIBind)
	if err != nil {
		host = c.Paths.APIBind
	}
	if host == "" {
		host = "0.0.0.0"
	}
	c.Paths.APIBind = net.JoinHostPort(host, strconv.Itoa(port))
	return nil
}

func (c *Config) normalizeJamendo() {
	c.Jamendo.ClientID = strings.TrimSpace(c.Jamendo.ClientID)
	if value, ok := os.LookupEnv("JAMENDO_CLIENT_ID"); ok && strings.TrimSpace(value) != "" {
		c.Jamendo.ClientID = strings.TrimSpace(value)
	}
	if c.Jamendo.ClientID == "" {
		c.Jamendo.ClientID = defaultJamendoClientID
	}
	c.Jamendo.BaseURL = strings.TrimSpace(c.Jamendo.BaseURL)
	if c.Jamendo.BaseURL == "" {
		c.Jamendo.BaseURL = defaultJamendoBaseURL
	}
	c.Jamendo.AudioFormat = strings.ToLower(strings.TrimSpace(c.Jamendo.AudioFormat))
	if c.Jamendo.AudioFormat == "" {
		c.Jamendo.AudioFormat = defaultJamendoAudioFormat
	}
}

func (c *Config) normalizeMusicBrainz() {
	c.MusicBrainz.BaseURL = strings.TrimSpace(c.MusicBrainz.BaseURL)
	if c.MusicBrainz.BaseURL == "" {
		c.MusicBrainz.BaseURL = defaultMusicBrainzBaseURL
	}
	c.MusicBrainz.CoverArtURL = strings.TrimSpace(c.MusicBrainz.CoverArtURL)
	if c.MusicBrainz.CoverArtURL == "" {
		c.MusicBrainz.CoverArtURL = defaultCoverArtURL
	}
	c.MusicBrainz.UserAgent = strings.TrimSpace(c.MusicBrainz.UserAgent)
	if c.MusicBrainz.UserAgent == "" {
		c.MusicBrainz.UserAgent = defaultMusicBrainzUA
	}
	if c.MusicBrainz.CacheTTLDays <= 0 {
		c.MusicBrainz.CacheTTLDays = defaultEnrichmentTTLDays
	}
}

func (c *Config) normalizeListenBrainz() {
	c.ListenBrainz.Token = strings.TrimSpace(c.ListenBrainz.Token)
	if c.ListenBrainz.Token == "" {
		if value, ok := os.LookupEnv("LISTENBRAINZ_TOKEN"); ok {
			c.ListenBrainz.Token = strings.TrimSpace(value)
		}
	}
	c.ListenBrainz.Username = strings.TrimSpace(c.ListenBrainz.Username)
	c.ListenBrainz.BaseURL = strings.TrimSpace(c.ListenBrainz.BaseURL)
	if c.ListenBrainz.BaseURL == "" {
		c.ListenBrainz.BaseURL = defaultListenBrainzBaseURL
	}
}

func (c *Config) normalizeSetlistFM() {
	c.SetlistFM.APIKey = strings.TrimSpace(c.SetlistFM.APIKey)
	if c.SetlistFM.APIKey == "" {
		if value, ok := os.LookupEnv("SETLIST_FM_API_KEY"); ok {
			c.SetlistFM.APIKey = strings.TrimSpace(value)
		}
	}
	c.SetlistFM.BaseURL = strings.TrimSpace(c.SetlistFM.BaseURL)
	if c.SetlistFM.BaseURL == "" {
		c.SetlistFM.BaseURL = defaultSetlistFMBaseURL
	}
}

func (c *Config) normalizeTranscode() {
	c.Transcode.FFmpegBinary = strings.TrimSpace(c.Transcode.FFmpegBinary)
	c.Transcode.FFprobeBinary = strings.TrimSpace(c.Transcode.FFprobeBinary)
	c.Transcode.DefaultFormat = strings.ToLower(strings.TrimSpace(c.Transcode.DefaultFormat))
	if c.Transcode.DefaultFormat == "" {
		c.Transcode.DefaultFormat = defaultTranscodeFormat
	}
	if c.Transcode.DefaultBitrateKbps <= 0 {
		c.Transcode.DefaultBitrateKbps = defaultTranscodeBitrate
	}
	if c.Transcode.CacheMaxGiB <= 0 {
		c.Transcode.CacheMaxGiB = defaultTranscodeCacheGiB
	}
}

func (c *Config) normalizeScrobble() {
	if c.Scrobble.FlushIntervalSeconds <= 0 {
		c.Scrobble.FlushIntervalSeconds = defaultScrobbleFlushSecs
	}
	if c.Scrobble.MaxAttempts <= 0 {
		c.Scrobble.MaxAttempts = defaultScrobbleMaxAttempts
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.RetentionDays < 0 {
		c.Logging.RetentionDays = 0
	}
}
