package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and bind address configuration.
type Paths struct {
	DataDir           string `toml:"data_dir"`
	LogDir            string `toml:"log_dir"`
	TranscodeCacheDir string `toml:"transcode_cache_dir"`
	APIBind           string `toml:"api_bind"`
	APIToken          string `toml:"api_token"`
}

// Jamendo contains configuration for the Jamendo catalog API.
type Jamendo struct {
	ClientID    string `toml:"client_id"`
	BaseURL     string `toml:"base_url"`
	AudioFormat string `toml:"audio_format"`
}

// MusicBrainz contains configuration for metadata enrichment.
type MusicBrainz struct {
	BaseURL      string `toml:"base_url"`
	CoverArtURL  string `toml:"cover_art_url"`
	UserAgent    string `toml:"user_agent"`
	CacheTTLDays int    `toml:"cache_ttl_days"`
}

// ListenBrainz contains configuration for scrobbling and recommendations.
type ListenBrainz struct {
	Token    string `toml:"token"`
	Username string `toml:"username"`
	BaseURL  string `toml:"base_url"`
}

// SetlistFM contains configuration for concert setlist search.
type SetlistFM struct {
	APIKey  string `toml:"api_key"`
	BaseURL string `toml:"base_url"`
}

// Transcode contains configuration for the FFmpeg streaming pipeline.
type Transcode struct {
	FFmpegBinary       string `toml:"ffmpeg_binary"`
	FFprobeBinary      string `toml:"ffprobe_binary"`
	DefaultFormat      string `toml:"default_format"`
	DefaultBitrateKbps int    `toml:"default_bitrate_kbps"`
	CacheEnabled       bool   `toml:"cache_enabled"`
	CacheMaxGiB        int    `toml:"cache_max_gib"`
}

// Scrobble contains configuration for the listen journal flusher.
type Scrobble struct {
	FlushIntervalSeconds int `toml:"flush_interval_seconds"`
	MaxAttempts          int `toml:"max_attempts"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format        string `toml:"format"`
	Level         string `toml:"level"`
	RetentionDays int    `toml:"retention_days"`
}

// Config encapsulates all configuration values for Freedify.
//
// Configuration sections by subsystem:
//   - Paths: data/log/cache directories and the API bind address
//   - Jamendo: catalog search and stream URL resolution
//   - MusicBrainz: ISRC enrichment and Cover Art Archive lookups
//   - ListenBrainz: scrobbling, listens, and recommendations
//   - SetlistFM: concert setlist search
//   - Transcode: FFmpeg binaries, target format, and stream cache
//   - Scrobble: journal flush interval and retry limits
//   - Logging: log format, level, and retention
type Config struct {
	Paths        Paths        `toml:"paths"`
	Jamendo      Jamendo      `toml:"jamendo"`
	MusicBrainz  MusicBrainz  `toml:"musicbrainz"`
	ListenBrainz ListenBrainz `toml:"listenbrainz"`
	SetlistFM    SetlistFM    `toml:"setlistfm"`
	Transcode    Transcode    `toml:"transcode"`
	Scrobble     Scrobble     `toml:"scrobble"`
	Logging      Logging      `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/freedify/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath("~/.config/freedify/config.toml")
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("freedify.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates required directories for daemon operation.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	if c.Transcode.CacheEnabled && strings.TrimSpace(c.Paths.TranscodeCacheDir) != "" {
		if err := os.MkdirAll(c.Paths.TranscodeCacheDir, 0o755); err != nil {
			return fmt.Errorf("create transcode cache directory %q: %w", c.Paths.TranscodeCacheDir, err)
		}
	}
	return nil
}

// FFmpegBinary returns the ffmpeg executable used for stream transcoding.
func (c *Config) FFmpegBinary() string {
	if bin := strings.TrimSpace(c.Transcode.FFmpegBinary); bin != "" {
		return bin
	}
	return "ffmpeg"
}

// FFprobeBinary returns the ffprobe executable used for media inspection.
func (c *Config) FFprobeBinary() string {
	if bin := strings.TrimSpace(c.Transcode.FFprobeBinary); bin != "" {
		return bin
	}
	return "ffprobe"
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

func defaultTranscodeCacheDir() string {
	if base, ok := os.LookupEnv("XDG_CACHE_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "freedify", "transcode")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "~/.cache/freedify/transcode"
	}
	return filepath.Join(home, ".cache", "freedify", "transcode")
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
