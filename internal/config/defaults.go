package config

const (
	defaultDataDir             = "~/.local/share/freedify"
	defaultLogDir              = "~/.local/share/freedify/logs"
	defaultAPIBind             = "0.0.0.0:8000"
	defaultJamendoClientID     = "90aefcef"
	defaultJamendoBaseURL      = "https://api.jamendo.com/v3.0"
	defaultJamendoAudioFormat  = "flac"
	defaultMusicBrainzBaseURL  = "https://musicbrainz.org/ws/2"
	defaultCoverArtURL         = "https://coverartarchive.org"
	defaultMusicBrainzUA       = "Freedify/1.0 (https://github.com/freedify)"
	defaultEnrichmentTTLDays   = 30
	defaultListenBrainzBaseURL = "https://api.listenbrainz.org"
	defaultSetlistFMBaseURL    = "https://api.setlist.fm/rest/1.0"
	defaultTranscodeFormat     = "mp3"
	defaultTranscodeBitrate    = 192
	defaultTranscodeCacheGiB   = 10
	defaultScrobbleFlushSecs   = 30
	defaultScrobbleMaxAttempts = 5
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
	defaultLogRetentionDays    = 60
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:           defaultDataDir,
			LogDir:            defaultLogDir,
			TranscodeCacheDir: defaultTranscodeCacheDir(),
			APIBind:           defaultAPIBind,
		},
		Jamendo: Jamendo{
			ClientID:    defaultJamendoClientID,
			BaseURL:     defaultJamendoBaseURL,
			AudioFormat: defaultJamendoAudioFormat,
		},
		MusicBrainz: MusicBrainz{
			BaseURL:      defaultMusicBrainzBaseURL,
			CoverArtURL:  defaultCoverArtURL,
			UserAgent:    defaultMusicBrainzUA,
			CacheTTLDays: defaultEnrichmentTTLDays,
		},
		ListenBrainz: ListenBrainz{
			BaseURL: defaultListenBrainzBaseURL,
		},
		SetlistFM: SetlistFM{
			BaseURL: defaultSetlistFMBaseURL,
		},
		Transcode: Transcode{
			DefaultFormat:      defaultTranscodeFormat,
			DefaultBitrateKbps: defaultTranscodeBitrate,
			CacheEnabled:       true,
			CacheMaxGiB:        defaultTranscodeCacheGiB,
		},
		Scrobble: Scrobble{
			FlushIntervalSeconds: defaultScrobbleFlushSecs,
			MaxAttempts:          defaultScrobbleMaxAttempts,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
