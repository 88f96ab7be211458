// Package jamendo integrates with the Jamendo v3.0 API, the primary music
// catalog behind search, browse, and streaming.
//
// All Jamendo identifiers are namespaced before they leave this package
// (jm_ for tracks and albums, jm_artist_ for artists) and durations are
// converted from seconds to milliseconds. Stream resolution prefers the
// downloadable FLAC rendition and falls back to the configured lossy format.
package jamendo
