// Package musicbrainz integrates with the MusicBrainz web service and the
// Cover Art Archive.
//
// It resolves ISRC codes to release metadata (label, release date, genres)
// for track enrichment, and recording MBIDs to playable track stubs for
// recommendation resolution. MusicBrainz rate limits by User-Agent, so every
// request carries the configured identifying string.
package musicbrainz
