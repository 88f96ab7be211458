// Package listenbrainz integrates with the ListenBrainz API for listen
// submission (scrobbling), listening history, token validation, and
// collaborative-filtering recommendations.
//
// Synthetic ISRC placeholders are stripped from submissions so only genuine
// codes reach the service. Recommendation responses carry bare recording
// MBIDs; ResolveRecommendations expands them into displayable tracks via
// MusicBrainz.
package listenbrainz
