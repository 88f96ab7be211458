package catalog

import "strings"

// ID prefixes namespace upstream identifiers per source.
const (
	TrackIDPrefix   = "jm_"
	ArtistIDPrefix  = "jm_artist_"
	SetlistIDPrefix = "setlist_"
)

// JamendoTrackID namespaces a raw Jamendo track or album identifier.
func JamendoTrackID(raw string) string {
	return TrackIDPrefix + raw
}

// JamendoArtistID namespaces a raw Jamendo artist identifier.
func JamendoArtistID(raw string) string {
	return ArtistIDPrefix + raw
}

// SetlistID namespaces a raw Setlist.fm identifier.
func SetlistID(raw string) string {
	return SetlistIDPrefix + raw
}

// RawJamendoID strips catalog prefixes back to the upstream Jamendo identifier.
// Artist prefixes are stripped before the generic jm_ prefix so artist IDs
// round-trip correctly.
func RawJamendoID(id string) string {
	id = strings.TrimSpace(id)
	id = strings.TrimPrefix(id, ArtistIDPrefix)
	return strings.TrimPrefix(id, TrackIDPrefix)
}

// RawSetlistID strips the setlist prefix back to the Setlist.fm identifier.
func RawSetlistID(id string) string {
	return strings.TrimPrefix(strings.TrimSpace(id), SetlistIDPrefix)
}

// syntheticISRCPrefixes mark internal pseudo-ISRCs that must never be sent to
// MusicBrainz or ListenBrainz.
var syntheticISRCPrefixes = []string{"dz_", "ytm_", "LINK:", "pod_"}

// IsRealISRC reports whether an ISRC value is a genuine ISRC rather than an
// internal placeholder identifier.
func IsRealISRC(isrc string) bool {
	isrc = strings.TrimSpace(isrc)
	if isrc == "" {
		return false
	}
	for _, prefix := range syntheticISRCPrefixes {
		if strings.HasPrefix(isrc, prefix) {
			return false
		}
	}
	return true
}
