// Package services defines shared utilities consumed by the upstream API
// integrations (Jamendo, MusicBrainz, ListenBrainz, Setlist.fm).
//
// Key responsibilities:
//   - Structured error markers plus the Wrap helper that translate upstream
//     failures into consistent classifications (validation vs transient vs
//     not found) for the HTTP layer.
//
// Use these helpers when wiring a new integration so error handling stays
// uniform across the service clients.
package services
