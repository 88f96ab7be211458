// Package catalog defines Freedify's domain model and the search service
// that aggregates the upstream catalogs.
//
// Tracks, albums, and artists come from Jamendo; setlists come from
// Setlist.fm; MusicBrainz supplies optional enrichment (label, genres, cover
// art) keyed by ISRC. All upstream identifiers are namespaced with source
// prefixes (jm_, jm_artist_, setlist_) so mixed results stay unambiguous for
// API consumers.
package catalog
