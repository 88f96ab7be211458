// Package store manages Freedify's persistent state backed by SQLite: the
// scrobble journal that buffers listens until ListenBrainz accepts them, and
// the enrichment cache that holds MusicBrainz lookups between requests.
//
// Scrobbles move pending -> submitted, or pending -> failed once the retry
// budget is exhausted. Enrichment entries expire after a configurable TTL
// and are pruned opportunistically.
package store
