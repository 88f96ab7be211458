// Package scrobble delivers journaled listens to ListenBrainz.
//
// Listens are accepted into the store immediately and flushed on an
// interval, so playback never blocks on the network and listens survive
// daemon restarts and ListenBrainz outages. A submission that keeps failing
// is parked as failed once its attempt budget runs out.
package scrobble
