// Package daemon coordinates the long-running Freedify process.
//
// It wires configuration, the scrobble journal, the catalog aggregation
// service, and the transcoding pipeline into a single lifecycle with
// flock-based locking to prevent multiple instances, and serves the HTTP
// API the CLI and other clients talk to.
//
// Keep orchestration logic here: catalog, scrobbling, and transcoding
// behavior lives in their respective packages while the daemon focuses on
// startup, shutdown, and request routing.
package daemon
