// Package api defines the JSON payloads exchanged between the daemon's
// HTTP surface and its clients. The CLI and the server both depend on
// these types so the wire contract lives in one place.
package api
