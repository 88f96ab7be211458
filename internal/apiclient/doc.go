// Package apiclient is the HTTP client the CLI uses to talk to the
// daemon's API. Connection failures surface as ErrDaemonNotRunning so
// commands can print a friendly hint instead of a raw dial error.
package apiclient
