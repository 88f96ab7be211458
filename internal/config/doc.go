// Package config loads, normalizes, and validates Freedify's TOML
// configuration.
//
// Configuration is resolved from an explicit path, then
// ~/.config/freedify/config.toml, then ./freedify.toml. Missing files are not
// an error; defaults apply and environment variables fill in credentials
// (JAMENDO_CLIENT_ID, LISTENBRAINZ_TOKEN, SETLIST_FM_API_KEY). The PORT
// variable overrides the port of the API bind address so the daemon honors
// the container runtime contract.
package config
