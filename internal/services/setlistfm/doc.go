// Package setlistfm integrates with the Setlist.fm REST API for concert
// setlist search and detail.
//
// Search queries are free text; a date expression embedded in the query
// ("phish 1997-11-22", "radiohead june 15", "pearl jam 1992") is parsed out
// and sent as a structured date or year filter, with the remainder treated
// as the artist name. Detail responses include a pointer to a likely live
// recording: phish.in for Phish shows, an archive.org search otherwise.
package setlistfm
