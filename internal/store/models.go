package store

import "time"

// Status tracks a scrobble through the submission journal.
type Status string

const (
	StatusPending   Status = "pending"
	StatusSubmitted Status = "submitted"
	StatusFailed    Status = "failed"
)

// Scrobble is one journaled listen awaiting delivery to ListenBrainz.
type Scrobble struct {
	ID          string
	TrackID     string
	TrackName   string
	ArtistName  string
	AlbumName   string
	DurationMS  int64
	ISRC        string
	TrackNumber int

	// ListenedAt is the unix timestamp of the listen.
	ListenedAt int64

	Status    Status
	Attempts  int
	LastError string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// JournalSummary aggregates journal state for status output.
type JournalSummary struct {
	Pending   int `json:"pending"`
	Submitted int `json:"submitted"`
	Failed    int `json:"failed"`
	Total     int `json:"total"`
}
