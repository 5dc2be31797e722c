package domain

import "errors"

// ErrSongNotFound is returned by lyric lookups that have no match for a title and artist.
var ErrSongNotFound = errors.New("domain: song not found")

// Song is the handle a lyrics provider returns for a title/artist lookup.
type Song struct {
	ID     string
	Title  string
	Artist string
	URL    string // page the lyric text is read from
}

// ErrNotFound is returned by repositories for missing records.
var ErrNotFound = errors.New("domain: not found")
