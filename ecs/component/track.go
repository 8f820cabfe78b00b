package component

import "errors"

var ErrEmptyQueue = errors.New("track queue: no tracks")

// Track is one entry of the playlist. Tracks are identified by their position
// in the queue, not by any field.
type Track struct {
	Title         string
	Artist        string
	DurationLabel string
	Source        string
}

// TrackQueue is the ordered playlist plus the cursor. Index is always a valid
// position; navigation wraps at both ends.
type TrackQueue struct {
	Tracks []Track
	Index  int
}

func NewTrackQueue(tracks []Track) (*TrackQueue, error) {
	if len(tracks) == 0 {
		return nil, ErrEmptyQueue
	}
	return &TrackQueue{Tracks: append([]Track(nil), tracks...)}, nil
}

func (q *TrackQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.Tracks)
}

func (q *TrackQueue) Current() Track {
	if q.Len() == 0 {
		return Track{}
	}
	return q.Tracks[q.Index]
}

// Next moves the cursor forward one track, wrapping to the start.
func (q *TrackQueue) Next() int {
	if q.Len() == 0 {
		return 0
	}
	q.Index = (q.Index + 1) % len(q.Tracks)
	return q.Index
}

// Prev moves the cursor back one track, wrapping to the end.
func (q *TrackQueue) Prev() int {
	if q.Len() == 0 {
		return 0
	}
	q.Index = (q.Index - 1 + len(q.Tracks)) % len(q.Tracks)
	return q.Index
}

// Set jumps to i. Out-of-range requests are ignored and report false.
func (q *TrackQueue) Set(i int) bool {
	if i < 0 || i >= q.Len() {
		return false
	}
	q.Index = i
	return true
}

var TrackQueueComponent = NewComponent[TrackQueue]()
