package store

import "time"

// CorpusEntry is one labelled time expression used for training and
// evaluation.
type CorpusEntry struct {
	ID  int32
	UID string

	Text string
	// Reference is the instant the text was written relative to. Its
	// location is kept.
	Reference time.Time
	// Expected is the string form of the correct reading.
	Expected string
	Lang     string

	CreatedTs int64
}

// FindCorpusEntry specifies the conditions for finding corpus entries.
type FindCorpusEntry struct {
	ID   *int32
	UID  *string
	Lang *string

	Limit  int
	Offset int
}

// DeleteCorpusEntry specifies the entry to delete. One of ID or UID is required.
type DeleteCorpusEntry struct {
	ID  *int32
	UID *string
}
