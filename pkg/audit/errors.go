package audit

import "errors"

var (
	// ErrEmptyEntry is returned when a word list contains a blank entry.
	ErrEmptyEntry = errors.New("word list entry is empty")
	// ErrInvalidPattern is returned when an entry does not compile into a valid pattern.
	ErrInvalidPattern = errors.New("word list entry is not a valid pattern")
	// ErrMissingWordLists is returned when a registry is built without word lists.
	ErrMissingWordLists = errors.New("word lists are required")
)
