package types

import "strings"

// Record statuses.
const (
	StatusPassed  = "passed"
	StatusBlocked = "blocked"
)

// Record represents one audited prompt in an export file.
// The prompt itself is never exported, only its hash.
type Record struct {
	ID         string
	PromptHash string
	Status     string
	Pipeline   string
	Trigger    string
	Reasons    []string
	Tags       []string
}

// Reason joins the block reasons for single-column formats.
func (r *Record) Reason() string {
	return strings.Join(r.Reasons, "; ")
}

// TagList joins the tags for single-column formats.
func (r *Record) TagList() string {
	return strings.Join(r.Tags, "; ")
}
