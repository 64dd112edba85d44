package moderation

import (
	"context"
	"errors"

	"github.com/robalyx/promptaudit/pkg/audit"
)

var (
	ErrInvalidRequest = errors.New("invalid audit request")
	ErrEmptyPrompt    = errors.New("request has no prompt")
)

// Request modes.
const (
	ModePrompt   = "prompt"
	ModeMetadata = "metadata"
)

// Auditor is the audit surface the service needs.
type Auditor interface {
	AuditPrompt(ctx context.Context, prompt string) audit.AuditResult
	AuditMetadata(ctx context.Context, meta audit.Metadata, nsfw bool) audit.AuditResult
	Tags(text string) []string
	Highlight(text string) string
}

// Request asks the worker to audit one prompt.
type Request struct {
	ID     string          `json:"id"`
	Prompt string          `json:"prompt,omitempty"`
	Meta   *audit.Metadata `json:"meta,omitempty"`
	NSFW   bool            `json:"nsfw,omitempty"`
	// Mode is "prompt" (default) or "metadata".
	Mode string `json:"mode,omitempty"`
	// Highlight requests markup of the violating spans.
	Highlight bool `json:"highlight,omitempty"`
}

// text returns the prompt the request is about.
func (r *Request) text() string {
	if r.Meta != nil && r.Meta.Prompt != "" {
		return r.Meta.Prompt
	}

	return r.Prompt
}

// Response is the verdict sent back for a Request.
type Response struct {
	ID         string         `json:"id"`
	BlockedFor []string       `json:"blockedFor"`
	Success    bool           `json:"success"`
	Pipeline   audit.Pipeline `json:"pipeline,omitempty"`
	Trigger    audit.Trigger  `json:"trigger,omitempty"`
	Tags       []string       `json:"tags,omitempty"`
	Highlight  string         `json:"highlight,omitempty"`
	Error      string         `json:"error,omitempty"`
}
