package batch

import (
	"context"
	"errors"

	"github.com/robalyx/promptaudit/pkg/audit"
)

var (
	ErrInvalidMode  = errors.New("invalid audit mode")
	ErrInvalidInput = errors.New("invalid batch input")
)

// Mode selects which audit pipeline an item goes through.
type Mode string

const (
	ModePrompt   Mode = "prompt"
	ModeMetadata Mode = "metadata"
)

// Auditor is the audit surface the runner needs.
type Auditor interface {
	AuditPrompt(ctx context.Context, prompt string) audit.AuditResult
	AuditMetadata(ctx context.Context, meta audit.Metadata, nsfw bool) audit.AuditResult
	Tags(text string) []string
	Highlight(text string) string
}

// Item is one prompt to audit.
type Item struct {
	ID     string `json:"id"`
	Prompt string `json:"prompt"`
	NSFW   bool   `json:"nsfw,omitempty"`
	Mode   Mode   `json:"mode,omitempty"`
}

// Result pairs an item with its verdict.
type Result struct {
	Item   Item              `json:"item"`
	Result audit.AuditResult `json:"result"`
	Tags   []string          `json:"tags"`
	Markup string            `json:"markup,omitempty"`
}

// Summary counts the verdicts of a run.
type Summary struct {
	Total     int                   `json:"total"`
	Passed    int                   `json:"passed"`
	Blocked   int                   `json:"blocked"`
	ByTrigger map[audit.Trigger]int `json:"byTrigger"`
}

// Summarize counts results by outcome and trigger.
func Summarize(results []Result) Summary {
	summary := Summary{
		Total:     len(results),
		ByTrigger: make(map[audit.Trigger]int),
	}

	for _, r := range results {
		if r.Result.Success {
			summary.Passed++
			continue
		}

		summary.Blocked++
		summary.ByTrigger[r.Result.Trigger]++
	}

	return summary
}
