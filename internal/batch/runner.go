package batch

import (
	"context"
	"fmt"
	"time"

	"github.com/robalyx/promptaudit/pkg/audit"
	"github.com/robalyx/promptaudit/pkg/utils"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

// DefaultConcurrency is used when no concurrency is configured.
const DefaultConcurrency = 4

// Runner audits many prompts concurrently.
type Runner struct {
	auditor         Auditor
	concurrency     int
	maxPromptLength int
	highlight       bool
	progress        Progress
	logger          *zap.Logger
}

// Progress receives a tick for every finished item.
type Progress interface {
	Increment(n int64)
	Blocked()
}

// Option configures a Runner.
type Option func(*Runner)

// WithHighlight adds highlighted markup of blocked prompts to the results.
func WithHighlight() Option {
	return func(r *Runner) {
		r.highlight = true
	}
}

// WithProgress reports finished items to p.
func WithProgress(p Progress) Option {
	return func(r *Runner) {
		r.progress = p
	}
}

// NewRunner creates a batch runner. Prompts longer than maxPromptLength bytes are
// truncated before auditing; zero disables the limit.
func NewRunner(auditor Auditor, concurrency, maxPromptLength int, logger *zap.Logger, opts ...Option) *Runner {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	r := &Runner{
		auditor:         auditor,
		concurrency:     concurrency,
		maxPromptLength: maxPromptLength,
		logger:          logger.Named("batch"),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Run audits every item and returns the results in input order.
// It stops early only when ctx is cancelled.
func (r *Runner) Run(ctx context.Context, items []Item) ([]Result, error) {
	var (
		start   = time.Now()
		results = make([]Result, len(items))
		p       = pool.New().WithContext(ctx).WithMaxGoroutines(r.concurrency)
	)

	for i, item := range items {
		p.Go(func(ctx context.Context) error {
			if err := ctx.Err(); err != nil {
				return err
			}

			results[i] = r.audit(ctx, item)

			if r.progress != nil {
				if !results[i].Result.Success {
					r.progress.Blocked()
				}
				r.progress.Increment(1)
			}

			return nil
		})
	}

	if err := p.Wait(); err != nil {
		return nil, fmt.Errorf("batch audit interrupted: %w", err)
	}

	summary := Summarize(results)
	r.logger.Info("Completed batch audit",
		zap.Int("total", summary.Total),
		zap.Int("passed", summary.Passed),
		zap.Int("blocked", summary.Blocked),
		zap.Duration("duration", time.Since(start)))

	return results, nil
}

// audit runs a single item through its pipeline.
func (r *Runner) audit(ctx context.Context, item Item) Result {
	prompt := utils.TruncateBytes(item.Prompt, r.maxPromptLength)
	if len(prompt) < len(item.Prompt) {
		r.logger.Debug("Truncated long prompt",
			zap.String("id", item.ID),
			zap.Int("length", len(item.Prompt)))
	}

	var result audit.AuditResult

	switch item.Mode {
	case ModeMetadata:
		result = r.auditor.AuditMetadata(ctx, audit.Metadata{Prompt: prompt}, item.NSFW)
	default:
		result = r.auditor.AuditPrompt(ctx, prompt)
	}

	if !result.Success {
		r.logger.Debug("Prompt blocked",
			zap.String("id", item.ID),
			zap.String("trigger", string(result.Trigger)),
			zap.Strings("reasons", result.BlockedFor))
	}

	res := Result{
		Item:   item,
		Result: result,
		Tags:   r.auditor.Tags(prompt),
	}

	if r.highlight && !result.Success {
		res.Markup = r.auditor.Highlight(prompt)
	}

	return res
}
