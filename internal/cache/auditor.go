package cache

import (
	"context"

	"github.com/robalyx/promptaudit/pkg/audit"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// CachedAuditor serves audits from the verdict cache when possible.
// Cache failures are logged and the audit runs directly, so Redis is never required for a verdict.
type CachedAuditor struct {
	auditor *audit.Auditor
	cache   *VerdictCache
	stats   *Stats
	logger  *zap.Logger
	group   singleflight.Group
}

// NewCachedAuditor wraps an auditor. Either cache or stats may be nil.
func NewCachedAuditor(auditor *audit.Auditor, cache *VerdictCache, stats *Stats, logger *zap.Logger) *CachedAuditor {
	return &CachedAuditor{
		auditor: auditor,
		cache:   cache,
		stats:   stats,
		logger:  logger.Named("verdict_cache"),
	}
}

// Auditor returns the wrapped auditor.
func (c *CachedAuditor) Auditor() *audit.Auditor {
	return c.auditor
}

// Stats returns the verdict counters, or nil when Redis is disabled.
func (c *CachedAuditor) Stats() *Stats {
	return c.stats
}

// AuditPrompt audits a generation prompt.
func (c *CachedAuditor) AuditPrompt(ctx context.Context, prompt string) audit.AuditResult {
	return c.audit(ctx, audit.PipelinePrompt, prompt, false, func() audit.AuditResult {
		return c.auditor.AuditPrompt(prompt)
	})
}

// AuditMetadata audits image metadata.
func (c *CachedAuditor) AuditMetadata(ctx context.Context, meta audit.Metadata, nsfw bool) audit.AuditResult {
	return c.audit(ctx, audit.PipelineMetadata, meta.Prompt, nsfw, func() audit.AuditResult {
		return c.auditor.AuditMetadata(meta, nsfw)
	})
}

func (c *CachedAuditor) audit(
	ctx context.Context, pipeline audit.Pipeline, prompt string, nsfw bool, run func() audit.AuditResult,
) audit.AuditResult {
	result := c.lookup(ctx, pipeline, prompt, nsfw, run)

	if c.stats != nil {
		if err := c.stats.Record(ctx, result); err != nil {
			c.logger.Warn("Failed to record verdict", zap.Error(err))
		}
	}

	return result
}

// lookup returns the cached verdict or computes and stores it.
// Concurrent lookups of the same key share one audit.
func (c *CachedAuditor) lookup(
	ctx context.Context, pipeline audit.Pipeline, prompt string, nsfw bool, run func() audit.AuditResult,
) audit.AuditResult {
	if c.cache == nil {
		return run()
	}

	key := Key(pipeline, c.auditor.Registry().Fingerprint(), prompt, nsfw)

	value, _, _ := c.group.Do(key, func() (any, error) {
		cached, ok, err := c.cache.Get(ctx, key)
		if err != nil {
			c.logger.Warn("Failed to read cached verdict", zap.String("key", key), zap.Error(err))
		} else if ok {
			return cached, nil
		}

		result := run()

		if err := c.cache.Set(ctx, key, result); err != nil {
			c.logger.Warn("Failed to cache verdict", zap.String("key", key), zap.Error(err))
		}

		return result, nil
	})

	return value.(audit.AuditResult)
}

// Tags returns the tags of a text. Tags are cheap to compute and never cached.
func (c *CachedAuditor) Tags(text string) []string {
	return c.auditor.Tags(text)
}

// Highlight marks the violating spans of a text.
func (c *CachedAuditor) Highlight(text string) string {
	return c.auditor.Highlight(text)
}
