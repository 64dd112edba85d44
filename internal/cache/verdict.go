package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/rueidis"
	"github.com/robalyx/promptaudit/pkg/audit"
)

const keyPrefix = "promptaudit:verdict"

// DefaultTTL is used when no verdict lifetime is configured.
const DefaultTTL = time.Hour

// VerdictCache stores audit verdicts in Redis, keyed by the word list fingerprint
// so a word list change never serves stale results.
type VerdictCache struct {
	client rueidis.Client
	ttl    time.Duration
}

// NewVerdictCache creates a verdict cache over a Redis client.
func NewVerdictCache(client rueidis.Client, ttl time.Duration) *VerdictCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &VerdictCache{
		client: client,
		ttl:    ttl,
	}
}

// Key builds the cache key for one audit input.
func Key(pipeline audit.Pipeline, fingerprint, prompt string, nsfw bool) string {
	h := sha256.New()
	h.Write([]byte(prompt))

	if pipeline == audit.PipelineMetadata {
		h.Write([]byte{0})
		h.Write([]byte(strconv.FormatBool(nsfw)))
	}

	return fmt.Sprintf("%s:%s:%s:%s", keyPrefix, pipeline, fingerprint, hex.EncodeToString(h.Sum(nil)))
}

// Get returns the cached verdict for key. A missing key is not an error.
func (c *VerdictCache) Get(ctx context.Context, key string) (audit.AuditResult, bool, error) {
	data, err := c.client.Do(ctx, c.client.B().Get().Key(key).Build()).AsBytes()
	if err != nil {
		if errors.Is(err, rueidis.Nil) {
			return audit.AuditResult{}, false, nil
		}

		return audit.AuditResult{}, false, fmt.Errorf("failed to get verdict: %w", err)
	}

	var result audit.AuditResult
	if err := sonic.Unmarshal(data, &result); err != nil {
		return audit.AuditResult{}, false, fmt.Errorf("failed to decode verdict: %w", err)
	}

	return result, true, nil
}

// Set stores a verdict under key with the cache lifetime.
func (c *VerdictCache) Set(ctx context.Context, key string, result audit.AuditResult) error {
	data, err := sonic.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode verdict: %w", err)
	}

	cmd := c.client.B().Set().Key(key).Value(string(data)).Ex(c.ttl).Build()
	if err := c.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("failed to store verdict: %w", err)
	}

	return nil
}
