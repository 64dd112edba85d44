package cache

import (
	"context"
	"fmt"

	"github.com/redis/rueidis"
	"github.com/robalyx/promptaudit/pkg/audit"
)

const statsPrefix = "promptaudit:stats"

// passedField counts verdicts without a trigger.
const passedField = "passed"

// Stats keeps per-pipeline verdict counters in a Redis hash.
type Stats struct {
	client rueidis.Client
}

// NewStats creates a counter store over a Redis client.
func NewStats(client rueidis.Client) *Stats {
	return &Stats{client: client}
}

// Record increments the counter for the verdict's trigger.
func (s *Stats) Record(ctx context.Context, result audit.AuditResult) error {
	field := string(result.Trigger)
	if field == "" {
		field = passedField
	}

	cmd := s.client.B().Hincrby().Key(statsKey(result.Pipeline)).Field(field).Increment(1).Build()
	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("failed to record verdict: %w", err)
	}

	return nil
}

// Counts returns the counters of a pipeline keyed by trigger, with "passed" for clean verdicts.
func (s *Stats) Counts(ctx context.Context, pipeline audit.Pipeline) (map[string]int64, error) {
	values, err := s.client.Do(ctx, s.client.B().Hgetall().Key(statsKey(pipeline)).Build()).AsIntMap()
	if err != nil {
		return nil, fmt.Errorf("failed to read verdict counters: %w", err)
	}

	return values, nil
}

func statsKey(pipeline audit.Pipeline) string {
	return statsPrefix + ":" + string(pipeline)
}
