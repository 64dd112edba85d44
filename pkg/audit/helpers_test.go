package audit_test

import (
	"testing"

	"github.com/robalyx/promptaudit/pkg/audit"
	"github.com/stretchr/testify/require"
)

// testWordLists returns a small word list covering every category.
func testWordLists() *audit.WordLists {
	return &audit.WordLists{
		NSFW:             []string{"nsfw", "nude", "naked", "topless"},
		Blocked:          []string{"ass", "gore", "swastika"},
		BlockedNSFW:      []string{"gore", "swastika", "bestiality", "[sz]n[uo]ff film"},
		YoungNoun:        []string{"child", "kid", "loli", "schoolgirl"},
		YoungAdjective:   []string{"young", "tiny"},
		YoungPartialNoun: []string{"girl", "boy"},
		POI:              []string{"jane doe", "john smith"},
		Tags: map[string][]string{
			"vehicle": {"car", "truck"},
			"animal":  {"cat", "dog"},
		},
	}
}

// newTestAuditor builds an auditor over testWordLists.
func newTestAuditor(t testing.TB, opts ...audit.Option) *audit.Auditor {
	t.Helper()

	registry, err := audit.NewRegistry(testWordLists())
	require.NoError(t, err)

	return audit.NewAuditor(registry, opts...)
}
