package wordlist_test

import (
	"testing"

	"github.com/robalyx/promptaudit/internal/wordlist"
	"github.com/robalyx/promptaudit/pkg/audit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validLists() *audit.WordLists {
	return &audit.WordLists{
		NSFW:             []string{"nude", "naked"},
		Blocked:          []string{"gore"},
		BlockedNSFW:      []string{"gore", "bestiality"},
		YoungNoun:        []string{"child", "kid"},
		YoungAdjective:   []string{"young"},
		YoungPartialNoun: []string{"girl"},
		POI:              []string{"jane doe"},
		Tags: map[string][]string{
			"animal":  {"cat", "dog"},
			"vehicle": {"car", "truck"},
		},
	}
}

func issueTypes(issues []wordlist.Issue) []string {
	types := make([]string, len(issues))
	for i, issue := range issues {
		types[i] = issue.Type
	}

	return types
}

func TestValidateWordlist(t *testing.T) {
	t.Parallel()

	assert.Empty(t, wordlist.ValidateWordlist(validLists()))

	issues := wordlist.ValidateWordlist(nil)
	require.Len(t, issues, 1)
	assert.Equal(t, "empty_wordlist", issues[0].Type)
}

func TestDuplicateValidator(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		lists *audit.WordLists
		want  []wordlist.Issue
	}{
		{
			name:  "exact duplicate ignoring case",
			lists: &audit.WordLists{NSFW: []string{"nude", "NUDE"}},
			want: []wordlist.Issue{{
				Type:        "exact_duplicate",
				Category:    audit.CategoryNSFW,
				Description: "Term 'NUDE' appears multiple times in nsfw (positions 0 and 1)",
				Term:        "NUDE",
				Location:    1,
			}},
		},
		{
			name:  "phrase covered by single word",
			lists: &audit.WordLists{Blocked: []string{"gore", "extreme gore"}},
			want: []wordlist.Issue{{
				Type:        "phrase_redundancy",
				Category:    audit.CategoryBlocked,
				Description: "Phrase 'extreme gore' is redundant because 'gore' already matches it as a complete word",
				Term:        "extreme gore",
				Location:    1,
			}},
		},
		{
			name:  "partial word is not redundant",
			lists: &audit.WordLists{Blocked: []string{"ass", "assassin"}},
			want:  nil,
		},
		{
			name:  "same word in different categories",
			lists: &audit.WordLists{Blocked: []string{"gore"}, BlockedNSFW: []string{"gore"}},
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, wordlist.NewDuplicateValidator().Validate(tt.lists))
		})
	}
}

func TestFieldValidator(t *testing.T) {
	t.Parallel()

	lists := validLists()
	lists.POI = nil
	lists.Blocked = []string{"gore", "  ", "[unclosed"}
	lists.Tags["empty"] = []string{}

	issues := wordlist.NewFieldValidator().Validate(lists)
	assert.Equal(t, []string{"empty_required_category", "empty_tag", "empty_entry", "invalid_pattern"}, issueTypes(issues))

	assert.Equal(t, audit.CategoryPOI, issues[0].Category)
	assert.Equal(t, "tag:empty", issues[1].Category)
	assert.Equal(t, 1, issues[2].Location)
	assert.Equal(t, "[unclosed", issues[3].Term)
}

func TestMorphologyValidator(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		lists *audit.WordLists
		want  []string
	}{
		{
			name:  "plural in pluralized category",
			lists: &audit.WordLists{NSFW: []string{"nude", "nudes"}},
			want:  []string{"morphological_redundancy"},
		},
		{
			name:  "long plural run",
			lists: &audit.WordLists{YoungNoun: []string{"kid", "kidsss"}},
			want:  []string{"morphological_redundancy"},
		},
		{
			name:  "plural in exact category",
			lists: &audit.WordLists{Blocked: []string{"gore", "gores"}},
			want:  nil,
		},
		{
			name:  "plural tag term",
			lists: &audit.WordLists{Tags: map[string][]string{"animal": {"cat", "catz"}}},
			want:  []string{"morphological_redundancy"},
		},
		{
			name:  "too short",
			lists: &audit.WordLists{Blocked: []string{"x"}},
			want:  []string{"term_too_short"},
		},
		{
			name:  "too long",
			lists: &audit.WordLists{POI: []string{"an extremely long person of interest name entry"}},
			want:  []string{"term_too_long"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			issues := wordlist.NewMorphologyValidator().Validate(tt.lists)
			if tt.want == nil {
				assert.Empty(t, issues)
				return
			}

			assert.Equal(t, tt.want, issueTypes(issues))
		})
	}
}

func TestReferenceValidator(t *testing.T) {
	t.Parallel()

	lists := validLists()
	lists.NSFW = append(lists.NSFW, "Kid")
	lists.BlockedNSFW = append(lists.BlockedNSFW, "jane doe")

	issues := wordlist.NewReferenceValidator().Validate(lists)
	require.Len(t, issues, 2)

	assert.Equal(t, "ambiguous_gate", issues[0].Type)
	assert.Equal(t, "kid", issues[0].Term)
	assert.Equal(t, audit.CategoryYoungNoun, issues[0].Category)

	assert.Equal(t, "cross_reference_duplicate", issues[1].Type)
	assert.Equal(t, "jane doe", issues[1].Term)
}

func TestRelatedValidator(t *testing.T) {
	t.Parallel()

	lists := validLists()
	lists.Tags["pet"] = []string{"Dog", "hamster"}

	issues := wordlist.NewRelatedValidator().Validate(lists)
	require.Len(t, issues, 1)

	assert.Equal(t, "shared_tag_term", issues[0].Type)
	assert.Equal(t, "dog", issues[0].Term)
	assert.Equal(t, "tag:animal", issues[0].Category)
	assert.Equal(t, 1, issues[0].Location)
}
