package wordlist

import (
	"fmt"
	"sort"
	"strings"

	"github.com/robalyx/promptaudit/pkg/audit"
)

// DuplicateValidator handles exact duplicate and phrase redundancy validation.
type DuplicateValidator struct{}

// NewDuplicateValidator creates a new DuplicateValidator instance.
func NewDuplicateValidator() *DuplicateValidator {
	return &DuplicateValidator{}
}

// Validate performs duplicate and phrase redundancy validation on every category.
func (v *DuplicateValidator) Validate(lists *audit.WordLists) []Issue {
	var issues []Issue

	for _, category := range categories(lists) {
		issues = append(issues, v.checkExactDuplicates(category)...)
		issues = append(issues, v.checkPhraseRedundancy(category)...)
	}

	return issues
}

// checkExactDuplicates finds terms listed twice in one category, ignoring case.
func (v *DuplicateValidator) checkExactDuplicates(category audit.CategoryList) []Issue {
	var issues []Issue

	seen := make(map[string]int)

	for i, word := range category.Words {
		key := strings.ToLower(strings.TrimSpace(word))
		if key == "" {
			continue
		}

		if prevIndex, exists := seen[key]; exists {
			issues = append(issues, Issue{
				Type:     "exact_duplicate",
				Category: category.Name,
				Description: fmt.Sprintf("Term '%s' appears multiple times in %s (positions %d and %d)",
					word, category.Name, prevIndex, i),
				Term:     word,
				Location: i,
			})
		} else {
			seen[key] = i
		}
	}

	return issues
}

// checkPhraseRedundancy finds phrases that can never be reported because a single word
// of the same category already matches wherever they do.
func (v *DuplicateValidator) checkPhraseRedundancy(category audit.CategoryList) []Issue {
	var issues []Issue

	type indexedEntry struct {
		word  string
		index int
	}

	entries := make([]indexedEntry, 0, len(category.Words))
	for i, word := range category.Words {
		if strings.TrimSpace(word) != "" && !strings.Contains(word, "[") {
			entries = append(entries, indexedEntry{word, i})
		}
	}

	// Sort by length so every shorter entry is compared only against longer ones
	sort.SliceStable(entries, func(i, j int) bool {
		return len(entries[i].word) < len(entries[j].word)
	})

	for i, short := range entries {
		if strings.Contains(strings.TrimSpace(short.word), " ") {
			continue
		}

		for j := i + 1; j < len(entries); j++ {
			long := entries[j]
			if v.isCompleteWordSubstring(short.word, long.word) {
				issues = append(issues, Issue{
					Type:     "phrase_redundancy",
					Category: category.Name,
					Description: fmt.Sprintf("Phrase '%s' is redundant because '%s' already matches it as a complete word",
						long.word, short.word),
					Term:     long.word,
					Location: long.index,
				})
			}
		}
	}

	return issues
}

// isCompleteWordSubstring checks if the shorter term appears as a complete word in the longer term.
func (v *DuplicateValidator) isCompleteWordSubstring(short, long string) bool {
	shortLower := strings.ToLower(strings.TrimSpace(short))
	longLower := strings.ToLower(long)

	if shortLower == longLower {
		return false
	}

	// Split the long string into words and check each one
	words := strings.FieldsFunc(longLower, func(r rune) bool {
		return (r < 'a' || r > 'z') && (r < '0' || r > '9')
	})

	for _, word := range words {
		if word == shortLower {
			return true
		}
	}

	return false
}
