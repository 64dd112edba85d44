package wordlist

import (
	"fmt"
	"strings"

	"github.com/robalyx/promptaudit/pkg/audit"
)

// ReferenceValidator handles entries that conflict across categories.
type ReferenceValidator struct{}

// NewReferenceValidator creates a new ReferenceValidator instance.
func NewReferenceValidator() *ReferenceValidator {
	return &ReferenceValidator{}
}

// Validate performs cross-category validation.
func (v *ReferenceValidator) Validate(lists *audit.WordLists) []Issue {
	var issues []Issue

	// A young noun that is also an NSFW word makes every mention of it inappropriate on its own
	issues = append(issues, v.checkOverlap(lists.YoungNoun, audit.CategoryYoungNoun,
		lists.NSFW, audit.CategoryNSFW, "ambiguous_gate")...)

	// A POI entry that is blocklisted is reported as a blocklist hit and never as a POI
	issues = append(issues, v.checkOverlap(lists.POI, audit.CategoryPOI,
		lists.Blocked, audit.CategoryBlocked, "cross_reference_duplicate")...)
	issues = append(issues, v.checkOverlap(lists.POI, audit.CategoryPOI,
		lists.BlockedNSFW, audit.CategoryBlockedNSFW, "cross_reference_duplicate")...)

	return issues
}

// checkOverlap reports entries of words that also appear in others.
func (v *ReferenceValidator) checkOverlap(
	words []string, category string, others []string, otherCategory, issueType string,
) []Issue {
	var issues []Issue

	// Build set of all terms
	termExists := make(map[string]struct{})
	for _, other := range others {
		termExists[strings.ToLower(strings.TrimSpace(other))] = struct{}{}
	}

	for i, word := range words {
		if _, exists := termExists[strings.ToLower(strings.TrimSpace(word))]; exists {
			issues = append(issues, Issue{
				Type:        issueType,
				Category:    category,
				Description: fmt.Sprintf("Term '%s' in %s also exists in %s", word, category, otherCategory),
				Term:        word,
				Location:    i,
			})
		}
	}

	return issues
}
