package wordlist

import (
	"fmt"
	"sort"
	"strings"

	"github.com/robalyx/promptaudit/pkg/audit"
)

// RelatedValidator handles terms shared between tags.
type RelatedValidator struct{}

// NewRelatedValidator creates a new RelatedValidator instance.
func NewRelatedValidator() *RelatedValidator {
	return &RelatedValidator{}
}

// Validate performs shared tag term validation.
func (v *RelatedValidator) Validate(lists *audit.WordLists) []Issue {
	return v.checkSharedTagTerms(lists)
}

// checkSharedTagTerms finds terms that appear under more than one tag.
func (v *RelatedValidator) checkSharedTagTerms(lists *audit.WordLists) []Issue {
	var issues []Issue

	type usage struct {
		tag   string
		index int
	}

	// Build a map of terms to the tags that use them
	termUsage := make(map[string][]usage)

	for _, name := range lists.TagNames() {
		for i, word := range lists.Tags[name] {
			key := strings.ToLower(strings.TrimSpace(word))
			if key == "" {
				continue
			}

			termUsage[key] = append(termUsage[key], usage{name, i})
		}
	}

	terms := make([]string, 0, len(termUsage))
	for term := range termUsage {
		terms = append(terms, term)
	}

	sort.Strings(terms)

	for _, term := range terms {
		usages := termUsage[term]
		if len(usages) < 2 {
			continue
		}

		tags := make([]string, len(usages))
		for i, u := range usages {
			tags[i] = fmt.Sprintf("'%s'", u.tag)
		}

		// Report on the first occurrence
		issues = append(issues, Issue{
			Type:     "shared_tag_term",
			Category: audit.CategoryTag + ":" + usages[0].tag,
			Description: fmt.Sprintf("Term '%s' appears in multiple tags (%s) - "+
				"prompts containing it get every one of them", term, strings.Join(tags, ", ")),
			Term:     term,
			Location: usages[0].index,
		})
	}

	return issues
}
