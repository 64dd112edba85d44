package wordlist

import (
	"fmt"
	"strings"

	"github.com/robalyx/promptaudit/pkg/audit"
	"github.com/robalyx/promptaudit/pkg/utils"
)

const (
	minTermLength   = 2
	maxTermLength   = 40
	minSuffixLength = 2 // for -s/-z suffixes
)

// MorphologyValidator handles plural redundancy and term length validation.
type MorphologyValidator struct{}

// NewMorphologyValidator creates a new MorphologyValidator instance.
func NewMorphologyValidator() *MorphologyValidator {
	return &MorphologyValidator{}
}

// Validate performs morphological validation on every category.
func (v *MorphologyValidator) Validate(lists *audit.WordLists) []Issue {
	var issues []Issue

	for _, category := range categories(lists) {
		primaryTerms := make(map[string]int)
		for i, word := range category.Words {
			primaryTerms[strings.ToLower(strings.TrimSpace(word))] = i
		}

		for i, word := range category.Words {
			if strings.TrimSpace(word) == "" {
				continue
			}

			issues = append(issues, v.checkTermQuality(category.Name, word, i)...)

			if category.Pluralize {
				issues = append(issues, v.checkPluralRedundancy(category.Name, word, i, primaryTerms)...)
			}
		}
	}

	return issues
}

// checkPluralRedundancy checks if a term is a plural spelling of another term
// in a category whose patterns already accept plurals.
func (v *MorphologyValidator) checkPluralRedundancy(
	category, word string, location int, primaryTerms map[string]int,
) []Issue {
	var issues []Issue

	term := strings.ToLower(strings.TrimSpace(word))

	for otherTerm, otherIndex := range primaryTerms {
		if otherIndex == location || otherTerm == term {
			continue
		}

		for _, variation := range utils.GeneratePluralVariations(otherTerm) {
			if variation == term {
				issues = append(issues, Issue{
					Type:     "morphological_redundancy",
					Category: category,
					Description: fmt.Sprintf("Term '%s' is a plural of '%s' - "+
						"remove '%s' as plurals are matched automatically", word, otherTerm, word),
					Term:     word,
					Location: location,
				})

				return issues
			}
		}
	}

	// Longer plural runs such as "catsss" are covered by the base term as well
	if base, ok := utils.SingularBase(term, minSuffixLength); ok {
		if otherIndex, exists := primaryTerms[base]; exists && otherIndex != location {
			issues = append(issues, Issue{
				Type:     "morphological_redundancy",
				Category: category,
				Description: fmt.Sprintf("Term '%s' is a plural of '%s' - "+
					"remove '%s' as plurals are matched automatically", word, base, word),
				Term:     word,
				Location: location,
			})
		}
	}

	return issues
}

// checkTermQuality validates term length bounds.
func (v *MorphologyValidator) checkTermQuality(category, word string, location int) []Issue {
	var issues []Issue

	if len(word) > maxTermLength {
		issues = append(issues, Issue{
			Type:     "term_too_long",
			Category: category,
			Description: fmt.Sprintf("Term '%s' is too long (%d characters)",
				word, len(word)),
			Term:     word,
			Location: location,
		})
	}

	if len(strings.TrimSpace(word)) < minTermLength {
		issues = append(issues, Issue{
			Type:     "term_too_short",
			Category: category,
			Description: fmt.Sprintf("Term '%s' is too short (%d characters) - it will match inside unrelated text",
				word, len(word)),
			Term:     word,
			Location: location,
		})
	}

	return issues
}
