package wordlist

import (
	"github.com/robalyx/promptaudit/pkg/audit"
)

// ValidateWordlist performs all validation checks on the word lists.
func ValidateWordlist(lists *audit.WordLists) []Issue {
	var issues []Issue

	if lists == nil {
		issues = append(issues, Issue{
			Type:        "empty_wordlist",
			Description: "Wordlist is empty or could not be loaded",
			Term:        "",
			Location:    -1,
		})

		return issues
	}

	// Create validators
	validators := []Validator{
		NewDuplicateValidator(),
		NewReferenceValidator(),
		NewFieldValidator(),
		NewMorphologyValidator(),
		NewRelatedValidator(),
	}

	// Run all validation checks
	for _, validator := range validators {
		issues = append(issues, validator.Validate(lists)...)
	}

	return issues
}
