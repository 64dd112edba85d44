package wordlist

import (
	"fmt"
	"strings"

	"github.com/robalyx/promptaudit/pkg/audit"
)

// requiredCategories must hold at least one entry for the auditor to be meaningful.
var requiredCategories = []string{
	audit.CategoryNSFW,
	audit.CategoryBlockedNSFW,
	audit.CategoryPOI,
	audit.CategoryYoungNoun,
}

// FieldValidator handles blank entry, required category and pattern validation.
type FieldValidator struct{}

// NewFieldValidator creates a new FieldValidator instance.
func NewFieldValidator() *FieldValidator {
	return &FieldValidator{}
}

// Validate performs required field and pattern validation.
func (v *FieldValidator) Validate(lists *audit.WordLists) []Issue {
	var issues []Issue

	issues = append(issues, v.checkRequiredCategories(lists)...)
	issues = append(issues, v.checkTags(lists)...)
	issues = append(issues, v.checkEntries(lists)...)

	return issues
}

// checkRequiredCategories reports required categories without entries.
func (v *FieldValidator) checkRequiredCategories(lists *audit.WordLists) []Issue {
	var issues []Issue

	for _, category := range lists.Categories() {
		for _, required := range requiredCategories {
			if category.Name == required && len(category.Words) == 0 {
				issues = append(issues, Issue{
					Type:        "empty_required_category",
					Category:    category.Name,
					Description: fmt.Sprintf("Category '%s' has no entries", category.Name),
					Location:    -1,
				})
			}
		}
	}

	return issues
}

// checkTags reports blank tag names and tags without entries.
func (v *FieldValidator) checkTags(lists *audit.WordLists) []Issue {
	var issues []Issue

	for _, name := range lists.TagNames() {
		if strings.TrimSpace(name) == "" {
			issues = append(issues, Issue{
				Type:        "empty_tag_name",
				Category:    audit.CategoryTag,
				Description: "Tag with an empty name",
				Location:    -1,
			})
		}

		if len(lists.Tags[name]) == 0 {
			issues = append(issues, Issue{
				Type:        "empty_tag",
				Category:    audit.CategoryTag + ":" + name,
				Description: fmt.Sprintf("Tag '%s' has no entries", name),
				Term:        name,
				Location:    -1,
			})
		}
	}

	return issues
}

// checkEntries reports blank entries and entries that do not compile.
func (v *FieldValidator) checkEntries(lists *audit.WordLists) []Issue {
	var issues []Issue

	compiler := audit.NewCompiler()

	for _, category := range categories(lists) {
		for i, word := range category.Words {
			if strings.TrimSpace(word) == "" {
				issues = append(issues, Issue{
					Type:        "empty_entry",
					Category:    category.Name,
					Description: fmt.Sprintf("Entry at position %d of %s is empty", i, category.Name),
					Term:        "",
					Location:    i,
				})

				continue
			}

			if _, err := compiler.Compile(word, audit.Options{Pluralize: category.Pluralize}); err != nil {
				issues = append(issues, Issue{
					Type:        "invalid_pattern",
					Category:    category.Name,
					Description: fmt.Sprintf("Term '%s' does not compile: %v", word, err),
					Term:        word,
					Location:    i,
				})
			}
		}
	}

	return issues
}
