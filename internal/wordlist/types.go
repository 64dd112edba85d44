package wordlist

import (
	"github.com/robalyx/promptaudit/pkg/audit"
)

// Issue represents a validation issue found in the wordlist.
type Issue struct {
	Type        string
	Category    string
	Description string
	Term        string
	Location    int
}

// Validator defines the interface for all wordlist validators.
type Validator interface {
	Validate(lists *audit.WordLists) []Issue
}

// categories returns every category including one list per tag.
func categories(lists *audit.WordLists) []audit.CategoryList {
	all := lists.Categories()
	for _, name := range lists.TagNames() {
		all = append(all, audit.CategoryList{
			Name:      audit.CategoryTag + ":" + name,
			Words:     lists.Tags[name],
			Pluralize: true,
		})
	}

	return all
}
