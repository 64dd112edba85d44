package utils_test

import (
	"testing"

	"github.com/robalyx/promptaudit/pkg/utils"
)

// assertContainsExpectedForms verifies that all expected forms are present.
func assertContainsExpectedForms(t *testing.T, result []string, expected []string, testName string) {
	t.Helper()

	for _, expectedForm := range expected {
		found := false

		for _, actual := range result {
			if actual == expectedForm {
				found = true
				break
			}
		}

		if !found {
			t.Errorf("%s: Expected form '%s' not found in result: %v", testName, expectedForm, result)
		}
	}
}

func TestGeneratePluralVariations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		baseTerm string
		expected []string
		count    int
	}{
		{
			name:     "regular word",
			baseTerm: "cat",
			expected: []string{"cat", "cats", "catz", "catss", "catzz"},
			count:    5,
		},
		{
			name:     "single character",
			baseTerm: "a",
			expected: []string{"a"},
			count:    1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := utils.GeneratePluralVariations(tt.baseTerm)
			assertContainsExpectedForms(t, result, tt.expected, tt.name)

			if len(result) != tt.count {
				t.Errorf("Expected %d variations, got %d: %v", tt.count, len(result), result)
			}
		})
	}
}

func TestSingularBase(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		term      string
		minLength int
		want      string
		stripped  bool
	}{
		{name: "plural s", term: "dogs", minLength: 3, want: "dog", stripped: true},
		{name: "repeated z", term: "dogzz", minLength: 3, want: "dog", stripped: true},
		{name: "no suffix", term: "dog", minLength: 3, want: "dog", stripped: false},
		{name: "too short after strip", term: "ass", minLength: 3, want: "ass", stripped: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, stripped := utils.SingularBase(tt.term, tt.minLength)
			if got != tt.want || stripped != tt.stripped {
				t.Errorf("SingularBase(%q) = %q, %v; want %q, %v", tt.term, got, stripped, tt.want, tt.stripped)
			}
		})
	}
}

func TestRemoveDuplicates(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{
			name:     "no duplicates",
			input:    []string{"a", "b", "c"},
			expected: []string{"a", "b", "c"},
		},
		{
			name:     "with duplicates",
			input:    []string{"a", "b", "a", "c", "b"},
			expected: []string{"a", "b", "c"},
		},
		{
			name:     "empty slice",
			input:    []string{},
			expected: []string{},
		},
		{
			name:     "all same",
			input:    []string{"a", "a", "a"},
			expected: []string{"a"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := utils.RemoveDuplicates(tt.input)

			if len(result) != len(tt.expected) {
				t.Errorf("Expected length %d, got %d. Result: %v, Expected: %v",
					len(tt.expected), len(result), result, tt.expected)

				return
			}

			// Check that all expected items are present
			resultMap := make(map[string]bool)
			for _, item := range result {
				resultMap[item] = true
			}

			for _, expected := range tt.expected {
				if !resultMap[expected] {
					t.Errorf("Expected item '%s' not found in result: %v", expected, result)
				}
			}
		})
	}
}

