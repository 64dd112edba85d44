package utils

// GeneratePluralVariations generates the plural spellings a pluralized pattern already tolerates.
// Only trailing s/z forms are generated since compiled patterns accept any run of them.
func GeneratePluralVariations(baseTerm string) []string {
	if len(baseTerm) < 2 {
		return []string{baseTerm}
	}

	variations := []string{
		baseTerm,
		baseTerm + "s",
		baseTerm + "z",
		baseTerm + "ss",
		baseTerm + "zz",
	}

	return RemoveDuplicates(variations)
}

// SingularBase returns the term with trailing s/z characters removed, and whether any were removed.
// Terms shorter than minLength after removal are left untouched.
func SingularBase(term string, minLength int) (string, bool) {
	base := term
	for len(base) > 0 && (base[len(base)-1] == 's' || base[len(base)-1] == 'z') {
		base = base[:len(base)-1]
	}

	if base == term || len(base) < minLength {
		return term, false
	}

	return base, true
}

// RemoveDuplicates removes duplicate strings from a slice.
func RemoveDuplicates(strs []string) []string {
	seen := make(map[string]struct{})

	var result []string

	for _, str := range strs {
		if _, exists := seen[str]; !exists {
			result = append(result, str)
			seen[str] = struct{}{}
		}
	}

	return result
}
