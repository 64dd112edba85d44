package audit

import (
	"regexp"
	"strings"
)

// editConstruct matches an innermost bracketed prompt-editing construct.
var editConstruct = regexp.MustCompile(`\[[^\[\]]*\]`)

// poiSeparators are blanked out before POI matching so names inside prompt syntax stay visible.
var poiSeparators = strings.NewReplacer("|", " ", ":", " ", "[", " ", "]", " ")

// evasionChars are removed before inappropriateness classification.
var evasionChars = strings.NewReplacer("'", "", ".", "", "-", "")

// IsEditConstruct reports whether the inside of a bracketed construct blends or fades
// concepts: an alternation with more than one non-empty segment, or more than two
// non-empty colon-separated segments.
func IsEditConstruct(inner string) bool {
	if countSegments(inner, "|") > 1 {
		return true
	}

	return countSegments(inner, ":") > 2
}

// countSegments counts the non-empty segments of s split by sep.
func countSegments(s, sep string) int {
	count := 0

	for segment := range strings.SplitSeq(s, sep) {
		if strings.TrimSpace(segment) != "" {
			count++
		}
	}

	return count
}

// maskEditConstructs blanks every prompt-editing construct, including its brackets,
// keeping the byte length of text unchanged. Constructs are resolved innermost first; a
// resolved construct that is not an edit is collapsed to a placeholder so the construct
// around it is still evaluated.
func maskEditConstructs(text string) string {
	if !strings.Contains(text, "[") {
		return text
	}

	var (
		scan   = []byte(text)
		masked []byte
	)

	for {
		loc := editConstruct.FindIndex(scan)
		if loc == nil {
			break
		}

		fill := byte('_')
		if IsEditConstruct(string(scan[loc[0]+1 : loc[1]-1])) {
			fill = ' '

			if masked == nil {
				masked = []byte(text)
			}

			for i := loc[0]; i < loc[1]; i++ {
				masked[i] = ' '
			}
		}

		for i := loc[0]; i < loc[1]; i++ {
			scan[i] = fill
		}
	}

	if masked == nil {
		return text
	}

	return string(masked)
}

// stripPOISeparators replaces prompt-syntax separators with spaces.
func stripPOISeparators(text string) string {
	return poiSeparators.Replace(text)
}

// stripEvasion removes apostrophes, periods and hyphens.
func stripEvasion(text string) string {
	return evasionChars.Replace(text)
}
