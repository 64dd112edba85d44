package utils

import (
	"strings"
	"unicode/utf8"
)

// lineEndings folds Windows and old Mac line endings into \n.
var lineEndings = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// CollapseSpaces collapses runs of spaces and tabs in every line of a prompt into one
// space and trims the result. Line breaks are kept.
func CollapseSpaces(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	for i, line := range strings.Split(lineEndings.Replace(s), "\n") {
		if i > 0 {
			b.WriteByte('\n')
		}

		for j, field := range strings.Fields(line) {
			if j > 0 {
				b.WriteByte(' ')
			}

			b.WriteString(field)
		}
	}

	return strings.TrimSpace(b.String())
}

// TruncateBytes shortens s to at most limit bytes without splitting a UTF-8 sequence.
// A limit of zero or less disables truncation.
func TruncateBytes(s string, limit int) string {
	if limit <= 0 || len(s) <= limit {
		return s
	}

	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}

	return s[:cut]
}
