package utils

import (
	"html"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// TextNormalizer wraps transform.Transformer to provide convenient string normalization methods.
// This is not safe for concurrent use.
type TextNormalizer struct {
	transformer transform.Transformer
}

// NewTextNormalizer creates a new TextNormalizer instance.
func NewTextNormalizer() *TextNormalizer {
	return &TextNormalizer{
		transformer: transform.Chain(
			norm.NFKD,                          // Decompose with compatibility decomposition
			runes.Remove(runes.In(unicode.Mn)), // Remove non-spacing marks
			runes.Map(unicode.ToLower),         // Convert to lowercase before normalization
			norm.NFKC,                          // Normalize with compatibility composition
		),
	}
}

// Normalize cleans up text using the normalizer.
// Returns empty string if normalization fails or input is empty.
func (n *TextNormalizer) Normalize(s string) string {
	// Return empty string if input is empty
	if s == "" {
		return ""
	}

	// Clean up whitespace while preserving newlines
	s = CollapseSpaces(s)
	if s == "" {
		return ""
	}

	// Normalize the text
	result, _, err := transform.String(n.transformer, s)
	if err != nil || result == "" {
		return ""
	}

	return result
}

// NormalizePrompt decodes HTML entities and then normalizes the text.
// Falls back to the decoded text when normalization fails.
func (n *TextNormalizer) NormalizePrompt(s string) string {
	decoded := UnescapeEntities(s)
	if normalized := n.Normalize(decoded); normalized != "" {
		return normalized
	}

	return strings.TrimSpace(decoded)
}

// Contains checks if substr exists within s using the normalizer.
// Empty strings or normalization failures return false.
func (n *TextNormalizer) Contains(s, substr string) bool {
	if s == "" || substr == "" {
		return false
	}

	normalizedS := n.Normalize(s)
	normalizedSubstr := n.Normalize(substr)

	if normalizedS == "" || normalizedSubstr == "" {
		return strings.Contains(
			strings.ToLower(s),
			strings.ToLower(substr),
		)
	}

	return strings.Contains(normalizedS, normalizedSubstr)
}

// UnescapeEntities decodes HTML entities, including double-encoded ones such as "&amp;lt;".
func UnescapeEntities(s string) string {
	for range 3 {
		if !strings.Contains(s, "&") {
			break
		}

		decoded := html.UnescapeString(s)
		if decoded == s {
			break
		}

		s = decoded
	}

	return s
}
