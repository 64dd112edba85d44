package audit

import "strings"

// TextFunc rewrites text without changing its byte length, so that match offsets
// found in the rewritten text are valid in the original.
type TextFunc func(text string) string

// RenderFunc renders a matched span of text.
type RenderFunc func(span string) string

// Matcher answers whether text contains any entry of one word list category.
// A Matcher is immutable once built and safe for concurrent use.
type Matcher struct {
	name       string
	patterns   []*CompiledPattern
	preprocess TextFunc
	exempt     TextFunc
}

// MatcherOption configures a Matcher.
type MatcherOption func(*Matcher)

// WithPreprocessor normalizes text before matching.
func WithPreprocessor(fn TextFunc) MatcherOption {
	return func(m *Matcher) {
		m.preprocess = fn
	}
}

// WithExemption masks regions of text in which matches are ignored.
func WithExemption(fn TextFunc) MatcherOption {
	return func(m *Matcher) {
		m.exempt = fn
	}
}

// NewMatcher creates a matcher over patterns; list order decides which word is reported first.
func NewMatcher(name string, patterns []*CompiledPattern, opts ...MatcherOption) *Matcher {
	m := &Matcher{
		name:     name,
		patterns: patterns,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Name returns the category name.
func (m *Matcher) Name() string {
	return m.name
}

// Len returns the number of patterns.
func (m *Matcher) Len() int {
	return len(m.patterns)
}

// Words returns the canonical entries in match order.
func (m *Matcher) Words() []string {
	words := make([]string, len(m.patterns))
	for i, p := range m.patterns {
		words[i] = p.Word
	}

	return words
}

// WithoutExemption returns a copy of the matcher that also matches inside exempt regions.
func (m *Matcher) WithoutExemption() *Matcher {
	clone := *m
	clone.exempt = nil

	return &clone
}

// view returns the text the patterns actually run against.
func (m *Matcher) view(text string) string {
	if m.exempt != nil {
		text = m.exempt(text)
	}

	if m.preprocess != nil {
		text = m.preprocess(text)
	}

	return text
}

// InPrompt returns the first entry, by list order, that occurs in text.
func (m *Matcher) InPrompt(text string) (string, bool) {
	if m == nil || strings.TrimSpace(text) == "" {
		return "", false
	}

	target := m.view(text)
	for _, p := range m.patterns {
		if p.Match(target) {
			return p.Word, true
		}
	}

	return "", false
}

// InPromptAll returns every distinct entry that occurs in text, in list order.
func (m *Matcher) InPromptAll(text string) []string {
	if m == nil || strings.TrimSpace(text) == "" {
		return nil
	}

	var (
		target = m.view(text)
		words  []string
		seen   = make(map[string]struct{})
	)

	for _, p := range m.patterns {
		if _, ok := seen[p.Word]; ok {
			continue
		}

		if p.Match(target) {
			words = append(words, p.Word)
			seen[p.Word] = struct{}{}
		}
	}

	return words
}

// Highlight replaces, for every pattern that matches, the first occurrence with render.
// Each pattern runs against the output of the previous one. Regions blanked by protect,
// which must keep the byte length of text, are never matched.
func (m *Matcher) Highlight(text string, render RenderFunc, protect TextFunc) string {
	if m == nil || strings.TrimSpace(text) == "" {
		return text
	}

	for _, p := range m.patterns {
		target := text
		if protect != nil {
			target = protect(target)
		}

		start, end, ok := p.Span(m.view(target), 0)
		if !ok {
			continue
		}

		text = text[:start] + render(text[start:end]) + text[end:]
	}

	return text
}
