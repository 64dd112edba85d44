package audit

import (
	"fmt"
	"regexp"
	"strings"
)

// Boundary selects which characters may flank a compiled pattern.
type Boundary int

const (
	// BoundaryNatural accepts any character that is not an ASCII letter or digit.
	BoundaryNatural Boundary = iota
	// BoundaryPrompt accepts whitespace, punctuation and the separators used by
	// image-generation prompt syntax such as weights, brackets and alternations.
	BoundaryPrompt
)

const (
	naturalBoundaryClass = `[^a-zA-Z0-9]`
	promptBoundaryChars  = `\s,!?;"'%~\\$.\-()\[\]{}:|`

	// gapPattern replaces whitespace inside phrases so spacing tricks cannot split them.
	gapPattern = `[^a-zA-Z0-9]*`

	pluralSuffix = `[sz]*`
)

// substitutions maps a canonical letter to the character class of its common look-alikes.
var substitutions = map[rune]string{
	'i': `[il1]`,
	'o': `[o0]`,
	's': `[sz]`,
	'e': `[e3]`,
}

// class returns the regex character class for the boundary.
func (b Boundary) class() string {
	if b == BoundaryPrompt {
		return "[" + promptBoundaryChars + "]"
	}

	return naturalBoundaryClass
}

// String returns the boundary name.
func (b Boundary) String() string {
	if b == BoundaryPrompt {
		return "prompt"
	}

	return "natural"
}

// Options controls how a word is compiled.
type Options struct {
	// Pluralize tolerates trailing s/z characters.
	Pluralize bool
	// Boundary is the set of characters accepted around the match.
	Boundary Boundary
}

// CompiledPattern is a boundary-aware, substitution-tolerant form of a word list entry.
type CompiledPattern struct {
	// Word is the canonical entry reported on a match.
	Word string
	// Expr is the core expression without boundaries.
	Expr string
	re   *regexp.Regexp
}

// Match reports whether the pattern occurs in text.
func (p *CompiledPattern) Match(text string) bool {
	return text != "" && p.re.MatchString(text)
}

// Span returns the byte range of the first occurrence starting at or after offset.
// The range covers the matched word only, never its boundary characters.
func (p *CompiledPattern) Span(text string, offset int) (int, int, bool) {
	if offset >= len(text) {
		return 0, 0, false
	}

	loc := p.re.FindStringSubmatchIndex(text[offset:])
	if loc == nil || loc[2] < 0 {
		return 0, 0, false
	}

	start, end := trimSpan(text, offset+loc[2], offset+loc[3])
	if start >= end {
		return 0, 0, false
	}

	return start, end, true
}

// trimSpan strips incidental non-alphanumeric characters from both ends of a span.
func trimSpan(text string, start, end int) (int, int) {
	for start < end && !isASCIIAlnum(text[start]) && text[start] < 0x80 {
		start++
	}

	for end > start && !isASCIIAlnum(text[end-1]) && text[end-1] < 0x80 {
		end--
	}

	return start, end
}

func isASCIIAlnum(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// Expression converts a canonical word into its core match expression.
// Entries containing bracket syntax are hand-authored regex fragments and are used as-is.
func Expression(word string) string {
	word = strings.TrimSpace(word)
	if strings.Contains(word, "[") {
		return word
	}

	var b strings.Builder

	for i, field := range strings.Fields(strings.ToLower(word)) {
		if i > 0 {
			b.WriteString(gapPattern)
		}

		for _, r := range field {
			if sub, ok := substitutions[r]; ok {
				b.WriteString(sub)
				continue
			}

			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}

	return b.String()
}

type cacheKey struct {
	expr     string
	options  Options
	reported string
}

// Compiler turns word list entries into compiled patterns.
// Identical entries compiled with identical options share one pattern.
// A Compiler is meant for single-goroutine construction of a Registry.
type Compiler struct {
	cache map[cacheKey]*CompiledPattern
}

// NewCompiler creates a new Compiler.
func NewCompiler() *Compiler {
	return &Compiler{
		cache: make(map[cacheKey]*CompiledPattern),
	}
}

// Compile compiles a single word or phrase.
func (c *Compiler) Compile(word string, opts Options) (*CompiledPattern, error) {
	word = strings.TrimSpace(word)
	if word == "" {
		return nil, ErrEmptyEntry
	}

	return c.compileExpr(word, Expression(word), opts)
}

// compileExpr wraps a prepared core expression with boundaries and compiles it.
func (c *Compiler) compileExpr(word, expr string, opts Options) (*CompiledPattern, error) {
	key := cacheKey{expr: expr, options: opts, reported: word}
	if cached, ok := c.cache[key]; ok {
		return cached, nil
	}

	core := expr
	if opts.Pluralize {
		core += pluralSuffix
	}

	boundary := opts.Boundary.class()
	pattern := fmt.Sprintf(`(?i)(?:^|%s)(%s)(?:%s|$)`, boundary, core, boundary)

	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrInvalidPattern, word, err)
	}

	compiled := &CompiledPattern{
		Word: word,
		Expr: expr,
		re:   re,
	}
	c.cache[key] = compiled

	return compiled, nil
}

// Len returns the number of distinct compiled patterns.
func (c *Compiler) Len() int {
	return len(c.cache)
}
