package audit

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"slices"
	"strings"
)

// Category names used by word lists and matchers.
const (
	CategoryNSFW             = "nsfw"
	CategoryBlocked          = "blocked"
	CategoryBlockedNSFW      = "blockedNsfw"
	CategoryYoungNoun        = "youngNoun"
	CategoryYoungAdjective   = "youngAdjective"
	CategoryYoungPartialNoun = "youngPartialNoun"
	CategoryPOI              = "poi"
	CategoryTag              = "tag"
)

// youngJoiner allows any run of words between a young adjective and a partial noun.
const youngJoiner = `[\s\w]*`

// WordLists holds the canonical terms of every category.
type WordLists struct {
	NSFW             []string            `json:"nsfw"`
	Blocked          []string            `json:"blocked"`
	BlockedNSFW      []string            `json:"blockedNsfw"`
	YoungNoun        []string            `json:"youngNoun"`
	YoungAdjective   []string            `json:"youngAdjective"`
	YoungPartialNoun []string            `json:"youngPartialNoun"`
	POI              []string            `json:"poi"`
	Tags             map[string][]string `json:"tags"`
}

// Categories returns every non-tag category with its entries, in a fixed order.
func (w *WordLists) Categories() []CategoryList {
	return []CategoryList{
		{Name: CategoryNSFW, Words: w.NSFW, Pluralize: true},
		{Name: CategoryBlocked, Words: w.Blocked},
		{Name: CategoryBlockedNSFW, Words: w.BlockedNSFW},
		{Name: CategoryYoungNoun, Words: w.YoungNoun, Pluralize: true},
		{Name: CategoryYoungAdjective, Words: w.YoungAdjective},
		{Name: CategoryYoungPartialNoun, Words: w.YoungPartialNoun, Pluralize: true},
		{Name: CategoryPOI, Words: w.POI},
	}
}

// TagNames returns the tag names in sorted order.
func (w *WordLists) TagNames() []string {
	names := make([]string, 0, len(w.Tags))
	for name := range w.Tags {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

// CategoryList is one named list of entries.
type CategoryList struct {
	Name      string
	Words     []string
	Pluralize bool
}

// TagMatcher pairs a tag name with its matcher.
type TagMatcher struct {
	Tag     string
	Matcher *Matcher
}

// Registry holds every compiled matcher. It is built once from word lists and then
// only read, so a single Registry can be shared by any number of goroutines.
type Registry struct {
	nsfw        *Matcher
	blocked     *Matcher
	blockedNSFW *Matcher
	youngNoun   *Matcher
	poi         *Matcher
	age         *AgeDetector
	tags        []TagMatcher
	fingerprint string
	patterns    int
}

// NewRegistry compiles word lists into a Registry.
// Any blank entry or invalid regex fragment fails the whole build.
func NewRegistry(lists *WordLists) (*Registry, error) {
	if lists == nil {
		return nil, ErrMissingWordLists
	}

	compiler := NewCompiler()
	natural := Options{Boundary: BoundaryNatural}
	plural := Options{Boundary: BoundaryNatural, Pluralize: true}
	prompt := Options{Boundary: BoundaryPrompt}

	nsfw, err := compileList(compiler, CategoryNSFW, lists.NSFW, plural)
	if err != nil {
		return nil, err
	}

	blocked, err := compileList(compiler, CategoryBlocked, lists.Blocked, prompt)
	if err != nil {
		return nil, err
	}

	blockedNSFW, err := compileList(compiler, CategoryBlockedNSFW, lists.BlockedNSFW, prompt)
	if err != nil {
		return nil, err
	}

	youngNoun, err := compileYoungNouns(compiler, lists, plural)
	if err != nil {
		return nil, err
	}

	poi, err := compileList(compiler, CategoryPOI, lists.POI, natural)
	if err != nil {
		return nil, err
	}

	age, err := NewDefaultAgeDetector()
	if err != nil {
		return nil, err
	}

	registry := &Registry{
		nsfw:        NewMatcher(CategoryNSFW, nsfw),
		blocked:     NewMatcher(CategoryBlocked, blocked),
		blockedNSFW: NewMatcher(CategoryBlockedNSFW, blockedNSFW),
		youngNoun:   NewMatcher(CategoryYoungNoun, youngNoun),
		poi: NewMatcher(CategoryPOI, poi,
			WithExemption(maskEditConstructs),
			WithPreprocessor(stripPOISeparators),
		),
		age:         age,
		fingerprint: fingerprint(lists),
	}

	for _, name := range lists.TagNames() {
		patterns, err := compileList(compiler, CategoryTag+":"+name, lists.Tags[name], plural)
		if err != nil {
			return nil, err
		}

		registry.tags = append(registry.tags, TagMatcher{
			Tag:     name,
			Matcher: NewMatcher(name, patterns),
		})
	}

	registry.patterns = compiler.Len() + age.Len()

	return registry, nil
}

// compileList compiles every entry of a category.
func compileList(compiler *Compiler, category string, words []string, opts Options) ([]*CompiledPattern, error) {
	patterns := make([]*CompiledPattern, 0, len(words))

	for i, word := range words {
		pattern, err := compiler.Compile(word, opts)
		if err != nil {
			return nil, fmt.Errorf("category %s entry %d: %w", category, i, err)
		}

		patterns = append(patterns, pattern)
	}

	return patterns, nil
}

// compileYoungNouns compiles the young nouns plus every adjective and partial noun pairing.
func compileYoungNouns(compiler *Compiler, lists *WordLists, opts Options) ([]*CompiledPattern, error) {
	patterns, err := compileList(compiler, CategoryYoungNoun, lists.YoungNoun, opts)
	if err != nil {
		return nil, err
	}

	for i, adjective := range lists.YoungAdjective {
		adjective = strings.TrimSpace(adjective)
		if adjective == "" {
			return nil, fmt.Errorf("category %s entry %d: %w", CategoryYoungAdjective, i, ErrEmptyEntry)
		}

		for j, noun := range lists.YoungPartialNoun {
			noun = strings.TrimSpace(noun)
			if noun == "" {
				return nil, fmt.Errorf("category %s entry %d: %w", CategoryYoungPartialNoun, j, ErrEmptyEntry)
			}

			pattern, err := compiler.compileExpr(adjective+" "+noun, Expression(adjective)+youngJoiner+Expression(noun), opts)
			if err != nil {
				return nil, fmt.Errorf("category %s entry %q: %w", CategoryYoungNoun, adjective+" "+noun, err)
			}

			patterns = append(patterns, pattern)
		}
	}

	return patterns, nil
}

// fingerprint hashes the word lists so cached verdicts can be tied to one configuration.
func fingerprint(lists *WordLists) string {
	h := sha256.New()

	write := func(name string, words []string) {
		h.Write([]byte(name))
		h.Write([]byte{0})

		for _, word := range words {
			h.Write([]byte(strings.ToLower(strings.TrimSpace(word))))
			h.Write([]byte{'\n'})
		}
	}

	for _, category := range lists.Categories() {
		write(category.Name, category.Words)
	}

	for _, name := range lists.TagNames() {
		write(CategoryTag+":"+name, lists.Tags[name])
	}

	return hex.EncodeToString(h.Sum(nil))
}

// NSFW returns the matcher for adult-content words.
func (r *Registry) NSFW() *Matcher { return r.nsfw }

// YoungNoun returns the matcher for young-sounding nouns and adjective pairings.
func (r *Registry) YoungNoun() *Matcher { return r.youngNoun }

// POI returns the person-of-interest matcher with the prompt-editing exemption applied.
func (r *Registry) POI() *Matcher { return r.poi }

// Age returns the age phrase detector.
func (r *Registry) Age() *AgeDetector { return r.age }

// Tags returns the tag matchers sorted by tag name.
func (r *Registry) Tags() []TagMatcher { return r.tags }

// Blocklist returns the blocklist for content with the given NSFW status.
func (r *Registry) Blocklist(nsfw bool) *Matcher {
	if nsfw {
		return r.blockedNSFW
	}

	return r.blocked
}

// Fingerprint identifies the word lists the registry was built from.
func (r *Registry) Fingerprint() string {
	return r.fingerprint
}

// PatternCount returns the number of compiled patterns, including age rules.
func (r *Registry) PatternCount() int {
	return r.patterns
}
