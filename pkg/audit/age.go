package audit

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

const (
	// MinAge and MaxAge bound the ages the detector looks for.
	MinAge = 1
	MaxAge = 17

	ageBoundary  = `[^a-zA-Z0-9]`
	ageGroupName = "age"
)

// TeenSuffixes are appended to numeral stems to spell ages 13 to 17.
var TeenSuffixes = []string{"teen", "ten", "tein", "tien", "tn"}

// AgeNumeral lists the spellings of one age value.
type AgeNumeral struct {
	Age int
	// Spellings are complete forms such as "twelve" or "12".
	Spellings []string
	// Stems are joined with every teen suffix, with and without a separator.
	Stems []string
}

// Variants returns every spelling of the numeral without separators.
func (n AgeNumeral) Variants() []string {
	variants := slices.Clone(n.Spellings)

	for _, stem := range n.Stems {
		for _, suffix := range TeenSuffixes {
			variants = append(variants, stem+suffix)
		}
	}

	return variants
}

// expression returns the alternation matching any spelling of the numeral.
func (n AgeNumeral) expression() string {
	spellings := slices.Clone(n.Spellings)
	slices.SortStableFunc(spellings, func(a, b string) int { return len(b) - len(a) })

	parts := make([]string, 0, len(spellings)+1)
	if len(n.Stems) > 0 {
		parts = append(parts, fmt.Sprintf(`(?:%s)[^a-zA-Z0-9]?(?:%s)`,
			quoteAlternation(n.Stems), quoteAlternation(TeenSuffixes)))
	}

	for _, spelling := range spellings {
		parts = append(parts, regexp.QuoteMeta(spelling))
	}

	return strings.Join(parts, "|")
}

// DefaultAgeNumerals holds the spellings for ages 1 to 17, including common misspellings.
var DefaultAgeNumerals = []AgeNumeral{
	{Age: 1, Spellings: []string{"one", "1"}},
	{Age: 2, Spellings: []string{"two", "2"}},
	{Age: 3, Spellings: []string{"three", "thre", "3"}},
	{Age: 4, Spellings: []string{"four", "4"}},
	{Age: 5, Spellings: []string{"five", "5"}},
	{Age: 6, Spellings: []string{"six", "6"}},
	{Age: 7, Spellings: []string{"seven", "sevn", "7"}},
	{Age: 8, Spellings: []string{"eight", "eigth", "8"}},
	{Age: 9, Spellings: []string{"nine", "9"}},
	{Age: 10, Spellings: []string{"ten", "10"}},
	{Age: 11, Spellings: []string{"eleven", "elevn", "11"}},
	{Age: 12, Spellings: []string{"twelve", "twelv", "12"}},
	{Age: 13, Spellings: []string{"13"}, Stems: []string{"thir", "3"}},
	{Age: 14, Spellings: []string{"14"}, Stems: []string{"four", "4"}},
	{Age: 15, Spellings: []string{"15"}, Stems: []string{"fif", "5"}},
	{Age: 16, Spellings: []string{"16"}, Stems: []string{"six", "6"}},
	{Age: 17, Spellings: []string{"17"}, Stems: []string{"seven", "sevn", "seve", "sevem", "7"}},
}

// AgeTemplate is a phrase skeleton with named slots.
//
// Slots are {age}, {old}, {years}, {pronoun} and {any}. Whitespace between tokens
// matches any run of non-alphanumeric characters.
type AgeTemplate struct {
	Name   string
	Phrase string
}

// SlotVariants lists the spellings accepted for the word slots of a template.
var SlotVariants = map[string][]string{
	"old":   {"old", "o"},
	"years": {"years", "year", "yrs", "yr", "anos", "y"},
}

// DefaultAgeTemplates are evaluated in this order; the first template that matches wins.
var DefaultAgeTemplates = []AgeTemplate{
	{Name: "aged", Phrase: "aged {age}"},
	{Name: "age", Phrase: "age {age}"},
	{Name: "age of", Phrase: "age of {age}"},
	{Name: "age suffix", Phrase: "{age} age"},
	{Name: "old", Phrase: "{age} {old}"},
	{Name: "years old", Phrase: "{age} {years} {old}"},
	{Name: "years", Phrase: "{age} {years}"},
	{Name: "birthday", Phrase: "{age}th birthday"},
	{Name: "pronoun", Phrase: "{pronoun} {any}{age}"},
}

var slotPattern = regexp.MustCompile(`\{(\w+)\}`)

// expression renders the template body for one numeral expression.
func (t AgeTemplate) expression(numeral string) (string, error) {
	var (
		b       strings.Builder
		tokens  = strings.Fields(t.Phrase)
		slotErr error
	)

	for i, token := range tokens {
		if i > 0 {
			b.WriteString(gapPattern)
		}

		last := 0
		for _, loc := range slotPattern.FindAllStringSubmatchIndex(token, -1) {
			b.WriteString(regexp.QuoteMeta(token[last:loc[0]]))

			slot := token[loc[2]:loc[3]]
			switch slot {
			case ageGroupName:
				fmt.Fprintf(&b, `0*(?P<%s>%s)`, ageGroupName, numeral)
			case "pronoun":
				b.WriteString(`s?he'?s`)
			case "any":
				b.WriteString(`(?:.*?[^a-zA-Z0-9])?`)
			default:
				variants, ok := SlotVariants[slot]
				if !ok {
					slotErr = fmt.Errorf("%w: unknown slot {%s} in template %q", ErrInvalidPattern, slot, t.Name)
					continue
				}

				b.WriteString("(?:" + quoteAlternation(variants) + ")")
			}

			last = loc[1]
		}

		b.WriteString(regexp.QuoteMeta(token[last:]))
	}

	return b.String(), slotErr
}

// AgeMatch is the result of age detection.
type AgeMatch struct {
	Found bool `json:"found"`
	Age   int  `json:"age,omitempty"`
	// Template names the template that matched.
	Template string `json:"template,omitempty"`
}

// ageRule is one compiled template crossed with one age.
type ageRule struct {
	template string
	age      int
	re       *regexp.Regexp
	ageIndex int
}

// AgeDetector finds phrases that state an age between MinAge and MaxAge.
// It is immutable once built and safe for concurrent use.
type AgeDetector struct {
	rules  []ageRule
	lookup map[string]int
}

// NewAgeDetector expands every template with every numeral.
func NewAgeDetector(templates []AgeTemplate, numerals []AgeNumeral) (*AgeDetector, error) {
	d := &AgeDetector{
		rules:  make([]ageRule, 0, len(templates)*len(numerals)),
		lookup: make(map[string]int),
	}

	// The first declared age wins when two numerals share a spelling
	for _, numeral := range numerals {
		for _, variant := range numeral.Variants() {
			key := ageKey(variant)
			if _, exists := d.lookup[key]; !exists {
				d.lookup[key] = numeral.Age
			}
		}
	}

	for _, template := range templates {
		for _, numeral := range numerals {
			body, err := template.expression(numeral.expression())
			if err != nil {
				return nil, err
			}

			pattern := fmt.Sprintf(`(?i)(?:^|%s)(%s)(?:%s|$)`, ageBoundary, body, ageBoundary)

			re, err := regexp.Compile(pattern)
			if err != nil {
				return nil, fmt.Errorf("%w: template %q age %d: %w", ErrInvalidPattern, template.Name, numeral.Age, err)
			}

			d.rules = append(d.rules, ageRule{
				template: template.Name,
				age:      numeral.Age,
				re:       re,
				ageIndex: re.SubexpIndex(ageGroupName),
			})
		}
	}

	return d, nil
}

// NewDefaultAgeDetector builds a detector from the default templates and numerals.
func NewDefaultAgeDetector() (*AgeDetector, error) {
	return NewAgeDetector(DefaultAgeTemplates, DefaultAgeNumerals)
}

// Len returns the number of compiled template and age combinations.
func (d *AgeDetector) Len() int {
	return len(d.rules)
}

// Detect returns the first age phrase found, checking templates in declaration order.
func (d *AgeDetector) Detect(text string) AgeMatch {
	if d == nil || strings.TrimSpace(text) == "" {
		return AgeMatch{}
	}

	for _, rule := range d.rules {
		loc := rule.re.FindStringSubmatchIndex(text)
		if loc == nil {
			continue
		}

		age, ok := d.resolve(text[loc[2*rule.ageIndex]:loc[2*rule.ageIndex+1]])
		if !ok {
			age = rule.age
		}

		return AgeMatch{Found: true, Age: age, Template: rule.template}
	}

	return AgeMatch{}
}

// Lookup resolves a spelled numeral back to its age.
func (d *AgeDetector) Lookup(numeral string) (int, bool) {
	return d.resolve(numeral)
}

func (d *AgeDetector) resolve(numeral string) (int, bool) {
	age, ok := d.lookup[ageKey(numeral)]
	return age, ok
}

// Highlight renders the first occurrence of every matching template and age combination.
// Regions blanked by protect are never matched.
func (d *AgeDetector) Highlight(text string, render RenderFunc, protect TextFunc) string {
	if d == nil || strings.TrimSpace(text) == "" {
		return text
	}

	for _, rule := range d.rules {
		target := text
		if protect != nil {
			target = protect(target)
		}

		loc := rule.re.FindStringSubmatchIndex(target)
		if loc == nil {
			continue
		}

		start, end := trimSpan(target, loc[2], loc[3])
		if start < end {
			text = text[:start] + render(text[start:end]) + text[end:]
		}
	}

	return text
}

// ageKey normalizes a numeral for reverse lookup.
func ageKey(numeral string) string {
	var b strings.Builder

	for _, c := range []byte(strings.ToLower(numeral)) {
		if isASCIIAlnum(c) {
			b.WriteByte(c)
		}
	}

	return strings.TrimLeft(b.String(), "0")
}

// quoteAlternation joins literal values into a regex alternation, longest first.
func quoteAlternation(values []string) string {
	sorted := slices.Clone(values)
	slices.SortStableFunc(sorted, func(a, b string) int { return len(b) - len(a) })

	quoted := make([]string, len(sorted))
	for i, v := range sorted {
		quoted[i] = regexp.QuoteMeta(v)
	}

	return strings.Join(quoted, "|")
}
