package audit_test

import (
	"testing"

	"github.com/robalyx/promptaudit/pkg/audit"
	"github.com/stretchr/testify/assert"
)

func TestAuditor_IncludesNSFW(t *testing.T) {
	t.Parallel()

	auditor := newTestAuditor(t)

	tests := []struct {
		name  string
		text  string
		want  string
		found bool
	}{
		{name: "plain", text: "a nude figure", want: "nude", found: true},
		{name: "leetspeak", text: "t0pl3ss beach", want: "topless", found: true},
		{name: "plural", text: "two nudes", want: "nude", found: true},
		{name: "upper case", text: "NSFW art", want: "nsfw", found: true},
		{name: "list order decides", text: "naked and nude", want: "nude", found: true},
		{name: "weighted", text: "masterpiece, (nude:1.3)", want: "nude", found: true},
		{name: "sentence end", text: "she is nude.", want: "nude", found: true},
		{name: "inside word", text: "denuded hills", found: false},
		{name: "empty", text: "", found: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := auditor.IncludesNSFW(tt.text)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAuditor_IncludesPOI(t *testing.T) {
	t.Parallel()

	auditor := newTestAuditor(t)

	tests := []struct {
		name        string
		text        string
		includeEdit bool
		found       bool
	}{
		{name: "plain name", text: "portrait of jane doe", found: true},
		{name: "joined name", text: "janedoe", found: true},
		{name: "name prefix only", text: "jane doering", found: false},
		{name: "alternation", text: "[jane doe|a cat]", found: false},
		{name: "alternation with edits", text: "[jane doe|a cat]", includeEdit: true, found: true},
		{name: "scheduled blend", text: "[jane doe:a cat:0.5]", found: false},
		{name: "weighted name", text: "[jane doe:1.2]", found: true},
		{name: "parenthesized weight", text: "(jane doe:1.3)", found: true},
		{name: "alternation nested in non-edit bracket", text: "[jane doe|[a:b]]", found: false},
		{name: "weight nested in alternation", text: "[[jane doe:1.2]|a cat]", found: false},
		{name: "nested alternation", text: "[[jane doe|a cat]|dog]", found: false},
		{name: "name outside construct", text: "[a cat|a dog], jane doe", found: true},
		{name: "empty", text: "", found: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, ok := auditor.IncludesPOI(tt.text, tt.includeEdit)
			assert.Equal(t, tt.found, ok)
		})
	}
}

func TestAuditor_IncludesMinor(t *testing.T) {
	t.Parallel()

	auditor := newTestAuditor(t)

	tests := []struct {
		name string
		text string
		want bool
	}{
		{name: "age phrase", text: "5 year old", want: true},
		{name: "young noun", text: "a kid playing", want: true},
		{name: "young noun plural", text: "two kids", want: true},
		{name: "weighted young noun", text: "(loli:1.2)", want: true},
		{name: "adjective pairing", text: "a tiny little girl", want: true},
		{name: "adjective without noun", text: "a young tree", want: false},
		{name: "noun without adjective", text: "a girl", want: false},
		{name: "adult age", text: "30 years old", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, auditor.IncludesMinor(tt.text))
		})
	}
}

func TestAuditor_IncludesInappropriate(t *testing.T) {
	t.Parallel()

	auditor := newTestAuditor(t)

	tests := []struct {
		name string
		text string
		nsfw bool
		want audit.Inappropriate
	}{
		{name: "poi on nsfw content", text: "jane doe", nsfw: true, want: audit.InappropriatePOI},
		{name: "poi on sfw content", text: "jane doe", nsfw: false, want: audit.InappropriateNone},
		{name: "poi with nsfw word", text: "jane doe, naked", nsfw: false, want: audit.InappropriatePOI},
		{name: "young pairing on nsfw content", text: "young boy", nsfw: true, want: audit.InappropriateMinor},
		{name: "young noun with nsfw word", text: "nude kid", nsfw: false, want: audit.InappropriateMinor},
		{name: "pronoun age with nsfw word", text: "she's 5, nude", nsfw: false, want: audit.InappropriateMinor},
		{name: "poi checked before minor", text: "jane doe, kid, nude", nsfw: false, want: audit.InappropriatePOI},
		{name: "nsfw word alone", text: "nude cat", nsfw: false, want: audit.InappropriateNone},
		{name: "weighted nsfw word with poi", text: "(nude:1.3), jane doe", nsfw: false, want: audit.InappropriatePOI},
		{name: "weighted nsfw and young noun", text: "(nude:1.3), (schoolgirl:1.2)", nsfw: false, want: audit.InappropriateMinor},
		{name: "hyphen evasion", text: "n-u-d-e kid", nsfw: false, want: audit.InappropriateMinor},
		{name: "empty", text: "", nsfw: true, want: audit.InappropriateNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, auditor.IncludesInappropriate(tt.text, tt.nsfw))
		})
	}
}
