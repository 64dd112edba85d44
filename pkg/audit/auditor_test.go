package audit_test

import (
	"testing"

	"github.com/robalyx/promptaudit/pkg/audit"
	"github.com/sourcegraph/conc"
	"github.com/stretchr/testify/assert"
)

func TestAuditor_AuditMetadata(t *testing.T) {
	t.Parallel()

	auditor := newTestAuditor(t)

	tests := []struct {
		name    string
		prompt  string
		nsfw    bool
		want    []string
		trigger audit.Trigger
	}{
		{name: "minor age on nsfw image", prompt: "a 17 year old", nsfw: true, want: []string{"17 year old"}, trigger: audit.TriggerAge},
		{name: "age ignored on sfw image", prompt: "a 17 year old", nsfw: false, want: []string{}},
		{name: "empty prompt", prompt: "", nsfw: true, want: []string{}},
		{name: "clean prompt", prompt: "a classic car at sunset", nsfw: false, want: []string{}},
		{
			name: "every blocked word reported", prompt: "gore &amp; swastika", nsfw: false,
			want: []string{"gore", "swastika"}, trigger: audit.TriggerBlocklist,
		},
		{
			name: "prompt syntax around blocked word", prompt: "foo:gore:1.3", nsfw: false,
			want: []string{"gore"}, trigger: audit.TriggerBlocklist,
		},
		{
			name: "fullwidth blocked word", prompt: "ＧＯＲＥ", nsfw: false,
			want: []string{"gore"}, trigger: audit.TriggerBlocklist,
		},
		{
			name: "nsfw blocklist selected", prompt: "bestiality", nsfw: true,
			want: []string{"bestiality"}, trigger: audit.TriggerBlocklist,
		},
		{name: "nsfw-only word allowed on sfw list", prompt: "bestiality", nsfw: false, want: []string{}},
		{
			name: "raw fragment entry", prompt: "a znoff film", nsfw: true,
			want: []string{"[sz]n[uo]ff film"}, trigger: audit.TriggerBlocklist,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := auditor.AuditMetadata(audit.Metadata{Prompt: tt.prompt}, tt.nsfw)
			assert.Equal(t, tt.want, result.BlockedFor)
			assert.Equal(t, len(tt.want) == 0, result.Success)
			assert.Equal(t, tt.trigger, result.Trigger)
			assert.Equal(t, audit.PipelineMetadata, result.Pipeline)
		})
	}
}

func TestAuditor_AuditPrompt(t *testing.T) {
	t.Parallel()

	auditor := newTestAuditor(t)

	tests := []struct {
		name    string
		prompt  string
		want    []string
		trigger audit.Trigger
	}{
		{name: "poi with nsfw", prompt: "Jane Doe, nude", want: []string{"poi"}, trigger: audit.TriggerInappropriate},
		{name: "evasive poi with nsfw", prompt: "j.a.n.e d.o.e, nude", want: []string{"poi"}, trigger: audit.TriggerInappropriate},
		{name: "young pairing with nsfw", prompt: "nude young girl", want: []string{"minor"}, trigger: audit.TriggerInappropriate},
		{name: "minor age", prompt: "aged 12, portrait", want: []string{"12 year old"}, trigger: audit.TriggerAge},
		{name: "age wins over poi", prompt: "jane doe, nude, aged 12", want: []string{"12 year old"}, trigger: audit.TriggerAge},
		{name: "nsfw blocklist", prompt: "nude, bestiality", want: []string{"bestiality"}, trigger: audit.TriggerBlocklist},
		{name: "first blocked word only", prompt: "gore and swastika", want: []string{"gore"}, trigger: audit.TriggerBlocklist},
		{
			name: "weighted nsfw and young noun", prompt: "masterpiece, (nude:1.3), (schoolgirl:1.2)",
			want: []string{"minor"}, trigger: audit.TriggerInappropriate,
		},
		{name: "clean prompt", prompt: "a cat on a car", want: []string{}},
		{name: "poi without nsfw", prompt: "jane doe portrait", want: []string{}},
		{name: "poi inside prompt editing", prompt: "[jane doe|a cat], nude", want: []string{}},
		{name: "empty prompt", prompt: "", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := auditor.AuditPrompt(tt.prompt)
			assert.Equal(t, tt.want, result.BlockedFor)
			assert.Equal(t, len(tt.want) == 0, result.Success)
			assert.Equal(t, tt.trigger, result.Trigger)
			assert.Equal(t, audit.PipelinePrompt, result.Pipeline)
		})
	}
}

func TestAuditor_Concurrent(t *testing.T) {
	t.Parallel()

	auditor := newTestAuditor(t)
	prompts := []string{"jane doe, nude", "aged 12", "a cat on a car", "gore"}

	var wg conc.WaitGroup
	for range 8 {
		wg.Go(func() {
			for range 50 {
				for _, prompt := range prompts {
					auditor.AuditPrompt(prompt)
					auditor.Highlight(prompt)
					auditor.Tags(prompt)
				}
			}
		})
	}
	wg.Wait()

	assert.Equal(t, []string{"poi"}, auditor.AuditPrompt("jane doe, nude").BlockedFor)
}

func TestAgeReason(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "17 year old", audit.AgeReason(17))
}

func BenchmarkAuditor_AuditPrompt(b *testing.B) {
	auditor := newTestAuditor(b)
	prompt := "masterpiece, best quality, (portrait:1.2), [jane doe|a cat], oil painting, &amp; sunset"

	for b.Loop() {
		auditor.AuditPrompt(prompt)
	}
}
