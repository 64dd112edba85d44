package audit

import (
	"strconv"
	"sync"

	"github.com/robalyx/promptaudit/pkg/utils"
)

// Trigger names the pipeline stage that blocked a prompt.
type Trigger string

const (
	// TriggerNone means the prompt passed.
	TriggerNone Trigger = ""
	// TriggerAge means an age phrase under the minimum was found.
	TriggerAge Trigger = "age"
	// TriggerInappropriate means the prompt combined adult content with a minor or a POI.
	TriggerInappropriate Trigger = "inappropriate"
	// TriggerBlocklist means a blocklisted word was found.
	TriggerBlocklist Trigger = "blocklist"
)

// Pipeline names the decision pipeline that produced a result.
type Pipeline string

const (
	// PipelineMetadata collects every violation for audit logging.
	PipelineMetadata Pipeline = "metadata"
	// PipelinePrompt stops at the first violation for fast rejection.
	PipelinePrompt Pipeline = "prompt"
)

// Metadata is the generation metadata attached to an image.
type Metadata struct {
	Prompt string `json:"prompt,omitempty"`
}

// AuditResult is the verdict of an audit.
type AuditResult struct {
	BlockedFor []string `json:"blockedFor"`
	Success    bool     `json:"success"`
	Pipeline   Pipeline `json:"pipeline"`
	Trigger    Trigger  `json:"trigger,omitempty"`
}

func passed(pipeline Pipeline) AuditResult {
	return AuditResult{
		BlockedFor: []string{},
		Success:    true,
		Pipeline:   pipeline,
	}
}

func blocked(pipeline Pipeline, trigger Trigger, reasons ...string) AuditResult {
	return AuditResult{
		BlockedFor: reasons,
		Success:    len(reasons) == 0,
		Pipeline:   pipeline,
		Trigger:    trigger,
	}
}

// AgeReason formats the reason reported for an age phrase.
func AgeReason(age int) string {
	return strconv.Itoa(age) + " year old"
}

// Auditor is the entry point for every text check. It holds no per-call state,
// so one Auditor can serve concurrent callers.
type Auditor struct {
	registry    *Registry
	highlighter *Highlighter
	normalizers sync.Pool
}

// Option configures an Auditor.
type Option func(*Auditor)

// WithMarkup replaces the markup used by Highlight.
func WithMarkup(markup MarkupFunc) Option {
	return func(a *Auditor) {
		a.highlighter = NewHighlighter(a.registry, markup)
	}
}

// NewAuditor creates an Auditor over a compiled registry.
func NewAuditor(registry *Registry, opts ...Option) *Auditor {
	a := &Auditor{
		registry: registry,
		normalizers: sync.Pool{
			New: func() any { return utils.NewTextNormalizer() },
		},
	}
	a.highlighter = NewHighlighter(registry, DefaultMarkup)

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Registry returns the registry the auditor reads from.
func (a *Auditor) Registry() *Registry {
	return a.registry
}

// normalize decodes HTML entities and folds case, width and diacritics.
func (a *Auditor) normalize(text string) string {
	if text == "" {
		return ""
	}

	normalizer := a.normalizers.Get().(*utils.TextNormalizer)
	defer a.normalizers.Put(normalizer)

	return normalizer.NormalizePrompt(text)
}

// AuditMetadata audits image metadata and collects every violation.
//
// NSFW metadata is first checked for age phrases, which block on their own.
// Otherwise every word of the blocklist selected by nsfw is reported.
func (a *Auditor) AuditMetadata(meta Metadata, nsfw bool) AuditResult {
	prompt := a.normalize(meta.Prompt)
	if prompt == "" {
		return passed(PipelineMetadata)
	}

	if nsfw {
		if match := a.registry.Age().Detect(prompt); match.Found {
			return blocked(PipelineMetadata, TriggerAge, AgeReason(match.Age))
		}
	}

	if words := a.registry.Blocklist(nsfw).InPromptAll(prompt); len(words) > 0 {
		return blocked(PipelineMetadata, TriggerBlocklist, words...)
	}

	return passed(PipelineMetadata)
}

// AuditPrompt audits a generation prompt and stops at the first violation,
// checking age phrases, then inappropriate combinations, then the NSFW blocklist.
func (a *Auditor) AuditPrompt(text string) AuditResult {
	prompt := a.normalize(text)
	if prompt == "" {
		return passed(PipelinePrompt)
	}

	if match := a.registry.Age().Detect(prompt); match.Found {
		return blocked(PipelinePrompt, TriggerAge, AgeReason(match.Age))
	}

	if kind := a.IncludesInappropriate(prompt, false); kind != InappropriateNone {
		return blocked(PipelinePrompt, TriggerInappropriate, string(kind))
	}

	if word, ok := a.registry.Blocklist(true).InPrompt(prompt); ok {
		return blocked(PipelinePrompt, TriggerBlocklist, word)
	}

	return passed(PipelinePrompt)
}
