package audit

import "strings"

// Inappropriate labels text that pairs adult content with a restricted subject.
type Inappropriate string

const (
	InappropriateNone  Inappropriate = ""
	InappropriateMinor Inappropriate = "minor"
	InappropriatePOI   Inappropriate = "poi"
)

// IncludesNSFW returns the first adult-content word found in text.
func (a *Auditor) IncludesNSFW(text string) (string, bool) {
	return a.registry.NSFW().InPrompt(text)
}

// IncludesPOI returns the first person of interest named in text.
// Names that only appear inside prompt-editing constructs are ignored unless includeEdit is set.
func (a *Auditor) IncludesPOI(text string, includeEdit bool) (string, bool) {
	matcher := a.registry.POI()
	if includeEdit {
		matcher = matcher.WithoutExemption()
	}

	return matcher.InPrompt(text)
}

// IncludesMinorAge detects a phrase stating an age under 18.
func (a *Auditor) IncludesMinorAge(text string) AgeMatch {
	return a.registry.Age().Detect(text)
}

// IncludesMinor reports whether text states a minor age or uses a young-sounding noun.
func (a *Auditor) IncludesMinor(text string) bool {
	if a.IncludesMinorAge(text).Found {
		return true
	}

	_, ok := a.registry.YoungNoun().InPrompt(text)

	return ok
}

// IncludesInappropriate classifies text as clean, minor or POI.
// Unless nsfw is set, text without any adult-content word is always clean.
func (a *Auditor) IncludesInappropriate(text string, nsfw bool) Inappropriate {
	if strings.TrimSpace(text) == "" {
		return InappropriateNone
	}

	text = stripEvasion(text)

	if !nsfw {
		if _, ok := a.IncludesNSFW(text); !ok {
			return InappropriateNone
		}
	}

	if _, ok := a.IncludesPOI(text, false); ok {
		return InappropriatePOI
	}

	if a.IncludesMinor(text) {
		return InappropriateMinor
	}

	return InappropriateNone
}
