package audit

import "strings"

// Highlight colors assigned to each category.
const (
	ColorMinorAge  = "violet"
	ColorYoungNoun = "blue"
	ColorPOI       = "teal"
	ColorBlocked   = "red"
	ColorNSFW      = "orange"
)

// Highlight category names.
const (
	HighlightMinorAge  = "minorAge"
	HighlightYoungNoun = "youngNoun"
	HighlightPOI       = "poi"
	HighlightBlocked   = "blocked"
	HighlightNSFW      = "nsfw"
)

// MarkupFunc wraps a span of text in a marker of the given color.
type MarkupFunc func(color, span string) string

// DefaultMarkup wraps the span in an inline-styled HTML span.
func DefaultMarkup(color, span string) string {
	return `<span style="color:` + color + `">` + span + `</span>`
}

// highlightFunc rewrites text, rendering matched spans with render outside protected regions.
type highlightFunc func(text string, render RenderFunc, protect TextFunc) string

// HighlightPass is one category layer of the highlighter.
type HighlightPass struct {
	Category string
	Color    string
	apply    highlightFunc
}

// marker is the text markup places before and after a span of one color.
type marker struct {
	open  string
	close string
}

// Highlighter layers category markers over text in a fixed order. Each pass runs on the
// output of the previous one and never matches inside an existing marker, so the earliest
// pass wins any overlapping text.
type Highlighter struct {
	passes  []HighlightPass
	markup  MarkupFunc
	markers []marker
}

// NewHighlighter creates the highlighter for minor ages, young nouns, POIs, the general
// blocklist and the NSFW blocklist, in that order.
func NewHighlighter(registry *Registry, markup MarkupFunc) *Highlighter {
	if markup == nil {
		markup = DefaultMarkup
	}

	h := &Highlighter{
		passes: []HighlightPass{
			{Category: HighlightMinorAge, Color: ColorMinorAge, apply: registry.Age().Highlight},
			{Category: HighlightYoungNoun, Color: ColorYoungNoun, apply: registry.YoungNoun().Highlight},
			{Category: HighlightPOI, Color: ColorPOI, apply: registry.POI().Highlight},
			{Category: HighlightBlocked, Color: ColorBlocked, apply: registry.Blocklist(false).Highlight},
			{Category: HighlightNSFW, Color: ColorNSFW, apply: registry.Blocklist(true).Highlight},
		},
		markup: markup,
	}

	for _, pass := range h.passes {
		out := markup(pass.Color, markerProbe)

		idx := strings.Index(out, markerProbe)
		if idx <= 0 || idx+len(markerProbe) == len(out) {
			continue
		}

		h.markers = append(h.markers, marker{open: out[:idx], close: out[idx+len(markerProbe):]})
	}

	return h
}

// markerProbe stands in for a span when measuring the markup around it.
const markerProbe = "\x00"

// protect blanks every rendered marker together with its content, keeping the byte length.
func (h *Highlighter) protect(text string) string {
	var masked []byte

	for _, m := range h.markers {
		offset := 0

		for {
			idx := strings.Index(text[offset:], m.open)
			if idx < 0 {
				break
			}

			start := offset + idx
			contentStart := start + len(m.open)

			closing := strings.Index(text[contentStart:], m.close)
			if closing < 0 {
				break
			}

			end := contentStart + closing + len(m.close)
			if masked == nil {
				masked = []byte(text)
			}

			for i := start; i < end; i++ {
				masked[i] = ' '
			}

			offset = end
		}
	}

	if masked == nil {
		return text
	}

	return string(masked)
}

// Passes returns the highlight layers in application order.
func (h *Highlighter) Passes() []HighlightPass {
	return h.passes
}

// Render applies every pass to text.
func (h *Highlighter) Render(text string) string {
	if text == "" {
		return text
	}

	for _, pass := range h.passes {
		color := pass.Color
		text = pass.apply(text, func(span string) string {
			return h.markup(color, span)
		}, h.protect)
	}

	return text
}

// Highlight marks every inappropriate span of text with its category color.
func (a *Auditor) Highlight(text string) string {
	return a.highlighter.Render(text)
}
