package audit

// Tags returns the name of every tag whose word list matches text, sorted by name.
// Tags never block content; a text can carry any number of them.
func (a *Auditor) Tags(text string) []string {
	tags := []string{}

	for _, tag := range a.registry.Tags() {
		if _, ok := tag.Matcher.InPrompt(text); ok {
			tags = append(tags, tag.Tag)
		}
	}

	return tags
}
