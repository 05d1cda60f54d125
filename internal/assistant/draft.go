package assistant

import "strings"

// Draft is a generated announcement split for the announcement form.
type Draft struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// ParseDraft takes the first paragraph as the title, without markdown
// bold markers, and the remaining paragraphs as the content.
func ParseDraft(text string) Draft {
	parts := strings.Split(text, "\n\n")
	return Draft{
		Title:   strings.TrimSpace(strings.ReplaceAll(parts[0], "**", "")),
		Content: strings.Join(parts[1:], "\n\n"),
	}
}

// IsFallback reports whether text is one of the fixed replies rather than
// generated content.
func IsFallback(text string) bool {
	switch text {
	case FallbackNoKey, FallbackAnswer, FallbackDraft:
		return true
	}
	return false
}
