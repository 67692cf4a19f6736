package chapters

import (
	"strings"
)

const (
	DefaultProjectTitle = "Untitled Story"
	titleDelimiter      = " - "
)

// ProjectTitle derives the book title from the first chapter title:
// "My Story - Part 1" becomes "My Story".
func ProjectTitle(firstChapterTitle string) string {
	title, _, _ := strings.Cut(firstChapterTitle, titleDelimiter)
	title = strings.TrimSpace(title)
	if title == "" {
		return DefaultProjectTitle
	}

	return title
}

// sanitize lower-cases s and replaces every character that is not an
// ASCII letter or digit with an underscore.
func sanitize(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}

	return b.String()
}

func OutputFileName(title string) string {
	name := sanitize(title)
	if name == "" {
		name = sanitize(DefaultProjectTitle)
	}

	return name + ".epub"
}
