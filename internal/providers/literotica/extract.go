package literotica

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/brogergvhs/storyd/internal/providers"
)

// disallowed elements are removed from the story body before packaging.
const disallowed = "script, style, iframe"

// Matcher locates the story body in a chapter page. A nil or empty
// selection means the layout was not recognized.
type Matcher interface {
	Match(doc *goquery.Document) *goquery.Selection
	String() string
}

type SelectorMatcher string

func (m SelectorMatcher) Match(doc *goquery.Document) *goquery.Selection {
	return doc.Find(string(m))
}

func (m SelectorMatcher) String() string {
	return string(m)
}

func SelectorChain(selectors ...string) []Matcher {
	out := make([]Matcher, 0, len(selectors))
	for _, sel := range selectors {
		sel = strings.TrimSpace(sel)
		if sel != "" {
			out = append(out, SelectorMatcher(sel))
		}
	}

	return out
}

func (s *Scraper) Extract(ctx context.Context, ref providers.ChapterRef) (providers.ChapterContent, error) {
	doc, err := s.fetchDOM(ctx, ref.URL)
	if err != nil {
		return providers.ChapterContent{}, err
	}

	for _, m := range s.matchers {
		sel := m.Match(doc)
		if sel == nil || sel.Length() == 0 {
			continue
		}

		s.log.Debugf("chapter %d matched %s\n", ref.Order+1, m)

		body, err := sanitize(sel)
		if err != nil {
			return providers.ChapterContent{}, err
		}

		return providers.ChapterContent{Title: ref.Title, Body: body}, nil
	}

	return providers.ChapterContent{}, &providers.ContentNotFoundError{
		Position: ref.Order + 1,
		URL:      ref.URL,
	}
}

// sanitize drops disallowed elements from the matched nodes and renders
// the inner markup of the outermost ones in document order.
func sanitize(sel *goquery.Selection) (string, error) {
	outer := sel.FilterFunction(func(_ int, n *goquery.Selection) bool {
		return !n.Parents().IsSelection(sel)
	})

	outer.Find(disallowed).Remove()

	var b strings.Builder
	for i := range outer.Nodes {
		h, err := outer.Eq(i).Html()
		if err != nil {
			return "", err
		}
		b.WriteString(strings.TrimSpace(h))
	}

	return b.String(), nil
}
