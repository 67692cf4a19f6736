package literotica

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/brogergvhs/storyd/internal/providers"
)

// Discover returns the chapters behind sourceURL in document order. A page
// without a series works list is a single chapter pointing at sourceURL.
func (s *Scraper) Discover(ctx context.Context, sourceURL string) ([]providers.ChapterRef, error) {
	doc, err := s.fetchDOM(ctx, sourceURL)
	if err != nil {
		return nil, err
	}

	links := doc.Find(s.series)
	if links.Length() == 0 {
		title := normalizeSpace(doc.Find("h1").First().Text())
		if title == "" {
			title = DefaultTitle
		}

		s.log.Debugf("standalone story %q\n", title)

		return []providers.ChapterRef{{Title: title, URL: sourceURL, Order: 0}}, nil
	}

	out := make([]providers.ChapterRef, 0, links.Length())
	links.Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" {
			return
		}

		out = append(out, providers.ChapterRef{
			Title: normalizeSpace(a.Text()),
			URL:   resolveURL(s.origin, href),
			Order: len(out),
		})
	})

	s.log.Debugf("series index with %d chapters\n", len(out))

	return out, nil
}
