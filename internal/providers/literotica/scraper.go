package literotica

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/brogergvhs/storyd/internal/providers"
	"github.com/brogergvhs/storyd/internal/ui"
)

const (
	Origin                = "https://www.literotica.com"
	DefaultSeriesSelector = "ul.series__works a.br_rj"
	DefaultTitle          = "Untitled Story"
)

// DefaultContentSelectors lists the known story body layouts, newest first.
var DefaultContentSelectors = []string{
	"div.aa_ht",
	"div.b-story-body-x",
	"div.panel.article",
}

var _ providers.Scraper = (*Scraper)(nil)

type Fetcher interface {
	Fetch(ctx context.Context, target string, maxAttempts int) (string, error)
}

type Options struct {
	Origin           string
	SeriesSelector   string
	ContentSelectors []string
	// Matchers replaces the selector chain built from ContentSelectors.
	Matchers    []Matcher
	MaxAttempts int
}

type Scraper struct {
	fetcher  Fetcher
	log      *ui.Logger
	origin   *url.URL
	domain   string
	series   string
	matchers []Matcher
	attempts int
}

func NewScraper(f Fetcher, log *ui.Logger, opts Options) (*Scraper, error) {
	if opts.Origin == "" {
		opts.Origin = Origin
	}

	origin, err := url.Parse(opts.Origin)
	if err != nil || origin.Host == "" {
		return nil, fmt.Errorf("invalid site origin %q", opts.Origin)
	}

	if opts.SeriesSelector == "" {
		opts.SeriesSelector = DefaultSeriesSelector
	}

	matchers := opts.Matchers
	if len(matchers) == 0 {
		selectors := opts.ContentSelectors
		if len(selectors) == 0 {
			selectors = DefaultContentSelectors
		}
		matchers = SelectorChain(selectors...)
	}

	if log == nil {
		log = ui.Nop()
	}

	return &Scraper{
		fetcher:  f,
		log:      log,
		origin:   origin,
		domain:   strings.TrimPrefix(strings.ToLower(origin.Hostname()), "www."),
		series:   opts.SeriesSelector,
		matchers: matchers,
		attempts: opts.MaxAttempts,
	}, nil
}

func (s *Scraper) Validate(sourceURL string) error {
	raw := strings.TrimSpace(sourceURL)
	if raw == "" {
		return &providers.InvalidInputError{Reason: "empty URL"}
	}

	u, err := url.Parse(raw)
	if err != nil {
		return &providers.InvalidInputError{URL: raw, Reason: err.Error()}
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return &providers.InvalidInputError{URL: raw, Reason: "URL must start with http:// or https://"}
	}

	host := strings.ToLower(u.Hostname())
	if host != s.domain && !strings.HasSuffix(host, "."+s.domain) {
		return &providers.InvalidInputError{URL: raw, Reason: "not a " + s.domain + " URL"}
	}

	return nil
}

func (s *Scraper) fetchDOM(ctx context.Context, target string) (*goquery.Document, error) {
	body, err := s.fetcher.Fetch(ctx, target, s.attempts)
	if err != nil {
		return nil, err
	}

	return goquery.NewDocumentFromReader(strings.NewReader(body))
}

func resolveURL(baseURL *url.URL, href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return href
	}

	if u.IsAbs() {
		return u.String()
	}

	return baseURL.ResolveReference(u).String()
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
