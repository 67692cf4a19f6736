package providers

import "context"

// ChapterRef identifies one unit of narrative content. Order is the
// 0-based discovery position.
type ChapterRef struct {
	Title string
	URL   string
	Order int
}

// ChapterContent is a chapter title with its sanitized HTML body.
type ChapterContent struct {
	Title string
	Body  string
}

type Scraper interface {
	// Validate rejects source URLs the scraper cannot handle without
	// touching the network.
	Validate(sourceURL string) error
	Discover(ctx context.Context, sourceURL string) ([]ChapterRef, error)
	Extract(ctx context.Context, ref ChapterRef) (ChapterContent, error)
}
