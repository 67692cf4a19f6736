// Package downloader runs one conversion: discovery, sequential chapter
// retrieval and packaging.
package downloader

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/brogergvhs/storyd/internal/chapters"
	"github.com/brogergvhs/storyd/internal/epub"
	"github.com/brogergvhs/storyd/internal/providers"
	"github.com/brogergvhs/storyd/internal/ui"
)

const DefaultChapterDelay = time.Second

var ErrBusy = errors.New("a conversion is already running")

// Progress receives per-chapter updates. *ui.ProgressHandle implements it.
type Progress interface {
	SetTotal(total int)
	Update(done, total int, bytes int64)
	MarkDone()
	Abort()
}

type Options struct {
	// ChapterDelay is the pause between two chapter retrievals.
	ChapterDelay time.Duration
	// Chapter selects a single chapter by title or 1-based index and takes
	// precedence over Range and List.
	Chapter      string
	Range        string
	List         string
	Language     string
}

type Result struct {
	Title    string
	FileName string
	Data     []byte
	Chapters int
	Bytes    int64
}

type Converter struct {
	scraper providers.Scraper
	log     *ui.Logger
	opts    Options
	running atomic.Bool
}

func New(s providers.Scraper, log *ui.Logger, opts Options) *Converter {
	if opts.ChapterDelay < 0 {
		opts.ChapterDelay = 0
	}
	if log == nil {
		log = ui.Nop()
	}

	return &Converter{
		scraper: s,
		log:     log,
		opts:    opts,
	}
}

// Discover validates sourceURL and returns the selected chapters.
func (c *Converter) Discover(ctx context.Context, sourceURL string) ([]providers.ChapterRef, error) {
	if err := c.scraper.Validate(sourceURL); err != nil {
		return nil, err
	}

	all, err := c.scraper.Discover(ctx, sourceURL)
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, providers.ErrNoChaptersFound
	}

	selected := chapters.Filter(all, c.opts.Chapter, c.opts.Range, c.opts.List)
	if len(selected) == 0 {
		return nil, fmt.Errorf("%w: selection matched none of %d chapters", providers.ErrNoChaptersFound, len(all))
	}

	c.log.Debugf("discovered %d chapters, %d selected\n", len(all), len(selected))

	return selected, nil
}

// Convert produces the EPUB for sourceURL. Only one conversion may run on
// a Converter at a time; a concurrent call gets ErrBusy. Any failure
// aborts the whole run and no archive is returned.
func (c *Converter) Convert(ctx context.Context, sourceURL string, progress Progress) (*Result, error) {
	if !c.running.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer c.running.Store(false)

	if progress == nil {
		progress = nopProgress{}
	}

	res, err := c.convert(ctx, sourceURL, progress)
	if err != nil {
		progress.Abort()
		return nil, err
	}

	progress.MarkDone()

	return res, nil
}

func (c *Converter) convert(ctx context.Context, sourceURL string, progress Progress) (*Result, error) {
	refs, err := c.Discover(ctx, sourceURL)
	if err != nil {
		return nil, err
	}

	progress.SetTotal(len(refs))

	contents, bytes, err := c.fetchChapters(ctx, refs, progress)
	if err != nil {
		return nil, err
	}

	title := chapters.ProjectTitle(contents[0].Title)

	data, err := epub.Assemble(title, contents,
		epub.WithLanguage(c.opts.Language),
		epub.WithSource(sourceURL),
	)
	if err != nil {
		return nil, err
	}

	return &Result{
		Title:    title,
		FileName: chapters.OutputFileName(title),
		Data:     data,
		Chapters: len(contents),
		Bytes:    bytes,
	}, nil
}

// fetchChapters extracts refs strictly one after another, in order, with
// ChapterDelay between completions.
func (c *Converter) fetchChapters(ctx context.Context, refs []providers.ChapterRef, progress Progress) ([]epub.Chapter, int64, error) {
	total := len(refs)
	out := make([]epub.Chapter, 0, total)
	var bytes int64

	for i, ref := range refs {
		c.log.Debugf("chapter %d/%d: %s\n", i+1, total, ref.URL)

		content, err := c.scraper.Extract(ctx, ref)
		if err != nil {
			var cnf *providers.ContentNotFoundError
			if errors.As(err, &cnf) {
				cnf.Position = i + 1
				cnf.Total = total
				return nil, bytes, cnf
			}

			return nil, bytes, fmt.Errorf("chapter %d/%d: %w", i+1, total, err)
		}

		out = append(out, epub.Chapter{Title: content.Title, Body: content.Body})
		bytes += int64(len(content.Body))
		progress.Update(i+1, total, bytes)

		if i < total-1 {
			if err := wait(ctx, c.opts.ChapterDelay); err != nil {
				return nil, bytes, err
			}
		}
	}

	return out, bytes, nil
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

type nopProgress struct{}

func (nopProgress) SetTotal(int)           {}
func (nopProgress) Update(int, int, int64) {}
func (nopProgress) MarkDone()              {}
func (nopProgress) Abort()                 {}
