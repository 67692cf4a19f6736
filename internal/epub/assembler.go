package epub

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"time"

	"github.com/google/uuid"
)

const DefaultLanguage = "en"

var ErrNoChapters = errors.New("epub: no chapters to package")

type Chapter struct {
	Title string
	Body  string
}

type book struct {
	title      string
	language   string
	identifier string
	source     string
	modified   time.Time
	chapters   []Chapter
}

type Option func(*book)

func WithLanguage(lang string) Option {
	return func(b *book) {
		if lang != "" {
			b.language = lang
		}
	}
}

// WithIdentifier sets dc:identifier. The default is a random urn:uuid.
func WithIdentifier(id string) Option {
	return func(b *book) {
		if id != "" {
			b.identifier = id
		}
	}
}

func WithSource(sourceURL string) Option {
	return func(b *book) {
		b.source = sourceURL
	}
}

// WithModified sets the timestamp of every entry but mimetype.
func WithModified(t time.Time) Option {
	return func(b *book) {
		b.modified = t
	}
}

// Assemble builds the EPUB archive for chapters, in the given order.
// Chapters without a title are labelled "Chapter N".
func Assemble(title string, chapters []Chapter, opts ...Option) ([]byte, error) {
	if len(chapters) == 0 {
		return nil, ErrNoChapters
	}

	b := &book{
		title:      title,
		language:   DefaultLanguage,
		identifier: "urn:uuid:" + uuid.NewString(),
		modified:   time.Now(),
		chapters:   make([]Chapter, len(chapters)),
	}
	for _, opt := range opts {
		opt(b)
	}

	for i, ch := range chapters {
		if ch.Title == "" {
			ch.Title = fmt.Sprintf("Chapter %d", i+1)
		}
		b.chapters[i] = ch
	}

	var buf bytes.Buffer
	z := zip.NewWriter(&buf)

	if err := writeMimetype(z); err != nil {
		return nil, fmt.Errorf("epub: mimetype: %w", err)
	}

	if err := b.writeEntry(z, ContainerPath, containerXML); err != nil {
		return nil, err
	}

	for i, ch := range b.chapters {
		if err := b.writeEntry(z, "OEBPS/"+chapterFile(i+1), chapterXHTML(ch.Title, ch.Body)); err != nil {
			return nil, err
		}
	}

	if err := b.writeEntry(z, PackagePath, packageOPF(b)); err != nil {
		return nil, err
	}

	if err := b.writeEntry(z, NCXPath, tocNCX(b)); err != nil {
		return nil, err
	}

	if err := z.Close(); err != nil {
		return nil, fmt.Errorf("epub: finalize archive: %w", err)
	}

	return buf.Bytes(), nil
}

// writeMimetype writes the stored mimetype entry with sizes in the local
// header and no extra field, so readers can sniff it at a fixed offset.
func writeMimetype(z *zip.Writer) error {
	data := []byte(MimeType)

	w, err := z.CreateRaw(&zip.FileHeader{
		Name:               "mimetype",
		Method:             zip.Store,
		CreatorVersion:     20,
		ReaderVersion:      20,
		CRC32:              crc32.ChecksumIEEE(data),
		CompressedSize64:   uint64(len(data)),
		UncompressedSize64: uint64(len(data)),
	})
	if err != nil {
		return err
	}

	_, err = w.Write(data)
	return err
}

func (b *book) writeEntry(z *zip.Writer, name, content string) error {
	w, err := z.CreateHeader(&zip.FileHeader{
		Name:     name,
		Method:   zip.Deflate,
		Modified: b.modified,
	})
	if err != nil {
		return fmt.Errorf("epub: %s: %w", name, err)
	}

	if _, err := io.WriteString(w, content); err != nil {
		return fmt.Errorf("epub: %s: %w", name, err)
	}

	return nil
}
