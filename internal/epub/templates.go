package epub

import (
	"fmt"
	"strings"
)

const (
	MimeType      = "application/epub+zip"
	ContainerPath = "META-INF/container.xml"
	PackagePath   = "OEBPS/content.opf"
	NCXPath       = "OEBPS/toc.ncx"
)

const containerXML = `<?xml version="1.0" encoding="UTF-8"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles>
    <rootfile full-path="OEBPS/content.opf" media-type="application/oebps-package+xml"/>
  </rootfiles>
</container>
`

func chapterFile(n int) string {
	return fmt.Sprintf("chapter%d.xhtml", n)
}

func chapterID(n int) string {
	return fmt.Sprintf("chapter%d", n)
}

func chapterXHTML(title, body string) string {
	var b strings.Builder

	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE html PUBLIC "-//W3C//DTD XHTML 1.1//EN" "http://www.w3.org/TR/xhtml11/DTD/xhtml11.dtd">
<html xmlns="http://www.w3.org/1999/xhtml">
<head>
  <title>`)
	b.WriteString(Escape(title))
	b.WriteString(`</title>
</head>
<body>
  <h1>`)
	b.WriteString(Escape(title))
	b.WriteString("</h1>\n")
	b.WriteString(body)
	b.WriteString("\n</body>\n</html>\n")

	return b.String()
}

func packageOPF(b *book) string {
	var s strings.Builder

	s.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<package xmlns="http://www.idpf.org/2007/opf" unique-identifier="BookId" version="2.0">
  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:opf="http://www.idpf.org/2007/opf">
`)
	fmt.Fprintf(&s, "    <dc:title>%s</dc:title>\n", Escape(b.title))
	fmt.Fprintf(&s, "    <dc:language>%s</dc:language>\n", Escape(b.language))
	fmt.Fprintf(&s, "    <dc:identifier id=\"BookId\">%s</dc:identifier>\n", Escape(b.identifier))
	if b.source != "" {
		fmt.Fprintf(&s, "    <dc:source>%s</dc:source>\n", Escape(b.source))
	}
	s.WriteString("  </metadata>\n  <manifest>\n")
	s.WriteString("    <item id=\"ncx\" href=\"toc.ncx\" media-type=\"application/x-dtbncx+xml\"/>\n")
	for i := range b.chapters {
		n := i + 1
		fmt.Fprintf(&s, "    <item id=\"%s\" href=\"%s\" media-type=\"application/xhtml+xml\"/>\n", chapterID(n), chapterFile(n))
	}
	s.WriteString("  </manifest>\n  <spine toc=\"ncx\">\n")
	for i := range b.chapters {
		fmt.Fprintf(&s, "    <itemref idref=\"%s\"/>\n", chapterID(i+1))
	}
	s.WriteString("  </spine>\n</package>\n")

	return s.String()
}

func tocNCX(b *book) string {
	var s strings.Builder

	s.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE ncx PUBLIC "-//NISO//DTD ncx 2005-1//EN" "http://www.daisy.org/z3986/2005/ncx-2005-1.dtd">
<ncx xmlns="http://www.daisy.org/z3986/2005/ncx/" version="2005-1">
  <head>
`)
	fmt.Fprintf(&s, "    <meta name=\"dtb:uid\" content=\"%s\"/>\n", Escape(b.identifier))
	s.WriteString(`    <meta name="dtb:depth" content="1"/>
    <meta name="dtb:totalPageCount" content="0"/>
    <meta name="dtb:maxPageNumber" content="0"/>
  </head>
`)
	fmt.Fprintf(&s, "  <docTitle><text>%s</text></docTitle>\n", Escape(b.title))
	s.WriteString("  <navMap>\n")
	for i, ch := range b.chapters {
		n := i + 1
		fmt.Fprintf(&s, "    <navPoint id=\"navPoint-%d\" playOrder=\"%d\">\n", n, n)
		fmt.Fprintf(&s, "      <navLabel><text>%s</text></navLabel>\n", Escape(ch.Title))
		fmt.Fprintf(&s, "      <content src=\"%s\"/>\n", chapterFile(n))
		s.WriteString("    </navPoint>\n")
	}
	s.WriteString("  </navMap>\n</ncx>\n")

	return s.String()
}
