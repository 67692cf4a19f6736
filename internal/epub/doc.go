// Package epub packages ordered chapters into an EPUB 2 archive held in
// memory.
//
// The archive layout is fixed:
//
//	mimetype                 stored, always the first entry
//	META-INF/container.xml   points at OEBPS/content.opf
//	OEBPS/chapterN.xhtml     one per chapter, N counted from 1
//	OEBPS/content.opf        manifest and spine
//	OEBPS/toc.ncx            navigation map
package epub
