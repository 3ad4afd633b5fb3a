// Package epub assembles EPUB3 packages. A Writer owns the ordered sets of
// content documents and resources, allocates their identifiers, and on
// Finish emits the navigation document and the OPF package document into
// an append-only container.
package epub

import (
	"errors"
	"fmt"
)

// Compression is a hint for how the container should store an entry.
type Compression int

const (
	// Store writes the entry uncompressed. The EPUB mimetype entry must
	// be stored so readers can sniff it at a fixed offset.
	Store Compression = iota
	// Deflate compresses the entry.
	Deflate
)

// ContainerWriter is the sink the Writer streams into: an append-only
// sequence of named entries, finalized by Flush. Entries appear in the
// container in the exact order AddEntry is called.
type ContainerWriter interface {
	AddEntry(name string, body []byte, c Compression) error
	Flush() error
}

// MediaType is the MIME type recorded for a manifest item.
type MediaType string

const (
	CSS   MediaType = "text/css"
	XHTML MediaType = "application/xhtml+xml"
	JPEG  MediaType = "image/jpeg"
	PNG   MediaType = "image/png"
	GIF   MediaType = "image/gif"
)

// ReferenceType is the semantic role of a content or resource entry.
type ReferenceType int

const (
	Title ReferenceType = iota // title page, listed in the landmarks nav
	Text                       // body text
	Navi                       // the generated navigation document
	Image
	Style
)

// Direction selects the spine's page progression.
type Direction int

const (
	RTL Direction = iota
	LTR
)

func (d Direction) String() string {
	if d == LTR {
		return "ltr"
	}
	return "rtl"
}

type contentEntry struct {
	name      string
	title     string
	mediaType MediaType
	reftype   ReferenceType
	level     int
	id        string
}

type resourceEntry struct {
	name      string
	mediaType MediaType
	reftype   ReferenceType
	id        string
}

// ErrFinished is returned when a Writer is used after Finish.
var ErrFinished = errors.New("epub: writer already finished")

const mimetypeBody = "application/epub+zip"

const containerXML = `<?xml version="1.0" encoding="utf-8"?>` +
	`<container xmlns="urn:oasis:names:tc:opendocument:xmlns:container" version="1.0">` +
	`<rootfiles>` +
	`<rootfile full-path="content.opf" media-type="application/oebps-package+xml"/>` +
	`</rootfiles>` +
	`</container>`

// Writer builds one EPUB package. Contents form the spine in the order
// they are added; resources are manifest-only. Metadata setters may be
// called any number of times before Finish.
type Writer struct {
	cw          ContainerWriter
	title       string
	author      string
	authorYomi  string
	hasAuthor   bool
	modified    *Time
	description string
	source      string
	direction   Direction
	contents    []contentEntry
	resources   []resourceEntry
	ids         *IDSequence
	finished    bool
}

// NewWriter creates a Writer over cw and immediately writes the two fixed
// container entries: the stored mimetype marker and the container
// descriptor. The Writer owns cw until Finish.
func NewWriter(cw ContainerWriter) (*Writer, error) {
	if err := cw.AddEntry("mimetype", []byte(mimetypeBody), Store); err != nil {
		return nil, fmt.Errorf("failed to write mimetype: %w", err)
	}
	if err := cw.AddEntry("META-INF/container.xml", []byte(containerXML), Deflate); err != nil {
		return nil, fmt.Errorf("failed to write container descriptor: %w", err)
	}
	return &Writer{
		cw:        cw,
		direction: RTL,
		ids:       NewItemIDs(),
	}, nil
}

// SetTitle sets the package title.
func (w *Writer) SetTitle(title string) *Writer {
	w.title = title
	return w
}

// SetAuthor sets the creator name and its reading form (file-as).
func (w *Writer) SetAuthor(name, yomigana string) *Writer {
	w.author = name
	w.authorYomi = yomigana
	w.hasAuthor = true
	return w
}

// SetModified sets the dcterms:modified timestamp.
func (w *Writer) SetModified(t Time) *Writer {
	w.modified = &t
	return w
}

// SetDescription sets the package description.
func (w *Writer) SetDescription(description string) *Writer {
	w.description = description
	return w
}

// SetSource sets the source URL. When set, Finish derives the package
// identifier from it as a version 5 UUID and records the raw URL as
// dcterms:source.
func (w *Writer) SetSource(source string) *Writer {
	w.source = source
	return w
}

// SetDirection sets the spine's page progression direction.
func (w *Writer) SetDirection(d Direction) *Writer {
	w.direction = d
	return w
}

// AddContent writes body to the container under name and records a spine
// entry. title labels the entry in the table of contents; level (>= 1) is
// its nesting depth there. Entry names must be unique across the package.
func (w *Writer) AddContent(name, title string, mediaType MediaType, level int, reftype ReferenceType, body []byte) error {
	if w.finished {
		return ErrFinished
	}
	if err := w.cw.AddEntry(name, body, Deflate); err != nil {
		return fmt.Errorf("failed to write content %s: %w", name, err)
	}
	w.contents = append(w.contents, contentEntry{
		name:      name,
		title:     title,
		mediaType: mediaType,
		reftype:   reftype,
		level:     level,
		id:        w.ids.Next(),
	})
	return nil
}

// AddResource writes body to the container under name and records a
// manifest-only entry. Resources never appear in the spine.
func (w *Writer) AddResource(name string, mediaType MediaType, reftype ReferenceType, body []byte) error {
	if w.finished {
		return ErrFinished
	}
	if err := w.cw.AddEntry(name, body, Deflate); err != nil {
		return fmt.Errorf("failed to write resource %s: %w", name, err)
	}
	w.resources = append(w.resources, resourceEntry{
		name:      name,
		mediaType: mediaType,
		reftype:   reftype,
		id:        w.ids.Next(),
	})
	return nil
}

// Finish builds the navigation document from the accumulated contents,
// adds it as the package's single Navi resource, writes content.opf and
// flushes the container. It must be called exactly once; the Writer is
// consumed afterwards. On error the container is left unflushed and the
// partial output should be discarded by the caller.
func (w *Writer) Finish() error {
	if w.finished {
		return ErrFinished
	}
	if err := w.AddResource("nav.xhtml", XHTML, Navi, []byte(w.buildNav())); err != nil {
		return err
	}
	w.finished = true
	if err := w.cw.AddEntry("content.opf", []byte(w.buildPackageDoc()), Deflate); err != nil {
		return fmt.Errorf("failed to write content.opf: %w", err)
	}
	if err := w.cw.Flush(); err != nil {
		return fmt.Errorf("failed to flush container: %w", err)
	}
	return nil
}
