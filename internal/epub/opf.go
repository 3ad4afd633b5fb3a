package epub

import (
	"fmt"
	"html"
	"strings"

	"github.com/google/uuid"
)

// packageTemplate is the content.opf skeleton. Slots, in order: source
// identifier block (or empty), escaped title, language code, creator block
// (or empty), modified meta (or empty), description (or empty), manifest
// XML, spine XML.
const packageTemplate = `<?xml version="1.0" encoding="utf-8"?>` +
	`<package xmlns="http://www.idpf.org/2007/opf" version="3.0" xml:lang="ja" unique-identifier="epub-id">` +
	`<metadata xmlns:dc="http://purl.org/dc/elements/1.1/">` +
	`%s<dc:title>%s</dc:title><dc:language>%s</dc:language>%s%s%s` +
	`</metadata>%s%s</package>`

// buildManifest renders the manifest with one item per content entry, then
// one per resource entry. The navigation document carries the nav property;
// only Finish creates a Navi entry, so exactly one item carries it.
func (w *Writer) buildManifest() string {
	var b strings.Builder
	b.WriteString("<manifest>")
	for _, c := range w.contents {
		writeManifestItem(&b, c.mediaType, c.id, c.name, c.reftype == Navi)
	}
	for _, r := range w.resources {
		writeManifestItem(&b, r.mediaType, r.id, r.name, r.reftype == Navi)
	}
	b.WriteString("</manifest>")
	return b.String()
}

func writeManifestItem(b *strings.Builder, mediaType MediaType, id, name string, nav bool) {
	if nav {
		fmt.Fprintf(b, `<item media-type="%s" id="%s" href="%s" properties="nav"/>`, mediaType, id, name)
	} else {
		fmt.Fprintf(b, `<item media-type="%s" id="%s" href="%s"/>`, mediaType, id, name)
	}
}

// buildSpine renders one itemref per content entry in insertion order.
func (w *Writer) buildSpine() string {
	var b strings.Builder
	fmt.Fprintf(&b, `<spine page-progression-direction="%s">`, w.direction)
	for _, c := range w.contents {
		fmt.Fprintf(&b, `<itemref idref="%s"/>`, c.id)
	}
	b.WriteString("</spine>")
	return b.String()
}

// buildPackageDoc assembles content.opf from the metadata and the manifest
// and spine fragments. Absent optional metadata emits nothing.
func (w *Writer) buildPackageDoc() string {
	var source string
	if w.source != "" {
		// The package identifier is derived from the source URL as a
		// version 5 UUID under the URL namespace, so rebuilding the
		// same novel yields the same identifier.
		id := uuid.NewSHA1(uuid.NameSpaceURL, []byte(w.source))
		source = fmt.Sprintf(
			`<dc:identifier id="epub-id">urn:uuid:%s</dc:identifier><meta property="dcterms:source">%s</meta>`,
			id, w.source)
	}

	var author string
	if w.hasAuthor {
		author = fmt.Sprintf(
			`<dc:creator id="creator">%s</dc:creator>`+
				`<meta refines="#creator" property="role" scheme="marc:relators">aut</meta>`+
				`<meta refines="#creator" property="file-as">%s</meta>`,
			html.EscapeString(w.author), html.EscapeString(w.authorYomi))
	}

	var modified string
	if w.modified != nil {
		modified = fmt.Sprintf(`<meta property="dcterms:modified">%s</meta>`, w.modified)
	}

	var description string
	if w.description != "" {
		description = fmt.Sprintf(`<dc:description>%s</dc:description>`, html.EscapeString(w.description))
	}

	return fmt.Sprintf(packageTemplate,
		source,
		html.EscapeString(w.title),
		"ja",
		author,
		modified,
		description,
		w.buildManifest(),
		w.buildSpine(),
	)
}
