package epub

import (
	"fmt"
	"html"
	"strings"
)

// buildNav renders the XHTML navigation document: a toc nav built from the
// leveled content sequence, then a landmarks nav listing the Title-typed
// entries in their original order.
func (w *Writer) buildNav() string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="utf-8"?>` +
		`<html xmlns="http://www.w3.org/1999/xhtml" xmlns:epub="http://www.idpf.org/2007/ops">` +
		`<head><title>目次</title></head>` +
		`<body><nav epub:type="toc"><h1>目次</h1>`)

	// Contents arrive as a flat sequence with nesting levels; emit them
	// as nested ordered lists by tracking the open depth.
	level := 0
	for _, c := range w.contents {
		switch {
		case c.level > level:
			for i := 0; i < c.level-level; i++ {
				b.WriteString("<ol>")
			}
			b.WriteString("<li>")
		case c.level == level:
			b.WriteString("</li><li>")
		default:
			b.WriteString("</li>")
			for i := 0; i < level-c.level; i++ {
				b.WriteString("</ol></li>")
			}
			b.WriteString("<li>")
		}
		fmt.Fprintf(&b, `<a href="%s">%s</a>`, c.name, html.EscapeString(c.title))
		level = c.level
	}
	for i := 0; i < level; i++ {
		b.WriteString("</li></ol>")
	}

	b.WriteString(`</nav><nav epub:type="landmarks"><ol>`)
	for _, c := range w.contents {
		if c.reftype == Title {
			fmt.Fprintf(&b, `<li><a epub:type="titlepage" href="%s">%s</a></li>`,
				c.name, html.EscapeString(c.title))
		}
	}
	b.WriteString(`</ol></nav></body></html>`)

	return b.String()
}
