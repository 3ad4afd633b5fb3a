package builder

import (
	_ "embed"
	"fmt"
	"html"

	"github.com/yuanying/narou2epub/internal/narou"
)

//go:embed style.css
var verticalStyle []byte

//go:embed horizontal_style.css
var horizontalStyle []byte

const pageTemplate = `<?xml version="1.0" encoding="utf-8"?>` + "\n" +
	`<!DOCTYPE html>` + "\n" +
	`<html xmlns="http://www.w3.org/1999/xhtml" xml:lang="ja">` +
	`<head><title>%s</title>` +
	`<link rel="stylesheet" type="text/css" href="style.css"/>` +
	`</head><body>%s</body></html>`

func makeTitlePage(novel *narou.Novel) []byte {
	title := html.EscapeString(novel.Title)
	body := fmt.Sprintf(`<h1>%s</h1><p class="author">%s</p>`,
		title, html.EscapeString(novel.AuthorName))
	return []byte(fmt.Sprintf(pageTemplate, title, body))
}

func makeChapterPage(chapter string) []byte {
	escaped := html.EscapeString(chapter)
	return []byte(fmt.Sprintf(pageTemplate, escaped, "<h2>"+escaped+"</h2>"))
}

// makeEpisodePage wraps an episode body, which is already clean XHTML
// from the narou client, in a page skeleton. Single-page novels carry no
// heading of their own.
func makeEpisodePage(ep *narou.Episode, standalone bool) []byte {
	escaped := html.EscapeString(ep.Title)
	body := ep.Body
	if !standalone {
		body = "<h3>" + escaped + "</h3>" + body
	}
	return []byte(fmt.Sprintf(pageTemplate, escaped, body))
}
