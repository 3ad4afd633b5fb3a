package narou

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/yuanying/narou2epub/internal/epub"
)

// Episode is one fetched episode with its body cleaned up for packaging.
type Episode struct {
	Number  int
	Chapter string // empty when the novel has no chapter grouping
	Title   string
	Body    string // XHTML fragment
	Images  []Image
}

// FetchEpisode fetches episode number of novel and extracts its chapter
// name, title and body. Illustrations referenced by the body are
// downloaded, renamed from names and rewritten in place. Single-page
// novels have exactly one episode served at the novel's root URL.
func (c *Client) FetchEpisode(ctx context.Context, novel *Novel, number int, names *epub.IDSequence) (*Episode, error) {
	url := c.SiteBase + "/" + novel.NCode + "/"
	if novel.Series {
		url = fmt.Sprintf("%s/%s/%d/", c.SiteBase, novel.NCode, number)
	}

	page, err := c.get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch episode %d: %w", number, err)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(page)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse episode %d: %w", number, err)
	}

	// Selectors cover both the classic and the current page markup.
	body := doc.Find(".js-novel-text.p-novel__text, #novel_honbun").First()
	if body.Length() == 0 {
		return nil, ErrInvalidData
	}

	ep := &Episode{
		Number:  number,
		Chapter: strings.TrimSpace(doc.Find(".p-novel__chapter, .chapter_title").First().Text()),
		Title:   strings.TrimSpace(doc.Find(".p-novel__subtitle, .novel_subtitle").First().Text()),
	}
	if !novel.Series {
		ep.Title = "本文"
	}
	if ep.Title == "" {
		return nil, ErrInvalidData
	}

	if err := c.cleanBody(ctx, body, ep, names); err != nil {
		return nil, err
	}

	html, err := body.Html()
	if err != nil {
		return nil, fmt.Errorf("failed to render episode %d: %w", number, err)
	}
	ep.Body = strings.TrimSpace(html)
	return ep, nil
}

// cleanBody normalizes the episode markup in place: line-number ids are
// dropped, anchors are unwrapped, and illustration references are
// downloaded and repointed at package-local names.
func (c *Client) cleanBody(ctx context.Context, body *goquery.Selection, ep *Episode, names *epub.IDSequence) error {
	body.Find("p").RemoveAttr("id")

	body.Find("a").Each(func(_ int, s *goquery.Selection) {
		s.ReplaceWithNodes(s.Contents().Nodes...)
	})

	var fetchErr error
	body.Find("img").Each(func(_ int, s *goquery.Selection) {
		if fetchErr != nil {
			return
		}
		src, ok := s.Attr("src")
		if !ok {
			s.Remove()
			return
		}

		img, err := c.fetchImage(ctx, resolveImageURL(src), names)
		if err != nil {
			fetchErr = fmt.Errorf("failed to fetch illustration %s: %w", src, err)
			return
		}
		ep.Images = append(ep.Images, img)

		s.RemoveAttr("alt").RemoveAttr("border")
		s.SetAttr("src", img.Name)
	})
	return fetchErr
}
