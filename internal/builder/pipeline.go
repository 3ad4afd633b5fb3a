// Package builder orchestrates fetching a novel and assembling it into an
// EPUB file on disk.
package builder

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/yuanying/narou2epub/internal/container"
	"github.com/yuanying/narou2epub/internal/epub"
	"github.com/yuanying/narou2epub/internal/narou"
	"github.com/yuanying/narou2epub/internal/sanitize"
)

// Options configures a build.
type Options struct {
	Horizontal bool          // horizontal text, left-to-right page progression
	Wait       time.Duration // politeness delay between episode fetches
	OutputDir  string
	Progress   func(done, total int) // optional, called after each episode
}

// Pipeline builds EPUB files from novels. One Pipeline may build any
// number of novels sequentially.
type Pipeline struct {
	client *narou.Client
	opts   Options
}

// New creates a Pipeline fetching through client.
func New(client *narou.Client, opts Options) *Pipeline {
	if opts.OutputDir == "" {
		opts.OutputDir = "."
	}
	return &Pipeline{client: client, opts: opts}
}

// Build downloads the novel identified by ncode and writes
// "[Author] Title.epub" into the output directory, returning the final
// path. The EPUB is assembled in a temporary file that is promoted by
// rename only after a successful Finish; on any error, including
// cancellation, the temporary file is removed and no output appears.
func (p *Pipeline) Build(ctx context.Context, ncode string) (string, error) {
	novel, err := p.client.FetchNovel(ctx, ncode)
	if err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp(p.opts.OutputDir, "narou2epub-*.tmp")
	if err != nil {
		return "", fmt.Errorf("failed to create temporary file: %w", err)
	}
	defer func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}()

	if err := p.assemble(ctx, tmp, novel); err != nil {
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to close temporary file: %w", err)
	}

	outPath := filepath.Join(p.opts.OutputDir, fmt.Sprintf("[%s] %s.epub",
		sanitize.Filename(novel.AuthorName), sanitize.Filename(novel.Title)))
	if err := os.Rename(tmp.Name(), outPath); err != nil {
		return "", fmt.Errorf("failed to move output into place: %w", err)
	}
	return outPath, nil
}

// assemble streams the whole package into f.
func (p *Pipeline) assemble(ctx context.Context, f *os.File, novel *narou.Novel) error {
	w, err := epub.NewWriter(container.NewWriter(f))
	if err != nil {
		return err
	}

	w.SetTitle(novel.Title).
		SetAuthor(novel.AuthorName, novel.AuthorYomigana).
		SetDescription(novel.Story).
		SetSource(novel.SourceURL())

	// A bad timestamp from the API only costs the modified meta.
	if modified, err := epub.ParseJST(novel.LastUpdate); err != nil {
		log.Printf("warning: skipping modified timestamp %q: %v", novel.LastUpdate, err)
	} else {
		w.SetModified(modified)
	}

	style := verticalStyle
	direction := epub.RTL
	if p.opts.Horizontal {
		style = horizontalStyle
		direction = epub.LTR
	}
	w.SetDirection(direction)
	if err := w.AddResource("style.css", epub.CSS, epub.Style, style); err != nil {
		return err
	}

	if err := w.AddContent("title.xhtml", "表題", epub.XHTML, 1, epub.Title, makeTitlePage(novel)); err != nil {
		return err
	}

	// Episode pages and illustrations draw from separate filename
	// sequences; extensions keep them from colliding.
	pageNames := epub.NewNameIDs()
	imageNames := epub.NewNameIDs()
	prevChapter := ""

	for i := 1; i <= novel.Episodes; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		ep, err := p.client.FetchEpisode(ctx, novel, i, imageNames)
		if err != nil {
			return err
		}

		if ep.Chapter != "" && ep.Chapter != prevChapter {
			name := pageNames.Next() + ".xhtml"
			if err := w.AddContent(name, ep.Chapter, epub.XHTML, 1, epub.Text, makeChapterPage(ep.Chapter)); err != nil {
				return err
			}
			prevChapter = ep.Chapter
		}

		for _, img := range ep.Images {
			if err := w.AddResource(img.Name, img.MediaType, epub.Image, img.Body); err != nil {
				return err
			}
		}

		level := 1
		if ep.Chapter != "" {
			level = 2
		}
		name := pageNames.Next() + ".xhtml"
		if err := w.AddContent(name, ep.Title, epub.XHTML, level, epub.Text, makeEpisodePage(ep, !novel.Series)); err != nil {
			return err
		}

		if p.opts.Progress != nil {
			p.opts.Progress(i, novel.Episodes)
		}

		if p.opts.Wait > 0 && i < novel.Episodes {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(p.opts.Wait):
			}
		}
	}

	return w.Finish()
}
