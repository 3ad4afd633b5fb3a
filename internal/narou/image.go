package narou

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/yuanying/narou2epub/internal/epub"
)

// Illustrations wider than this are downscaled before packaging.
const maxIllustrationWidth = 1080

var ErrInvalidImageType = errors.New("narou: unsupported illustration format")

// resolveImageURL completes the scheme-relative image URLs episode pages
// use.
func resolveImageURL(src string) string {
	if strings.HasPrefix(src, "//") {
		return "https:" + src
	}
	return src
}

// Image is a downloaded illustration ready to be added as a resource.
type Image struct {
	Name      string
	MediaType epub.MediaType
	Body      []byte
}

// fetchImage downloads one illustration, identifies its format and
// downscales oversized rasters. The returned name is drawn from names so
// illustrations share the package's filename sequence.
func (c *Client) fetchImage(ctx context.Context, src string, names *epub.IDSequence) (Image, error) {
	body, err := c.get(ctx, src)
	if err != nil {
		return Image{}, err
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(body))
	if err != nil {
		return Image{}, fmt.Errorf("%w: %v", ErrInvalidImageType, err)
	}

	var mediaType epub.MediaType
	var ext string
	switch format {
	case "jpeg":
		mediaType, ext = epub.JPEG, "jpg"
	case "png":
		mediaType, ext = epub.PNG, "png"
	case "gif":
		mediaType, ext = epub.GIF, "gif"
	default:
		return Image{}, ErrInvalidImageType
	}

	// GIFs pass through untouched so animations keep their frames.
	if format != "gif" && cfg.Width > maxIllustrationWidth {
		src, err := imaging.Decode(bytes.NewReader(body))
		if err != nil {
			return Image{}, fmt.Errorf("%w: %v", ErrInvalidImageType, err)
		}
		resized := imaging.Resize(src, maxIllustrationWidth, 0, imaging.Lanczos)

		var buf bytes.Buffer
		encFormat := imaging.JPEG
		if format == "png" {
			encFormat = imaging.PNG
		}
		if err := imaging.Encode(&buf, resized, encFormat); err != nil {
			return Image{}, fmt.Errorf("failed to encode illustration: %w", err)
		}
		body = buf.Bytes()
	}

	return Image{
		Name:      names.Next() + "." + ext,
		MediaType: mediaType,
		Body:      body,
	}, nil
}
