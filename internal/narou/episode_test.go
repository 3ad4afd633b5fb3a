package narou

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/yuanying/narou2epub/internal/epub"
)

const episodePage = `<!DOCTYPE html>
<html><body>
<div class="c-announce">お知らせ</div>
<p class="p-novel__chapter">第一章　旅立ち</p>
<h1 class="p-novel__subtitle">プロローグ</h1>
<div class="js-novel-text p-novel__text">
<p id="L1">　一行目。</p>
<p id="L2"><a href="https://example.com/">リンクの中身</a></p>
<p id="L3"><img src="{{imgurl}}" alt="挿絵"/></p>
</div>
</body></html>`

func pngImage(t *testing.T, width, height int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, width, height))); err != nil {
		t.Fatalf("failed to encode test image: %v", err)
	}
	return buf.Bytes()
}

func TestFetchEpisode(t *testing.T) {
	img := pngImage(t, 16, 16)

	var srv *httptest.Server
	mux := http.NewServeMux()
	mux.HandleFunc("/n0000aa/1/", func(w http.ResponseWriter, r *http.Request) {
		page := strings.ReplaceAll(episodePage, "{{imgurl}}", srv.URL+"/userimg/1.png")
		w.Write([]byte(page))
	})
	mux.HandleFunc("/userimg/1.png", func(w http.ResponseWriter, r *http.Request) {
		w.Write(img)
	})

	c, s := testClient(mux)
	srv = s
	defer srv.Close()

	novel := &Novel{NCode: "n0000aa", Series: true}
	ep, err := c.FetchEpisode(context.Background(), novel, 1, epub.NewNameIDs())
	if err != nil {
		t.Fatalf("FetchEpisode: %v", err)
	}

	if ep.Chapter != "第一章　旅立ち" {
		t.Errorf("Chapter = %q", ep.Chapter)
	}
	if ep.Title != "プロローグ" {
		t.Errorf("Title = %q", ep.Title)
	}
	if strings.Contains(ep.Body, `id="L`) {
		t.Errorf("line ids were not stripped: %q", ep.Body)
	}
	if strings.Contains(ep.Body, "<a ") || !strings.Contains(ep.Body, "リンクの中身") {
		t.Errorf("anchor was not unwrapped: %q", ep.Body)
	}
	if !strings.Contains(ep.Body, `src="0.png"`) {
		t.Errorf("illustration was not renamed: %q", ep.Body)
	}

	if len(ep.Images) != 1 {
		t.Fatalf("Images = %d, want 1", len(ep.Images))
	}
	if ep.Images[0].Name != "0.png" || ep.Images[0].MediaType != epub.PNG {
		t.Errorf("image = %+v", ep.Images[0])
	}
	if !bytes.Equal(ep.Images[0].Body, img) {
		t.Error("small image should pass through unmodified")
	}
}

func TestFetchEpisodeSinglePage(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/n0000aa/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><div id="novel_honbun"><p id="L1">本文のみ。</p></div></body></html>`))
	})

	c, srv := testClient(mux)
	defer srv.Close()

	novel := &Novel{NCode: "n0000aa", Series: false}
	ep, err := c.FetchEpisode(context.Background(), novel, 1, epub.NewNameIDs())
	if err != nil {
		t.Fatalf("FetchEpisode: %v", err)
	}
	if ep.Title != "本文" {
		t.Errorf("Title = %q, want 本文", ep.Title)
	}
	if ep.Chapter != "" {
		t.Errorf("Chapter = %q, want empty", ep.Chapter)
	}
	if !strings.Contains(ep.Body, "本文のみ。") {
		t.Errorf("Body = %q", ep.Body)
	}
}

func TestFetchEpisodeMissingBody(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/n0000aa/1/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><p>メンテナンス中</p></body></html>`))
	})

	c, srv := testClient(mux)
	defer srv.Close()

	novel := &Novel{NCode: "n0000aa", Series: true}
	if _, err := c.FetchEpisode(context.Background(), novel, 1, epub.NewNameIDs()); err == nil {
		t.Error("FetchEpisode succeeded on a page without a body element")
	}
}

func TestResolveImageURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"//img.example.net/userimg/1.png", "https://img.example.net/userimg/1.png"},
		{"https://img.example.net/userimg/1.png", "https://img.example.net/userimg/1.png"},
		{"http://img.example.net/userimg/1.png", "http://img.example.net/userimg/1.png"},
	}

	for _, tt := range tests {
		if got := resolveImageURL(tt.in); got != tt.want {
			t.Errorf("resolveImageURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFetchImageDownscalesWideImages(t *testing.T) {
	img := pngImage(t, maxIllustrationWidth*2, 32)

	mux := http.NewServeMux()
	mux.HandleFunc("/userimg/wide.png", func(w http.ResponseWriter, r *http.Request) {
		w.Write(img)
	})

	c, srv := testClient(mux)
	defer srv.Close()

	got, err := c.fetchImage(context.Background(), srv.URL+"/userimg/wide.png", epub.NewNameIDs())
	if err != nil {
		t.Fatalf("fetchImage: %v", err)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(got.Body))
	if err != nil {
		t.Fatalf("failed to decode result: %v", err)
	}
	if cfg.Width != maxIllustrationWidth {
		t.Errorf("width = %d, want %d", cfg.Width, maxIllustrationWidth)
	}
}
