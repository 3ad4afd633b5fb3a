// Package narou fetches novel metadata and episode text from the
// syosetu.com API and episode pages.
package narou

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
)

// AgentName identifies this tool to the API, which requires a stable
// User-Agent from automated clients.
const AgentName = "narou2epub-agent/0.3.0"

var (
	ErrInvalidNCode = errors.New("narou: malformed ncode")
	ErrInvalidData  = errors.New("narou: response does not match the expected shape")
	ErrNotFound     = errors.New("narou: novel not found")
)

// Client accesses the syosetu.com API and novel pages.
type Client struct {
	HTTP      *http.Client
	UserAgent string

	// Overridable endpoints. Tests point these at local servers.
	APIBase     string
	UserAPIBase string
	SiteBase    string
}

// NewClient returns a Client with production endpoints.
func NewClient() *Client {
	return &Client{
		HTTP:        &http.Client{Timeout: 30 * time.Second},
		UserAgent:   AgentName,
		APIBase:     "https://api.syosetu.com/novelapi/api/",
		UserAPIBase: "https://api.syosetu.com/userapi/api/",
		SiteBase:    "https://ncode.syosetu.com",
	}
}

// Novel is the metadata needed to build one EPUB.
type Novel struct {
	NCode          string
	Title          string
	AuthorName     string
	AuthorYomigana string
	Story          string
	LastUpdate     string // "YYYY-MM-DD HH:MM:SS", JST, as the API emits it
	Series         bool   // false for single-page novels
	Episodes       int
}

// SourceURL is the canonical novel URL recorded as the package source.
func (n *Novel) SourceURL() string {
	return "https://ncode.syosetu.com/" + n.NCode + "/"
}

var ncodePattern = regexp.MustCompile(`(?i)^n[0-9]{4}[a-z]{0,3}$`)

// NormalizeNCode validates an ncode and lowercases it.
func NormalizeNCode(s string) (string, error) {
	if !ncodePattern.MatchString(s) {
		return "", ErrInvalidNCode
	}
	return strings.ToLower(s), nil
}

// novelapi and userapi responses are arrays whose first element carries
// the match count and whose remaining elements are the records.
type apiCount struct {
	Allcount int `json:"allcount"`
}

type novelRecord struct {
	Title        string `json:"title"`
	UserID       int    `json:"userid"`
	Writer       string `json:"writer"`
	Story        string `json:"story"`
	NovelType    int    `json:"noveltype"` // 1: series, 2: single page
	UpdatedAt    string `json:"novelupdated_at"`
	GeneralAllNo int    `json:"general_all_no"`
}

type userRecord struct {
	Yomikata string `json:"yomikata"`
}

// FetchNovel queries the novel API for ncode and the user API for the
// author's reading form.
func (c *Client) FetchNovel(ctx context.Context, ncode string) (*Novel, error) {
	var novel novelRecord
	url := c.APIBase + "?ncode=" + ncode + "&out=json&of=t-nu-s-w-u-nt-ga"
	if err := c.fetchAPIRecord(ctx, url, &novel); err != nil {
		return nil, fmt.Errorf("failed to fetch novel %s: %w", ncode, err)
	}
	if novel.NovelType != 1 && novel.NovelType != 2 {
		return nil, ErrInvalidData
	}

	var user userRecord
	url = fmt.Sprintf("%s?userid=%d&out=json&of=y", c.UserAPIBase, novel.UserID)
	if err := c.fetchAPIRecord(ctx, url, &user); err != nil {
		return nil, fmt.Errorf("failed to fetch author of %s: %w", ncode, err)
	}

	return &Novel{
		NCode:          ncode,
		Title:          novel.Title,
		AuthorName:     novel.Writer,
		AuthorYomigana: user.Yomikata,
		Story:          novel.Story,
		LastUpdate:     novel.UpdatedAt,
		Series:         novel.NovelType == 1,
		Episodes:       novel.GeneralAllNo,
	}, nil
}

// fetchAPIRecord fetches an API response and decodes its single record
// into out. A count other than one means the ncode or user is unknown.
func (c *Client) fetchAPIRecord(ctx context.Context, url string, out any) error {
	body, err := c.get(ctx, url)
	if err != nil {
		return err
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(body, &elems); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidData, err)
	}
	if len(elems) != 2 {
		return ErrNotFound
	}
	var count apiCount
	if err := json.Unmarshal(elems[0], &count); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidData, err)
	}
	if count.Allcount != 1 {
		return ErrNotFound
	}
	if err := json.Unmarshal(elems[1], out); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidData, err)
	}
	return nil
}

// get performs one request with the client's User-Agent and returns the
// response body.
func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.UserAgent)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s for %s", resp.Status, url)
	}
	return io.ReadAll(resp.Body)
}
