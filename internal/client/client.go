// Package client is an HTTP client for the Streamish video API.
package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/and161185/streamish/internal/convert"
	"github.com/and161185/streamish/internal/errs"
	"github.com/and161185/streamish/internal/model"
)

const (
	videoBase   = "/api/video"
	profileBase = "/api/profiles"
)

// StatusError is returned for any non-2xx response other than 404.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body)
}

// Client calls the API rooted at baseURL. Calls are independent and never retried.
type Client struct {
	baseURL string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout bounds every call in addition to the caller's context.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// New constructs a Client.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// FetchAllVideosWithComments returns every video with its owner and comments.
func (c *Client) FetchAllVideosWithComments(ctx context.Context) ([]model.Video, error) {
	var out []convert.Video
	if err := c.getJSON(ctx, videoBase+"/GetWithComments", &out); err != nil {
		return nil, err
	}
	return convert.FromVideos(out), nil
}

// FetchVideoByID returns one video with comments; a 404 yields errs.ErrNotFound.
func (c *Client) FetchVideoByID(ctx context.Context, id int64) (model.Video, error) {
	var out convert.Video
	if err := c.getJSON(ctx, videoBase+"/GetWithComments/"+strconv.FormatInt(id, 10), &out); err != nil {
		return model.Video{}, err
	}
	return convert.FromVideo(out), nil
}

// SubmitVideo posts v as JSON and hands back the raw response. The caller closes the body.
func (c *Client) SubmitVideo(ctx context.Context, v model.Video) (*http.Response, error) {
	body, err := json.Marshal(convert.ToVideo(v))
	if err != nil {
		return nil, fmt.Errorf("encode video: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+videoBase, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.http.Do(req)
}

// SearchVideos runs a title search.
func (c *Client) SearchVideos(ctx context.Context, q model.SearchQuery) ([]model.Video, error) {
	params := url.Values{}
	params.Set("q", q.Term)
	params.Set("sortDesc", strconv.FormatBool(q.SortDescending))

	var out []convert.Video
	if err := c.getJSON(ctx, videoBase+"/search?"+params.Encode(), &out); err != nil {
		return nil, err
	}
	return convert.FromVideos(out), nil
}

// FetchProfiles returns every profile.
func (c *Client) FetchProfiles(ctx context.Context) ([]model.UserProfile, error) {
	var out []convert.UserProfile
	if err := c.getJSON(ctx, profileBase, &out); err != nil {
		return nil, err
	}
	ps := make([]model.UserProfile, 0, len(out))
	for _, p := range out {
		ps = append(ps, convert.FromUserProfile(p))
	}
	return ps, nil
}

// FetchProfile returns one profile; a 404 yields errs.ErrNotFound.
func (c *Client) FetchProfile(ctx context.Context, id int64) (model.UserProfile, error) {
	var out convert.UserProfile
	if err := c.getJSON(ctx, profileBase+"/"+strconv.FormatInt(id, 10), &out); err != nil {
		return model.UserProfile{}, err
	}
	return convert.FromUserProfile(out), nil
}

func (c *Client) getJSON(ctx context.Context, path string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return err
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	if resp.StatusCode == http.StatusNotFound {
		return errs.ErrNotFound
	}
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(b))}
}
