package imagesapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Client talks to the remote image service.
type Client struct {
	baseURL    *url.URL
	imagesPath string
	http       *http.Client
	userAgent  string
}

const (
	defaultAPIURL     = "http://127.0.0.1:3000"
	defaultImagesPath = "/images"
	defaultUserAgent  = "easel/0.1"
	requestIDHeader   = "X-Request-ID"
)

// Options tune a Client. Zero values use defaults.
type Options struct {
	ImagesPath string
	Timeout    time.Duration
	UserAgent  string
}

// NewClient builds a Client for the service rooted at apiURL.
func NewClient(apiURL string, opts Options) (*Client, error) {
	base, err := parseBaseURL(apiURL)
	if err != nil {
		return nil, err
	}
	imagesPath := strings.TrimSpace(opts.ImagesPath)
	if imagesPath == "" {
		imagesPath = defaultImagesPath
	}
	imagesPath = path.Join("/", base.Path, imagesPath)
	userAgent := strings.TrimSpace(opts.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &Client{
		baseURL:    base,
		imagesPath: imagesPath,
		http: &http.Client{
			Timeout: opts.Timeout,
		},
		userAgent: userAgent,
	}, nil
}

// BaseURL returns the normalized service root.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// FetchImagesPage retrieves one page of images.
func (c *Client) FetchImagesPage(ctx context.Context, page, pageSize int) ([]Image, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	if page < 1 {
		return nil, fmt.Errorf("page must be >= 1, got %d", page)
	}
	values := url.Values{}
	values.Set("page", strconv.Itoa(page))
	if pageSize > 0 {
		values.Set("pageSize", strconv.Itoa(pageSize))
	}
	rel := &url.URL{Path: c.imagesPath, RawQuery: values.Encode()}
	var payload []Image
	if err := c.doURL(ctx, http.MethodGet, rel, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// SubmitLike records a like for the image. The response body is ignored.
func (c *Client) SubmitLike(ctx context.Context, id string) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("image id required")
	}
	return c.doURL(ctx, http.MethodPost, c.likePath(id), nil)
}

// likePath keeps the id a single path segment: slashes are escaped and a bare
// dot segment is encoded so reference resolution cannot collapse it.
func (c *Client) likePath(id string) *url.URL {
	seg := url.PathEscape(id)
	if id == "." || id == ".." {
		seg = strings.ReplaceAll(seg, ".", "%2E")
	}
	return &url.URL{
		Path:    c.imagesPath + "/" + id + "/likes",
		RawPath: c.imagesPath + "/" + seg + "/likes",
	}
}

// ProbeAsset issues a HEAD request for an attachment URL.
func (c *Client) ProbeAsset(ctx context.Context, assetURL string) (Asset, error) {
	if c == nil {
		return Asset{}, fmt.Errorf("client is nil")
	}
	target, err := c.baseURL.Parse(strings.TrimSpace(assetURL))
	if err != nil {
		return Asset{}, fmt.Errorf("parse asset url %q: %w", assetURL, err)
	}
	resp, err := c.send(ctx, http.MethodHead, target, "")
	if err != nil {
		return Asset{}, err
	}
	defer func() { _ = resp.Body.Close() }()
	return Asset{
		URL:         target.String(),
		ContentType: resp.Header.Get("Content-Type"),
		Size:        resp.ContentLength,
	}, nil
}

func (c *Client) doURL(ctx context.Context, method string, rel *url.URL, dest any) error {
	reqURL := c.baseURL.ResolveReference(rel)
	accept := ""
	if dest != nil {
		accept = "application/json"
	}
	resp, err := c.send(ctx, method, reqURL, accept)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if dest == nil {
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		return &TransportError{Op: method, URL: reqURL.String(), Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func (c *Client) send(ctx context.Context, method string, target *url.URL, accept string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, target.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(requestIDHeader, uuid.NewString())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransportError{Op: method, URL: target.String(), Err: fmt.Errorf("execute request: %w", err)}
	}
	if resp.StatusCode >= 400 {
		_ = resp.Body.Close()
		return nil, &TransportError{Op: method, URL: target.String(), StatusCode: resp.StatusCode}
	}
	return resp, nil
}

func parseBaseURL(apiURL string) (*url.URL, error) {
	trimmed := strings.TrimSpace(apiURL)
	if trimmed == "" {
		trimmed = defaultAPIURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api url %q: %w", apiURL, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api url %q: missing host", apiURL)
	}
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
