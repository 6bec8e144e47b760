package library

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"LocalSketch/internal/state"
)

// Client consumes a LocalSketch server's folder/image API.
type Client struct {
	base *url.URL
	http *http.Client
}

var _ Catalog = (*Client)(nil)

// NewClient points a client at baseURL ("http://host:port"). A nil hc gets a
// client with a 10s timeout.
func NewClient(baseURL string, hc *http.Client) (*Client, error) {
	u, err := url.Parse(strings.TrimSuffix(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("server url %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("server url %q: scheme must be http or https", baseURL)
	}
	if hc == nil {
		hc = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{base: u, http: hc}, nil
}

func (c *Client) BaseURL() string {
	return c.base.String()
}

func (c *Client) Folders(ctx context.Context) ([]string, error) {
	var folders []string
	err := c.getJSON(ctx, "/api/folders", nil, &folders)
	return folders, err
}

func (c *Client) FolderTree(ctx context.Context) ([]Folder, error) {
	var tree []Folder
	err := c.getJSON(ctx, "/api/folders", url.Values{"tree": {"1"}}, &tree)
	return tree, err
}

func (c *Client) Images(ctx context.Context, folders []string) ([]string, error) {
	var images []string
	err := c.getJSON(ctx, "/api/images", url.Values{"folders": {strings.Join(folders, ",")}}, &images)
	return images, err
}

func (c *Client) Info(ctx context.Context, rel string) (ImageInfo, error) {
	var info ImageInfo
	err := c.getJSON(ctx, "/api/images/info", url.Values{"path": {rel}}, &info)
	return info, err
}

// ImageURL is where the server serves the bytes of rel.
func (c *Client) ImageURL(rel string) string {
	return c.base.JoinPath("images", rel).String()
}

// ReadImage downloads the image at rel.
func (c *Client) ReadImage(ctx context.Context, rel string) ([]byte, error) {
	resp, err := c.do(ctx, c.ImageURL(rel))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", state.ErrNetworkFailure, rel, err)
	}
	return data, nil
}

func (c *Client) getJSON(ctx context.Context, p string, q url.Values, out any) error {
	u := c.base.JoinPath(p)
	if q != nil {
		u.RawQuery = q.Encode()
	}
	resp, err := c.do(ctx, u.String())
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s: %v", state.ErrNetworkFailure, p, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, u string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: GET %s: %v", state.ErrNetworkFailure, u, err)
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		var body struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&body)
		if body.Error == "" {
			body.Error = resp.Status
		}
		return nil, fmt.Errorf("%w: GET %s: %s", state.ErrNetworkFailure, u, body.Error)
	}
	return resp, nil
}
