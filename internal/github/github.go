package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"unicode"
)

const userAgent = "github-project-createrepo"

type ReleaseAsset struct {
	Name               string `json:"name"`
	BrowserDownloadURL string `json:"browser_download_url"`
}

type Release struct {
	TagName string         `json:"tag_name"`
	Assets  []ReleaseAsset `json:"assets"`
}

// Version is the release tag with a single leading non-digit rune stripped,
// so a conventional "v2.1.0" becomes "2.1.0". An empty tag yields an empty
// version; that is not an error here, it just fails pattern matching later.
func (r Release) Version() string {
	return StripTagPrefix(r.TagName)
}

// StripTagPrefix removes exactly one leading non-digit rune, never more.
func StripTagPrefix(tag string) string {
	runes := []rune(tag)
	if len(runes) > 0 && !unicode.IsDigit(runes[0]) {
		return string(runes[1:])
	}
	return tag
}

// ResolutionError reports a failed latest-release query.
type ResolutionError struct {
	Repo string
	Err  error
}

func (e *ResolutionError) Error() string {
	return "resolve " + e.Repo + ": " + e.Err.Error()
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// Client talks to the GitHub REST API. ApiUrl is overridable for GitHub
// Enterprise installs and for tests.
type Client struct {
	ApiUrl string
	Token  string
	HTTP   *http.Client
}

func NewClient(apiUrl, token string) *Client {
	return &Client{
		ApiUrl: strings.TrimSuffix(apiUrl, "/"),
		Token:  token,
		HTTP:   &http.Client{},
	}
}

// FetchLatest returns the latest published release of owner/name.
func (c *Client) FetchLatest(ctx context.Context, owner, name string) (Release, error) {
	repo := owner + "/" + name
	url := fmt.Sprintf("%s/repos/%s/%s/releases/latest", c.ApiUrl, owner, name)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Release{}, &ResolutionError{Repo: repo, Err: err}
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", userAgent)
	if c.Token != "" {
		req.Header.Set("Authorization", "token "+c.Token)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return Release{}, &ResolutionError{Repo: repo, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Release{}, &ResolutionError{
			Repo: repo,
			Err:  fmt.Errorf("GET %s: %s: %s", url, resp.Status, strings.TrimSpace(string(body))),
		}
	}

	var release Release
	if err = json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return Release{}, &ResolutionError{Repo: repo, Err: err}
	}
	return release, nil
}

// Download streams an asset body. The caller closes the reader.
func (c *Client) Download(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/octet-stream")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("GET %s: %s", url, resp.Status)
	}
	return resp.Body, nil
}
