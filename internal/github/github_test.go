package github

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchLatest(t *testing.T) {
	var gotPath, gotAccept, gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAccept = r.Header.Get("Accept")
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{
			"tag_name": "v2.1.0",
			"assets": [
				{"name": "pkg-2.1.0-1.el8.x86_64.rpm", "browser_download_url": "https://dl.example/a"},
				{"name": "pkg-2.1.0-1.el8.src.rpm", "browser_download_url": "https://dl.example/b"}
			]
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret")
	release, err := client.FetchLatest(context.Background(), "mydumper", "mydumper")
	require.NoError(t, err)

	assert.Equal(t, "/repos/mydumper/mydumper/releases/latest", gotPath)
	assert.Equal(t, "application/vnd.github+json", gotAccept)
	assert.Equal(t, "token secret", gotAuth)
	assert.Equal(t, "2.1.0", release.Version())
	require.Len(t, release.Assets, 2)
	assert.Equal(t, "pkg-2.1.0-1.el8.x86_64.rpm", release.Assets[0].Name)
	assert.Equal(t, "https://dl.example/a", release.Assets[0].BrowserDownloadURL)
}

func TestFetchLatestNoTokenHeader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		w.Write([]byte(`{"tag_name": "1.0.0", "assets": []}`))
	}))
	defer server.Close()

	_, err := NewClient(server.URL, "").FetchLatest(context.Background(), "a", "b")
	require.NoError(t, err)
}

func TestFetchLatestNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message": "Not Found"}`, http.StatusNotFound)
	}))
	defer server.Close()

	_, err := NewClient(server.URL, "").FetchLatest(context.Background(), "a", "b")
	require.Error(t, err)
	var resErr *ResolutionError
	require.ErrorAs(t, err, &resErr)
	assert.Equal(t, "a/b", resErr.Repo)
	assert.Contains(t, resErr.Error(), "404")
}

func TestFetchLatestUndecodableBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	_, err := NewClient(server.URL, "").FetchLatest(context.Background(), "a", "b")
	var resErr *ResolutionError
	require.ErrorAs(t, err, &resErr)
}

func TestFetchLatestNetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	_, err := NewClient(server.URL, "").FetchLatest(context.Background(), "a", "b")
	var resErr *ResolutionError
	require.ErrorAs(t, err, &resErr)
}

func TestDownload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("rpmbytes"))
	}))
	defer server.Close()

	body, err := NewClient("https://api.github.com", "").Download(context.Background(), server.URL+"/asset.rpm")
	require.NoError(t, err)
	defer body.Close()

	raw, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, "rpmbytes", string(raw))
}

func TestDownloadNon200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer server.Close()

	_, err := NewClient("https://api.github.com", "").Download(context.Background(), server.URL+"/asset.rpm")
	require.Error(t, err)
}

func TestStripTagPrefix(t *testing.T) {
	cases := []struct {
		tag  string
		want string
	}{
		{"v2.1.0", "2.1.0"},
		{"2.1.0", "2.1.0"},
		{"", ""},
		{"V10", "10"},
		{"vv1.0", "v1.0"},
		{"r1.2.3", "1.2.3"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, StripTagPrefix(c.tag), "tag %q", c.tag)
	}
}
