package sync

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Linuxfabrik/github-project-createrepo/internal/config"
	"github.com/Linuxfabrik/github-project-createrepo/internal/github"
)

func TestRenderPattern(t *testing.T) {
	assert.Equal(t,
		`pkg-1.2.3-\d+\.el8\.x86_64\.rpm`,
		RenderPattern(`pkg-{latest_version}-\d+\.el8\.x86_64\.rpm`, "1.2.3"))
	assert.Equal(t, "1.2.3-1.2.3", RenderPattern("{latest_version}-{latest_version}", "1.2.3"))
	assert.Equal(t, "static.rpm", RenderPattern("static.rpm", "1.2.3"))
	assert.Equal(t, `pkg--\d\.rpm`, RenderPattern(`pkg-{latest_version}-\d\.rpm`, ""))
}

func TestCompilePatternMalformed(t *testing.T) {
	_, err := CompilePattern(`pkg-[`)
	require.Error(t, err)
	var patErr *PatternError
	require.ErrorAs(t, err, &patErr)
	assert.Equal(t, `pkg-[`, patErr.Pattern)
}

func TestSelectAssetRejectsSourcePackage(t *testing.T) {
	assets := []github.ReleaseAsset{
		{Name: "pkg-1.2.3-1.el8.x86_64.rpm", BrowserDownloadURL: "https://dl/a"},
		{Name: "pkg-1.2.3-1.el8.src.rpm", BrowserDownloadURL: "https://dl/b"},
	}
	matcher, err := CompilePattern(RenderPattern(`pkg-{latest_version}-\d+\.el8\.x86_64\.rpm`, "1.2.3"))
	require.NoError(t, err)

	asset, err := SelectAsset(assets, matcher)
	require.NoError(t, err)
	assert.Equal(t, "pkg-1.2.3-1.el8.x86_64.rpm", asset.Name)
}

func TestSelectAssetRequiresFullNameMatch(t *testing.T) {
	assets := []github.ReleaseAsset{{Name: "pkg-1.2.3-1.el8.x86_64.rpm"}}

	matcher, err := CompilePattern("pkg")
	require.NoError(t, err)
	_, err = SelectAsset(assets, matcher)
	var noMatch *NoMatchError
	require.ErrorAs(t, err, &noMatch)
	assert.Equal(t, 1, noMatch.Assets)
}

func TestSelectAssetFirstMatchWins(t *testing.T) {
	assets := []github.ReleaseAsset{
		{Name: "pkg-1.0.el8.x86_64.rpm", BrowserDownloadURL: "first"},
		{Name: "pkg-1.0.el9.x86_64.rpm", BrowserDownloadURL: "second"},
	}
	matcher, err := CompilePattern(`pkg-1\.0\.el\d\.x86_64\.rpm`)
	require.NoError(t, err)

	asset, err := SelectAsset(assets, matcher)
	require.NoError(t, err)
	assert.Equal(t, "first", asset.BrowserDownloadURL)
}

func TestSelectAssetNoAssets(t *testing.T) {
	matcher, err := CompilePattern(".*")
	require.NoError(t, err)
	_, err = SelectAsset(nil, matcher)
	var noMatch *NoMatchError
	require.ErrorAs(t, err, &noMatch)
}

func TestDefaultAssetPattern(t *testing.T) {
	matcher, err := CompilePattern(RenderPattern(config.DefaultAssetPattern, "1.2.3"))
	require.NoError(t, err)

	assert.True(t, matcher.Match("mydumper-1.2.3-4.el9.x86_64.rpm"))
	assert.True(t, matcher.Match("anything_1.2.3.rpm"))
	assert.False(t, matcher.Match("mydumper-1.2.3.tar.gz"))
	assert.False(t, matcher.Match("mydumper-2.0.0-1.el9.x86_64.rpm"))
}
