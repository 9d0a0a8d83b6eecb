package sync

import (
	"regexp"
	"strings"

	"github.com/Linuxfabrik/github-project-createrepo/internal/github"
)

// VersionToken is the placeholder in an assetPattern that gets replaced by
// the resolved release version.
const VersionToken = "{latest_version}"

// Matcher is a compiled asset pattern. It only accepts a complete asset
// name; substring hits do not count.
type Matcher struct {
	pattern string
	re      *regexp.Regexp
}

func (m Matcher) String() string { return m.pattern }

func (m Matcher) Match(name string) bool { return m.re.MatchString(name) }

// RenderPattern substitutes every version token with the literal version.
func RenderPattern(template, version string) string {
	return strings.ReplaceAll(template, VersionToken, version)
}

// CompilePattern compiles a rendered pattern for full-name matching.
// A malformed pattern is a PatternError, distinct from matching nothing.
func CompilePattern(pattern string) (Matcher, error) {
	re, err := regexp.Compile("^(?:" + pattern + ")$")
	if err != nil {
		return Matcher{}, &PatternError{Pattern: pattern, Err: err}
	}
	return Matcher{pattern: pattern, re: re}, nil
}

// SelectAsset returns the first asset in list order whose full name matches.
// When several assets match, the first one wins; configuration authors are
// expected to write patterns that match at most one asset.
func SelectAsset(assets []github.ReleaseAsset, matcher Matcher) (github.ReleaseAsset, error) {
	for _, asset := range assets {
		if matcher.Match(asset.Name) {
			return asset, nil
		}
	}
	return github.ReleaseAsset{}, &NoMatchError{Pattern: matcher.String(), Assets: len(assets)}
}
