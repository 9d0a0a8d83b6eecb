package logging

import (
	"bytes"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() {
		require.NoError(t, Setup(Stderr, ""))
	})
	return &buf
}

func TestSeverityLabels(t *testing.T) {
	require.NoError(t, Setup(Stderr, ""))
	buf := capture(t)

	Infof("synced %d projects", 2)
	Warningf("tool wrote to stderr")
	Errorf("download failed")

	out := buf.String()
	assert.Contains(t, out, "synced 2 projects")
	assert.Contains(t, out, "warning: tool wrote to stderr")
	assert.Contains(t, out, "error: download failed")
	assert.NotContains(t, out, "<6>")
}

func TestJournalPriorityPrefixes(t *testing.T) {
	require.NoError(t, Setup(Journal, ""))
	buf := capture(t)

	Infof("up to date")
	Warningf("soft")
	Errorf("hard")

	out := buf.String()
	assert.Contains(t, out, "<6>up to date")
	assert.Contains(t, out, "<4>warning: soft")
	assert.Contains(t, out, "<3>error: hard")
}

func TestJournalPrefixesContinuationLines(t *testing.T) {
	require.NoError(t, Setup(Journal, ""))
	buf := capture(t)

	Errorf("tool failed:\nstat of repodata failed\nmkdir failed")

	out := buf.String()
	assert.Contains(t, out, "<3>error: tool failed:")
	assert.Contains(t, out, "\n<3>stat of repodata failed")
	assert.Contains(t, out, "\n<3>mkdir failed")
	assert.NotContains(t, out, "\nstat of repodata failed")
}

func TestFileDestinationAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.log")
	require.NoError(t, Setup(File, path))
	t.Cleanup(func() {
		require.NoError(t, Setup(Stderr, ""))
	})

	Infof("first")
	Infof("second")

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "first")
	assert.Contains(t, string(raw), "second")
}

func TestUnknownDestinationRejected(t *testing.T) {
	err := Setup("syslog", "")
	require.Error(t, err)
}
