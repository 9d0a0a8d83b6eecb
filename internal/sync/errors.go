package sync

import (
	"fmt"
	"strings"
)

// PatternError reports an asset pattern that failed to compile, as opposed
// to one that compiled but matched nothing.
type PatternError struct {
	Pattern string
	Err     error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("bad asset pattern %q: %v", e.Pattern, e.Err)
}

func (e *PatternError) Unwrap() error { return e.Err }

// NoMatchError reports that no asset name matched the rendered pattern.
type NoMatchError struct {
	Pattern string
	Assets  int
}

func (e *NoMatchError) Error() string {
	return fmt.Sprintf("none of %d assets matched %q", e.Assets, e.Pattern)
}

// DownloadError reports a failed asset transfer.
type DownloadError struct {
	URL string
	Err error
}

func (e *DownloadError) Error() string {
	return "download " + e.URL + ": " + e.Err.Error()
}

func (e *DownloadError) Unwrap() error { return e.Err }

// WriteError reports a local filesystem failure while storing an asset.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return "write " + e.Path + ": " + e.Err.Error()
}

func (e *WriteError) Unwrap() error { return e.Err }

// PruneDeleteError reports a single artifact that could not be deleted.
// Deletions are independent; this never aborts the remaining prune work.
type PruneDeleteError struct {
	Path string
	Err  error
}

func (e *PruneDeleteError) Error() string {
	return "prune " + e.Path + ": " + e.Err.Error()
}

func (e *PruneDeleteError) Unwrap() error { return e.Err }

// ToolError reports an indexing tool run that exited non-zero or wrote to
// its error stream. ExitCode is -1 when the tool could not be started.
type ToolError struct {
	Command  string
	ExitCode int
	Stderr   string
}

func (e *ToolError) Error() string {
	msg := fmt.Sprintf("%s exited %d", e.Command, e.ExitCode)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ": " + s
	}
	return msg
}
