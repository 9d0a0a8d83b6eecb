package sync

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/Linuxfabrik/github-project-createrepo/internal/logging"
)

// ArtifactSuffix is the package extension retention operates on. Pruning is
// driven by this suffix alone, not by the per-project asset pattern, so
// leftovers from an earlier pattern configuration in the same directory
// still count toward keepCount and still get pruned.
const ArtifactSuffix = ".rpm"

// Prune deletes the oldest artifacts in dir beyond keep, by modification
// time. The listing is not recursive. A file that refuses to go is logged
// and skipped; one stuck file never blocks deletion of the rest.
func Prune(dir string, keep int) (removed int, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, err
	}

	type artifact struct {
		path  string
		mtime time.Time
	}
	var artifacts []artifact
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ArtifactSuffix) {
			continue
		}
		info, infoErr := entry.Info()
		if infoErr != nil {
			// listed a moment ago, gone now; nothing left to delete
			continue
		}
		artifacts = append(artifacts, artifact{
			path:  filepath.Join(dir, entry.Name()),
			mtime: info.ModTime(),
		})
	}

	if len(artifacts) <= keep {
		return 0, nil
	}

	sort.Slice(artifacts, func(i, j int) bool {
		return artifacts[i].mtime.Before(artifacts[j].mtime)
	})

	for _, a := range artifacts[:len(artifacts)-keep] {
		if rmErr := os.Remove(a.path); rmErr != nil {
			logging.Warningf("%v", &PruneDeleteError{Path: a.path, Err: rmErr})
			continue
		}
		removed++
	}
	return removed, nil
}
