package sync

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/Linuxfabrik/github-project-createrepo/internal/config"
	"github.com/Linuxfabrik/github-project-createrepo/internal/github"
	"github.com/Linuxfabrik/github-project-createrepo/internal/logging"
)

// Stage names one step of a project's pipeline.
type Stage string

const (
	StagePreparing  Stage = "PREPARING"
	StageResolving  Stage = "RESOLVING"
	StageSelecting  Stage = "SELECTING"
	StageFetching   Stage = "FETCHING"
	StagePruning    Stage = "PRUNING"
	StageRebuilding Stage = "REBUILDING"
)

// Final project states.
const (
	StateDone   = "DONE"
	StateFailed = "FAILED"
)

// ReleaseResolver looks up the latest published release of a project.
type ReleaseResolver interface {
	FetchLatest(ctx context.Context, owner, name string) (github.Release, error)
}

// Result is one project's outcome within a sweep.
type Result struct {
	Project    config.Project
	State      string // DONE or FAILED
	FailedAt   Stage  // empty unless State is FAILED
	Err        error
	Version    string
	Asset      string
	Downloaded bool
	Pruned     int
	Duration   time.Duration
}

// Syncer drives the sweep: resolve, select, fetch, prune, rebuild, one
// project at a time, in configured order.
type Syncer struct {
	Config     config.Config
	Resolver   ReleaseResolver
	Fetcher    Fetcher
	Createrepo Createrepo
}

func NewSyncer(cfg config.Config) *Syncer {
	client := github.NewClient(cfg.GithubApiUrl, cfg.GithubToken)
	return &Syncer{
		Config:     cfg,
		Resolver:   client,
		Fetcher:    Fetcher{Downloader: client},
		Createrepo: Createrepo{Command: cfg.CreaterepoCommand},
	}
}

// Run processes every configured project and always finishes the full
// sweep; a failed project is logged and the next one still runs. There are
// no retries and no rollback of files already written. Nothing here locks
// basePath: overlapping sweeps over the same tree are the scheduler's
// problem, not ours.
func (s *Syncer) Run(ctx context.Context) []Result {
	results := make([]Result, 0, len(s.Config.Projects))
	for _, project := range s.Config.Projects {
		result := s.syncProject(ctx, project)
		if result.State == StateFailed {
			logging.Errorf("%s: %s failed: %v", project.Slug(), result.FailedAt, result.Err)
		} else {
			logging.Infof("%s: done (version %s, downloaded %t, pruned %d) in %s",
				project.Slug(), result.Version, result.Downloaded, result.Pruned,
				result.Duration.Round(time.Millisecond))
		}
		results = append(results, result)
	}
	return results
}

func (s *Syncer) syncProject(ctx context.Context, project config.Project) (result Result) {
	start := time.Now()
	result = Result{Project: project, State: StateDone}
	defer func() {
		result.Duration = time.Since(start)
	}()

	fail := func(stage Stage, err error) Result {
		result.State = StateFailed
		result.FailedAt = stage
		result.Err = err
		return result
	}

	dir := project.Dir(s.Config.BasePath)
	logging.Infof("%s: syncing into %s", project.Slug(), dir)

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fail(StagePreparing, err)
	}

	release, err := s.Resolver.FetchLatest(ctx, project.Owner, project.Name)
	if err != nil {
		return fail(StageResolving, err)
	}
	result.Version = release.Version()
	logging.Infof("%s: latest release %s with %d assets", project.Slug(), result.Version, len(release.Assets))

	matcher, err := CompilePattern(RenderPattern(project.AssetPattern, result.Version))
	if err != nil {
		return fail(StageSelecting, err)
	}
	asset, err := SelectAsset(release.Assets, matcher)
	if err != nil {
		return fail(StageSelecting, err)
	}
	result.Asset = asset.Name

	downloaded, err := s.Fetcher.Fetch(ctx, asset, dir)
	if err != nil {
		return fail(StageFetching, err)
	}
	result.Downloaded = downloaded
	if downloaded {
		logging.Infof("%s: downloaded %s", project.Slug(), asset.Name)
	} else {
		logging.Infof("%s: %s already present, download skipped", project.Slug(), asset.Name)
	}

	// retention runs even when the download was skipped
	pruned, err := Prune(dir, project.Keep())
	if err != nil {
		return fail(StagePruning, err)
	}
	result.Pruned = pruned

	if err := s.Createrepo.Update(ctx, dir); err != nil {
		var toolErr *ToolError
		if errors.As(err, &toolErr) && toolErr.ExitCode == 0 {
			logging.Warningf("%s: %s exited 0 but wrote diagnostics to stderr", project.Slug(), s.Createrepo.Command)
		}
		return fail(StageRebuilding, err)
	}

	return result
}
