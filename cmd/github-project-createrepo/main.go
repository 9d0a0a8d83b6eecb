package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/manifoldco/promptui"
	"github.com/urfave/cli"

	"github.com/Linuxfabrik/github-project-createrepo/internal/config"
	"github.com/Linuxfabrik/github-project-createrepo/internal/history"
	"github.com/Linuxfabrik/github-project-createrepo/internal/logging"
	"github.com/Linuxfabrik/github-project-createrepo/internal/notification"
	"github.com/Linuxfabrik/github-project-createrepo/internal/sync"
	"github.com/Linuxfabrik/github-project-createrepo/pkg/systemutil"
)

var (
	app        *cli.App
	configPath string
	version    string
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	app = cli.NewApp()
	app.Name = "github-project-createrepo"
	app.Usage = "sync local RPM repositories with upstream GitHub release assets"
	app.Author = "Linuxfabrik"
	app.Email = "info@linuxfabrik.ch"
	app.Version = version

	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:        "config, c",
			Usage:       "path to config.yml",
			Destination: &configPath,
		},
	}

	// plain invocation runs one sweep, for cron and systemd timers
	app.Action = func(c *cli.Context) error {
		return runSync()
	}

	app.Commands = []cli.Command{
		{
			Name:    "sync",
			Aliases: []string{"s"},
			Usage:   "sync all configured projects once",
			Action: func(c *cli.Context) error {
				return runSync()
			},
		},
		{
			Name:  "validate",
			Usage: "load and validate the configuration, then exit",
			Action: func(c *cli.Context) (err error) {
				cfg, err := config.LoadConfig(configPath)
				if err != nil {
					return err
				}
				fmt.Printf("configuration ok: %d projects under %s\n", len(cfg.Projects), cfg.BasePath)
				return nil
			},
		},
		{
			Name:    "prune",
			Aliases: []string{"p"},
			Usage:   "apply retention to target directories without syncing",
			Flags: []cli.Flag{
				cli.BoolFlag{
					Name:  "yes, y",
					Usage: "skip the confirmation prompt",
				},
				cli.StringFlag{
					Name:  "project",
					Usage: "owner/name; prune only this project",
				},
			},
			Action: func(c *cli.Context) error {
				return runPrune(c.String("project"), c.Bool("yes"))
			},
		},
		{
			Name:  "history",
			Usage: "show recent sync outcomes",
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:  "limit, n",
					Value: 20,
					Usage: "number of rows to show",
				},
			},
			Action: func(c *cli.Context) error {
				return printHistory(c.Int("limit"))
			},
		},
		{
			Name:  "logs",
			Usage: "print the log file, requires logDestination: file",
			Flags: []cli.Flag{
				cli.BoolFlag{
					Name:  "follow, f",
					Usage: "keep streaming new lines",
				},
			},
			Action: func(c *cli.Context) error {
				return printLogs(c.Bool("follow"))
			},
		},
		updateCommand(),
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func runSync() error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}
	if err = logging.Setup(cfg.LogDestination, cfg.LogFile); err != nil {
		return err
	}

	runID := uuid.New().String()
	logging.Infof("run %s: syncing %d projects under %s", runID, len(cfg.Projects), cfg.BasePath)

	results := sync.NewSyncer(cfg).Run(context.Background())

	recordHistory(cfg, runID, results)

	summary := summarize(runID, results)
	notification.SendSweepNotification(cfg.WebhookUrl, summary)

	logging.Infof("run %s: %d ok, %d failed", runID, summary.Done, summary.Failed)
	return nil
}

func runPrune(only string, skipConfirm bool) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}
	if err = logging.Setup(cfg.LogDestination, cfg.LogFile); err != nil {
		return err
	}

	matched := false
	for _, project := range cfg.Projects {
		if only != "" && project.Slug() != only {
			continue
		}
		matched = true
		dir := project.Dir(cfg.BasePath)

		if project.Keep() == 0 && !skipConfirm {
			prompt := promptui.Prompt{
				Label:     fmt.Sprintf("keepCount 0 deletes every artifact in %s. Continue", dir),
				IsConfirm: true,
			}
			if _, err := prompt.Run(); err != nil {
				logging.Infof("%s: prune skipped", project.Slug())
				continue
			}
		}

		removed, err := sync.Prune(dir, project.Keep())
		if err != nil {
			logging.Errorf("%s: prune failed: %v", project.Slug(), err)
			continue
		}
		logging.Infof("%s: pruned %d artifacts in %s", project.Slug(), removed, dir)
	}
	if only != "" && !matched {
		return fmt.Errorf("no configured project named %s", only)
	}
	return nil
}

func printHistory(limit int) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}
	if cfg.HistoryPath == "" {
		return errors.New("historyPath is not configured")
	}

	db, err := history.NewDB(cfg.HistoryPath)
	if err != nil {
		return err
	}
	defer db.Close()

	runs, err := history.NewRunStore(db, 0).GetRecentRuns(limit)
	if err != nil {
		return err
	}
	for _, run := range runs {
		line := fmt.Sprintf("%s  %-6s %s %s", run.FinishedAt.Format(time.RFC3339), run.State, run.Repo, run.Version)
		if run.State == sync.StateFailed {
			line += fmt.Sprintf(" [%s] %s", run.FailedStage, run.Error)
		} else if run.Downloaded {
			line += " downloaded " + run.Asset
		}
		fmt.Println(line)
	}
	return nil
}

func printLogs(follow bool) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}
	if cfg.LogDestination != logging.File || cfg.LogFile == "" {
		return errors.New("logs requires logDestination: file")
	}

	if follow {
		return systemutil.StreamLog(cfg.LogFile)
	}
	raw, err := os.ReadFile(cfg.LogFile)
	if err != nil {
		return err
	}
	fmt.Print(string(raw))
	return nil
}

func recordHistory(cfg config.Config, runID string, results []sync.Result) {
	if cfg.HistoryPath == "" {
		return
	}

	db, err := history.NewDB(cfg.HistoryPath)
	if err != nil {
		logging.Warningf("history recording disabled: %v", err)
		return
	}
	defer db.Close()

	store := history.NewRunStore(db, 0)
	now := time.Now().UTC()
	for _, result := range results {
		run := history.ProjectRun{
			RunUUID:     runID,
			Repo:        result.Project.Slug(),
			TargetPath:  result.Project.TargetPath,
			State:       result.State,
			FailedStage: string(result.FailedAt),
			Version:     result.Version,
			Asset:       result.Asset,
			Downloaded:  result.Downloaded,
			Pruned:      result.Pruned,
			DurationMS:  result.Duration.Milliseconds(),
			FinishedAt:  now,
		}
		if result.Err != nil {
			run.Error = result.Err.Error()
		}
		if err := store.RecordRun(run); err != nil {
			logging.Warningf("failed to record history for %s: %v", run.Repo, err)
		}
	}
}

func summarize(runID string, results []sync.Result) notification.SweepSummary {
	summary := notification.SweepSummary{RunUUID: runID}
	for _, result := range results {
		if result.State == sync.StateFailed {
			summary.Failed++
			summary.Failures = append(summary.Failures,
				fmt.Sprintf("%s: %s: %v", result.Project.Slug(), result.FailedAt, result.Err))
			continue
		}
		summary.Done++
		if result.Downloaded {
			summary.Downloaded = append(summary.Downloaded, result.Asset)
		}
	}
	return summary
}
