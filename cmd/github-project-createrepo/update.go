package main

import (
	"context"
	"log"
	"os"

	update "github.com/inconshreveable/go-update"
	"github.com/urfave/cli"

	"github.com/Linuxfabrik/github-project-createrepo/internal/config"
	"github.com/Linuxfabrik/github-project-createrepo/internal/github"
	"github.com/Linuxfabrik/github-project-createrepo/internal/sync"
)

const (
	selfOwner = "Linuxfabrik"
	selfRepo  = "github-project-createrepo"
)

func updateCommand() cli.Command {
	return cli.Command{
		Name:  "selfupdate",
		Usage: "replace this binary with the latest released build",
		Action: func(c *cli.Context) (err error) {
			ctx := context.Background()
			client := github.NewClient(config.DefaultApiUrl, os.Getenv(config.TokenEnv))

			release, err := client.FetchLatest(ctx, selfOwner, selfRepo)
			if err != nil {
				return err
			}
			log.Println("latest release: " + release.TagName)

			// the released binary asset carries the bare tool name
			matcher, err := sync.CompilePattern(selfRepo)
			if err != nil {
				return err
			}
			asset, err := sync.SelectAsset(release.Assets, matcher)
			if err != nil {
				return err
			}

			log.Println("self-updating from " + asset.BrowserDownloadURL)
			body, err := client.Download(ctx, asset.BrowserDownloadURL)
			if err != nil {
				return err
			}
			defer body.Close()

			if err = update.Apply(body, update.Options{}); err != nil {
				return err
			}
			log.Println("updated to " + release.TagName)
			return nil
		},
	}
}
