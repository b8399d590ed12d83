package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/rlch/autocanon"
	"github.com/rlch/autocanon/snapshot"
)

func downloadSnapshotCommand() *cli.Command {
	return &cli.Command{
		Name:  "download-snapshot",
		Usage: "Download a snapshot of device classes and entity types",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "language",
				Aliases: []string{"l"},
				Usage:   "2-letter ISO code of the natural language",
				Value:   autocanon.DefaultLocale,
			},
			&cli.StringFlag{
				Name:     "output",
				Aliases:  []string{"o"},
				Usage:    "output file",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "thingpedia-url",
				Usage: "base URL of the server to contact",
				Value: autocanon.DefaultThingpedia,
			},
			&cli.StringFlag{
				Name:  "snapshot",
				Usage: "snapshot identifier (-1 for the latest)",
				Value: "-1",
			},
			&cli.StringFlag{
				Name:    "developer-key",
				Usage:   "developer key to use when contacting the server",
				Sources: cli.EnvVars("AUTOCANON_DEVELOPER_KEY"),
			},
		},
		Action: runDownloadSnapshot,
	}
}

func runDownloadSnapshot(ctx context.Context, cmd *cli.Command) error {
	logger, err := newLogger(cmd.Bool("verbose"))
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	client := snapshot.NewClient(cmd.String("thingpedia-url"))
	opts := snapshot.Options{
		Locale:       cmd.String("language"),
		Snapshot:     cmd.String("snapshot"),
		DeveloperKey: cmd.String("developer-key"),
	}

	logger.Info("downloading snapshot",
		zap.String("url", client.BaseURL),
		zap.String("snapshot", opts.Snapshot),
		zap.String("locale", opts.Locale),
	)

	snap, err := client.Download(ctx, opts)
	if err != nil {
		return fmt.Errorf("downloading snapshot: %w", err)
	}

	out := cmd.String("output")

	f, err := os.Create(out) //nolint:gosec // G304: output path from user input is expected
	if err != nil {
		return fmt.Errorf("creating %s: %w", out, err)
	}

	if err := snapshot.Write(f, snap); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing %s: %w", out, err)
	}

	if err := f.Close(); err != nil {
		return err
	}

	logger.Info("wrote snapshot", zap.String("path", out))

	return nil
}
