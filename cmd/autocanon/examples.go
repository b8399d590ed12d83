package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/rlch/autocanon"
)

func examplesCommand() *cli.Command {
	return &cli.Command{
		Name:      "examples",
		Usage:     "Write the scorer request for a class file without scoring it",
		ArgsUsage: "<class file>",
		Flags: append(corpusFlags(),
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Usage:   "output file (default: stdout)",
			},
		),
		Action: runExamples,
	}
}

func runExamples(_ context.Context, cmd *cli.Command) error {
	logger, err := newLogger(cmd.Bool("verbose"))
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if cmd.Args().Len() != 1 {
		return fmt.Errorf("expected exactly one class file, got %d", cmd.Args().Len())
	}

	path := cmd.Args().First()

	class, err := autocanon.LoadClassFile(path)
	if err != nil {
		return err
	}

	gen, err := newGenerator(cmd, cfg, logger)
	if err != nil {
		return err
	}

	draft, err := gen.Build(class)
	if err != nil {
		return err
	}

	logger.Info("corpus built", zap.String("class", class.Kind), zap.Int("examples", draft.Corpus.Size()))

	var w io.Writer = os.Stdout

	if out := cmd.String("out"); out != "" {
		f, err := os.Create(out) //nolint:gosec // G304: output path from user input is expected
		if err != nil {
			return fmt.Errorf("creating %s: %w", out, err)
		}
		defer func() { _ = f.Close() }()

		w = f
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	return encoder.Encode(draft.Corpus)
}
