package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/rlch/autocanon"
	"github.com/rlch/autocanon/canonical"
	"github.com/rlch/autocanon/dataset"
	"github.com/rlch/autocanon/scorer"
)

// ErrOutputConflict is returned when several classes would be written to stdout.
var ErrOutputConflict = errors.New("multiple class files need --out or --in-place")

// corpusFlags are shared by every command that builds a corpus.
func corpusFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "datasets",
			Usage: "path to the parameter dataset index (TSV)",
		},
		&cli.StringFlag{
			Name:  "constants",
			Usage: "path to the sample constants file (TSV)",
		},
		&cli.StringSliceFlag{
			Name:    "query",
			Aliases: []string{"q"},
			Usage:   "restrict generation to these queries",
		},
		&cli.StringFlag{
			Name:  "skip",
			Usage: "expression selecting arguments to skip",
		},
	}
}

func generateCommand() *cli.Command {
	flags := append(corpusFlags(),
		&cli.FloatFlag{
			Name:  "pruning",
			Usage: "fraction of examples a candidate must exceed to be kept",
		},
		&cli.StringFlag{
			Name:  "denominator",
			Usage: "pruning denominator (with-candidates, all-examples)",
		},
		&cli.StringSliceFlag{
			Name:  "scorer",
			Usage: "scoring command and leading arguments",
		},
		&cli.StringFlag{
			Name:  "model",
			Usage: "model name or path passed to the scorer",
		},
		&cli.BoolFlag{
			Name:  "paraphraser",
			Usage: "tell the scorer the model is a paraphraser",
		},
		&cli.BoolFlag{
			Name:  "mask",
			Usage: "mask tokens before predicting (default)",
		},
		&cli.BoolFlag{
			Name:  "no-mask",
			Usage: "predict without masking tokens",
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "abort scoring after this long",
		},
		&cli.BoolFlag{
			Name:  "debug",
			Usage: "write the scorer request and response to --debug-dir",
		},
		&cli.StringFlag{
			Name:  "debug-dir",
			Usage: "directory for debug dumps",
		},
		&cli.StringFlag{
			Name:    "out",
			Aliases: []string{"o"},
			Usage:   "output directory (default: stdout)",
		},
		&cli.BoolFlag{
			Name:  "in-place",
			Usage: "overwrite the input class files",
		},
		&cli.BoolFlag{
			Name:  "no-progress",
			Usage: "disable the progress spinner",
		},
	)

	return &cli.Command{
		Name:      "generate",
		Aliases:   []string{"gen"},
		Usage:     "Generate canonical phrases for class files",
		ArgsUsage: "[files or directories...]",
		Flags:     flags,
		Action:    runGenerate,
	}
}

func runGenerate(ctx context.Context, cmd *cli.Command) error {
	logger, err := newLogger(cmd.Bool("verbose"))
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	files, err := classFiles(cmd)
	if err != nil {
		return err
	}

	outDir := cmd.String("out")
	inPlace := cmd.Bool("in-place")

	if len(files) > 1 && outDir == "" && !inPlace {
		return ErrOutputConflict
	}

	var sc canonical.Scorer = scorer.NewProcess(cfg.Scorer, logger)
	if !cmd.Bool("no-progress") {
		sc = withProgress(sc, os.Stderr)
	}

	if cfg.Debug {
		sc = &scorer.Debug{Scorer: sc, Dir: cfg.DebugDir, Logger: logger}
	}

	gen, err := newGenerator(cmd, cfg, logger, canonical.WithScorer(sc))
	if err != nil {
		return err
	}

	for _, path := range files {
		class, err := autocanon.LoadClassFile(path)
		if err != nil {
			return err
		}

		report, err := gen.Run(ctx, class)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}

		if err := writeClass(class, path, outDir, inPlace); err != nil {
			return err
		}

		printReport(os.Stderr, class.Kind, report)
	}

	return nil
}

// classFiles resolves the command arguments into class files.
func classFiles(cmd *cli.Command) ([]string, error) {
	args := cmd.Args().Slice()
	if len(args) == 0 {
		args = []string{"."}
	}

	files, err := discoverClassFiles(args)
	if err != nil {
		return nil, fmt.Errorf("discovering class files: %w", err)
	}

	if len(files) == 0 {
		return nil, ErrNoClassFiles
	}

	return files, nil
}

// newGenerator wires the data sources named in cfg into a Generator.
// The index and constants are loaded once and shared by every class file.
func newGenerator(cmd *cli.Command, cfg *autocanon.Config, logger *zap.Logger, extra ...canonical.Option) (*canonical.Generator, error) {
	filter, err := canonical.CompileFilter(cfg.Skip)
	if err != nil {
		return nil, err
	}

	opts := []canonical.Option{
		canonical.WithLogger(logger),
		canonical.WithFilter(filter),
		canonical.WithQueries(cmd.StringSlice("query")...),
		canonical.WithMerger(&canonical.Merger{
			Pruning:     cfg.PruningRatio(),
			Denominator: cfg.Denominator,
		}),
	}

	if cfg.Datasets != "" {
		idx, err := dataset.LoadIndex(cfg.Datasets)
		if err != nil {
			return nil, err
		}

		opts = append(opts, canonical.WithIndex(idx))
	} else {
		logger.Warn("no dataset index configured; scorer gets no parameter values")
	}

	if cfg.Constants != "" {
		store, err := dataset.LoadConstants(cfg.Constants)
		if err != nil {
			return nil, err
		}

		opts = append(opts, canonical.WithConstants(store))
	} else {
		logger.Warn("no constants configured; no examples will be generated")
	}

	return canonical.New(append(opts, extra...)...), nil
}

// writeClass writes the updated class to stdout, outDir, or back to path.
func writeClass(class *autocanon.Class, path, outDir string, inPlace bool) error {
	var target string

	switch {
	case inPlace:
		target = path
	case outDir != "":
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", outDir, err)
		}

		target = filepath.Join(outDir, filepath.Base(path))
	default:
		return autocanon.WriteClass(os.Stdout, class)
	}

	f, err := os.Create(target) //nolint:gosec // G304: output path from user input is expected
	if err != nil {
		return fmt.Errorf("creating %s: %w", target, err)
	}

	if err := autocanon.WriteClass(f, class); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing %s: %w", target, err)
	}

	return f.Close()
}
