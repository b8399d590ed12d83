package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/boyter/gocodewalker"
	"github.com/urfave/cli/v3"

	"github.com/rlch/autocanon"
)

// classSuffixes are the file name suffixes of class files.
var classSuffixes = []string{".class.yaml", ".class.yml"}

// ErrNoClassFiles is returned when no class file was found in the arguments.
var ErrNoClassFiles = errors.New("no .class.yaml files found")

// loadConfig loads the nearest config, applies flag overrides and defaults,
// and validates the result. A missing config file is not an error.
func loadConfig(cmd *cli.Command) (*autocanon.Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting cwd: %w", err)
	}

	cfg, err := autocanon.LoadConfig(cwd)

	switch {
	case errors.Is(err, autocanon.ErrConfigNotFound):
		cfg = &autocanon.Config{}
	case err != nil:
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if err := applyFlags(cmd, cfg); err != nil {
		return nil, err
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyFlags overrides config values with flags that were set explicitly.
func applyFlags(cmd *cli.Command, cfg *autocanon.Config) error {
	cfg.Datasets = firstNonEmpty(cmd.String("datasets"), cfg.Datasets)
	cfg.Constants = firstNonEmpty(cmd.String("constants"), cfg.Constants)
	cfg.Denominator = firstNonEmpty(cmd.String("denominator"), cfg.Denominator)
	cfg.Skip = firstNonEmpty(cmd.String("skip"), cfg.Skip)
	cfg.DebugDir = firstNonEmpty(cmd.String("debug-dir"), cfg.DebugDir)
	cfg.Scorer.Model = firstNonEmpty(cmd.String("model"), cfg.Scorer.Model)

	if cmd.IsSet("pruning") {
		p := cmd.Float("pruning")
		cfg.Pruning = &p
	}

	if cmd.Bool("debug") {
		cfg.Debug = true
	}

	if cmd.Bool("paraphraser") {
		cfg.Scorer.Paraphraser = true
	}

	if scorerCmd := cmd.StringSlice("scorer"); len(scorerCmd) > 0 {
		cfg.Scorer.Command = scorerCmd
	}

	if cmd.IsSet("timeout") {
		cfg.Scorer.Timeout = cmd.Duration("timeout")
	}

	if cmd.Bool("mask") && cmd.Bool("no-mask") {
		return fmt.Errorf("%w: --mask and --no-mask are mutually exclusive", autocanon.ErrInvalidConfig)
	}

	switch {
	case cmd.Bool("mask"):
		mask := true
		cfg.Scorer.Mask = &mask
	case cmd.Bool("no-mask"):
		mask := false
		cfg.Scorer.Mask = &mask
	}

	return nil
}

// discoverClassFiles expands the arguments into class files.
// Directories are walked respecting .gitignore.
func discoverClassFiles(args []string) ([]string, error) {
	var files []string
	var mu sync.Mutex

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}

		if info.IsDir() {
			if err := walkDir(arg, func(path string) {
				mu.Lock()
				files = append(files, path)
				mu.Unlock()
			}); err != nil {
				return nil, err
			}
		} else if isClassFile(arg) {
			files = append(files, arg)
		}
	}

	return files, nil
}

// walkDir walks a directory for class files, respecting .gitignore.
func walkDir(root string, callback func(path string)) error {
	fileListQueue := make(chan *gocodewalker.File, 100)

	fileWalker := gocodewalker.NewFileWalker(root, fileListQueue)
	fileWalker.AllowListExtensions = []string{"yaml", "yml"}

	var walkErr error
	fileWalker.SetErrorHandler(func(e error) bool {
		walkErr = e
		return true
	})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for f := range fileListQueue {
			if isClassFile(f.Location) {
				callback(f.Location)
			}
		}
	}()

	if err := fileWalker.Start(); err != nil {
		return err
	}

	wg.Wait()
	return walkErr
}

func isClassFile(path string) bool {
	name := filepath.Base(path)
	for _, suffix := range classSuffixes {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}

	return false
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
