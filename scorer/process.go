// Package scorer talks to the external phrase-scoring process.
package scorer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rlch/autocanon"
	"github.com/rlch/autocanon/canonical"
)

// Sentinel errors for the scorer package.
var (
	// ErrScorerIO is returned when the process cannot be driven to a clean exit.
	ErrScorerIO = errors.New("scorer: process I/O failed")

	// ErrScorerTimeout is returned when the process does not finish in time.
	ErrScorerTimeout = errors.New("scorer: timed out")

	// ErrMalformedResponse is returned when the process output is not a valid response.
	ErrMalformedResponse = errors.New("scorer: malformed response")
)

// Process runs the scoring command once per Score call. The corpus is written
// to stdin in one piece before stdin is closed. Stdout is read until the
// process exits. Stderr is passed through.
type Process struct {
	// Command is the program and its leading arguments.
	Command []string

	// Model is passed as --model-name-or-path.
	Model string

	// Paraphraser adds --is-paraphraser.
	Paraphraser bool

	// Mask selects --mask or --no-mask.
	Mask bool

	// KSynonyms and KAdjectives are passed when positive.
	KSynonyms   int
	KAdjectives int

	// Timeout bounds the call. Zero means no bound beyond ctx.
	Timeout time.Duration

	// Stderr receives the process diagnostics. Defaults to os.Stderr.
	Stderr io.Writer

	// Env, when non-nil, replaces the process environment.
	Env []string

	Logger *zap.Logger
}

// NewProcess creates a Process from scorer configuration.
func NewProcess(cfg autocanon.ScorerConfig, logger *zap.Logger) *Process {
	mask := true
	if cfg.Mask != nil {
		mask = *cfg.Mask
	}

	return &Process{
		Command:     cfg.Command,
		Model:       cfg.Model,
		Paraphraser: cfg.Paraphraser,
		Mask:        mask,
		KSynonyms:   cfg.KSynonyms,
		KAdjectives: cfg.KAdjectives,
		Timeout:     cfg.Timeout,
		Logger:      logger,
	}
}

// Args returns the full argument list passed after the program name.
func (p *Process) Args() []string {
	args := append([]string(nil), p.Command[1:]...)
	args = append(args, "all")

	if p.Paraphraser {
		args = append(args, "--is-paraphraser")
	}

	if p.Model != "" {
		args = append(args, "--model-name-or-path", p.Model)
	}

	if p.Mask {
		args = append(args, "--mask")
	} else {
		args = append(args, "--no-mask")
	}

	if p.KSynonyms > 0 {
		args = append(args, "--k-synonyms", strconv.Itoa(p.KSynonyms))
	}

	if p.KAdjectives > 0 {
		args = append(args, "--k-adjectives", strconv.Itoa(p.KAdjectives))
	}

	return args
}

// Score implements canonical.Scorer. Every call starts a fresh process, so
// concurrent runs never share one.
func (p *Process) Score(ctx context.Context, corpus *canonical.Corpus) (*canonical.Result, error) {
	if len(p.Command) == 0 {
		return nil, fmt.Errorf("%w: no command", ErrScorerIO)
	}

	payload, err := json.Marshal(corpus)
	if err != nil {
		return nil, fmt.Errorf("encoding corpus: %w", err)
	}

	out, err := p.exchange(ctx, payload)
	if err != nil {
		return nil, err
	}

	return DecodeResult(out)
}

// exchange writes payload to a fresh process and returns everything it printed.
func (p *Process) exchange(ctx context.Context, payload []byte) ([]byte, error) {
	logger := p.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, p.Command[0], p.Args()...) //nolint:gosec // G204: command comes from user config
	cmd.WaitDelay = 5 * time.Second
	cmd.Env = p.Env

	cmd.Stderr = p.Stderr
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScorerIO, err)
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScorerIO, err)
	}

	logger.Info("starting scorer", zap.String("command", p.Command[0]), zap.Strings("args", p.Args()))

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: starting %s: %w", ErrScorerIO, p.Command[0], err)
	}

	var out bytes.Buffer

	eg := new(errgroup.Group)

	eg.Go(func() error {
		if _, err := stdin.Write(payload); err != nil {
			_ = stdin.Close()
			return fmt.Errorf("writing request: %w", err)
		}

		if err := stdin.Close(); err != nil {
			return fmt.Errorf("closing stdin: %w", err)
		}

		logger.Debug("request sent", zap.Int("bytes", len(payload)))

		return nil
	})

	eg.Go(func() error {
		if _, err := io.Copy(&out, stdout); err != nil {
			return fmt.Errorf("reading response: %w", err)
		}

		return nil
	})

	ioErr := eg.Wait()
	waitErr := cmd.Wait()

	if ctx.Err() != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %w", ErrScorerTimeout, ctx.Err())
		}

		return nil, fmt.Errorf("%w: %w", ErrScorerIO, ctx.Err())
	}

	if ioErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrScorerIO, ioErr)
	}

	if waitErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrScorerIO, waitErr)
	}

	logger.Debug("response received", zap.Int("bytes", out.Len()))

	return out.Bytes(), nil
}

// DecodeResult parses a scorer response.
func DecodeResult(data []byte) (*canonical.Result, error) {
	var result canonical.Result
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}

	if result.Synonyms == nil {
		return nil, fmt.Errorf("%w: missing synonyms", ErrMalformedResponse)
	}

	return &result, nil
}
