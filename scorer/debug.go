package scorer

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/rlch/autocanon/canonical"
)

// Debug dump file names.
const (
	RequestDumpName  = "annotator-in.json"
	ResponseDumpName = "annotator-out.json"
)

// Debug wraps a Scorer and writes the exact request and response to Dir.
// Dump failures are logged and never fail the call.
type Debug struct {
	Scorer canonical.Scorer
	Dir    string
	Logger *zap.Logger
}

// Score implements canonical.Scorer.
func (d *Debug) Score(ctx context.Context, corpus *canonical.Corpus) (*canonical.Result, error) {
	d.dump(RequestDumpName, corpus)

	result, err := d.Scorer.Score(ctx, corpus)
	if err != nil {
		return nil, err
	}

	d.dump(ResponseDumpName, result)

	return result, nil
}

func (d *Debug) dump(name string, v any) {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	path := filepath.Join(d.Dir, name)
	if err := writeJSON(path, v); err != nil {
		logger.Warn("writing debug dump", zap.String("path", path), zap.Error(err))
		return
	}

	logger.Debug("wrote debug dump", zap.String("path", path))
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding: %w", err)
	}

	return os.WriteFile(path, data, 0o644) //nolint:gosec // G306: debug output is not sensitive
}
