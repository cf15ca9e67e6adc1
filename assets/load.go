package assets

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/milk9111/pinball/logger"
	"github.com/milk9111/pinball/vpx"
)

// Load reads, parses and resolves the table at path.
func Load(ctx context.Context, path string, opts Options, log *zap.Logger) (*Set, error) {
	log = logger.OrNop(log)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("assets: read %s: %w", path, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	table, err := vpx.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("assets: parse %s: %w", path, err)
	}
	log.Info("table parsed",
		zap.String("path", path),
		zap.String("name", table.Info.Name),
		zap.Int("items", len(table.GameItems)),
		zap.Int("images", len(table.Images)),
		zap.Int("sounds", len(table.Sounds)),
	)

	set, err := Build(ctx, table, opts, log)
	if err != nil {
		return nil, fmt.Errorf("assets: build %s: %w", path, err)
	}
	return set, nil
}

// Result is the outcome of an asynchronous load.
type Result struct {
	Set *Set
	Err error
}

// LoadAsync runs Load on its own goroutine. The channel receives exactly one
// Result unless ctx is cancelled first, in which case the result is dropped
// and the channel is closed without a value.
func LoadAsync(ctx context.Context, path string, opts Options, log *zap.Logger) <-chan Result {
	ch := make(chan Result, 1)
	go func() {
		defer close(ch)
		set, err := Load(ctx, path, opts, log)
		if ctx.Err() != nil {
			return
		}
		ch <- Result{Set: set, Err: err}
	}()
	return ch
}
