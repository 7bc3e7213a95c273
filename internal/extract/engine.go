package extract

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// Status is the terminal outcome of one extraction request
type Status int

const (
	StatusSuccess Status = iota
	StatusFailed
)

// ErrAllStrategiesFailed reports a cascade that was exhausted without
// producing a verified artifact.
var ErrAllStrategiesFailed = errors.New("all extraction strategies failed")

// Result describes what one extraction request produced
type Result struct {
	Status     Status
	OutputPath string // artifact path, valid when Status == StatusSuccess
	Strategy   string // strategy that produced the artifact, "" when skipped
	Skipped    bool   // true when an existing artifact satisfied the request
	Attempted  []string
	Err        error
}

// Options tunes the engine
type Options struct {
	// MinOutputBytes guards against empty or truncated files whose
	// producing process still exited cleanly.
	MinOutputBytes int64
	// Strategies overrides the default cascade; mostly for tests.
	Strategies []Strategy
}

// Engine runs the strategy cascade for planned intervals. Safe for
// concurrent use; the output directory is the only shared resource and
// check-then-write is serialized per path.
type Engine struct {
	logger     zerolog.Logger
	strategies []Strategy
	minBytes   int64
	locks      pathLocks
}

// NewEngine creates an extraction engine over the given tool runner
func NewEngine(logger zerolog.Logger, runner Runner, opts Options) *Engine {
	strategies := opts.Strategies
	if strategies == nil {
		strategies = DefaultStrategies(runner)
	}
	minBytes := opts.MinOutputBytes
	if minBytes <= 0 {
		minBytes = 1000
	}
	return &Engine{
		logger:     logger.With().Str("component", "extract").Logger(),
		strategies: strategies,
		minBytes:   minBytes,
	}
}

// Extract materializes the interval from source at output, walking the
// cascade until a strategy produces a verified artifact. If any strategy's
// artifact for this output already exists the request is treated as
// satisfied and no attempt runs, which holds across separate runs.
func (e *Engine) Extract(ctx context.Context, source string, iv Interval, output string) Result {
	mu := e.locks.lock(output)
	defer mu.Unlock()

	logger := e.logger.With().Str("clip", filepath.Base(output)).Logger()

	for _, s := range e.strategies {
		artifact := s.Artifact(output)
		if _, err := os.Stat(artifact); err == nil {
			logger.Info().
				Str("artifact", artifact).
				Msg("clip already exists, skipping")
			return Result{Status: StatusSuccess, OutputPath: artifact, Skipped: true}
		}
	}

	var attempted []string

	for _, s := range e.strategies {
		// cancellation point between attempts, never mid-strategy
		if err := ctx.Err(); err != nil {
			return Result{Status: StatusFailed, Attempted: attempted, Err: err}
		}

		attempted = append(attempted, s.Name())
		artifact := s.Artifact(output)
		scratch := scratchPath(artifact)

		logger.Debug().
			Str("strategy", s.Name()).
			Float64("start", iv.Start).
			Float64("duration", iv.Duration).
			Msg("attempting extraction")

		err := s.Attempt(ctx, source, iv, scratch)
		if err == nil {
			err = e.verify(scratch)
		}
		if err != nil {
			// remove undersized or partial scratch so the next strategy's
			// existence check cannot short-circuit on stale data
			_ = os.RemoveAll(scratch)
			logger.Warn().
				Err(err).
				Str("strategy", s.Name()).
				Msg("extraction strategy failed, degrading")
			continue
		}

		if err := os.Rename(scratch, artifact); err != nil {
			_ = os.RemoveAll(scratch)
			logger.Error().Err(err).Str("strategy", s.Name()).Msg("failed to publish artifact")
			continue
		}

		logger.Info().
			Str("strategy", s.Name()).
			Str("artifact", artifact).
			Msg("clip extracted")
		return Result{
			Status:     StatusSuccess,
			OutputPath: artifact,
			Strategy:   s.Name(),
			Attempted:  attempted,
		}
	}

	logger.Error().
		Strs("attempted", attempted).
		Msg("all extraction strategies exhausted")
	return Result{
		Status:    StatusFailed,
		Attempted: attempted,
		Err:       fmt.Errorf("%w: %s", ErrAllStrategiesFailed, output),
	}
}

// verify accepts a scratch artifact only when it is a file above the
// minimum-bytes threshold or a directory with at least one entry.
func (e *Engine) verify(scratch string) error {
	info, err := os.Stat(scratch)
	if err != nil {
		return fmt.Errorf("no output produced: %w", err)
	}

	if info.IsDir() {
		entries, err := os.ReadDir(scratch)
		if err != nil {
			return fmt.Errorf("unreadable frame directory: %w", err)
		}
		if len(entries) == 0 {
			return errors.New("frame directory is empty")
		}
		return nil
	}

	if info.Size() <= e.minBytes {
		return fmt.Errorf("output too small: %d bytes", info.Size())
	}
	return nil
}

// scratchPath hides the in-progress artifact next to its final location.
// The base name keeps its extension so ffmpeg still infers the container.
func scratchPath(artifact string) string {
	dir, base := filepath.Split(artifact)
	return filepath.Join(dir, ".partial-"+base)
}
