package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Executor wraps ffmpeg/ffprobe invocations for clip extraction
type Executor struct {
	logger         zerolog.Logger
	ffmpegPath     string
	ffprobePath    string
	threads        int
	attemptTimeout time.Duration
}

// New creates an executor, resolving both tools up front. A resolution
// failure means no extraction can possibly succeed, so callers abort the run.
func New(logger zerolog.Logger, threads int, attemptTimeout time.Duration) (*Executor, error) {
	ffmpegPath, err := exec.LookPath("ffmpeg")
	if err != nil {
		return nil, fmt.Errorf("ffmpeg not found in PATH: %w", err)
	}

	ffprobePath, err := exec.LookPath("ffprobe")
	if err != nil {
		return nil, fmt.Errorf("ffprobe not found in PATH: %w", err)
	}

	return &Executor{
		logger:         logger.With().Str("component", "ffmpeg").Logger(),
		ffmpegPath:     ffmpegPath,
		ffprobePath:    ffprobePath,
		threads:        threads,
		attemptTimeout: attemptTimeout,
	}, nil
}

// Run executes one ffmpeg invocation to completion. The attempt timeout, when
// set, bounds the whole invocation; a corrupt input cannot hang the pipeline.
func (e *Executor) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("no arguments provided")
	}

	if e.attemptTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.attemptTimeout)
		defer cancel()
	}

	baseArgs := []string{"-y", "-hide_banner", "-loglevel", "error"}
	if e.threads > 0 {
		baseArgs = append(baseArgs, "-threads", fmt.Sprintf("%d", e.threads))
	}
	args = append(baseArgs, args...)

	e.logger.Debug().
		Str("cmd", "ffmpeg").
		Strs("args", args).
		Msg("executing ffmpeg")

	cmd := exec.CommandContext(ctx, e.ffmpegPath, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("ffmpeg aborted: %w", ctxErr)
		}
		return fmt.Errorf("ffmpeg execution failed: %w: %s", err, stderrTail(stderr.String()))
	}

	return nil
}

// stderrTail keeps error output readable in logs without dumping whole
// transcode transcripts.
func stderrTail(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) > 4 {
		lines = lines[len(lines)-4:]
	}
	return strings.Join(lines, " | ")
}
