package extract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/JulienMP/matchclips/pkg/util"
)

// Interval is the planned cut, in seconds from the start of the source
type Interval struct {
	Start    float64
	Duration float64
}

// Runner executes one external tool invocation. *ffmpeg.Executor satisfies
// it; tests substitute scripted fakes.
type Runner interface {
	Run(ctx context.Context, args []string) error
}

// Strategy is one way of materializing an interval. Strategies are tried in
// order by the engine until one produces a verified artifact.
type Strategy interface {
	Name() string
	// Artifact maps the canonical output path to the path this strategy
	// actually produces (a different container, or a frame directory).
	Artifact(output string) string
	// Attempt writes the interval into scratch. The engine verifies and
	// publishes scratch afterwards; a failed attempt leaves cleanup to the
	// engine.
	Attempt(ctx context.Context, source string, iv Interval, scratch string) error
}

// streamCopy extracts without re-encoding either stream. Fastest, but fails
// on containers that cannot be cut at an arbitrary point.
type streamCopy struct {
	runner Runner
}

func (s *streamCopy) Name() string { return "stream_copy" }

func (s *streamCopy) Artifact(output string) string { return output }

func (s *streamCopy) Attempt(ctx context.Context, source string, iv Interval, scratch string) error {
	return s.runner.Run(ctx, []string{
		"-ss", util.FormatSeconds(iv.Start),
		"-i", source,
		"-t", util.FormatSeconds(iv.Duration),
		"-c", "copy",
		"-avoid_negative_ts", "make_zero",
		scratch,
	})
}

// reencodeH264 re-encodes into a portable x264/aac profile, tolerant of
// stream-copy failures.
type reencodeH264 struct {
	runner Runner
}

func (s *reencodeH264) Name() string { return "reencode_h264" }

func (s *reencodeH264) Artifact(output string) string { return output }

func (s *reencodeH264) Attempt(ctx context.Context, source string, iv Interval, scratch string) error {
	return s.runner.Run(ctx, []string{
		"-ss", util.FormatSeconds(iv.Start),
		"-i", source,
		"-t", util.FormatSeconds(iv.Duration),
		"-c:v", "libx264",
		"-preset", "fast",
		"-crf", "23",
		"-c:a", "aac",
		"-b:a", "128k",
		scratch,
	})
}

// reencodeMPEG4 falls back to the widely compatible mpeg4 codec in an AVI
// container, for sources the x264 path rejects.
type reencodeMPEG4 struct {
	runner Runner
}

func (s *reencodeMPEG4) Name() string { return "reencode_mpeg4_avi" }

func (s *reencodeMPEG4) Artifact(output string) string {
	return strings.TrimSuffix(output, filepath.Ext(output)) + ".avi"
}

func (s *reencodeMPEG4) Attempt(ctx context.Context, source string, iv Interval, scratch string) error {
	return s.runner.Run(ctx, []string{
		"-ss", util.FormatSeconds(iv.Start),
		"-i", source,
		"-t", util.FormatSeconds(iv.Duration),
		"-c:v", "mpeg4",
		"-q:v", "5",
		"-c:a", "copy",
		scratch,
	})
}

// frameDump decodes the interval into numbered JPEG stills inside a
// directory named after the clip. Terminal fallback: short of total I/O
// failure it always yields some artifact.
type frameDump struct {
	runner Runner
}

func (s *frameDump) Name() string { return "frame_dump" }

func (s *frameDump) Artifact(output string) string {
	return strings.TrimSuffix(output, filepath.Ext(output)) + "_frames"
}

func (s *frameDump) Attempt(ctx context.Context, source string, iv Interval, scratch string) error {
	if err := os.MkdirAll(scratch, 0755); err != nil {
		return fmt.Errorf("failed to create frame directory: %w", err)
	}
	return s.runner.Run(ctx, []string{
		"-ss", util.FormatSeconds(iv.Start),
		"-i", source,
		"-t", util.FormatSeconds(iv.Duration),
		"-qscale:v", "2",
		filepath.Join(scratch, "frame_%06d.jpg"),
	})
}

// DefaultStrategies returns the cascade in degradation order
func DefaultStrategies(runner Runner) []Strategy {
	return []Strategy{
		&streamCopy{runner: runner},
		&reencodeH264{runner: runner},
		&reencodeMPEG4{runner: runner},
		&frameDump{runner: runner},
	}
}
