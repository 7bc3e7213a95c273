package pipeline

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"math/rand"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/JulienMP/matchclips/internal/annotations"
	"github.com/JulienMP/matchclips/internal/clips"
	"github.com/JulienMP/matchclips/internal/config"
	"github.com/JulienMP/matchclips/internal/correlate"
	"github.com/JulienMP/matchclips/internal/extract"
	"github.com/JulienMP/matchclips/internal/ffmpeg"
	"github.com/JulienMP/matchclips/internal/metrics"
	"github.com/JulienMP/matchclips/pkg/util"
)

// Pipeline orchestrates discovery, correlation, planning and extraction
type Pipeline struct {
	logger  zerolog.Logger
	cfg     *config.Config
	ffmpeg  *ffmpeg.Executor
	engine  *extract.Engine
	metrics *metrics.Metrics
}

// New creates a pipeline. Failure to resolve ffmpeg/ffprobe is returned as
// an error and aborts the whole run: nothing can be extracted without them.
func New(logger zerolog.Logger, cfg *config.Config) (*Pipeline, error) {
	executor, err := ffmpeg.New(logger, cfg.FFmpeg.Threads, cfg.FFmpeg.AttemptTimeout)
	if err != nil {
		return nil, fmt.Errorf("extraction tool unavailable: %w", err)
	}

	engine := extract.NewEngine(logger, executor, extract.Options{
		MinOutputBytes: cfg.MinOutputBytes,
	})

	return &Pipeline{
		logger:  logger.With().Str("component", "pipeline").Logger(),
		cfg:     cfg,
		ffmpeg:  executor,
		engine:  engine,
		metrics: metrics.New(),
	}, nil
}

// GameReport tallies what one game produced
type GameReport struct {
	Game      string
	Planned   int
	Extracted int
	Skipped   int
	Rejected  int
	Failed    int
	Err       error
}

// Report aggregates a whole run
type Report struct {
	RunID string
	Games []GameReport
}

// Totals sums the per-game tallies
func (r *Report) Totals() GameReport {
	var t GameReport
	for _, g := range r.Games {
		t.Planned += g.Planned
		t.Extracted += g.Extracted
		t.Skipped += g.Skipped
		t.Rejected += g.Rejected
		t.Failed += g.Failed
	}
	return t
}

// Run processes every discovered game with the given rule kinds. Games are
// independent and fan out over a bounded worker pool; per-game state is
// never shared, and the extraction engine serializes output-path access.
func (p *Pipeline) Run(ctx context.Context, kinds []Kind) (*Report, error) {
	if err := util.EnsureDir(p.cfg.OutputDir); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	games, err := DiscoverGames(p.cfg.DataDir, p.cfg.Container, p.cfg.GameLimit)
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	logger := p.logger.With().Str("run_id", runID).Logger()
	logger.Info().
		Int("games", len(games)).
		Int("workers", p.cfg.Workers).
		Msg("starting extraction run")

	workers := p.cfg.Workers
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan Game)
	reports := make([]GameReport, len(games))
	index := make(map[string]int, len(games))
	for i, g := range games {
		index[g.Dir] = i
	}

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for game := range jobs {
				reports[index[game.Dir]] = p.processGame(ctx, logger, game, kinds)
			}
		}()
	}

	for _, game := range games {
		if ctx.Err() != nil {
			break
		}
		jobs <- game
	}
	close(jobs)
	wg.Wait()

	report := &Report{RunID: runID, Games: reports}
	totals := report.Totals()
	logger.Info().
		Int("planned", totals.Planned).
		Int("extracted", totals.Extracted).
		Int("skipped", totals.Skipped).
		Int("rejected", totals.Rejected).
		Int("failed", totals.Failed).
		Msg("extraction run complete")
	p.metrics.LogSummary(logger)

	return report, ctx.Err()
}

// processGame runs the full flow for one game: load annotations, probe the
// period videos, then correlate, plan and extract per rule kind. Every
// failure below run level is local: it is logged, counted and skipped.
func (p *Pipeline) processGame(ctx context.Context, logger zerolog.Logger, game Game, kinds []Kind) GameReport {
	report := GameReport{Game: game.Name}
	glog := logger.With().Str("game", game.Name).Logger()

	seq, skipped, err := annotations.Load(glog, game.LabelsPath)
	if err != nil {
		glog.Error().Err(err).Msg("failed to load annotations, skipping game")
		report.Err = err
		return report
	}
	p.metrics.RecordsSkipped.Add(float64(skipped))

	videos, periods := p.probePeriods(ctx, glog, game)

	// one deterministic stream per game so reruns and worker-order changes
	// cannot perturb background sampling
	rng := rand.New(rand.NewSource(gameSeed(p.cfg.Background.RandomSeed, game.Name)))

	for _, kind := range kinds {
		for _, req := range p.requests(kind, game, seq, periods, rng) {
			report.Planned++
			p.metrics.ClipsPlanned.WithLabelValues(string(kind)).Inc()

			source, ok := videos[req.Period]
			if !ok {
				// all events of a period without video are silently skippable
				glog.Debug().
					Str("clip", req.Key).
					Int("period", req.Period).
					Msg("period video missing, skipping request")
				report.Skipped++
				continue
			}

			spec, err := clips.Plan(req, source.Duration)
			if err != nil {
				if errors.Is(err, clips.ErrClipTooShort) {
					glog.Info().Err(err).Str("clip", req.Key).Msg("dropping clip request")
					report.Rejected++
					p.metrics.ClipsRejected.WithLabelValues(string(kind)).Inc()
					continue
				}
				glog.Error().Err(err).Str("clip", req.Key).Msg("failed to plan clip")
				report.Failed++
				continue
			}

			output := filepath.Join(p.cfg.OutputDir, req.Key+"."+p.cfg.Container)
			result := p.engine.Extract(ctx, source.FilePath,
				extract.Interval{Start: spec.Start, Duration: spec.Duration}, output)

			switch {
			case result.Skipped:
				report.Skipped++
				p.metrics.ClipsSkipped.WithLabelValues(string(kind)).Inc()
			case result.Status == extract.StatusSuccess:
				report.Extracted++
				p.metrics.ClipsExtracted.WithLabelValues(string(kind)).Inc()
				p.metrics.StrategyUsed.WithLabelValues(result.Strategy).Inc()
			default:
				report.Failed++
				p.metrics.ClipsFailed.WithLabelValues(string(kind)).Inc()
			}

			if ctx.Err() != nil {
				report.Err = ctx.Err()
				return report
			}
		}
	}

	p.metrics.GamesProcessed.Inc()
	glog.Info().
		Int("planned", report.Planned).
		Int("extracted", report.Extracted).
		Int("skipped", report.Skipped).
		Int("rejected", report.Rejected).
		Int("failed", report.Failed).
		Msg("game processed")
	return report
}

// probePeriods resolves and probes the period videos of one game. A missing
// or unreadable period video is not fatal; its events become skippable.
func (p *Pipeline) probePeriods(ctx context.Context, logger zerolog.Logger, game Game) (map[int]*ffmpeg.VideoInfo, []correlate.PeriodInfo) {
	videos := make(map[int]*ffmpeg.VideoInfo, 2)
	var periods []correlate.PeriodInfo

	for period := 1; period <= 2; period++ {
		path := filepath.Join(game.Dir, PeriodVideoName(period, p.cfg.Container))
		if !util.FileExists(path) {
			logger.Warn().Int("period", period).Str("path", path).Msg("period video not found")
			p.metrics.PeriodsMissing.Inc()
			continue
		}

		info, err := p.ffmpeg.ProbeVideo(ctx, path)
		if err != nil {
			logger.Warn().Err(err).Int("period", period).Msg("failed to probe period video")
			p.metrics.PeriodsMissing.Inc()
			continue
		}

		videos[period] = info
		periods = append(periods, correlate.PeriodInfo{Period: period, Duration: info.Duration})
	}

	return videos, periods
}

func gameSeed(seed int64, game string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(game))
	return seed ^ int64(h.Sum64())
}
