package correlate

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JulienMP/matchclips/internal/annotations"
)

func samplerConfig() SamplerConfig {
	return SamplerConfig{
		Count:        3,
		ClipDuration: 15,
		Margin:       20,
		MaxAttempts:  50,
	}
}

func TestSampleBackgroundAvoidsGoalWindows(t *testing.T) {
	seq := annotations.EventSequence{
		{Period: 1, Seconds: 100, Label: annotations.LabelGoal},
	}
	exclusion := ExclusionIntervals(seq, Rule{
		Outcomes: annotations.LabelSet(annotations.LabelGoal),
		Before:   30,
		After:    30,
	})

	periods := []PeriodInfo{{Period: 1, Duration: 200}}
	rng := rand.New(rand.NewSource(42))

	samples := SampleBackground(rng, periods, exclusion, samplerConfig())
	require.NotEmpty(t, samples)
	for _, s := range samples {
		assert.False(t, s.Seconds >= 70 && s.Seconds <= 130,
			"sample at %.2fs falls inside the goal window", s.Seconds)
		assert.GreaterOrEqual(t, s.Seconds, 20.0)
		assert.LessOrEqual(t, s.Seconds, 180.0)
	}
}

func TestSampleBackgroundDeterministicUnderFixedSeed(t *testing.T) {
	periods := []PeriodInfo{{Period: 1, Duration: 2700}, {Period: 2, Duration: 2800}}

	first := SampleBackground(rand.New(rand.NewSource(7)), periods, nil, samplerConfig())
	second := SampleBackground(rand.New(rand.NewSource(7)), periods, nil, samplerConfig())

	assert.Equal(t, first, second)
}

func TestSampleBackgroundSpacing(t *testing.T) {
	periods := []PeriodInfo{{Period: 1, Duration: 2700}}
	cfg := samplerConfig()
	cfg.Count = 10
	cfg.MaxAttempts = 200

	samples := SampleBackground(rand.New(rand.NewSource(1)), periods, nil, cfg)
	for i, a := range samples {
		for _, b := range samples[i+1:] {
			if a.Period != b.Period {
				continue
			}
			d := a.Seconds - b.Seconds
			if d < 0 {
				d = -d
			}
			assert.GreaterOrEqual(t, d, cfg.ClipDuration,
				"samples %.2f and %.2f overlap", a.Seconds, b.Seconds)
		}
	}
}

func TestSampleBackgroundAttemptBudget(t *testing.T) {
	// the whole period is excluded: the sampler must give up after the
	// attempt budget instead of spinning
	exclusion := IntervalSet{{Period: 1, Start: 0, End: 3000}}
	periods := []PeriodInfo{{Period: 1, Duration: 2700}}

	samples := SampleBackground(rand.New(rand.NewSource(3)), periods, exclusion, samplerConfig())
	assert.Empty(t, samples)
}

func TestSampleBackgroundSkipsShortPeriods(t *testing.T) {
	periods := []PeriodInfo{
		{Period: 1, Duration: 30}, // too short for 20s margins on both sides
		{Period: 2, Duration: 0},  // no video
	}

	samples := SampleBackground(rand.New(rand.NewSource(3)), periods, nil, samplerConfig())
	assert.Empty(t, samples)
}
