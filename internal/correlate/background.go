package correlate

import (
	"math/rand"
)

// PeriodInfo describes one period video available for sampling
type PeriodInfo struct {
	Period   int
	Duration float64 // seconds
}

// Sample is one accepted background anchor time
type Sample struct {
	Period  int
	Seconds float64
}

// SamplerConfig bounds the random background draw
type SamplerConfig struct {
	Count        int     // total samples wanted across all periods
	ClipDuration float64 // minimum spacing between samples in one period
	Margin       float64 // keep-out from period start and end
	MaxAttempts  int     // total draw budget across all periods
}

// SampleBackground draws candidate times uniformly from
// [margin, duration-margin] per period and accepts those that are neither
// excluded nor within ClipDuration of an already accepted sample in the same
// period. The caller supplies the random source, so a fixed seed reproduces
// the exact draw sequence. The attempt budget is shared across periods, the
// way the original sampler counted.
func SampleBackground(rng *rand.Rand, periods []PeriodInfo, exclude IntervalSet, cfg SamplerConfig) []Sample {
	var accepted []Sample
	attempts := 0

	for _, p := range periods {
		if p.Duration <= 0 {
			continue
		}

		minTime := cfg.Margin
		maxTime := p.Duration - cfg.Margin
		if maxTime <= minTime {
			continue // period too short to leave a margin on both sides
		}

		for len(accepted) < cfg.Count && attempts < cfg.MaxAttempts {
			attempts++

			t := minTime + rng.Float64()*(maxTime-minTime)
			if exclude.Excluded(p.Period, t) {
				continue
			}
			if tooClose(accepted, p.Period, t, cfg.ClipDuration) {
				continue
			}

			accepted = append(accepted, Sample{Period: p.Period, Seconds: t})
		}

		if len(accepted) >= cfg.Count {
			break
		}
	}

	return accepted
}

func tooClose(samples []Sample, period int, t, spacing float64) bool {
	for _, s := range samples {
		if s.Period != period {
			continue
		}
		d := t - s.Seconds
		if d < 0 {
			d = -d
		}
		if d < spacing {
			return true
		}
	}
	return false
}
