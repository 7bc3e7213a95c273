package pipeline

import (
	"math/rand"
	"strings"

	"github.com/JulienMP/matchclips/internal/annotations"
	"github.com/JulienMP/matchclips/internal/clips"
	"github.com/JulienMP/matchclips/internal/correlate"
	"github.com/JulienMP/matchclips/pkg/util"
)

// Kind names one extraction rule. Each kind is a correlation rule plus an
// anchor policy, not a separate code path.
type Kind string

const (
	KindGoals         Kind = "goal"
	KindFreeKickGoals Kind = "freekick_goal"
	KindPenalties     Kind = "penalty"
	KindShots         Kind = "shot"
	KindBackground    Kind = "background"
)

// AllKinds lists every extraction rule in the order a full run applies them
func AllKinds() []Kind {
	return []Kind{KindGoals, KindFreeKickGoals, KindPenalties, KindShots, KindBackground}
}

// ParseKind resolves a CLI name to a Kind
func ParseKind(s string) (Kind, bool) {
	switch Kind(s) {
	case KindGoals, KindFreeKickGoals, KindPenalties, KindShots, KindBackground:
		return Kind(s), true
	}
	return "", false
}

// requests turns one game's event sequence into clip requests for a kind.
// Requests enumerate in event-chronological order, which keeps the ordinal
// in each identity key deterministic across runs.
func (p *Pipeline) requests(kind Kind, game Game, seq annotations.EventSequence, periods []correlate.PeriodInfo, rng *rand.Rand) []clips.Request {
	switch kind {
	case KindGoals:
		return p.goalRequests(game, seq)
	case KindFreeKickGoals:
		return p.freeKickGoalRequests(game, seq)
	case KindPenalties:
		return p.penaltyRequests(game, seq)
	case KindShots:
		return p.shotRequests(game, seq)
	case KindBackground:
		return p.backgroundRequests(game, seq, periods, rng)
	}
	return nil
}

// goalRequests plans one end-anchored clip per goal, ending just before the
// goal instant.
func (p *Pipeline) goalRequests(game Game, seq annotations.EventSequence) []clips.Request {
	goals := seq.ByLabel(annotations.LabelSet(annotations.LabelGoal))

	reqs := make([]clips.Request, 0, len(goals))
	for i, goal := range goals {
		reqs = append(reqs, clips.Request{
			Period:   goal.Period,
			Anchor:   goal.Seconds,
			Duration: p.cfg.ClipDuration,
			Policy:   clips.EndAnchored,
			Key: clips.Key(game.Name, string(KindGoals), i+1, goal.Period,
				stamp(goal.Seconds), string(goal.Team)),
		})
	}
	return reqs
}

// freeKickGoalRequests pairs each goal with the most recent free kick inside
// the look-back window and plans an end-anchored clip before the goal.
func (p *Pipeline) freeKickGoalRequests(game Game, seq annotations.EventSequence) []clips.Request {
	rule := correlate.Rule{
		Name: string(KindFreeKickGoals),
		Triggers: annotations.LabelSet(
			annotations.LabelDirectFreeKick,
			annotations.LabelIndirectFreeKick,
		),
		Outcomes:  annotations.LabelSet(annotations.LabelGoal),
		Window:    p.cfg.Windows.FreeKick,
		Direction: correlate.LookBack,
		Mode:      correlate.Association,
	}

	pairs := correlate.AssociationPairs(seq, rule)

	reqs := make([]clips.Request, 0, len(pairs))
	for i, pair := range pairs {
		reqs = append(reqs, clips.Request{
			Period:   pair.Outcome.Period,
			Anchor:   pair.Outcome.Seconds,
			Duration: p.cfg.ClipDuration,
			Policy:   clips.EndAnchored,
			Key: clips.Key(game.Name, string(KindFreeKickGoals), i+1, pair.Outcome.Period,
				"fk"+stamp(pair.Trigger.Seconds), "goal"+stamp(pair.Outcome.Seconds)),
		})
	}
	return reqs
}

// penaltyRequests anchors a clip on every penalty event so the run-up and
// the foul before it land inside the clip. Games without explicit Penalty
// annotations fall back to fouls that drew a penalty or direct free kick.
func (p *Pipeline) penaltyRequests(game Game, seq annotations.EventSequence) []clips.Request {
	candidates := correlate.PenaltyCandidates(seq)

	reqs := make([]clips.Request, 0, len(candidates))
	for i, ev := range candidates {
		reqs = append(reqs, clips.Request{
			Period:   ev.Period,
			Anchor:   ev.Seconds,
			Duration: p.cfg.ClipDuration,
			Policy:   clips.StartAnchored,
			Key: clips.Key(game.Name, string(KindPenalties), i+1, ev.Period,
				stamp(ev.Seconds), string(ev.Team), slug(ev.Label)),
		})
	}
	return reqs
}

// shotRequests picks shots on target that were not immediately followed by a
// goal. A goal inside the suppression window after the shot excludes it.
func (p *Pipeline) shotRequests(game Game, seq annotations.EventSequence) []clips.Request {
	exclusion := correlate.ExclusionIntervals(seq, correlate.Rule{
		Name:     string(KindShots),
		Outcomes: annotations.LabelSet(annotations.LabelGoal),
		Before:   p.cfg.Windows.ShotGoal,
		After:    0,
		Mode:     correlate.Exclusion,
	})

	shots := correlate.FilterExcluded(seq,
		annotations.LabelSet(annotations.LabelShotsOnTarget), exclusion)

	reqs := make([]clips.Request, 0, len(shots))
	for i, shot := range shots {
		reqs = append(reqs, clips.Request{
			Period:   shot.Period,
			Anchor:   shot.Seconds,
			Duration: p.cfg.ClipDuration,
			Policy:   clips.StartAnchored,
			Key: clips.Key(game.Name, string(KindShots), i+1, shot.Period,
				stamp(shot.Seconds), string(shot.Team)),
		})
	}
	return reqs
}

// backgroundRequests samples anchor times far from any goal, seeded per game
// so reruns draw identical candidates.
func (p *Pipeline) backgroundRequests(game Game, seq annotations.EventSequence, periods []correlate.PeriodInfo, rng *rand.Rand) []clips.Request {
	bg := p.cfg.Background

	exclusion := correlate.ExclusionIntervals(seq, correlate.Rule{
		Name:     string(KindBackground),
		Outcomes: annotations.LabelSet(annotations.LabelGoal),
		Before:   bg.GoalBuffer,
		After:    bg.GoalBuffer,
		Mode:     correlate.Exclusion,
	})

	samples := correlate.SampleBackground(rng, periods, exclusion, correlate.SamplerConfig{
		Count:        bg.ClipsPerGame,
		ClipDuration: p.cfg.ClipDuration,
		Margin:       bg.Margin,
		MaxAttempts:  bg.MaxAttempts,
	})

	reqs := make([]clips.Request, 0, len(samples))
	for i, s := range samples {
		reqs = append(reqs, clips.Request{
			Period:   s.Period,
			Anchor:   s.Seconds,
			Duration: p.cfg.ClipDuration,
			Policy:   clips.StartAnchored,
			Key: clips.Key(game.Name, string(KindBackground), i+1, s.Period,
				stamp(s.Seconds)),
		})
	}
	return reqs
}

func stamp(seconds float64) string {
	return util.Stamp(seconds)
}

// slug makes an annotation label safe for filenames
func slug(label string) string {
	return strings.ReplaceAll(strings.ToLower(label), " ", "-")
}
