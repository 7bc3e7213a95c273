package annotations

import "sort"

// Team identifies which side an annotation refers to
type Team string

const (
	TeamHome    Team = "home"
	TeamAway    Team = "away"
	TeamUnknown Team = "unknown"
)

// Labels present in SoccerNet Labels-v2 annotations that this tool consumes
const (
	LabelGoal             = "Goal"
	LabelOffside          = "Offside"
	LabelPenalty          = "Penalty"
	LabelFoul             = "Foul"
	LabelYellowCard       = "Yellow card"
	LabelRedCard          = "Red card"
	LabelDirectFreeKick   = "Direct free-kick"
	LabelIndirectFreeKick = "Indirect free-kick"
	LabelShotsOnTarget    = "Shots on target"
	LabelShotsOffTarget   = "Shots off target"
)

// Event is one normalized annotation. Seconds counts from the start of the
// event's period, not the match.
type Event struct {
	Period   int
	Seconds  float64
	Label    string
	Team     Team
	GameTime string // original "<period> - MM:SS" string, kept for naming
	Position int
}

// EventSequence holds the normalized events of one game
type EventSequence []Event

// SortByTime stably orders the sequence by (period, seconds). Ties keep
// source order, which the backward scan in correlation relies on.
func (s EventSequence) SortByTime() {
	sort.SliceStable(s, func(i, j int) bool {
		if s[i].Period != s[j].Period {
			return s[i].Period < s[j].Period
		}
		return s[i].Seconds < s[j].Seconds
	})
}

// SortByPosition stably orders the sequence by the source position field.
// Some annotation sets carry a finer-grained position than MM:SS time.
func (s EventSequence) SortByPosition() {
	sort.SliceStable(s, func(i, j int) bool {
		return s[i].Position < s[j].Position
	})
}

// ByLabel returns the events whose label is in the given set, preserving order
func (s EventSequence) ByLabel(labels map[string]struct{}) EventSequence {
	var out EventSequence
	for _, ev := range s {
		if _, ok := labels[ev.Label]; ok {
			out = append(out, ev)
		}
	}
	return out
}

// LabelSet builds a membership set from label strings
func LabelSet(labels ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		set[l] = struct{}{}
	}
	return set
}
