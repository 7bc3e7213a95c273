package correlate

import (
	"github.com/JulienMP/matchclips/internal/annotations"
)

// Pair is one association result: the outcome event plus the most recent
// qualifying trigger found inside the rule window.
type Pair struct {
	Trigger annotations.Event
	Outcome annotations.Event
}

// AssociationPairs scans a time-sorted sequence and pairs every outcome event
// with at most one trigger. The scan walks backward from the outcome and
// stops as soon as the window is exceeded or the period boundary is crossed,
// so the first hit is the most recent qualifying trigger. Two outcomes may
// claim the same trigger; the source heuristics never deduplicated and this
// keeps that behavior.
func AssociationPairs(seq annotations.EventSequence, rule Rule) []Pair {
	var pairs []Pair

	for i, outcome := range seq {
		if _, ok := rule.Outcomes[outcome.Label]; !ok {
			continue
		}

		back, backOK := scanBack(seq, i, rule)
		if rule.Direction == LookBack {
			if backOK {
				pairs = append(pairs, Pair{Trigger: back, Outcome: outcome})
			}
			continue
		}

		fwd, fwdOK := scanForward(seq, i, rule)
		switch {
		case backOK && fwdOK:
			// nearer candidate wins, backward on ties
			if outcome.Seconds-back.Seconds <= fwd.Seconds-outcome.Seconds {
				pairs = append(pairs, Pair{Trigger: back, Outcome: outcome})
			} else {
				pairs = append(pairs, Pair{Trigger: fwd, Outcome: outcome})
			}
		case backOK:
			pairs = append(pairs, Pair{Trigger: back, Outcome: outcome})
		case fwdOK:
			pairs = append(pairs, Pair{Trigger: fwd, Outcome: outcome})
		}
	}

	return pairs
}

func scanBack(seq annotations.EventSequence, i int, rule Rule) (annotations.Event, bool) {
	outcome := seq[i]
	for j := i - 1; j >= 0; j-- {
		prev := seq[j]
		if prev.Period != outcome.Period || outcome.Seconds-prev.Seconds > rule.Window {
			break
		}
		if _, ok := rule.Triggers[prev.Label]; ok {
			return prev, true
		}
	}
	return annotations.Event{}, false
}

func scanForward(seq annotations.EventSequence, i int, rule Rule) (annotations.Event, bool) {
	outcome := seq[i]
	for j := i + 1; j < len(seq); j++ {
		next := seq[j]
		if next.Period != outcome.Period || next.Seconds-outcome.Seconds > rule.Window {
			break
		}
		if _, ok := rule.Triggers[next.Label]; ok {
			return next, true
		}
	}
	return annotations.Event{}, false
}

// Interval is a closed exclusion range on one period's time axis
type Interval struct {
	Period int
	Start  float64
	End    float64
}

// IntervalSet answers containment queries against a set of exclusion intervals
type IntervalSet []Interval

// Excluded reports whether t falls inside any interval of the same period.
// Bounds are inclusive.
func (s IntervalSet) Excluded(period int, t float64) bool {
	for _, iv := range s {
		if iv.Period == period && t >= iv.Start && t <= iv.End {
			return true
		}
	}
	return false
}

// ExclusionIntervals builds [t-before, t+after] intervals around every event
// whose label is in the rule's outcome set. Starts clamp at zero.
func ExclusionIntervals(seq annotations.EventSequence, rule Rule) IntervalSet {
	var set IntervalSet
	for _, ev := range seq {
		if _, ok := rule.Outcomes[ev.Label]; !ok {
			continue
		}
		start := ev.Seconds - rule.Before
		if start < 0 {
			start = 0
		}
		set = append(set, Interval{
			Period: ev.Period,
			Start:  start,
			End:    ev.Seconds + rule.After,
		})
	}
	return set
}

// FilterExcluded returns the events from seq, restricted to candidates whose
// label is in the candidate set, that do not fall in any exclusion interval.
// Used for shots on target that were not immediately followed by a goal.
func FilterExcluded(seq annotations.EventSequence, candidates map[string]struct{}, exclude IntervalSet) annotations.EventSequence {
	var out annotations.EventSequence
	for _, ev := range seq {
		if _, ok := candidates[ev.Label]; !ok {
			continue
		}
		if exclude.Excluded(ev.Period, ev.Seconds) {
			continue
		}
		out = append(out, ev)
	}
	return out
}
