package correlate

import (
	"github.com/JulienMP/matchclips/internal/annotations"
)

// penaltyFollowupScan is how many later events to inspect after a foul when a
// game has no explicit Penalty annotations.
const penaltyFollowupScan = 4

// PenaltyCandidates returns the events to anchor penalty clips on. Explicit
// Penalty annotations win; when a game has none, fouls followed within the
// next few position-ordered events by a Penalty or Direct free-kick are used
// instead, anchoring on the foul that likely drew the penalty.
func PenaltyCandidates(seq annotations.EventSequence) annotations.EventSequence {
	penalties := seq.ByLabel(annotations.LabelSet(annotations.LabelPenalty))
	if len(penalties) > 0 {
		return penalties
	}

	ordered := make(annotations.EventSequence, len(seq))
	copy(ordered, seq)
	ordered.SortByPosition()

	followups := annotations.LabelSet(annotations.LabelPenalty, annotations.LabelDirectFreeKick)

	var out annotations.EventSequence
	for i, ev := range ordered {
		if ev.Label != annotations.LabelFoul {
			continue
		}
		for j := i + 1; j <= i+penaltyFollowupScan && j < len(ordered); j++ {
			if _, ok := followups[ordered[j].Label]; ok {
				out = append(out, ev)
				break
			}
		}
	}
	return out
}
