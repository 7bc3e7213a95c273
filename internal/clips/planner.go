package clips

import (
	"errors"
	"fmt"
	"math"
)

// MinClipSeconds is the shortest clip worth extracting. Anything shorter
// after clamping sits too close to a period boundary to be meaningful.
const MinClipSeconds = 1.0

// ErrClipTooShort rejects a request whose clamped duration fell below
// MinClipSeconds. Dropped and reported, never fatal.
var ErrClipTooShort = errors.New("planned clip shorter than minimum")

// Plan resolves a request into a concrete interval, clamped to
// [0, videoDuration]. videoDuration <= 0 means the duration is unknown and
// only the zero bound is applied.
func Plan(req Request, videoDuration float64) (Spec, error) {
	var start, end float64

	switch req.Policy {
	case EndAnchored:
		// Step back infinitesimally from the anchor so the clip never
		// includes the outcome instant itself.
		start = math.Max(0, req.Anchor-req.Duration)
		end = math.Nextafter(req.Anchor, req.Anchor-1)
		if videoDuration > 0 && end > videoDuration {
			end = videoDuration
		}
	case StartAnchored:
		start = math.Max(0, req.Anchor-req.Duration)
		end = start + req.Duration
		if videoDuration > 0 && end > videoDuration {
			end = videoDuration
		}
	default:
		return Spec{}, fmt.Errorf("unknown anchor policy %d", req.Policy)
	}

	actual := end - start
	if actual < MinClipSeconds {
		return Spec{}, fmt.Errorf("%w: %.2fs for %s", ErrClipTooShort, actual, req.Key)
	}

	return Spec{
		Period:   req.Period,
		Start:    start,
		Duration: actual,
	}, nil
}
