package clips

import (
	"fmt"
	"strings"
)

// AnchorPolicy fixes which end of a clip the anchor timestamp pins down
type AnchorPolicy int

const (
	// EndAnchored clips end just before the anchor instant
	EndAnchored AnchorPolicy = iota
	// StartAnchored clips start Duration seconds before the anchor and run
	// forward through it
	StartAnchored
)

func (p AnchorPolicy) String() string {
	if p == EndAnchored {
		return "end_anchored"
	}
	return "start_anchored"
}

// Request is a clip to be planned against a period video. Key is the
// deterministic identity used for output naming and idempotence.
type Request struct {
	Period   int
	Anchor   float64 // seconds within the period
	Duration float64
	Policy   AnchorPolicy
	Key      string
}

// Spec is a planned interval after clamping to the video bounds
type Spec struct {
	Period   int
	Start    float64
	Duration float64
}

// Key builds the identity string for one clip: game name, rule kind, ordinal,
// period, then any timestamp parts. Stable across runs for the same inputs.
func Key(game, kind string, n, period int, stamps ...string) string {
	parts := []string{game, kind, fmt.Sprintf("%d", n), fmt.Sprintf("period%d", period)}
	parts = append(parts, stamps...)
	return strings.Join(parts, "_")
}
