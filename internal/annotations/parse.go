package annotations

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Record is one raw annotation as it appears in Labels-v2.json.
// Position arrives as either a JSON string or a number depending on the
// annotation vintage, so it gets a tolerant unmarshal.
type Record struct {
	GameTime string      `json:"gameTime"`
	Label    string      `json:"label"`
	Team     string      `json:"team"`
	Position flexibleInt `json:"position"`
}

type flexibleInt int

func (f *flexibleInt) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("position is not an integer: %q", s)
	}
	*f = flexibleInt(n)
	return nil
}

// ParseError reports a record that could not be normalized
type ParseError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("annotation parse error: field %q value %q: %s", e.Field, e.Value, e.Reason)
}

// Normalize converts a raw record into an Event. The time field must be of
// the form "<period> - MM:SS" with an integral period, minutes and seconds.
// A missing team is not an error and defaults to unknown.
func Normalize(rec Record) (Event, error) {
	period, seconds, err := parseGameTime(rec.GameTime)
	if err != nil {
		return Event{}, err
	}
	if rec.Label == "" {
		return Event{}, &ParseError{Field: "label", Value: "", Reason: "missing"}
	}

	return Event{
		Period:   period,
		Seconds:  seconds,
		Label:    rec.Label,
		Team:     normalizeTeam(rec.Team),
		GameTime: rec.GameTime,
		Position: int(rec.Position),
	}, nil
}

func parseGameTime(s string) (int, float64, error) {
	if s == "" {
		return 0, 0, &ParseError{Field: "gameTime", Value: s, Reason: "missing"}
	}

	parts := strings.SplitN(s, " - ", 2)
	if len(parts) != 2 {
		return 0, 0, &ParseError{Field: "gameTime", Value: s, Reason: "expected \"<period> - MM:SS\""}
	}

	period, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, &ParseError{Field: "gameTime", Value: s, Reason: "period is not an integer"}
	}
	if period != 1 && period != 2 {
		return 0, 0, &ParseError{Field: "gameTime", Value: s, Reason: fmt.Sprintf("period %d out of range", period)}
	}

	clock := strings.SplitN(strings.TrimSpace(parts[1]), ":", 2)
	if len(clock) != 2 {
		return 0, 0, &ParseError{Field: "gameTime", Value: s, Reason: "clock is not MM:SS"}
	}
	minutes, err := strconv.Atoi(clock[0])
	if err != nil {
		return 0, 0, &ParseError{Field: "gameTime", Value: s, Reason: "minutes are not an integer"}
	}
	secs, err := strconv.Atoi(clock[1])
	if err != nil {
		return 0, 0, &ParseError{Field: "gameTime", Value: s, Reason: "seconds are not an integer"}
	}
	if minutes < 0 || secs < 0 {
		return 0, 0, &ParseError{Field: "gameTime", Value: s, Reason: "negative clock"}
	}

	return period, float64(minutes*60 + secs), nil
}

func normalizeTeam(s string) Team {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "home":
		return TeamHome
	case "away":
		return TeamAway
	default:
		return TeamUnknown
	}
}

// labelsFile matches the Labels-v2.json document structure
type labelsFile struct {
	Annotations []Record `json:"annotations"`
}

func decodeLabels(data []byte) ([]Record, error) {
	var doc labelsFile
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse annotations: %w", err)
	}
	return doc.Annotations, nil
}
