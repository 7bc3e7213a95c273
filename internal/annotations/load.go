package annotations

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
)

// Load reads a Labels-v2.json file and normalizes its records into a
// time-sorted EventSequence. Records that fail to parse are skipped with a
// logged warning and counted in the second return; they never abort the game.
func Load(logger zerolog.Logger, path string) (EventSequence, int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read annotations %s: %w", path, err)
	}

	records, err := decodeLabels(data)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to decode annotations %s: %w", path, err)
	}

	skipped := 0
	seq := make(EventSequence, 0, len(records))
	for i, rec := range records {
		ev, err := Normalize(rec)
		if err != nil {
			logger.Warn().
				Err(err).
				Int("record", i).
				Str("label", rec.Label).
				Msg("skipping unparseable annotation")
			skipped++
			continue
		}
		seq = append(seq, ev)
	}

	seq.SortByTime()

	logger.Debug().
		Int("records", len(records)).
		Int("events", len(seq)).
		Int("skipped", skipped).
		Str("path", path).
		Msg("annotations loaded")

	return seq, skipped, nil
}
