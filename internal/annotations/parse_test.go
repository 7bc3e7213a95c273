package annotations

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	ev, err := Normalize(Record{GameTime: "1 - 12:34", Label: "Goal", Team: "home", Position: 754000})
	require.NoError(t, err)

	assert.Equal(t, 1, ev.Period)
	assert.Equal(t, float64(12*60+34), ev.Seconds)
	assert.Equal(t, "Goal", ev.Label)
	assert.Equal(t, TeamHome, ev.Team)
	assert.Equal(t, "1 - 12:34", ev.GameTime)
	assert.Equal(t, 754000, ev.Position)
}

func TestNormalizeTeamDefaultsToUnknown(t *testing.T) {
	ev, err := Normalize(Record{GameTime: "2 - 00:05", Label: "Foul"})
	require.NoError(t, err)
	assert.Equal(t, TeamUnknown, ev.Team)

	ev, err = Normalize(Record{GameTime: "2 - 00:05", Label: "Foul", Team: "referee"})
	require.NoError(t, err)
	assert.Equal(t, TeamUnknown, ev.Team)
}

func TestNormalizeRejectsMalformedTime(t *testing.T) {
	cases := []struct {
		name     string
		gameTime string
	}{
		{"missing", ""},
		{"no separator", "1 12:34"},
		{"bad period", "x - 12:34"},
		{"period zero", "0 - 12:34"},
		{"period three", "3 - 12:34"},
		{"no clock separator", "1 - 1234"},
		{"bad minutes", "1 - aa:34"},
		{"bad seconds", "1 - 12:bb"},
		{"negative minutes", "1 - -2:34"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Normalize(Record{GameTime: tc.gameTime, Label: "Goal"})
			require.Error(t, err)

			var parseErr *ParseError
			assert.True(t, errors.As(err, &parseErr), "expected *ParseError, got %T", err)
		})
	}
}

func TestNormalizeRejectsMissingLabel(t *testing.T) {
	_, err := Normalize(Record{GameTime: "1 - 12:34"})
	require.Error(t, err)
}

func TestDecodeLabelsPositionStringOrNumber(t *testing.T) {
	data := []byte(`{"annotations":[
		{"gameTime":"1 - 00:10","label":"Goal","team":"away","position":"10000"},
		{"gameTime":"1 - 00:20","label":"Foul","team":"home","position":20000}
	]}`)

	records, err := decodeLabels(data)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, flexibleInt(10000), records[0].Position)
	assert.Equal(t, flexibleInt(20000), records[1].Position)
}

func TestSortByTimeIsStableAcrossPeriods(t *testing.T) {
	seq := EventSequence{
		{Period: 2, Seconds: 10, Label: "a"},
		{Period: 1, Seconds: 500, Label: "b"},
		{Period: 1, Seconds: 100, Label: "c"},
		{Period: 1, Seconds: 100, Label: "d"}, // same timestamp as c, after in source
	}
	seq.SortByTime()

	labels := []string{seq[0].Label, seq[1].Label, seq[2].Label, seq[3].Label}
	assert.Equal(t, []string{"c", "d", "b", "a"}, labels)
}

func TestSortByPosition(t *testing.T) {
	seq := EventSequence{
		{Position: 300, Label: "late"},
		{Position: 100, Label: "early"},
		{Position: 200, Label: "mid"},
	}
	seq.SortByPosition()

	assert.Equal(t, "early", seq[0].Label)
	assert.Equal(t, "mid", seq[1].Label)
	assert.Equal(t, "late", seq[2].Label)
}
