package metrics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RodrigoGMGit/Graphs/pkg/chapterdeck/models"
)

const leader = "Anthony Jaesson Rojas Munares"

func frame(columns []string, rows ...[]string) models.Frame {
	return models.Frame{Source: "test.xlsx", Columns: columns, Rows: rows}
}

func TestLeaderMatcher(t *testing.T) {
	tests := []struct {
		mode MatchMode
		cell string
		want bool
	}{
		{Exact, "ANTHONY JAESSON ROJAS MUNARES", true},
		{Exact, " anthony  jaesson rojas munares ", true},
		{Exact, "ANTHONY JAESSON ROJAS", false},
		{Contains, "Líder: ANTHONY JAESSON ROJAS MUNARES (CL)", true},
		{Contains, "ANTHONY JAESSON", false},
		{FirstToken, "Anthony Pérez", true},
		{FirstToken, "Jaesson Rojas", false},
		{FirstTwoTokens, "ANTHONY JAESSON R.", true},
		{FirstTwoTokens, "ANTHONY PEREZ", false},
	}
	for _, tt := range tests {
		m := NewLeaderMatcher(leader, tt.mode)
		assert.Equal(t, tt.want, m.Match(tt.cell), "%s %q", tt.mode, tt.cell)
	}

	assert.False(t, NewLeaderMatcher("", Contains).Match("anything"))
	assert.Equal(t, "ANTHONY JAESSON", NewLeaderMatcher("Anthony Jaesson", FirstTwoTokens).Needle())
}

func TestMonthIndex(t *testing.T) {
	tests := map[string]int{
		"Ene":        0,
		"ENERO":      0,
		"feb.":       1,
		"Setiembre":  8,
		"Septiembre": 8,
		"Dic":        11,
		"2025-01":    -1,
		"":           -1,
		"Xyz":        -1,
	}
	for in, want := range tests {
		assert.Equal(t, want, MonthIndex(in), "MonthIndex(%q)", in)
	}
}

func TestQuality(t *testing.T) {
	cols := []string{"Chapter leader", "Squad", "Mes"}
	passes := frame(cols,
		[]string{"ANTHONY JAESSON", "Beta", "Feb"},
		[]string{"ANTHONY JAESSON", "Alpha", "Mar"},
		[]string{"ANTHONY JAESSON", "Alpha", "Ene"},
		[]string{"ANTHONY JAESSON", "Alpha", "Ene"},
		[]string{"MARIA LOPEZ", "Alpha", "Feb"},
		[]string{"ANTHONY JAESSON", "", "Feb"},
		[]string{"ANTHONY JAESSON", "Alpha", "Total"},
	)
	reverts := frame(cols,
		[]string{"anthony jaesson", "Alpha", "Mar"},
		[]string{"ANTHONY JAESSON", "Gamma", "Abr"},
	)

	got, err := Quality(passes, reverts, leader)
	require.NoError(t, err)
	want := []models.SquadQuality{
		{Squad: "Alpha", Points: []models.MonthPoint{
			{Month: "Ene", Passes: 2},
			{Month: "Mar", Passes: 1, Reverts: 1},
		}},
		{Squad: "Beta", Points: []models.MonthPoint{{Month: "Feb", Passes: 1}}},
		{Squad: "Gamma", Points: []models.MonthPoint{{Month: "Abr", Reverts: 1}}},
	}
	assert.Equal(t, want, got)

	_, err = Quality(passes, reverts, "Nadie Nadie")
	assert.ErrorIs(t, err, ErrNoData)

	// An empty reversions sheet still yields the passes.
	got, err = Quality(passes, models.Frame{}, leader)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	_, err = Quality(frame([]string{"Squad", "Mes"}), reverts, leader)
	assert.ErrorIs(t, err, ErrMissingColumn)
}

func TestDedication(t *testing.T) {
	f := frame([]string{"Nombre CL", "Nombres", "Dedicacion"},
		[]string{"ANTHONY JAESSON ROJAS MUNARES", "Ana", "1"},
		[]string{"ANTHONY JAESSON ROJAS MUNARES", "Ana", "0,5"},
		[]string{"Anthony Jaesson Rojas Munares", "Luis", "0.25"},
		[]string{"ANTHONY JAESSON ROJAS MUNARES", "Luis", "n/a"},
		[]string{"ANTHONY JAESSON", "Pedro", "1"},
		[]string{"OTRO CL", "Eva", "1"},
	)

	got, err := Dedication(f, leader)
	require.NoError(t, err)
	assert.Equal(t, []models.Average{
		{Label: "Luis", Value: 0.25},
		{Label: "Ana", Value: 0.75},
	}, got)

	_, err = Dedication(f, "Otro Leader")
	assert.ErrorIs(t, err, ErrNoData)

	_, err = Dedication(frame([]string{"Nombre CL", "Nombres"}), leader)
	assert.ErrorIs(t, err, ErrMissingColumn)
}

func TestMaturity(t *testing.T) {
	f := frame([]string{"Chapter Leader", "Squad Name", "LEP 1", "LEP 2", "Otro"},
		[]string{"ANTHONY JAESSON ROJAS MUNARES", "Alpha", "2", "4", "9"},
		[]string{"ANTHONY JAESSON ROJAS MUNARES", "Alpha", "4", "", "9"},
		[]string{"ANTHONY JAESSON ROJAS MUNARES / X", "Beta", "5", "5", "9"},
		[]string{"ANTHONY JAESSON ROJAS MUNARES", "Gamma", "", "", "9"},
		[]string{"OTRO", "Delta", "1", "1", "1"},
	)

	got, err := Maturity(f, leader)
	require.NoError(t, err)
	assert.Equal(t, []string{"LEP 1", "LEP 2"}, got.Metrics)
	require.Len(t, got.Squads, 3)
	assert.Equal(t, "Beta", got.Squads[0].Squad)
	assert.Equal(t, []float64{5, 5}, got.Squads[0].Scores)
	assert.Equal(t, "Alpha", got.Squads[1].Squad)
	assert.Equal(t, []float64{3, 4}, got.Squads[1].Scores)
	assert.Equal(t, "Gamma", got.Squads[2].Squad)
	assert.True(t, math.IsNaN(got.Squads[2].Scores[0]))

	_, err = Maturity(frame([]string{"Chapter Leader", "Squad"}, []string{"ANTHONY JAESSON ROJAS MUNARES", "A"}), leader)
	assert.ErrorIs(t, err, ErrMissingColumn)

	_, err = Maturity(frame([]string{"Chapter Leader", "Tribu", "LEP 1"}), leader)
	assert.ErrorIs(t, err, ErrMissingColumn)

	_, err = Maturity(f, "Nadie")
	assert.ErrorIs(t, err, ErrNoData)
}

func TestMaturitySquadColumnSheetOrder(t *testing.T) {
	f := frame([]string{"Chapter Leader", "SQUAD NAME", "SQ", "LEP_1"},
		[]string{"ANTHONY JAESSON ROJAS MUNARES", "Alpha", "S1", "3"},
		[]string{"ANTHONY JAESSON ROJAS MUNARES", "Beta", "S1", "4"},
	)

	got, err := Maturity(f, leader)
	require.NoError(t, err)
	require.Len(t, got.Squads, 2)
	assert.Equal(t, "Beta", got.Squads[0].Squad)
	assert.Equal(t, "Alpha", got.Squads[1].Squad)
}

func TestDevTime(t *testing.T) {
	f := frame([]string{"cl_dev", "Descripción tribu", "Descripción squad", "Tiempo Desarrollo"},
		[]string{"ANTHONY JAESSON ROJAS", "Canales", "Alpha", "10"},
		[]string{"ANTHONY JAESSON ROJAS", "Canales", "Beta", "20"},
		[]string{"ANTHONY JAESSON", "Pagos", "Gamma", "30"},
		[]string{"ANTHONY JAESSON", "Pagos", "Gamma", "-"},
		[]string{"MARIA", "Pagos", "Delta", "99"},
	)

	got, err := DevTime(f, leader)
	require.NoError(t, err)
	assert.Equal(t, []models.Average{{Label: "Pagos", Value: 30}, {Label: "Canales", Value: 15}}, got.ByTribu)
	assert.Equal(t, []models.Average{
		{Label: "Gamma", Value: 30},
		{Label: "Beta", Value: 20},
		{Label: "Alpha", Value: 10},
	}, got.BySquad)

	_, err = DevTime(f, "Maria Perez")
	assert.ErrorIs(t, err, ErrNoData)

	_, err = DevTime(frame([]string{"cl_dev"}), leader)
	assert.ErrorIs(t, err, ErrMissingColumn)
}
