package metrics

import (
	"fmt"
	"math"
	"slices"
	"sort"
	"strings"

	"github.com/RodrigoGMGit/Graphs/pkg/chapterdeck/models"
	"github.com/RodrigoGMGit/Graphs/pkg/chapterdeck/parser"
	"github.com/RodrigoGMGit/Graphs/pkg/chapterdeck/source"
)

const (
	colMaturityLeader = "Chapter Leader"
	lepPrefix         = "LEP"
)

// SquadColumns are the accepted names of the squad column of the maturity sheet.
var SquadColumns = []string{"SQ", "SQUAD", "SQUAD NAME", "NOMBRE SQUAD"}

// Maturity averages every LEP column per squad for leader, matched against
// "Chapter Leader" by full name containment. A squad without any value in a
// metric gets NaN there. Squads are ordered by the mean of their metric means,
// highest first.
func Maturity(f models.Frame, leader string) (models.MaturityTable, error) {
	f, err := byLeader(f, colMaturityLeader, NewLeaderMatcher(leader, Contains))
	if err != nil {
		return models.MaturityTable{}, err
	}

	var lepIdx []int
	var table models.MaturityTable
	for i, c := range f.Columns {
		if strings.HasPrefix(strings.TrimSpace(c), lepPrefix) {
			lepIdx = append(lepIdx, i)
			table.Metrics = append(table.Metrics, strings.TrimSpace(c))
		}
	}
	if len(lepIdx) == 0 {
		return models.MaturityTable{}, fmt.Errorf("%w: %s* in %s", ErrMissingColumn, lepPrefix, describe(f))
	}
	squadIdx := squadColumn(f)
	if squadIdx < 0 {
		return models.MaturityTable{}, fmt.Errorf("%w: squad in %s", ErrMissingColumn, describe(f))
	}

	type acc struct {
		sum []float64
		n   []int
	}
	groups := make(map[string]*acc)
	var order []string
	for _, row := range f.Rows {
		squad := strings.TrimSpace(row[squadIdx])
		if squad == "" {
			continue
		}
		a, ok := groups[squad]
		if !ok {
			a = &acc{sum: make([]float64, len(lepIdx)), n: make([]int, len(lepIdx))}
			groups[squad] = a
			order = append(order, squad)
		}
		for j, idx := range lepIdx {
			if v, ok := parser.ParseNumber(row[idx]); ok {
				a.sum[j] += v
				a.n[j]++
			}
		}
	}
	if len(order) == 0 {
		return models.MaturityTable{}, ErrNoData
	}

	overall := make(map[string]float64, len(order))
	for _, squad := range order {
		a := groups[squad]
		scores := make([]float64, len(lepIdx))
		for j := range scores {
			if a.n[j] == 0 {
				scores[j] = math.NaN()
				continue
			}
			scores[j] = a.sum[j] / float64(a.n[j])
		}
		overall[squad] = nanMean(scores)
		table.Squads = append(table.Squads, models.SquadScores{Squad: squad, Scores: scores})
	}

	sort.SliceStable(table.Squads, func(i, j int) bool {
		a, b := overall[table.Squads[i].Squad], overall[table.Squads[j].Squad]
		switch {
		case math.IsNaN(a) != math.IsNaN(b):
			return !math.IsNaN(a)
		case a != b && !math.IsNaN(a):
			return a > b
		}
		return table.Squads[i].Squad < table.Squads[j].Squad
	})
	return table, nil
}

// squadColumn returns the first column, in sheet order, named like a squad.
func squadColumn(f models.Frame) int {
	for i, c := range f.Columns {
		if slices.Contains(SquadColumns, source.NormalizeName(c)) {
			return i
		}
	}
	return -1
}

// nanMean averages the non-NaN values of xs, or returns NaN if there are none.
func nanMean(xs []float64) float64 {
	var sum float64
	var n int
	for _, x := range xs {
		if !math.IsNaN(x) {
			sum += x
			n++
		}
	}
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}
