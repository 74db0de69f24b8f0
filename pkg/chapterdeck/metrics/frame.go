package metrics

import (
	"fmt"
	"sort"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/RodrigoGMGit/Graphs/pkg/chapterdeck/models"
	"github.com/RodrigoGMGit/Graphs/pkg/chapterdeck/parser"
	"github.com/RodrigoGMGit/Graphs/pkg/chapterdeck/source"
)

// column returns the index of the first of names present in f. Names are
// compared exactly, then case-insensitively, then without accents.
func column(f models.Frame, names ...string) int {
	for _, n := range names {
		if i := f.ColumnIndex(n); i >= 0 {
			return i
		}
	}
	for _, n := range names {
		want := source.NormalizeName(n)
		for i, c := range f.Columns {
			if source.NormalizeName(c) == want {
				return i
			}
		}
	}
	return -1
}

func requireColumn(f models.Frame, names ...string) (int, error) {
	i := column(f, names...)
	if i < 0 {
		return -1, fmt.Errorf("%w: %q in %s", ErrMissingColumn, names[0], describe(f))
	}
	return i, nil
}

func describe(f models.Frame) string {
	if f.Sheet == "" {
		return f.Source
	}
	return f.Source + "!" + f.Sheet
}

// byLeader keeps the rows of f whose leader column matches m.
func byLeader(f models.Frame, col string, m LeaderMatcher) (models.Frame, error) {
	idx, err := requireColumn(f, col)
	if err != nil {
		return models.Frame{}, err
	}
	return f.Filter(func(row []string) bool { return m.Match(row[idx]) }), nil
}

// groupMeans averages the numeric values of valIdx per non-empty key of keyIdx.
// Keys with no numeric value are dropped.
func groupMeans(f models.Frame, keyIdx, valIdx int) []models.Average {
	groups := make(map[string][]float64)
	var order []string
	for _, row := range f.Rows {
		key := strings.TrimSpace(row[keyIdx])
		if key == "" {
			continue
		}
		v, ok := parser.ParseNumber(row[valIdx])
		if !ok {
			continue
		}
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], v)
	}

	out := make([]models.Average, 0, len(order))
	for _, key := range order {
		out = append(out, models.Average{Label: key, Value: stat.Mean(groups[key], nil)})
	}
	return out
}

// sortAverages orders by value, breaking ties by label.
func sortAverages(avgs []models.Average, descending bool) {
	sort.SliceStable(avgs, func(i, j int) bool {
		if avgs[i].Value != avgs[j].Value {
			if descending {
				return avgs[i].Value > avgs[j].Value
			}
			return avgs[i].Value < avgs[j].Value
		}
		return avgs[i].Label < avgs[j].Label
	})
}
