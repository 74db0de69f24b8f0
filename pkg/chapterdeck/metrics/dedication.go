package metrics

import (
	"github.com/RodrigoGMGit/Graphs/pkg/chapterdeck/models"
)

const (
	colDedicationLeader = "Nombre CL"
	colDedicationMember = "Nombres"
	colDedication       = "Dedicación"
)

// Dedication averages the dedication of each team member of leader, whose
// name must equal the "Nombre CL" cell. Members are sorted by ascending mean.
func Dedication(f models.Frame, leader string) ([]models.Average, error) {
	f, err := byLeader(f, colDedicationLeader, NewLeaderMatcher(leader, Exact))
	if err != nil {
		return nil, err
	}
	memberIdx, err := requireColumn(f, colDedicationMember)
	if err != nil {
		return nil, err
	}
	valueIdx, err := requireColumn(f, colDedication)
	if err != nil {
		return nil, err
	}

	avgs := groupMeans(f, memberIdx, valueIdx)
	if len(avgs) == 0 {
		return nil, ErrNoData
	}
	sortAverages(avgs, false)
	return avgs, nil
}
