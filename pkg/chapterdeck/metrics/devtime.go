package metrics

import (
	"github.com/RodrigoGMGit/Graphs/pkg/chapterdeck/models"
)

// DevTimeSheet is the sheet of the development-time workbook.
const DevTimeSheet = "Reporte Tiempo Desarrollo"

const (
	colDevTimeLeader = "cl_dev"
	colDevTime       = "Tiempo Desarrollo"
	colDevTimeTribu  = "Descripción tribu"
	colDevTimeSquad  = "Descripción squad"
)

// DevTime averages development days per tribu and per squad for leader,
// matched against "cl_dev" on the first two words of the name. Non-numeric
// times are ignored. Both lists are sorted by descending mean.
func DevTime(f models.Frame, leader string) (models.DevTime, error) {
	f, err := byLeader(f, colDevTimeLeader, NewLeaderMatcher(leader, FirstTwoTokens))
	if err != nil {
		return models.DevTime{}, err
	}
	valueIdx, err := requireColumn(f, colDevTime)
	if err != nil {
		return models.DevTime{}, err
	}
	tribuIdx, err := requireColumn(f, colDevTimeTribu)
	if err != nil {
		return models.DevTime{}, err
	}
	squadIdx, err := requireColumn(f, colDevTimeSquad)
	if err != nil {
		return models.DevTime{}, err
	}

	dt := models.DevTime{
		ByTribu: groupMeans(f, tribuIdx, valueIdx),
		BySquad: groupMeans(f, squadIdx, valueIdx),
	}
	if len(dt.ByTribu) == 0 && len(dt.BySquad) == 0 {
		return models.DevTime{}, ErrNoData
	}
	sortAverages(dt.ByTribu, true)
	sortAverages(dt.BySquad, true)
	return dt, nil
}
