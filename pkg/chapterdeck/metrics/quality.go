package metrics

import (
	"sort"
	"strings"
	"unicode"

	"github.com/RodrigoGMGit/Graphs/pkg/chapterdeck/models"
	"github.com/RodrigoGMGit/Graphs/pkg/chapterdeck/source"
)

// Sheets of the quality workbook.
const (
	PasesSheet       = "Consolidado Pases"
	ReversionesSheet = "Consolidado Reversiones"
)

const (
	colQualityLeader = "Chapter leader"
	colQualitySquad  = "Squad"
	colQualityMonth  = "Mes"
)

// Months lists the month labels in calendar order.
var Months = []string{"Ene", "Feb", "Mar", "Abr", "May", "Jun", "Jul", "Ago", "Sep", "Oct", "Nov", "Dic"}

// "Set" is the Peruvian spelling of September.
var monthAliases = map[string]int{"SET": 8}

// MonthIndex returns the calendar position of a month cell ("Ene", "ENERO",
// "feb.") or -1 when it is not a month.
func MonthIndex(cell string) int {
	name := source.NormalizeName(cell)
	end := strings.IndexFunc(name, func(r rune) bool { return !unicode.IsLetter(r) })
	if end >= 0 {
		name = name[:end]
	}
	if len(name) < 3 {
		return -1
	}
	prefix := name[:3]
	for i, m := range Months {
		if strings.ToUpper(m) == prefix {
			return i
		}
	}
	if i, ok := monthAliases[prefix]; ok {
		return i
	}
	return -1
}

type squadMonth struct {
	squad string
	month int
}

// Quality counts passes and reversions per squad and month for leader.
// Rows are matched on the first word of the leader name. Months without any
// pass or reversion are omitted, as are rows with an unknown month or no squad.
// Squads are returned in name order with their months in calendar order.
func Quality(passes, reverts models.Frame, leader string) ([]models.SquadQuality, error) {
	m := NewLeaderMatcher(leader, FirstToken)

	passCounts, err := countBySquadMonth(passes, m)
	if err != nil {
		return nil, err
	}
	revertCounts, err := countBySquadMonth(reverts, m)
	if err != nil {
		return nil, err
	}

	bySquad := make(map[string]map[int]*models.MonthPoint)
	point := func(k squadMonth) *models.MonthPoint {
		months, ok := bySquad[k.squad]
		if !ok {
			months = make(map[int]*models.MonthPoint)
			bySquad[k.squad] = months
		}
		p, ok := months[k.month]
		if !ok {
			p = &models.MonthPoint{Month: Months[k.month]}
			months[k.month] = p
		}
		return p
	}
	for k, n := range passCounts {
		point(k).Passes += n
	}
	for k, n := range revertCounts {
		point(k).Reverts += n
	}

	squads := make([]string, 0, len(bySquad))
	for s := range bySquad {
		squads = append(squads, s)
	}
	sort.Strings(squads)

	var out []models.SquadQuality
	for _, s := range squads {
		sq := models.SquadQuality{Squad: s}
		for i := range Months {
			if p, ok := bySquad[s][i]; ok && p.Passes+p.Reverts > 0 {
				sq.Points = append(sq.Points, *p)
			}
		}
		if len(sq.Points) > 0 {
			out = append(out, sq)
		}
	}
	if len(out) == 0 {
		return nil, ErrNoData
	}
	return out, nil
}

// countBySquadMonth counts the leader's rows of f. A frame without columns
// (an empty sheet) counts nothing.
func countBySquadMonth(f models.Frame, m LeaderMatcher) (map[squadMonth]int, error) {
	counts := make(map[squadMonth]int)
	if len(f.Columns) == 0 {
		return counts, nil
	}
	f, err := byLeader(f, colQualityLeader, m)
	if err != nil {
		return nil, err
	}
	squadIdx, err := requireColumn(f, colQualitySquad)
	if err != nil {
		return nil, err
	}
	monthIdx, err := requireColumn(f, colQualityMonth)
	if err != nil {
		return nil, err
	}
	for _, row := range f.Rows {
		squad := strings.TrimSpace(row[squadIdx])
		month := MonthIndex(row[monthIdx])
		if squad == "" || month < 0 {
			continue
		}
		counts[squadMonth{squad, month}]++
	}
	return counts, nil
}
