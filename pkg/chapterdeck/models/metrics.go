package models

// MonthPoint is the pass/revert count of one squad in one month.
type MonthPoint struct {
	// Month is the Spanish month abbreviation (Ene … Dic).
	Month string `json:"month"`
	// Passes is the number of production passes.
	Passes int `json:"passes"`
	// Reverts is the number of reversions.
	Reverts int `json:"reverts"`
}

// SquadQuality is the month series of one squad.
type SquadQuality struct {
	Squad  string       `json:"squad"`
	Points []MonthPoint `json:"points"`
}

// Average is a labelled mean value.
type Average struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// SquadScores holds the mean of each LEP metric for one squad.
type SquadScores struct {
	Squad string `json:"squad"`
	// Scores is aligned with MaturityTable.Metrics.
	Scores []float64 `json:"scores"`
}

// MaturityTable holds LEP averages per squad, ordered by overall mean descending.
type MaturityTable struct {
	Metrics []string      `json:"metrics"`
	Squads  []SquadScores `json:"squads"`
}

// DevTime holds development-time averages per tribu and per squad.
type DevTime struct {
	ByTribu []Average `json:"by_tribu"`
	BySquad []Average `json:"by_squad"`
}
