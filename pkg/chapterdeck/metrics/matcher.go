// Package metrics aggregates the report sheets of one chapter leader into the
// series drawn on the deck: quality passes and reversions, dedication, LEP
// maturity and development time.
package metrics

import (
	"strings"

	"github.com/RodrigoGMGit/Graphs/pkg/chapterdeck/source"
)

// MatchMode selects how a leader name is compared with a sheet cell.
type MatchMode int

const (
	// Exact requires the normalized cell to equal the normalized name.
	Exact MatchMode = iota
	// Contains requires the normalized cell to contain the full normalized name.
	Contains
	// FirstToken requires the cell to contain the first word of the name.
	FirstToken
	// FirstTwoTokens requires the cell to contain the first two words of the name.
	FirstTwoTokens
)

func (m MatchMode) String() string {
	switch m {
	case Exact:
		return "exact"
	case Contains:
		return "contains"
	case FirstToken:
		return "first-token"
	case FirstTwoTokens:
		return "first-two-tokens"
	default:
		return "unknown"
	}
}

// LeaderMatcher tests sheet cells against a chapter leader name.
// Accents, case and repeated spaces are ignored on both sides.
type LeaderMatcher struct {
	Mode   MatchMode
	needle string
}

// NewLeaderMatcher returns a matcher for leader in the given mode.
func NewLeaderMatcher(leader string, mode MatchMode) LeaderMatcher {
	name := source.NormalizeName(leader)
	needle := name
	switch mode {
	case FirstToken:
		needle = firstTokens(name, 1)
	case FirstTwoTokens:
		needle = firstTokens(name, 2)
	}
	return LeaderMatcher{Mode: mode, needle: needle}
}

// Needle returns the normalized text cells are compared with.
func (m LeaderMatcher) Needle() string {
	return m.needle
}

// Match reports whether cell belongs to the leader. An empty name matches nothing.
func (m LeaderMatcher) Match(cell string) bool {
	if m.needle == "" {
		return false
	}
	v := source.NormalizeName(cell)
	if m.Mode == Exact {
		return v == m.needle
	}
	return strings.Contains(v, m.needle)
}

func firstTokens(name string, n int) string {
	fields := strings.Fields(name)
	if len(fields) > n {
		fields = fields[:n]
	}
	return strings.Join(fields, " ")
}
