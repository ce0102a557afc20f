package scoring

import "housecup/repository"

// pointTables lists the points for positions 1..4 of each table based regime.
var pointTables = map[repository.ScoringRegime][]int{
	repository.SingleMarks: {15, 12, 9, 6},
	repository.GroupMarks:  {25, 20, 15, 10},
	repository.VersusMarks: {30, 20, 15, 10},
}

// ValidRegime reports whether regime is one the engine knows how to score.
func ValidRegime(regime repository.ScoringRegime) bool {
	if regime == repository.ManualOverride {
		return true
	}
	_, ok := pointTables[regime]
	return ok
}

// PointsForPosition is total: unknown regimes, positions past the table and
// non-positive positions all score zero. manualPoints is only read for the
// manual-override regime and is expected to be validated by the caller.
func PointsForPosition(position int, regime repository.ScoringRegime, manualPoints int) int {
	if position < 1 {
		return 0
	}
	if regime == repository.ManualOverride {
		if position == 1 && manualPoints > 0 {
			return manualPoints
		}
		return 0
	}
	table, ok := pointTables[regime]
	if !ok || position > len(table) {
		return 0
	}
	return table[position-1]
}
