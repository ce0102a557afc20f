package scoring

import (
	"sort"

	"housecup/registry"
	"housecup/repository"
)

const (
	// an official sealing more than this share of entries is flagged
	centralizationShare = 0.8

	// the share check needs more entries than this to mean anything
	centralizationMinEntries = 5

	// consecutive wins by one house before the run is flagged
	streakMinWins = 4
)

type SectorLeader struct {
	Sector registry.Sector `json:"sector"`
	// Leader is nil while the sector has no results.
	Leader *Standing `json:"leader"`
}

type HeavyOfficial struct {
	UserId  string  `json:"user_id"`
	Entries int     `json:"entries"`
	Share   float64 `json:"share"`
}

type WinStreak struct {
	HouseId   string `json:"house_id"`
	HouseName string `json:"house_name"`
	Wins      int    `json:"wins"`
}

// HouseTotal sums a house name over every sector it competes in.
type HouseTotal struct {
	HouseName   string `json:"house_name"`
	TotalPoints int    `json:"total_points"`
}

type LedgerAudit struct {
	Entries        int             `json:"entries"`
	Sectors        []SectorLeader  `json:"sectors"`
	HeavyOfficials []HeavyOfficial `json:"heavy_officials"`
	Streak         *WinStreak      `json:"streak"`
	GlobalLeader   *HouseTotal     `json:"global_leader"`
}

// Clean reports whether the audit raised no anomaly.
func (a *LedgerAudit) Clean() bool {
	return len(a.HeavyOfficials) == 0 && a.Streak == nil
}

// AuditLedger summarises the result ledger for review: the leading house of
// every sector, officials who sealed most of the entries, a run of recent wins
// by a single house and the house name leading across all sectors. It is a
// pure read of results and never mutates them.
func AuditLedger(results []*repository.Result) *LedgerAudit {
	audit := &LedgerAudit{
		Entries:        len(results),
		Sectors:        make([]SectorLeader, 0, len(registry.Sectors())),
		HeavyOfficials: make([]HeavyOfficial, 0),
	}
	for _, sector := range registry.Sectors() {
		leader := SectorLeader{Sector: sector}
		if hasSectorResults(sector, results) {
			leader.Leader = SectorStandings(sector, results)[0]
		}
		audit.Sectors = append(audit.Sectors, leader)
	}
	if len(results) == 0 {
		return audit
	}
	audit.HeavyOfficials = heavyOfficials(results)
	audit.Streak = winStreak(results)
	audit.GlobalLeader = globalLeader(results)
	return audit
}

func hasSectorResults(sector registry.Sector, results []*repository.Result) bool {
	for _, r := range results {
		if registry.InSector(r.HouseId, sector) {
			return true
		}
	}
	return false
}

func heavyOfficials(results []*repository.Result) []HeavyOfficial {
	out := make([]HeavyOfficial, 0)
	if len(results) <= centralizationMinEntries {
		return out
	}
	counts := make(map[string]int)
	for _, r := range results {
		counts[r.SealedBy]++
	}
	total := float64(len(results))
	for userId, n := range counts {
		if float64(n) > total*centralizationShare {
			out = append(out, HeavyOfficial{UserId: userId, Entries: n, Share: float64(n) / total})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Entries != out[j].Entries {
			return out[i].Entries > out[j].Entries
		}
		return out[i].UserId < out[j].UserId
	})
	return out
}

// winStreak walks the winners from the most recent seal backwards and
// returns the run of the latest winner when it reaches streakMinWins.
func winStreak(results []*repository.Result) *WinStreak {
	winners := make([]*repository.Result, 0)
	for _, r := range results {
		if r.Position == 1 {
			winners = append(winners, r)
		}
	}
	sort.Slice(winners, func(i, j int) bool {
		if !winners[i].SealedAt.Equal(winners[j].SealedAt) {
			return winners[i].SealedAt.After(winners[j].SealedAt)
		}
		return winners[i].MatchId > winners[j].MatchId
	})
	if len(winners) < streakMinWins {
		return nil
	}
	run := 1
	for run < len(winners) && winners[run].HouseId == winners[0].HouseId {
		run++
	}
	if run < streakMinWins {
		return nil
	}
	streak := &WinStreak{HouseId: winners[0].HouseId, Wins: run}
	if house, ok := registry.LookupHouse(streak.HouseId); ok {
		streak.HouseName = house.Name
	}
	return streak
}

// globalLeader groups by house name so the same house competing in several
// sectors is counted once. Ties go to the name that sorts first.
func globalLeader(results []*repository.Result) *HouseTotal {
	totals := make(map[string]int)
	for _, r := range results {
		name := "Unknown"
		if house, ok := registry.LookupHouse(r.HouseId); ok {
			name = house.Name
		}
		totals[name] += r.Points
	}
	var leader *HouseTotal
	for name, points := range totals {
		if leader == nil || points > leader.TotalPoints || (points == leader.TotalPoints && name < leader.HouseName) {
			leader = &HouseTotal{HouseName: name, TotalPoints: points}
		}
	}
	return leader
}
