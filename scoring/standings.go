package scoring

import (
	"sort"

	"housecup/registry"
	"housecup/repository"
)

type Standing struct {
	HouseId     string          `json:"house_id"`
	HouseName   string          `json:"house_name"`
	Sector      registry.Sector `json:"sector"`
	Color       string          `json:"color"`
	Gold        int             `json:"gold"`
	Silver      int             `json:"silver"`
	Bronze      int             `json:"bronze"`
	Fourth      int             `json:"fourth"`
	TotalPoints int             `json:"total_points"`
	Rank        int             `json:"rank"`
}

// ComputeStandings folds the result ledger onto houses. Results for houses
// not in the list are ignored, so the same ledger can be projected onto a
// single sector or onto every house.
func ComputeStandings(houses []registry.House, results []*repository.Result) []*Standing {
	byHouse := make(map[string]*Standing, len(houses))
	standings := make([]*Standing, 0, len(houses))
	for _, house := range houses {
		if _, ok := byHouse[house.Id]; ok {
			continue
		}
		s := &Standing{
			HouseId:   house.Id,
			HouseName: house.Name,
			Sector:    house.Sector,
			Color:     house.Color,
		}
		byHouse[house.Id] = s
		standings = append(standings, s)
	}
	for _, result := range results {
		s, ok := byHouse[result.HouseId]
		if !ok {
			continue
		}
		s.TotalPoints += result.Points
		switch result.Position {
		case 1:
			s.Gold++
		case 2:
			s.Silver++
		case 3:
			s.Bronze++
		case 4:
			s.Fourth++
		}
	}
	Rank(standings)
	return standings
}

// Rank sorts by total points descending, house id ascending, and assigns
// 1-based ranks. Ties never share a rank.
func Rank(standings []*Standing) {
	sort.Slice(standings, func(i, j int) bool {
		if standings[i].TotalPoints != standings[j].TotalPoints {
			return standings[i].TotalPoints > standings[j].TotalPoints
		}
		return standings[i].HouseId < standings[j].HouseId
	})
	for i, s := range standings {
		s.Rank = i + 1
	}
}

// SectorStandings projects the ledger onto the houses of one sector. The
// Global scope projects onto every house.
func SectorStandings(sector registry.Sector, results []*repository.Result) []*Standing {
	if sector == registry.Global || sector == "" {
		return ComputeStandings(registry.Houses(), results)
	}
	return ComputeStandings(registry.HousesInSector(sector), results)
}
