// Package registry holds the static reference data of the tournament: the
// sectors (school arms) and the houses competing in each of them.
package registry

import (
	"sort"
	"strings"
)

type Sector string

const (
	UPSS Sector = "UPSS"
	CAM  Sector = "CAM"
	CAGS Sector = "CAGS"
	// Global is only a scope claim; no house or match belongs to it.
	Global Sector = "GLOBAL"
)

type House struct {
	Id     string `json:"id"`
	Name   string `json:"name"`
	Color  string `json:"color"`
	Sector Sector `json:"sector"`
	Mascot string `json:"mascot"`
	Motto  string `json:"motto"`
}

var sectors = []Sector{UPSS, CAM, CAGS}

var houses = []House{
	{Id: "u1", Name: "Pinnacle Panthers", Color: "#3B82F6", Sector: UPSS, Mascot: "Panther", Motto: "Pinnacle of Speed"},
	{Id: "u2", Name: "Victory Vikings", Color: "#EF4444", Sector: UPSS, Mascot: "Viking", Motto: "Victory or Valhalla"},
	{Id: "u3", Name: "Harmony Hawks", Color: "#EAB308", Sector: UPSS, Mascot: "Hawk", Motto: "Visionary Harmony"},
	{Id: "u4", Name: "Unity Unicorns", Color: "#FFFFFF", Sector: UPSS, Mascot: "Unicorn", Motto: "One Spirit"},
	{Id: "c1", Name: "Pinnacle Panthers", Color: "#3B82F6", Sector: CAM, Mascot: "Panther", Motto: "Pinnacle of Speed"},
	{Id: "c2", Name: "Victory Vikings", Color: "#EF4444", Sector: CAM, Mascot: "Viking", Motto: "Victory or Valhalla"},
	{Id: "c3", Name: "Harmony Hawks", Color: "#EAB308", Sector: CAM, Mascot: "Hawk", Motto: "Visionary Harmony"},
	{Id: "c4", Name: "Unity Unicorns", Color: "#FFFFFF", Sector: CAM, Mascot: "Unicorn", Motto: "One Spirit"},
	{Id: "g1", Name: "Pinnacle Panthers", Color: "#3B82F6", Sector: CAGS, Mascot: "Panther", Motto: "Pinnacle of Speed"},
	{Id: "g2", Name: "Victory Vikings", Color: "#EF4444", Sector: CAGS, Mascot: "Viking", Motto: "Victory or Valhalla"},
	{Id: "g3", Name: "Harmony Hawks", Color: "#EAB308", Sector: CAGS, Mascot: "Hawk", Motto: "Visionary Harmony"},
	{Id: "g4", Name: "Unity Unicorns", Color: "#FFFFFF", Sector: CAGS, Mascot: "Unicorn", Motto: "One Spirit"},
}

var houseIndex = func() map[string]House {
	index := make(map[string]House, len(houses))
	for _, h := range houses {
		index[h.Id] = h
	}
	return index
}()

// Sectors returns the competing sectors. Global is not included.
func Sectors() []Sector {
	return append([]Sector(nil), sectors...)
}

// ParseSector accepts any casing; ok is false for unknown values.
func ParseSector(s string) (Sector, bool) {
	sector := Sector(strings.ToUpper(strings.TrimSpace(s)))
	if sector == Global {
		return Global, true
	}
	for _, known := range sectors {
		if known == sector {
			return sector, true
		}
	}
	return "", false
}

// Houses returns every house ordered by id.
func Houses() []House {
	out := append([]House(nil), houses...)
	sort.Slice(out, func(i, j int) bool { return out[i].Id < out[j].Id })
	return out
}

func HousesInSector(sector Sector) []House {
	out := make([]House, 0, 4)
	for _, h := range Houses() {
		if h.Sector == sector {
			out = append(out, h)
		}
	}
	return out
}

func LookupHouse(id string) (House, bool) {
	h, ok := houseIndex[id]
	return h, ok
}

// InSector reports whether houseId is a house of sector.
func InSector(houseId string, sector Sector) bool {
	h, ok := houseIndex[houseId]
	return ok && h.Sector == sector
}
