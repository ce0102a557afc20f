package controller

import (
	"time"

	"housecup/registry"
	"housecup/repository"
	"housecup/scoring"
	"housecup/service"
)

type VersionRequest struct {
	Version int `json:"version" binding:"required"`
}

type ScoreRequest struct {
	Version int    `json:"version" binding:"required"`
	HouseId string `json:"house_id" binding:"required"`
	Delta   int    `json:"delta"`
}

type ClockResponse struct {
	Status      repository.MatchStatus `json:"status"`
	ElapsedMs   int64                  `json:"elapsed_ms"`
	RemainingMs int64                  `json:"remaining_ms"`
	Running     bool                   `json:"running"`
	ServerTime  time.Time              `json:"server_time"`
}

type SectorResponse struct {
	Sector registry.Sector  `json:"sector"`
	Houses []registry.House `json:"houses"`
}

type FlushResponse struct {
	Flushed int `json:"flushed"`
	Dropped int `json:"dropped"`
	Pending int `json:"pending"`
}

type MatchListResponse = service.MatchListing

func toClockResponse(m *repository.Match, now time.Time) *ClockResponse {
	return &ClockResponse{
		Status:      m.Status,
		ElapsedMs:   scoring.Elapsed(m, now).Milliseconds(),
		RemainingMs: scoring.Remaining(m, now).Milliseconds(),
		Running:     m.Status == repository.StatusLive,
		ServerTime:  now,
	}
}

func toSectorResponse(sector registry.Sector) *SectorResponse {
	return &SectorResponse{Sector: sector, Houses: registry.HousesInSector(sector)}
}
