package repository

import (
	"time"

	"housecup/registry"
)

type MatchStatus string

const (
	StatusScheduled MatchStatus = "scheduled"
	StatusLive      MatchStatus = "live"
	StatusPaused    MatchStatus = "paused"
	StatusFinished  MatchStatus = "finished"
	StatusCancelled MatchStatus = "cancelled"
)

func (s MatchStatus) Terminal() bool {
	return s == StatusFinished || s == StatusCancelled
}

// InPlay is true while the match accepts score and officiating commands.
func (s MatchStatus) InPlay() bool {
	return s == StatusLive || s == StatusPaused
}

type ScoringRegime string

const (
	SingleMarks    ScoringRegime = "single-marks"
	GroupMarks     ScoringRegime = "group-marks"
	ManualOverride ScoringRegime = "manual-override"
	VersusMarks    ScoringRegime = "versus-marks"
)

type EventCategory string

const (
	CategoryTrack      EventCategory = "Track"
	CategoryField      EventCategory = "Field"
	CategoryTeam       EventCategory = "Team"
	CategoryIndividual EventCategory = "Individual_Sport"
)

// MatchMetadata is stored as a json column. Scores is only used by
// multi-house matches; head-to-head matches keep their scores in ScoreA/B.
type MatchMetadata struct {
	Participants []string       `json:"participants"`
	Scores       map[string]int `json:"scores"`
	ElapsedMs    *int64         `json:"elapsed_ms,omitempty"`
}

type Match struct {
	Id                    string          `gorm:"primaryKey" json:"id"`
	Sector                registry.Sector `gorm:"not null;index" json:"sector"`
	Name                  string          `gorm:"not null" json:"name"`
	Description           string          `gorm:"null" json:"description,omitempty"`
	Category              EventCategory   `gorm:"null" json:"category,omitempty"`
	KickoffAt             *time.Time      `gorm:"null" json:"kickoff_at"`
	DurationMinutes       int             `gorm:"not null;default:0" json:"duration_minutes"`
	Status                MatchStatus     `gorm:"not null;index" json:"status"`
	HouseA                *string         `gorm:"null" json:"house_a,omitempty"`
	HouseB                *string         `gorm:"null" json:"house_b,omitempty"`
	ScoreA                int             `gorm:"not null;default:0" json:"score_a"`
	ScoreB                int             `gorm:"not null;default:0" json:"score_b"`
	Metadata              MatchMetadata   `gorm:"serializer:json;type:jsonb" json:"metadata"`
	Regime                ScoringRegime   `gorm:"not null" json:"scoring_regime"`
	ManualPoints          int             `gorm:"not null;default:0" json:"manual_points"`
	Version               int             `gorm:"not null" json:"version"`
	PresidingOfficialId   *string         `gorm:"null" json:"presiding_official_id,omitempty"`
	PresidingOfficialName *string         `gorm:"null" json:"presiding_official_name,omitempty"`
	StartedAt             *time.Time      `gorm:"null" json:"started_at,omitempty"`
	CreatedAt             time.Time       `gorm:"not null" json:"created_at"`
	SealedBy              *string         `gorm:"null" json:"sealed_by,omitempty"`
	SealedAt              *time.Time      `gorm:"null" json:"sealed_at,omitempty"`
	WinningHouseId        *string         `gorm:"null" json:"winning_house_id,omitempty"`
	IsManualOverride      bool            `gorm:"not null;default:false" json:"is_manual_override"`
}

// HeadToHead reports whether the match uses the two fixed slots.
func (m *Match) HeadToHead() bool {
	return m.HouseA != nil && *m.HouseA != "" && m.HouseB != nil && *m.HouseB != ""
}

// Participants lists every house taking part, fixed slots first.
func (m *Match) Participants() []string {
	if m.HeadToHead() {
		return []string{*m.HouseA, *m.HouseB}
	}
	return append([]string(nil), m.Metadata.Participants...)
}

// ScoreOf returns the running score for houseId; ok is false if the house is
// not a participant.
func (m *Match) ScoreOf(houseId string) (int, bool) {
	switch {
	case m.HouseA != nil && *m.HouseA == houseId:
		return m.ScoreA, true
	case m.HouseB != nil && *m.HouseB == houseId:
		return m.ScoreB, true
	}
	for _, p := range m.Metadata.Participants {
		if p == houseId {
			return m.Metadata.Scores[houseId], true
		}
	}
	return 0, false
}

// PresidedBy reports whether officialId currently presides over the match.
func (m *Match) PresidedBy(officialId string) bool {
	return m.PresidingOfficialId != nil && *m.PresidingOfficialId == officialId
}

// Clone returns a deep copy so transitions never alias the stored row.
func (m *Match) Clone() *Match {
	c := *m
	c.HouseA = clonePtr(m.HouseA)
	c.HouseB = clonePtr(m.HouseB)
	c.KickoffAt = clonePtr(m.KickoffAt)
	c.PresidingOfficialId = clonePtr(m.PresidingOfficialId)
	c.PresidingOfficialName = clonePtr(m.PresidingOfficialName)
	c.StartedAt = clonePtr(m.StartedAt)
	c.SealedBy = clonePtr(m.SealedBy)
	c.SealedAt = clonePtr(m.SealedAt)
	c.WinningHouseId = clonePtr(m.WinningHouseId)
	c.Metadata.Participants = append([]string(nil), m.Metadata.Participants...)
	c.Metadata.ElapsedMs = clonePtr(m.Metadata.ElapsedMs)
	if m.Metadata.Scores != nil {
		c.Metadata.Scores = make(map[string]int, len(m.Metadata.Scores))
		for k, v := range m.Metadata.Scores {
			c.Metadata.Scores[k] = v
		}
	}
	return &c
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Result is one immutable ledger row written when a match is sealed.
type Result struct {
	MatchId  string          `gorm:"primaryKey;uniqueIndex:idx_result_match_position,priority:1" json:"match_id"`
	HouseId  string          `gorm:"primaryKey" json:"house_id"`
	Sector   registry.Sector `gorm:"not null;index" json:"sector"`
	Position int             `gorm:"not null;uniqueIndex:idx_result_match_position,priority:2" json:"position"`
	Points   int             `gorm:"not null" json:"points"`
	Regime   ScoringRegime   `gorm:"not null" json:"scoring_regime"`
	SealedBy string          `gorm:"not null" json:"sealed_by"`
	SealedAt time.Time       `gorm:"not null" json:"sealed_at"`
}

type Profile struct {
	Id     string          `gorm:"primaryKey" json:"id"`
	Name   string          `gorm:"not null" json:"name"`
	Role   string          `gorm:"not null" json:"role"`
	Sector registry.Sector `gorm:"null" json:"sector"`
}
