package service

import (
	"time"

	"housecup/app_error"
	"housecup/auth"
	"housecup/repository"
	"housecup/scoring"
)

// The transition functions mutate a copy of the stored match in place. They
// never touch the version; the store does that on a successful write.

func launch(m *repository.Match, official auth.Session, now time.Time) error {
	if m.Status != repository.StatusScheduled {
		return app_error.ErrInvalidStatus
	}
	m.Status = repository.StatusLive
	m.StartedAt = &now
	m.Metadata.ElapsedMs = nil
	preside(m, official)
	resetScores(m)
	return nil
}

func pause(m *repository.Match, official auth.Session, now time.Time) error {
	if m.Status != repository.StatusLive {
		return app_error.ErrInvalidStatus
	}
	if !m.PresidedBy(official.UserId) {
		return app_error.ErrNotPresiding
	}
	elapsed := scoring.FreezeElapsed(m.StartedAt, now)
	m.Metadata.ElapsedMs = &elapsed
	m.Status = repository.StatusPaused
	return nil
}

func resume(m *repository.Match, official auth.Session, now time.Time) error {
	if m.Status != repository.StatusPaused {
		return app_error.ErrInvalidStatus
	}
	if !m.PresidedBy(official.UserId) {
		return app_error.ErrNotPresiding
	}
	anchor := scoring.ResumeAnchor(m.Metadata.ElapsedMs, now)
	m.StartedAt = &anchor
	m.Metadata.ElapsedMs = nil
	m.Status = repository.StatusLive
	return nil
}

func takeCommand(m *repository.Match, official auth.Session) error {
	if !m.Status.InPlay() {
		return app_error.ErrInvalidStatus
	}
	preside(m, official)
	return nil
}

func adjustScore(m *repository.Match, official auth.Session, houseId string, delta int) error {
	if !m.Status.InPlay() {
		return app_error.ErrInvalidStatus
	}
	if !m.PresidedBy(official.UserId) {
		return app_error.ErrNotPresiding
	}
	if delta == 0 {
		return app_error.Validation("score delta must not be zero")
	}
	current, ok := m.ScoreOf(houseId)
	if !ok {
		return app_error.ErrUnknownParticipant
	}
	next := current + delta
	if next < 0 {
		next = 0
	}
	switch {
	case m.HouseA != nil && *m.HouseA == houseId:
		m.ScoreA = next
	case m.HouseB != nil && *m.HouseB == houseId:
		m.ScoreB = next
	default:
		if m.Metadata.Scores == nil {
			m.Metadata.Scores = make(map[string]int)
		}
		m.Metadata.Scores[houseId] = next
	}
	return nil
}

func cancelMatch(m *repository.Match) error {
	if m.Status.Terminal() {
		return app_error.ErrInvalidStatus
	}
	m.Status = repository.StatusCancelled
	return nil
}

func preside(m *repository.Match, official auth.Session) {
	id, name := official.UserId, official.Name
	m.PresidingOfficialId = &id
	m.PresidingOfficialName = &name
}

func resetScores(m *repository.Match) {
	m.ScoreA, m.ScoreB = 0, 0
	if m.HeadToHead() {
		m.Metadata.Scores = nil
		return
	}
	participants := m.Participants()
	m.Metadata.Scores = make(map[string]int, len(participants))
	for _, p := range participants {
		m.Metadata.Scores[p] = 0
	}
}
