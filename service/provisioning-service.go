package service

import (
	"context"
	"strings"
	"time"

	"housecup/app_error"
	"housecup/auth"
	"housecup/localbuffer"
	"housecup/metrics"
	"housecup/notify"
	"housecup/registry"
	"housecup/repository"
	"housecup/scoring"
	"housecup/utils"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type ProvisionMode string

const (
	ModePrimary  ProvisionMode = "primary"
	ModeBuffered ProvisionMode = "buffered"
)

// OfflineBuffer is the named fallback repository for provisioning. It takes
// the same writes as the primary store.
type OfflineBuffer interface {
	repository.MatchWriter
	Flush(ctx context.Context, target repository.MatchWriter) (localbuffer.FlushReport, error)
}

type ProvisionRequest struct {
	Name            string                   `json:"name" binding:"required"`
	Description     string                   `json:"description"`
	Category        repository.EventCategory `json:"category"`
	KickoffAt       *time.Time               `json:"kickoff_at"`
	DurationMinutes int                      `json:"duration_minutes"`
	Regime          repository.ScoringRegime `json:"scoring_regime" binding:"required"`
	ManualPoints    int                      `json:"manual_points"`
	HouseA          string                   `json:"house_a"`
	HouseB          string                   `json:"house_b"`
	Participants    []string                 `json:"participants"`

	// StartNow deploys the match straight to live with the caller presiding.
	StartNow bool `json:"start_now"`
}

type ProvisionResult struct {
	Match *repository.Match `json:"match"`
	Mode  ProvisionMode     `json:"mode"`
}

type ProvisioningService struct {
	store     repository.Store
	buffer    OfflineBuffer
	publisher notify.Publisher
	now       func() time.Time
	logger    zerolog.Logger
}

// NewProvisioningService accepts a nil buffer, which disables the offline
// fallback.
func NewProvisioningService(store repository.Store, buffer OfflineBuffer, publisher notify.Publisher, logger zerolog.Logger) *ProvisioningService {
	return &ProvisioningService{
		store:     store,
		buffer:    buffer,
		publisher: publisher,
		now:       time.Now,
		logger:    logger.With().Str("service", "provisioning").Logger(),
	}
}

func (s *ProvisioningService) Provision(ctx context.Context, session auth.Session, sector registry.Sector, req ProvisionRequest) (*ProvisionResult, error) {
	result, err := s.provision(ctx, session, sector, req)
	record(s.logger, "provision", "", err)
	return result, err
}

func (s *ProvisioningService) provision(ctx context.Context, session auth.Session, sector registry.Sector, req ProvisionRequest) (*ProvisionResult, error) {
	if sector == registry.Global {
		return nil, app_error.Validation("matches belong to a concrete sector")
	}
	if err := session.Authorize(sector); err != nil {
		return nil, err
	}
	match, err := s.build(session, sector, req)
	if err != nil {
		return nil, err
	}

	err = s.store.InsertMatch(ctx, match)
	if err == nil {
		s.logger.Info().Str("match_id", match.Id).Str("sector", string(sector)).Str("status", string(match.Status)).Msg("match provisioned")
		publish(ctx, s.publisher, s.logger, notify.Event{
			Table: notify.TableMatches, Op: "insert", MatchId: match.Id, Sector: sector, Version: match.Version, At: s.now(),
		})
		return &ProvisionResult{Match: match, Mode: ModePrimary}, nil
	}
	if app_error.KindOf(err) != app_error.KindTransport || s.buffer == nil {
		return nil, err
	}
	s.logger.Warn().Err(err).Str("match_id", match.Id).Msg("primary store unavailable, buffering match")
	if berr := s.buffer.InsertMatch(ctx, match); berr != nil {
		return nil, berr
	}
	metrics.BufferedProvisionsTotal.Inc()
	return &ProvisionResult{Match: match, Mode: ModeBuffered}, nil
}

func (s *ProvisioningService) build(session auth.Session, sector registry.Sector, req ProvisionRequest) (*repository.Match, error) {
	now := s.now()
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, app_error.Validation("name is required")
	}
	if !scoring.ValidRegime(req.Regime) {
		return nil, app_error.ErrUnknownRegime
	}
	if req.ManualPoints < 0 {
		return nil, app_error.ErrNegativeManualPoints
	}
	if req.DurationMinutes < 0 {
		return nil, app_error.Validation("duration must not be negative")
	}
	if !req.StartNow && req.KickoffAt != nil && req.KickoffAt.Before(now) {
		return nil, app_error.ErrKickoffInPast
	}

	match := &repository.Match{
		Id:               uuid.NewString(),
		Sector:           sector,
		Name:             name,
		Description:      strings.TrimSpace(req.Description),
		Category:         req.Category,
		KickoffAt:        req.KickoffAt,
		DurationMinutes:  req.DurationMinutes,
		Status:           repository.StatusScheduled,
		Regime:           req.Regime,
		ManualPoints:     req.ManualPoints,
		IsManualOverride: req.Regime == repository.ManualOverride,
		Version:          1,
		CreatedAt:        now,
	}
	if err := assignParticipants(match, req); err != nil {
		return nil, err
	}
	if req.StartNow {
		if match.KickoffAt == nil {
			match.KickoffAt = &now
		}
		if err := launch(match, session, now); err != nil {
			return nil, err
		}
	}
	return match, nil
}

func assignParticipants(m *repository.Match, req ProvisionRequest) error {
	if req.HouseA != "" || req.HouseB != "" {
		if len(req.Participants) > 0 {
			return app_error.Validation("use either house_a/house_b or participants, not both")
		}
		if req.HouseA == "" || req.HouseB == "" || req.HouseA == req.HouseB {
			return app_error.Validation("head-to-head matches need two distinct houses")
		}
		for _, h := range []string{req.HouseA, req.HouseB} {
			if !registry.InSector(h, m.Sector) {
				return app_error.ErrUnknownParticipant
			}
		}
		a, b := req.HouseA, req.HouseB
		m.HouseA, m.HouseB = &a, &b
		return nil
	}
	participants := utils.Uniques(req.Participants)
	if len(participants) != len(req.Participants) {
		return app_error.ErrDuplicateParticipant
	}
	if len(participants) < 2 {
		return app_error.Validation("a match needs at least two participants")
	}
	for _, h := range participants {
		if !registry.InSector(h, m.Sector) {
			return app_error.ErrUnknownParticipant
		}
	}
	m.Metadata.Participants = participants
	return nil
}

// FlushBuffer replays buffered matches into the primary store.
func (s *ProvisioningService) FlushBuffer(ctx context.Context) (localbuffer.FlushReport, error) {
	if s.buffer == nil {
		return localbuffer.FlushReport{}, nil
	}
	report, err := s.buffer.Flush(ctx, s.store)
	metrics.BufferFlushedTotal.WithLabelValues("flushed").Add(float64(report.Flushed))
	metrics.BufferFlushedTotal.WithLabelValues("dropped").Add(float64(report.Dropped))
	if report.Flushed > 0 {
		s.logger.Info().Int("flushed", report.Flushed).Int("dropped", report.Dropped).Msg("offline buffer flushed")
		publish(ctx, s.publisher, s.logger, notify.Event{Op: notify.OpResync, At: s.now()})
	}
	return report, err
}
