package service

import (
	"context"
	"errors"
	"time"

	"housecup/app_error"
	"housecup/auth"
	"housecup/metrics"
	"housecup/notify"
	"housecup/registry"
	"housecup/repository"
	"housecup/scoring"

	"github.com/rs/zerolog"
)

type Placement struct {
	HouseId  string `json:"house_id"`
	Position int    `json:"position"`
}

// OverridePolicy replaces the running regime at seal time.
type OverridePolicy struct {
	Regime       repository.ScoringRegime `json:"scoring_regime"`
	ManualPoints int                      `json:"manual_points"`
}

type SealRequest struct {
	Version  int             `json:"version" binding:"required"`
	Results  []Placement     `json:"results"`
	Override *OverridePolicy `json:"override,omitempty"`
}

type SealedMatch struct {
	Match   *repository.Match    `json:"match"`
	Results []*repository.Result `json:"results"`
}

// SealAnnouncer is told about every sealed match. Failures never affect the
// seal itself.
type SealAnnouncer interface {
	AnnounceSeal(ctx context.Context, match *repository.Match, results []*repository.Result) error
}

const announceTimeout = 10 * time.Second

type LedgerService struct {
	store          repository.Store
	publisher      notify.Publisher
	announcer      SealAnnouncer
	allowForceSeal bool
	now            func() time.Time
	logger         zerolog.Logger
}

func NewLedgerService(store repository.Store, publisher notify.Publisher, announcer SealAnnouncer, allowForceSeal bool, logger zerolog.Logger) *LedgerService {
	return &LedgerService{
		store:          store,
		publisher:      publisher,
		announcer:      announcer,
		allowForceSeal: allowForceSeal,
		now:            time.Now,
		logger:         logger.With().Str("service", "ledger").Logger(),
	}
}

// Seal finalizes a match: the result rows and the flip to finished are
// written in one conditional store operation. Sealing a finished match
// returns app_error.ErrAlreadySealed and writes nothing, which a retrying
// caller can treat as success.
func (s *LedgerService) Seal(ctx context.Context, session auth.Session, id string, req SealRequest) (*SealedMatch, error) {
	sealed, err := s.seal(ctx, session, id, req)
	record(s.logger, "seal", id, err)
	return sealed, err
}

func (s *LedgerService) seal(ctx context.Context, session auth.Session, id string, req SealRequest) (*SealedMatch, error) {
	current, err := s.store.GetMatch(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := session.Authorize(current.Sector); err != nil {
		return nil, err
	}
	if err := sealable(current); err != nil {
		return nil, err
	}
	if current.Version != req.Version {
		return nil, app_error.ErrVersionConflict
	}
	if !current.PresidedBy(session.UserId) && !(s.allowForceSeal && session.Role == auth.SuperAdmin) {
		return nil, app_error.ErrNotPresiding
	}

	regime, manualPoints := current.Regime, current.ManualPoints
	if req.Override != nil {
		regime, manualPoints = req.Override.Regime, req.Override.ManualPoints
	}
	if !scoring.ValidRegime(regime) {
		return nil, app_error.ErrUnknownRegime
	}
	if manualPoints < 0 {
		return nil, app_error.ErrNegativeManualPoints
	}
	winner, err := validatePlacements(current.Sector, req.Results)
	if err != nil {
		return nil, err
	}

	now := s.now()
	results := make([]*repository.Result, 0, len(req.Results))
	for _, p := range req.Results {
		results = append(results, &repository.Result{
			MatchId:  current.Id,
			HouseId:  p.HouseId,
			Sector:   current.Sector,
			Position: p.Position,
			Points:   scoring.PointsForPosition(p.Position, regime, manualPoints),
			Regime:   regime,
			SealedBy: session.UserId,
			SealedAt: now,
		})
	}

	next := current.Clone()
	if next.Status == repository.StatusLive {
		elapsed := scoring.FreezeElapsed(next.StartedAt, now)
		next.Metadata.ElapsedMs = &elapsed
	}
	next.Status = repository.StatusFinished
	next.SealedBy = &session.UserId
	next.SealedAt = &now
	next.WinningHouseId = &winner
	next.Regime = regime
	next.IsManualOverride = regime == repository.ManualOverride
	if next.IsManualOverride {
		next.ManualPoints = manualPoints
	}

	stored, err := s.store.SealMatch(ctx, req.Version, next, results)
	if err != nil {
		if errors.Is(err, app_error.ErrVersionConflict) {
			// lost a race; if the winner sealed, say so
			if latest, rerr := s.store.GetMatch(ctx, id); rerr == nil && latest.Status == repository.StatusFinished {
				return nil, app_error.ErrAlreadySealed
			}
		}
		return nil, err
	}

	metrics.SealsTotal.WithLabelValues(string(stored.Sector), string(regime)).Inc()
	s.logger.Info().
		Str("match_id", stored.Id).
		Str("sector", string(stored.Sector)).
		Int("version", stored.Version).
		Str("winner", winner).
		Str("regime", string(regime)).
		Str("official", session.UserId).
		Msg("match sealed")
	publish(ctx, s.publisher, s.logger, notify.Event{
		Table: notify.TableResults, Op: "insert", MatchId: stored.Id, Sector: stored.Sector, Version: stored.Version, At: now,
	})
	s.announce(stored, results)
	return &SealedMatch{Match: stored, Results: results}, nil
}

func (s *LedgerService) announce(match *repository.Match, results []*repository.Result) {
	if s.announcer == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), announceTimeout)
		defer cancel()
		if err := s.announcer.AnnounceSeal(ctx, match, results); err != nil {
			s.logger.Warn().Err(err).Str("match_id", match.Id).Msg("announcing seal")
		}
	}()
}

func sealable(m *repository.Match) error {
	switch m.Status {
	case repository.StatusLive, repository.StatusPaused:
		return nil
	case repository.StatusFinished:
		return app_error.ErrAlreadySealed
	default:
		return app_error.ErrInvalidStatus
	}
}

// validatePlacements returns the position 1 house.
func validatePlacements(sector registry.Sector, placements []Placement) (string, error) {
	if len(placements) == 0 {
		return "", app_error.ErrEmptyResultSet
	}
	houses := make(map[string]bool, len(placements))
	positions := make(map[int]bool, len(placements))
	winner := ""
	for _, p := range placements {
		if p.Position < 1 {
			return "", app_error.ErrInvalidPosition
		}
		if !registry.InSector(p.HouseId, sector) {
			return "", app_error.ErrUnknownParticipant
		}
		if houses[p.HouseId] {
			return "", app_error.ErrDuplicateParticipant
		}
		if positions[p.Position] {
			return "", app_error.ErrDuplicatePosition
		}
		houses[p.HouseId] = true
		positions[p.Position] = true
		if p.Position == 1 {
			winner = p.HouseId
		}
	}
	if winner == "" {
		return "", app_error.ErrMissingWinner
	}
	return winner, nil
}
