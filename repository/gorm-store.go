package repository

import (
	"context"
	"errors"
	"time"

	"housecup/app_error"
	"housecup/metrics"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Postgres error codes that mean the schema is not what the engine expects.
// Retrying cannot help, so they surface as fatal.
var fatalCodes = map[string]bool{
	"42P01": true, // undefined_table
	"42703": true, // undefined_column
	"3D000": true, // invalid_catalog_name
	"28P01": true, // invalid_password
}

func observe(query string, start time.Time) {
	metrics.StoreQueryDuration.WithLabelValues(query).Observe(time.Since(start).Seconds())
}

type GormStore struct {
	DB *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{DB: db}
}

// translate maps driver errors onto the engine taxonomy. duplicate is returned
// for unique constraint violations.
func translate(err error, duplicate error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return app_error.ErrMatchNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return duplicate
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" {
			return duplicate
		}
		if fatalCodes[pgErr.Code] {
			return app_error.Fatal(err)
		}
	}
	return app_error.Transport(err)
}

func (s *GormStore) InsertMatch(ctx context.Context, match *Match) error {
	defer observe("insert_match", time.Now())
	return translate(s.DB.WithContext(ctx).Create(match).Error, app_error.ErrDuplicateMatch)
}

func (s *GormStore) GetMatch(ctx context.Context, id string) (*Match, error) {
	defer observe("get_match", time.Now())
	match := &Match{}
	if err := s.DB.WithContext(ctx).First(match, "id = ?", id).Error; err != nil {
		return nil, translate(err, app_error.ErrDuplicateMatch)
	}
	return match, nil
}

func (s *GormStore) ListMatches(ctx context.Context, filter MatchFilter) ([]*Match, error) {
	defer observe("list_matches", time.Now())
	query := s.DB.WithContext(ctx)
	if filter.Sector != "" {
		query = query.Where("sector = ?", filter.Sector)
	}
	if len(filter.Statuses) > 0 {
		query = query.Where("status IN ?", filter.Statuses)
	}
	matches := make([]*Match, 0)
	if err := query.Order("created_at ASC, id ASC").Find(&matches).Error; err != nil {
		return nil, translate(err, app_error.ErrDuplicateMatch)
	}
	return matches, nil
}

// casUpdate writes next over the row whose version is still expectedVersion.
func casUpdate(tx *gorm.DB, expectedVersion int, next *Match) (*Match, error) {
	row := next.Clone()
	row.Version = expectedVersion + 1
	result := tx.Model(&Match{Id: row.Id}).
		Where("version = ?", expectedVersion).
		Select("*").
		Omit("id", "created_at").
		Updates(row)
	if result.Error != nil {
		return nil, translate(result.Error, app_error.ErrVersionConflict)
	}
	if result.RowsAffected == 1 {
		return row, nil
	}
	var count int64
	if err := tx.Model(&Match{}).Where("id = ?", row.Id).Count(&count).Error; err != nil {
		return nil, translate(err, app_error.ErrVersionConflict)
	}
	if count == 0 {
		return nil, app_error.ErrMatchNotFound
	}
	return nil, app_error.ErrVersionConflict
}

func (s *GormStore) ConditionalUpdate(ctx context.Context, expectedVersion int, next *Match) (*Match, error) {
	defer observe("conditional_update", time.Now())
	var stored *Match
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		stored, err = casUpdate(tx, expectedVersion, next)
		return err
	})
	if err != nil {
		return nil, err
	}
	return stored, nil
}

func (s *GormStore) SealMatch(ctx context.Context, expectedVersion int, next *Match, results []*Result) (*Match, error) {
	defer observe("seal_match", time.Now())
	var stored *Match
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		stored, err = casUpdate(tx, expectedVersion, next)
		if err != nil {
			return err
		}
		if err := tx.Create(&results).Error; err != nil {
			return translate(err, app_error.ErrDuplicateParticipant)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stored, nil
}

func (s *GormStore) ListResults(ctx context.Context, filter ResultFilter) ([]*Result, error) {
	defer observe("list_results", time.Now())
	query := s.DB.WithContext(ctx)
	if filter.Sector != "" {
		query = query.Where("sector = ?", filter.Sector)
	}
	if filter.MatchId != "" {
		query = query.Where("match_id = ?", filter.MatchId)
	}
	results := make([]*Result, 0)
	if err := query.Order("match_id ASC, position ASC").Find(&results).Error; err != nil {
		return nil, translate(err, app_error.ErrDuplicateParticipant)
	}
	return results, nil
}

func (s *GormStore) GetProfile(ctx context.Context, id string) (*Profile, error) {
	profile := &Profile{}
	err := s.DB.WithContext(ctx).First(profile, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, translate(err, app_error.ErrDuplicateMatch)
	}
	return profile, nil
}

func (s *GormStore) SaveProfile(ctx context.Context, profile *Profile) error {
	return translate(s.DB.WithContext(ctx).Save(profile).Error, app_error.ErrDuplicateMatch)
}
