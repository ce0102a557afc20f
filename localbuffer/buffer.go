// Package localbuffer is the offline fallback for provisioning. When the
// primary store is unreachable new matches are written to a local SQLite file
// and replayed into the primary store once it is back.
package localbuffer

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"time"

	"housecup/app_error"
	"housecup/repository"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	gosqlite "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
)

//go:embed migrations/*.sql
var migrations embed.FS

type row struct {
	Id         string    `db:"id"`
	Sector     string    `db:"sector"`
	Payload    string    `db:"payload"`
	BufferedAt time.Time `db:"buffered_at"`
	Attempts   int       `db:"attempts"`
	LastError  *string   `db:"last_error"`
}

type BufferedMatch struct {
	Match      *repository.Match `json:"match"`
	BufferedAt time.Time         `json:"buffered_at"`
	Attempts   int               `json:"attempts"`
	LastError  string            `json:"last_error,omitempty"`
}

type FlushReport struct {
	Flushed int `json:"flushed"`
	Dropped int `json:"dropped"`
	Pending int `json:"pending"`
}

// Buffer implements repository.MatchWriter.
type Buffer struct {
	db     *sqlx.DB
	now    func() time.Time
	logger zerolog.Logger
}

// Open connects to the SQLite file at path and applies the migrations.
// ":memory:" gives a private in-memory buffer.
func Open(path string, logger zerolog.Logger) (*Buffer, error) {
	dsn := "file:" + path + "?_journal_mode=WAL&_busy_timeout=5000"
	if path == ":memory:" {
		dsn = "file::memory:"
	}
	db, err := sqlx.Connect("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	// a second connection to :memory: would see an empty database
	db.SetMaxOpenConns(1)
	if err := migrateUp(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Buffer{db: db, now: time.Now, logger: logger.With().Str("component", "localbuffer").Logger()}, nil
}

func migrateUp(db *sqlx.DB) error {
	source, err := iofs.New(migrations, "migrations")
	if err != nil {
		return err
	}
	driver, err := sqlite3.WithInstance(db.DB, &sqlite3.Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithInstance("iofs", source, "sqlite3", driver)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

func (b *Buffer) Close() error {
	return b.db.Close()
}

func (b *Buffer) InsertMatch(ctx context.Context, match *repository.Match) error {
	payload, err := json.Marshal(match)
	if err != nil {
		return app_error.Fatal(err)
	}
	_, err = b.db.ExecContext(ctx,
		`INSERT INTO buffered_matches (id, sector, payload, buffered_at) VALUES (?, ?, ?, ?)`,
		match.Id, string(match.Sector), string(payload), b.now().UTC())
	if err != nil {
		if isUniqueViolation(err) {
			return app_error.ErrDuplicateMatch
		}
		return app_error.Fatal(err)
	}
	b.logger.Warn().Str("match_id", match.Id).Str("sector", string(match.Sector)).Msg("match buffered offline")
	return nil
}

func (b *Buffer) List(ctx context.Context) ([]*BufferedMatch, error) {
	rows := make([]row, 0)
	if err := b.db.SelectContext(ctx, &rows,
		`SELECT id, sector, payload, buffered_at, attempts, last_error FROM buffered_matches ORDER BY buffered_at, id`); err != nil {
		return nil, app_error.Fatal(err)
	}
	out := make([]*BufferedMatch, 0, len(rows))
	for _, r := range rows {
		match := &repository.Match{}
		if err := json.Unmarshal([]byte(r.Payload), match); err != nil {
			return nil, app_error.Fatal(err)
		}
		entry := &BufferedMatch{Match: match, BufferedAt: r.BufferedAt, Attempts: r.Attempts}
		if r.LastError != nil {
			entry.LastError = *r.LastError
		}
		out = append(out, entry)
	}
	return out, nil
}

func (b *Buffer) Remove(ctx context.Context, id string) error {
	if _, err := b.db.ExecContext(ctx, `DELETE FROM buffered_matches WHERE id = ?`, id); err != nil {
		return app_error.Fatal(err)
	}
	return nil
}

func (b *Buffer) recordFailure(ctx context.Context, id string, cause error) error {
	_, err := b.db.ExecContext(ctx,
		`UPDATE buffered_matches SET attempts = attempts + 1, last_error = ? WHERE id = ?`, cause.Error(), id)
	return err
}

// Flush replays buffered matches into target in the order they were
// buffered. Matches the target already holds are dropped. A transport
// failure stops the flush; the rest stay buffered for the next attempt.
func (b *Buffer) Flush(ctx context.Context, target repository.MatchWriter) (FlushReport, error) {
	report := FlushReport{}
	entries, err := b.List(ctx)
	if err != nil {
		return report, err
	}
	for i, entry := range entries {
		err := target.InsertMatch(ctx, entry.Match)
		switch {
		case err == nil:
			report.Flushed++
		case errors.Is(err, app_error.ErrDuplicateMatch):
			report.Dropped++
			b.logger.Info().Str("match_id", entry.Match.Id).Msg("buffered match already upstream, dropping")
		case app_error.KindOf(err) == app_error.KindTransport:
			if rerr := b.recordFailure(ctx, entry.Match.Id, err); rerr != nil {
				b.logger.Error().Err(rerr).Msg("could not record flush failure")
			}
			report.Pending = len(entries) - i
			return report, err
		default:
			if rerr := b.recordFailure(ctx, entry.Match.Id, err); rerr != nil {
				b.logger.Error().Err(rerr).Msg("could not record flush failure")
			}
			b.logger.Error().Err(err).Str("match_id", entry.Match.Id).Msg("buffered match rejected upstream")
			report.Pending++
			continue
		}
		if err := b.Remove(ctx, entry.Match.Id); err != nil {
			return report, err
		}
	}
	return report, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr gosqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == gosqlite.ErrConstraintPrimaryKey ||
			sqliteErr.ExtendedCode == gosqlite.ErrConstraintUnique
	}
	return false
}
