// Package sqlite provides a SQLite-backed attendance session store.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/paolomartine/Registro-de-asistencia-ISMOCOL-SA/attendance"
	"github.com/paolomartine/Registro-de-asistencia-ISMOCOL-SA/storage"
	"github.com/paolomartine/Registro-de-asistencia-ISMOCOL-SA/storage/sqlite/migrations"
	"github.com/paolomartine/Registro-de-asistencia-ISMOCOL-SA/storage/sqlitemigrate"
)

// Store persists the session in SQLite.
type Store struct {
	sqlDB *sql.DB
}

var _ storage.Store = (*Store)(nil)

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// connPragmas is applied by the driver to every pooled connection.
const connPragmas = "_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)&_pragma=synchronous(NORMAL)"

// Open opens a SQLite store and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?" + connPragmas
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.Apply(context.Background(), sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *Store) ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	return nil
}

// Reset deletes every attendee and the facilitator.
func (s *Store) Reset(ctx context.Context) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin reset: %w", err)
	}
	defer func() { _ = tx.Rollback() }()
	for _, q := range []string{`DELETE FROM attendees`, `DELETE FROM facilitator`} {
		if _, err := tx.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("reset session: %w", err)
		}
	}
	return tx.Commit()
}

// ImportRoster upserts attendees by ID without touching signatures.
func (s *Store) ImportRoster(ctx context.Context, attendees []attendance.Attendee) (int, error) {
	if err := s.ready(ctx); err != nil {
		return 0, err
	}
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin import: %w", err)
	}
	defer func() { _ = tx.Rollback() }()
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO attendees (id, name, role) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET name = excluded.name, role = excluded.role`)
	if err != nil {
		return 0, fmt.Errorf("prepare import: %w", err)
	}
	defer stmt.Close()

	n := 0
	for _, a := range attendees {
		id := strings.TrimSpace(a.ID)
		if id == "" {
			continue
		}
		if _, err := stmt.ExecContext(ctx, id, a.Name, a.Role); err != nil {
			return 0, fmt.Errorf("import attendee %s: %w", id, err)
		}
		n++
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit import: %w", err)
	}
	return n, nil
}

// UpsertFacilitator registers the facilitator, replacing any previous one.
func (s *Store) UpsertFacilitator(ctx context.Context, f attendance.Facilitator) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(f.ID) == "" {
		return fmt.Errorf("facilitator id is required")
	}
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO facilitator (slot, id, name, topic, location, area, duration, signature, updated_at)
		 VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(slot) DO UPDATE SET
		   id = excluded.id,
		   name = excluded.name,
		   topic = excluded.topic,
		   location = excluded.location,
		   area = excluded.area,
		   duration = excluded.duration,
		   signature = excluded.signature,
		   updated_at = excluded.updated_at`,
		f.ID, f.Name, f.Topic, f.Location, f.Area, f.Duration, f.Signature, toMillis(time.Now()),
	)
	if err != nil {
		return fmt.Errorf("upsert facilitator: %w", err)
	}
	return nil
}

// HasFacilitator reports whether a facilitator is registered.
func (s *Store) HasFacilitator(ctx context.Context) (bool, error) {
	if err := s.ready(ctx); err != nil {
		return false, err
	}
	var n int
	if err := s.sqlDB.QueryRowContext(ctx, `SELECT COUNT(*) FROM facilitator`).Scan(&n); err != nil {
		return false, fmt.Errorf("count facilitator: %w", err)
	}
	return n > 0, nil
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Facilitator returns the registered facilitator or nil.
func (s *Store) Facilitator(ctx context.Context) (*attendance.Facilitator, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	return facilitator(ctx, s.sqlDB)
}

func facilitator(ctx context.Context, q queryer) (*attendance.Facilitator, error) {
	var f attendance.Facilitator
	err := q.QueryRowContext(ctx,
		`SELECT id, name, topic, location, area, duration, signature FROM facilitator WHERE slot = 1`,
	).Scan(&f.ID, &f.Name, &f.Topic, &f.Location, &f.Area, &f.Duration, &f.Signature)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get facilitator: %w", err)
	}
	return &f, nil
}

// Attendee returns one roster entry by ID.
func (s *Store) Attendee(ctx context.Context, id string) (attendance.Attendee, error) {
	if err := s.ready(ctx); err != nil {
		return attendance.Attendee{}, err
	}
	var (
		a        attendance.Attendee
		signedAt sql.NullInt64
	)
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT id, name, role, signature, signed_at FROM attendees WHERE id = ?`,
		strings.TrimSpace(id),
	).Scan(&a.ID, &a.Name, &a.Role, &a.Signature, &signedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return attendance.Attendee{}, storage.ErrNotFound
	}
	if err != nil {
		return attendance.Attendee{}, fmt.Errorf("get attendee: %w", err)
	}
	if signedAt.Valid {
		a.SignedAt = fromMillis(signedAt.Int64)
	}
	return a, nil
}

// SignAttendee stores a signature for a roster entry.
func (s *Store) SignAttendee(ctx context.Context, id, signature string, at time.Time) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if signature == "" {
		return fmt.Errorf("signature is required")
	}
	res, err := s.sqlDB.ExecContext(ctx,
		`UPDATE attendees SET signature = ?, signed_at = ? WHERE id = ?`,
		signature, toMillis(at), strings.TrimSpace(id),
	)
	if err != nil {
		return fmt.Errorf("sign attendee: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sign attendee: %w", err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// SignedAttendees lists signed attendees by signing time, then insertion
// order.
func (s *Store) SignedAttendees(ctx context.Context) ([]attendance.Attendee, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	return signedAttendees(ctx, s.sqlDB)
}

func signedAttendees(ctx context.Context, q queryer) ([]attendance.Attendee, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT id, name, role, signature, signed_at
		   FROM attendees
		  WHERE signature != ''
		  ORDER BY signed_at ASC, rowid ASC`)
	if err != nil {
		return nil, fmt.Errorf("list signed attendees: %w", err)
	}
	defer rows.Close()

	var out []attendance.Attendee
	for rows.Next() {
		var (
			a        attendance.Attendee
			signedAt sql.NullInt64
		)
		if err := rows.Scan(&a.ID, &a.Name, &a.Role, &a.Signature, &signedAt); err != nil {
			return nil, fmt.Errorf("scan attendee: %w", err)
		}
		if signedAt.Valid {
			a.SignedAt = fromMillis(signedAt.Int64)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list signed attendees: %w", err)
	}
	return out, nil
}

// Snapshot reads the facilitator and signed attendees in one transaction.
func (s *Store) Snapshot(ctx context.Context) (attendance.Snapshot, error) {
	if err := s.ready(ctx); err != nil {
		return attendance.Snapshot{}, err
	}
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return attendance.Snapshot{}, fmt.Errorf("begin snapshot: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	f, err := facilitator(ctx, tx)
	if err != nil {
		return attendance.Snapshot{}, err
	}
	attendees, err := signedAttendees(ctx, tx)
	if err != nil {
		return attendance.Snapshot{}, err
	}
	return attendance.Snapshot{Facilitator: f, Attendees: attendees}, nil
}
