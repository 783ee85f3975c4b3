// Package postgres provides a Postgres-backed attendance session store for
// deployments that share one session across several capture servers.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/paolomartine/Registro-de-asistencia-ISMOCOL-SA/attendance"
	"github.com/paolomartine/Registro-de-asistencia-ISMOCOL-SA/storage"
	"github.com/paolomartine/Registro-de-asistencia-ISMOCOL-SA/storage/postgres/migrations"
)

// Store persists the session in Postgres.
type Store struct {
	pool *pgxpool.Pool
}

var _ storage.Store = (*Store)(nil)

// Open connects to dsn and applies the embedded schema.
func Open(ctx context.Context, dsn string) (*Store, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("database url is required")
	}
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse pgx config: %w", err)
	}
	config.MaxConns = 10
	config.MinConns = 1
	config.MaxConnLifetime = 3 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("open postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping failed: %w", err)
	}
	if err := migrate(ctx, pool, migrations.FS); err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{pool: pool}, nil
}

func migrate(ctx context.Context, pool *pgxpool.Pool, fsys fs.FS) error {
	names, err := fs.Glob(fsys, "*.sql")
	if err != nil {
		return err
	}
	sort.Strings(names)
	for _, name := range names {
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		if _, err := pool.Exec(ctx, string(content)); err != nil {
			return fmt.Errorf("exec migration %s: %w", name, err)
		}
	}
	return nil
}

// Close releases the pool.
func (s *Store) Close() error {
	if s != nil && s.pool != nil {
		s.pool.Close()
	}
	return nil
}

// Reset deletes every attendee and the facilitator.
func (s *Store) Reset(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, `TRUNCATE attendees, facilitator RESTART IDENTITY`); err != nil {
		return fmt.Errorf("reset session: %w", err)
	}
	return nil
}

// ImportRoster upserts attendees by ID in one batch.
func (s *Store) ImportRoster(ctx context.Context, attendees []attendance.Attendee) (int, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin import: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	batch := &pgx.Batch{}
	for _, a := range attendees {
		id := strings.TrimSpace(a.ID)
		if id == "" {
			continue
		}
		batch.Queue(
			`INSERT INTO attendees (id, name, role) VALUES ($1, $2, $3)
			 ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, role = EXCLUDED.role`,
			id, a.Name, a.Role,
		)
	}
	n := batch.Len()
	if n > 0 {
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return 0, fmt.Errorf("import roster: %w", err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit import: %w", err)
	}
	return n, nil
}

// UpsertFacilitator registers the facilitator, replacing any previous one.
func (s *Store) UpsertFacilitator(ctx context.Context, f attendance.Facilitator) error {
	if strings.TrimSpace(f.ID) == "" {
		return fmt.Errorf("facilitator id is required")
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO facilitator (slot, id, name, topic, location, area, duration, signature, updated_at)
		 VALUES (1, $1, $2, $3, $4, $5, $6, $7, now())
		 ON CONFLICT (slot) DO UPDATE SET
		   id = EXCLUDED.id,
		   name = EXCLUDED.name,
		   topic = EXCLUDED.topic,
		   location = EXCLUDED.location,
		   area = EXCLUDED.area,
		   duration = EXCLUDED.duration,
		   signature = EXCLUDED.signature,
		   updated_at = EXCLUDED.updated_at`,
		f.ID, f.Name, f.Topic, f.Location, f.Area, f.Duration, f.Signature,
	)
	if err != nil {
		return fmt.Errorf("upsert facilitator: %w", err)
	}
	return nil
}

// HasFacilitator reports whether a facilitator is registered.
func (s *Store) HasFacilitator(ctx context.Context) (bool, error) {
	var ok bool
	if err := s.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM facilitator)`).Scan(&ok); err != nil {
		return false, fmt.Errorf("check facilitator: %w", err)
	}
	return ok, nil
}

type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Facilitator returns the registered facilitator or nil.
func (s *Store) Facilitator(ctx context.Context) (*attendance.Facilitator, error) {
	return facilitator(ctx, s.pool)
}

func facilitator(ctx context.Context, q querier) (*attendance.Facilitator, error) {
	var f attendance.Facilitator
	err := q.QueryRow(ctx,
		`SELECT id, name, topic, location, area, duration, signature FROM facilitator WHERE slot = 1`,
	).Scan(&f.ID, &f.Name, &f.Topic, &f.Location, &f.Area, &f.Duration, &f.Signature)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get facilitator: %w", err)
	}
	return &f, nil
}

// Attendee returns one roster entry by ID.
func (s *Store) Attendee(ctx context.Context, id string) (attendance.Attendee, error) {
	var (
		a        attendance.Attendee
		signedAt *time.Time
	)
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, role, signature, signed_at FROM attendees WHERE id = $1`,
		strings.TrimSpace(id),
	).Scan(&a.ID, &a.Name, &a.Role, &a.Signature, &signedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return attendance.Attendee{}, storage.ErrNotFound
	}
	if err != nil {
		return attendance.Attendee{}, fmt.Errorf("get attendee: %w", err)
	}
	if signedAt != nil {
		a.SignedAt = signedAt.UTC()
	}
	return a, nil
}

// SignAttendee stores a signature for a roster entry.
func (s *Store) SignAttendee(ctx context.Context, id, signature string, at time.Time) error {
	if signature == "" {
		return fmt.Errorf("signature is required")
	}
	tag, err := s.pool.Exec(ctx,
		`UPDATE attendees SET signature = $1, signed_at = $2 WHERE id = $3`,
		signature, at.UTC(), strings.TrimSpace(id),
	)
	if err != nil {
		return fmt.Errorf("sign attendee: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// SignedAttendees lists signed attendees by signing time, then insertion
// order.
func (s *Store) SignedAttendees(ctx context.Context) ([]attendance.Attendee, error) {
	return signedAttendees(ctx, s.pool)
}

func signedAttendees(ctx context.Context, q querier) ([]attendance.Attendee, error) {
	rows, err := q.Query(ctx,
		`SELECT id, name, role, signature, signed_at
		   FROM attendees
		  WHERE signature <> ''
		  ORDER BY signed_at ASC, seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("list signed attendees: %w", err)
	}
	defer rows.Close()

	var out []attendance.Attendee
	for rows.Next() {
		var (
			a        attendance.Attendee
			signedAt *time.Time
		)
		if err := rows.Scan(&a.ID, &a.Name, &a.Role, &a.Signature, &signedAt); err != nil {
			return nil, fmt.Errorf("scan attendee: %w", err)
		}
		if signedAt != nil {
			a.SignedAt = signedAt.UTC()
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list signed attendees: %w", err)
	}
	return out, nil
}

// Snapshot reads the facilitator and signed attendees in one read-only
// repeatable-read transaction.
func (s *Store) Snapshot(ctx context.Context) (attendance.Snapshot, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return attendance.Snapshot{}, fmt.Errorf("begin snapshot: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

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
