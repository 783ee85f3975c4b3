// Package storage defines persistence contracts for an attendance session.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/paolomartine/Registro-de-asistencia-ISMOCOL-SA/attendance"
)

var (
	// ErrNotFound indicates the attendee is not on the roster.
	ErrNotFound = errors.New("record not found")
	// ErrNoFacilitator indicates attendees cannot sign before a facilitator
	// is registered.
	ErrNoFacilitator = errors.New("facilitator not registered")
	// ErrAlreadySigned indicates the attendee has signed this session.
	ErrAlreadySigned = errors.New("attendee already signed")
)

// Store persists one attendance session. A session has a single
// facilitator; registering again replaces it.
type Store interface {
	attendance.Source

	// Reset discards the roster, signatures and facilitator.
	Reset(ctx context.Context) error
	// ImportRoster inserts or updates attendees by ID. Existing signatures
	// are kept. It returns the number of rows written.
	ImportRoster(ctx context.Context, attendees []attendance.Attendee) (int, error)
	UpsertFacilitator(ctx context.Context, f attendance.Facilitator) error
	HasFacilitator(ctx context.Context) (bool, error)
	// Attendee returns ErrNotFound for IDs not on the roster.
	Attendee(ctx context.Context, id string) (attendance.Attendee, error)
	// SignAttendee records or overwrites a signature; ErrNotFound when the
	// ID is not on the roster.
	SignAttendee(ctx context.Context, id, signature string, at time.Time) error
	Close() error
}

// AttendeeForSigning resolves an attendee who may sign now: a facilitator
// must exist and the attendee must not have signed yet.
func AttendeeForSigning(ctx context.Context, s Store, id string) (attendance.Attendee, error) {
	ok, err := s.HasFacilitator(ctx)
	if err != nil {
		return attendance.Attendee{}, err
	}
	if !ok {
		return attendance.Attendee{}, ErrNoFacilitator
	}
	a, err := s.Attendee(ctx, id)
	if err != nil {
		return attendance.Attendee{}, err
	}
	if a.Signed() {
		return a, ErrAlreadySigned
	}
	return a, nil
}
