// Package attendance holds the records of one attendance session: the
// facilitator who ran it and the attendees who signed.
package attendance

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"time"

	"github.com/zeebo/blake3"
)

// Facilitator is the person who ran the session. Signature is a base64 or
// data-URI encoded raster and may be empty.
type Facilitator struct {
	ID        string
	Name      string
	Topic     string
	Location  string
	Area      string
	Duration  string
	Signature string
}

// Attendee is one roster entry. An attendee is signed once Signature is
// non-empty; re-signing overwrites the previous payload.
type Attendee struct {
	ID        string
	Name      string
	Role      string
	Signature string
	SignedAt  time.Time
}

// Signed reports whether the attendee has a signature on record.
func (a Attendee) Signed() bool { return a.Signature != "" }

// Snapshot is a consistent read of a session: the facilitator, if any, and
// the signed attendees in signing order.
type Snapshot struct {
	Facilitator *Facilitator
	Attendees   []Attendee
}

// Copy returns a snapshot that shares no memory with s.
func (s Snapshot) Copy() Snapshot {
	out := Snapshot{}
	if s.Facilitator != nil {
		f := *s.Facilitator
		out.Facilitator = &f
	}
	if s.Attendees != nil {
		out.Attendees = make([]Attendee, len(s.Attendees))
		copy(out.Attendees, s.Attendees)
	}
	return out
}

// Fingerprint is a stable hash of everything that reaches the rendered
// document. Two snapshots with equal fingerprints render identically for
// the same clock.
func (s Snapshot) Fingerprint() string {
	h := blake3.New()
	field := func(v string) {
		var n [8]byte
		binary.BigEndian.PutUint64(n[:], uint64(len(v)))
		h.Write(n[:])
		h.Write([]byte(v))
	}
	if f := s.Facilitator; f != nil {
		field("facilitator")
		for _, v := range []string{f.ID, f.Name, f.Topic, f.Location, f.Area, f.Duration, f.Signature} {
			field(v)
		}
	}
	for _, a := range s.Attendees {
		field("attendee")
		for _, v := range []string{a.ID, a.Name, a.Role, a.Signature} {
			field(v)
		}
	}
	return hex.EncodeToString(h.Sum(nil)[:16])
}

// Source provides session records to the report engine.
type Source interface {
	// Facilitator returns nil without error when none is registered.
	Facilitator(ctx context.Context) (*Facilitator, error)
	// SignedAttendees returns signed attendees ordered by SignedAt, ties
	// broken by storage order.
	SignedAttendees(ctx context.Context) ([]Attendee, error)
	// Snapshot reads both in one consistent view.
	Snapshot(ctx context.Context) (Snapshot, error)
}
