package postgres

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/paolomartine/Registro-de-asistencia-ISMOCOL-SA/attendance"
	"github.com/paolomartine/Registro-de-asistencia-ISMOCOL-SA/storage"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	dsn := os.Getenv("ASISTENCIA_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("ASISTENCIA_TEST_DATABASE_URL not set")
	}
	store, err := Open(context.Background(), dsn)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	if err := store.Reset(context.Background()); err != nil {
		t.Fatalf("reset: %v", err)
	}
	return store
}

func TestOpenRequiresURL(t *testing.T) {
	if _, err := Open(context.Background(), " "); err == nil {
		t.Fatal("expected empty url error")
	}
}

func TestSessionRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	n, err := store.ImportRoster(ctx, []attendance.Attendee{
		{ID: "1", Name: "Uno", Role: "Operario"},
		{ID: "2", Name: "Dos", Role: "Soldador"},
		{ID: "3", Name: "Tres", Role: "Inspector"},
		{ID: "", Name: "Vacío"},
	})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if n != 3 {
		t.Fatalf("imported %d, want 3", n)
	}

	if _, err := storage.AttendeeForSigning(ctx, store, "1"); !errors.Is(err, storage.ErrNoFacilitator) {
		t.Fatalf("AttendeeForSigning error = %v, want ErrNoFacilitator", err)
	}
	f := attendance.Facilitator{ID: "50", Name: "Ana", Topic: "Alturas", Signature: "s"}
	if err := store.UpsertFacilitator(ctx, f); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	base := time.Date(2026, time.March, 4, 14, 0, 0, 0, time.UTC)
	for _, s := range []struct {
		id string
		at time.Time
	}{
		{"3", base},
		{"2", base.Add(time.Minute)},
		{"1", base.Add(time.Minute)},
	} {
		if err := store.SignAttendee(ctx, s.id, "sig-"+s.id, s.at); err != nil {
			t.Fatalf("sign %s: %v", s.id, err)
		}
	}
	if err := store.SignAttendee(ctx, "404", "x", base); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("sign unknown error = %v, want ErrNotFound", err)
	}

	snap, err := store.Snapshot(ctx)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if snap.Facilitator == nil || *snap.Facilitator != f {
		t.Fatalf("facilitator = %+v, want %+v", snap.Facilitator, f)
	}
	var ids string
	for _, a := range snap.Attendees {
		ids += a.ID
	}
	if ids != "312" {
		t.Fatalf("order = %s, want 312", ids)
	}
	if !snap.Attendees[0].SignedAt.Equal(base) {
		t.Fatalf("signed_at = %v, want %v", snap.Attendees[0].SignedAt, base)
	}

	if err := store.Reset(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if ok, err := store.HasFacilitator(ctx); err != nil || ok {
		t.Fatalf("HasFacilitator after reset = %v, %v", ok, err)
	}
}
