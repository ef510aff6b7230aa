package service_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"driver-scheduler/internal/events"
	"driver-scheduler/internal/service"
	"driver-scheduler/internal/store/sqlitestore"
)

const secret = "test-secret"

type clock struct{ t time.Time }

func (c *clock) Now() time.Time          { return c.t }
func (c *clock) Advance(d time.Duration) { c.t = c.t.Add(d) }

type fixture struct {
	svc    *service.Service
	store  *sqlitestore.Store
	clock  *clock
	events *events.Recorder
}

func setup(t *testing.T, tweak ...func(*service.Options)) *fixture {
	t.Helper()
	ctx := context.Background()
	st, err := sqlitestore.Open(ctx, filepath.Join(t.TempDir(), "scheduler.db"))
	if err != nil {
		t.Fatalf("db: %v", err)
	}
	t.Cleanup(func() { st.Close(ctx) })

	f := &fixture{
		store:  st,
		clock:  &clock{t: time.Date(2025, 10, 18, 9, 30, 0, 0, time.UTC)},
		events: &events.Recorder{},
	}
	opts := service.Options{
		Secret:   secret,
		Password: "driver123",
		Events:   f.events,
		Now:      f.clock.Now,
	}
	for _, fn := range tweak {
		fn(&opts)
	}
	f.svc = service.New(st, opts)
	return f
}

func wantKind(t *testing.T, err, kind error, msg string) {
	t.Helper()
	if !errors.Is(err, kind) {
		t.Fatalf("expected %v, got %v", kind, err)
	}
	if msg != "" && service.Message(err) != msg {
		t.Errorf("message: got %q want %q", service.Message(err), msg)
	}
}
