// Package service implements the scheduler operations shared by the HTTP
// and gRPC transports. Every error it returns that a caller can act on
// wraps one of ErrBadRequest, ErrUnauthorized or ErrNotFound.
package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"driver-scheduler/internal/events"
	"driver-scheduler/internal/model"
	"driver-scheduler/internal/store"
)

const (
	// ListLimit caps every list operation.
	ListLimit = 1000
	// StatsLimit caps the records folded into one income aggregation.
	StatsLimit = 10000
)

type Options struct {
	Secret       string
	Password     string
	PasswordHash string // bcrypt; takes precedence over Password
	Events       events.Publisher
	Now          func() time.Time
	ReportFont   string // TTF used by the PDF report, optional
}

type Service struct {
	store      store.Store
	secret     string
	password   string
	hash       string
	events     events.Publisher
	now        func() time.Time
	reportFont string
}

func New(st store.Store, o Options) *Service {
	s := &Service{
		store:      st,
		secret:     o.Secret,
		password:   o.Password,
		hash:       o.PasswordHash,
		events:     o.Events,
		now:        o.Now,
		reportFont: o.ReportFont,
	}
	if s.events == nil {
		s.events = events.Log{}
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Ping reports whether the store is reachable.
func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

func (s *Service) stamp() string {
	return model.Stamp(s.now())
}

func newID() string {
	return uuid.New().String()
}

func (s *Service) publish(ctx context.Context, typ, id string, data any) {
	s.events.Publish(ctx, events.Event{Type: typ, ID: id, At: s.stamp(), Data: data})
}
