package service

import (
	"context"
	"errors"

	"driver-scheduler/internal/events"
	"driver-scheduler/internal/model"
	"driver-scheduler/internal/store"
)

type TypeInput struct {
	Name  string `json:"name" validate:"required"`
	Color string `json:"color" validate:"required"`
	Icon  string `json:"icon" validate:"required"`
}

const typeNotFound = "Appointment type not found"

func (s *Service) CreateType(ctx context.Context, in TypeInput) (*model.AppointmentType, error) {
	if err := check(in); err != nil {
		return nil, err
	}
	t := &model.AppointmentType{
		ID:        newID(),
		Name:      in.Name,
		Color:     in.Color,
		Icon:      in.Icon,
		CreatedAt: s.stamp(),
	}
	if err := s.store.InsertType(ctx, t); err != nil {
		return nil, err
	}
	s.publish(ctx, events.AppointmentTypeCreated, t.ID, t)
	return t, nil
}

func (s *Service) ListTypes(ctx context.Context) ([]model.AppointmentType, error) {
	return s.store.ListTypes(ctx, ListLimit)
}

// UpdateType applies the supplied fields. An empty patch returns the
// stored record untouched.
func (s *Service) UpdateType(ctx context.Context, id string, p model.TypePatch) (*model.AppointmentType, error) {
	t, err := s.store.GetType(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, notFound(typeNotFound)
	}
	if err != nil {
		return nil, err
	}
	fields := p.Fields()
	if len(fields) == 0 {
		return t, nil
	}
	if err := s.store.UpdateType(ctx, id, fields); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, notFound(typeNotFound)
		}
		return nil, err
	}
	p.ApplyTo(t)
	s.publish(ctx, events.AppointmentTypeUpdated, id, fields)
	return t, nil
}

// DeleteType refuses while any appointment still references id. The
// count and the delete are separate store calls.
func (s *Service) DeleteType(ctx context.Context, id string) error {
	n, err := s.store.CountAppointmentsByType(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return badRequest("Cannot delete: %d appointments still use this type", n)
	}
	if err := s.store.DeleteType(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return notFound(typeNotFound)
		}
		return err
	}
	s.publish(ctx, events.AppointmentTypeDeleted, id, nil)
	return nil
}
