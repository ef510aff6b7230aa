package service

import (
	"context"
	"errors"

	"driver-scheduler/internal/events"
	"driver-scheduler/internal/model"
	"driver-scheduler/internal/store"
)

// AppointmentInput is the creation body. Status defaults to scheduled,
// amount to 0 and the descriptive strings to "".
type AppointmentInput struct {
	ClientName        string  `json:"client_name" validate:"required"`
	PickupTime        string  `json:"pickup_time" validate:"required"`
	PickupLocation    string  `json:"pickup_location" validate:"required"`
	ArrivalTime       string  `json:"arrival_time" validate:"required"`
	ArrivalLocation   string  `json:"arrival_location" validate:"required"`
	FlightInfo        string  `json:"flight_info"`
	LuggagePassengers string  `json:"luggage_passengers"`
	OtherDetails      string  `json:"other_details"`
	Amount            float64 `json:"amount" validate:"gte=0"`
	AppointmentTypeID string  `json:"appointment_type_id"`
	Status            string  `json:"status" validate:"omitempty,status"`
}

const appointmentNotFound = "Appointment not found"

func (s *Service) CreateAppointment(ctx context.Context, in AppointmentInput) (*model.Appointment, error) {
	if err := check(in); err != nil {
		return nil, err
	}
	if in.Status == "" {
		in.Status = model.StatusScheduled
	}
	now := s.stamp()
	a := &model.Appointment{
		ID:                newID(),
		ClientName:        in.ClientName,
		PickupTime:        in.PickupTime,
		PickupLocation:    in.PickupLocation,
		ArrivalTime:       in.ArrivalTime,
		ArrivalLocation:   in.ArrivalLocation,
		FlightInfo:        in.FlightInfo,
		LuggagePassengers: in.LuggagePassengers,
		OtherDetails:      in.OtherDetails,
		Amount:            in.Amount,
		AppointmentTypeID: in.AppointmentTypeID,
		Status:            in.Status,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.store.InsertAppointment(ctx, a); err != nil {
		return nil, err
	}
	s.publish(ctx, events.AppointmentCreated, a.ID, a)
	return a, nil
}

func (s *Service) ListAppointments(ctx context.Context, f model.AppointmentFilter) ([]model.Appointment, error) {
	return s.store.ListAppointments(ctx, f, ListLimit)
}

func (s *Service) GetAppointment(ctx context.Context, id string) (*model.Appointment, error) {
	a, err := s.store.GetAppointment(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, notFound(appointmentNotFound)
	}
	return a, err
}

// UpdateAppointment applies the supplied fields and always refreshes
// updated_at, even for an empty patch.
func (s *Service) UpdateAppointment(ctx context.Context, id string, p model.AppointmentPatch) (*model.Appointment, error) {
	if err := check(p); err != nil {
		return nil, err
	}
	a, err := s.GetAppointment(ctx, id)
	if err != nil {
		return nil, err
	}
	fields := p.Fields()
	stamp := s.stamp()
	if stamp < a.UpdatedAt {
		// clock stepped back; never move updated_at backwards
		stamp = a.UpdatedAt
	}
	fields["updated_at"] = stamp
	if err := s.store.UpdateAppointment(ctx, id, fields); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, notFound(appointmentNotFound)
		}
		return nil, err
	}
	p.ApplyTo(a)
	a.UpdatedAt = stamp
	s.publish(ctx, events.AppointmentUpdated, id, fields)
	return a, nil
}

func (s *Service) DeleteAppointment(ctx context.Context, id string) error {
	if err := s.store.DeleteAppointment(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return notFound(appointmentNotFound)
		}
		return err
	}
	s.publish(ctx, events.AppointmentDeleted, id, nil)
	return nil
}
