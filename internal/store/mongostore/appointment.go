package mongostore

import (
	"context"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"

	"driver-scheduler/internal/model"
)

func (s *Store) InsertAppointment(ctx context.Context, a *model.Appointment) error {
	if _, err := s.appts.InsertOne(ctx, a); err != nil {
		return fmt.Errorf("insert appointment: %w", err)
	}
	return nil
}

// filter builds the query document for f. Client name and date are
// matched literally; user input never reaches the regex engine unquoted.
func filter(f model.AppointmentFilter) bson.M {
	var conds []bson.M
	if f.Status != "" {
		conds = append(conds, bson.M{"status": f.Status})
	}
	if f.ClientName != "" {
		conds = append(conds, bson.M{"client_name": bson.M{
			"$regex": regexp.QuoteMeta(f.ClientName), "$options": "i",
		}})
	}
	if f.DatePrefix != "" {
		conds = append(conds, bson.M{"pickup_time": bson.M{"$regex": "^" + regexp.QuoteMeta(f.DatePrefix)}})
	}
	if f.AppointmentTypeID != "" {
		conds = append(conds, bson.M{"appointment_type_id": f.AppointmentTypeID})
	}
	if f.PickupFrom != "" || f.PickupTo != "" {
		r := bson.M{}
		if f.PickupFrom != "" {
			r["$gte"] = f.PickupFrom
		}
		if f.PickupTo != "" {
			r["$lte"] = f.PickupTo
		}
		conds = append(conds, bson.M{"pickup_time": r})
	}
	switch len(conds) {
	case 0:
		return bson.M{}
	case 1:
		return conds[0]
	}
	return bson.M{"$and": conds}
}

func (s *Store) ListAppointments(ctx context.Context, f model.AppointmentFilter, limit int) ([]model.Appointment, error) {
	out, err := findAll[model.Appointment](ctx, s.appts, filter(f), limit)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	return out, nil
}

func (s *Store) GetAppointment(ctx context.Context, id string) (*model.Appointment, error) {
	return findOne[model.Appointment](ctx, s.appts, bson.M{"id": id})
}

func (s *Store) UpdateAppointment(ctx context.Context, id string, fields map[string]any) error {
	return setByID(ctx, s.appts, id, fields)
}

func (s *Store) DeleteAppointment(ctx context.Context, id string) error {
	return deleteByID(ctx, s.appts, id)
}

func (s *Store) CountAppointmentsByType(ctx context.Context, typeID string) (int64, error) {
	n, err := s.appts.CountDocuments(ctx, bson.M{"appointment_type_id": typeID})
	if err != nil {
		return 0, fmt.Errorf("count appointments: %w", err)
	}
	return n, nil
}
