package sqlitestore

import (
	"context"
	"fmt"
	"strings"

	"driver-scheduler/internal/model"
)

func (s *Store) InsertAppointment(ctx context.Context, a *model.Appointment) error {
	doc, err := encode(a)
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO appointments (id, doc) VALUES (?, json(?))`, a.ID, doc); err != nil {
		return fmt.Errorf("insert appointment: %w", err)
	}
	return nil
}

// where renders f as a conjunction. The client name match uses
// unicode_lower since SQLite's lower() folds ASCII only.
func where(f model.AppointmentFilter) (string, []any) {
	var conds []string
	var args []any
	add := func(cond string, v any) {
		conds = append(conds, cond)
		args = append(args, v)
	}
	if f.Status != "" {
		add(`json_extract(doc, '$.status') = ?`, f.Status)
	}
	if f.ClientName != "" {
		add(`instr(unicode_lower(json_extract(doc, '$.client_name')), unicode_lower(?)) > 0`, f.ClientName)
	}
	if f.DatePrefix != "" {
		add(`instr(json_extract(doc, '$.pickup_time'), ?) = 1`, f.DatePrefix)
	}
	if f.AppointmentTypeID != "" {
		add(`json_extract(doc, '$.appointment_type_id') = ?`, f.AppointmentTypeID)
	}
	if f.PickupFrom != "" {
		add(`json_extract(doc, '$.pickup_time') >= ?`, f.PickupFrom)
	}
	if f.PickupTo != "" {
		add(`json_extract(doc, '$.pickup_time') <= ?`, f.PickupTo)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (s *Store) ListAppointments(ctx context.Context, f model.AppointmentFilter, limit int) ([]model.Appointment, error) {
	w, args := where(f)
	rows, err := s.db.QueryContext(ctx,
		`SELECT doc FROM appointments`+w+` ORDER BY seq LIMIT ?`, append(args, limit)...)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	return scanDocs[model.Appointment](rows)
}

func (s *Store) GetAppointment(ctx context.Context, id string) (*model.Appointment, error) {
	return getDoc[model.Appointment](ctx, s.db,
		`SELECT doc FROM appointments WHERE id = ?`, id)
}

func (s *Store) UpdateAppointment(ctx context.Context, id string, fields map[string]any) error {
	return s.merge(ctx, "appointments", id, fields)
}

func (s *Store) DeleteAppointment(ctx context.Context, id string) error {
	return s.remove(ctx, "appointments", id)
}

func (s *Store) CountAppointmentsByType(ctx context.Context, typeID string) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx,
		`SELECT count(*) FROM appointments WHERE json_extract(doc, '$.appointment_type_id') = ?`,
		typeID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count appointments: %w", err)
	}
	return n, nil
}
