package pgstore

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
	_, err = s.pool.Exec(ctx,
		`INSERT INTO appointments (id, doc) VALUES ($1, $2::jsonb)`, a.ID, doc)
	if err != nil {
		return fmt.Errorf("insert appointment: %w", err)
	}
	return nil
}

// where renders f as a conjunction of placeholders starting at $1.
func where(f model.AppointmentFilter) (string, []any) {
	var conds []string
	var args []any
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.Status != "" {
		add(`doc->>'status' = $%d`, f.Status)
	}
	if f.ClientName != "" {
		add(`strpos(lower(doc->>'client_name'), lower($%d)) > 0`, f.ClientName)
	}
	if f.DatePrefix != "" {
		add(`starts_with(doc->>'pickup_time', $%d)`, f.DatePrefix)
	}
	if f.AppointmentTypeID != "" {
		add(`doc->>'appointment_type_id' = $%d`, f.AppointmentTypeID)
	}
	if f.PickupFrom != "" {
		add(`(doc->>'pickup_time') COLLATE "C" >= $%d`, f.PickupFrom)
	}
	if f.PickupTo != "" {
		add(`(doc->>'pickup_time') COLLATE "C" <= $%d`, f.PickupTo)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (s *Store) ListAppointments(ctx context.Context, f model.AppointmentFilter, limit int) ([]model.Appointment, error) {
	w, args := where(f)
	args = append(args, limit)
	q := fmt.Sprintf(`SELECT doc FROM appointments%s ORDER BY seq LIMIT $%d`, w, len(args))
	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	return scanDocs[model.Appointment](rows)
}

func (s *Store) GetAppointment(ctx context.Context, id string) (*model.Appointment, error) {
	return getDoc[model.Appointment](ctx, s.pool,
		`SELECT doc FROM appointments WHERE id = $1`, id)
}

func (s *Store) UpdateAppointment(ctx context.Context, id string, fields map[string]any) error {
	return s.merge(ctx, "appointments", id, fields)
}

func (s *Store) DeleteAppointment(ctx context.Context, id string) error {
	return s.remove(ctx, "appointments", id)
}

func (s *Store) CountAppointmentsByType(ctx context.Context, typeID string) (int64, error) {
	var n int64
	err := s.pool.QueryRow(ctx,
		`SELECT count(*) FROM appointments WHERE doc->>'appointment_type_id' = $1`, typeID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count appointments: %w", err)
	}
	return n, nil
}
