package sqlitestore

import (
	"context"
	"fmt"

	"driver-scheduler/internal/model"
)

func (s *Store) InsertType(ctx context.Context, t *model.AppointmentType) error {
	doc, err := encode(t)
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO appointment_types (id, doc) VALUES (?, json(?))`, t.ID, doc); err != nil {
		return fmt.Errorf("insert appointment type: %w", err)
	}
	return nil
}

func (s *Store) InsertTypes(ctx context.Context, ts []model.AppointmentType) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	for i := range ts {
		doc, err := encode(&ts[i])
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO appointment_types (id, doc) VALUES (?, json(?))`, ts[i].ID, doc); err != nil {
			return fmt.Errorf("insert appointment types: %w", err)
		}
	}
	return tx.Commit()
}

func (s *Store) ListTypes(ctx context.Context, limit int) ([]model.AppointmentType, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT doc FROM appointment_types ORDER BY seq LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list appointment types: %w", err)
	}
	return scanDocs[model.AppointmentType](rows)
}

func (s *Store) GetType(ctx context.Context, id string) (*model.AppointmentType, error) {
	return getDoc[model.AppointmentType](ctx, s.db,
		`SELECT doc FROM appointment_types WHERE id = ?`, id)
}

func (s *Store) UpdateType(ctx context.Context, id string, fields map[string]any) error {
	return s.merge(ctx, "appointment_types", id, fields)
}

func (s *Store) DeleteType(ctx context.Context, id string) error {
	return s.remove(ctx, "appointment_types", id)
}

func (s *Store) CountTypes(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM appointment_types`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count appointment types: %w", err)
	}
	return n, nil
}
