package pgstore

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"driver-scheduler/internal/model"
	"driver-scheduler/internal/store"
)

func (s *Store) InsertType(ctx context.Context, t *model.AppointmentType) error {
	doc, err := encode(t)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO appointment_types (id, doc) VALUES ($1, $2::jsonb)`, t.ID, doc)
	if err != nil {
		return fmt.Errorf("insert appointment type: %w", err)
	}
	return nil
}

// InsertTypes writes ts in one batch so their seq order follows the slice.
func (s *Store) InsertTypes(ctx context.Context, ts []model.AppointmentType) error {
	batch := &pgx.Batch{}
	for i := range ts {
		doc, err := encode(&ts[i])
		if err != nil {
			return err
		}
		batch.Queue(`INSERT INTO appointment_types (id, doc) VALUES ($1, $2::jsonb)`, ts[i].ID, doc)
	}
	if err := s.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert appointment types: %w", err)
	}
	return nil
}

func (s *Store) ListTypes(ctx context.Context, limit int) ([]model.AppointmentType, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT doc FROM appointment_types ORDER BY seq LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list appointment types: %w", err)
	}
	return scanDocs[model.AppointmentType](rows)
}

func (s *Store) GetType(ctx context.Context, id string) (*model.AppointmentType, error) {
	return getDoc[model.AppointmentType](ctx, s.pool,
		`SELECT doc FROM appointment_types WHERE id = $1`, id)
}

func (s *Store) UpdateType(ctx context.Context, id string, fields map[string]any) error {
	return s.merge(ctx, "appointment_types", id, fields)
}

func (s *Store) DeleteType(ctx context.Context, id string) error {
	return s.remove(ctx, "appointment_types", id)
}

func (s *Store) CountTypes(ctx context.Context) (int64, error) {
	var n int64
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM appointment_types`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count appointment types: %w", err)
	}
	return n, nil
}

// merge overlays fields onto the stored document of id. The table name
// is always one of the package constants.
func (s *Store) merge(ctx context.Context, table, id string, fields map[string]any) error {
	patch, err := encode(fields)
	if err != nil {
		return err
	}
	tag, err := s.pool.Exec(ctx,
		`UPDATE `+table+` SET doc = doc || $2::jsonb WHERE id = $1`, id, patch)
	if err != nil {
		return fmt.Errorf("update %s: %w", table, err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) remove(ctx context.Context, table, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM `+table+` WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete %s: %w", table, err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}
