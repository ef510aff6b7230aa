package pgstore

import (
	"context"
	"fmt"
)

func (s *Store) MigrateLegacyTypes(ctx context.Context, mapping map[string]string, fallback string) (int64, error) {
	m, err := encode(mapping)
	if err != nil {
		return 0, err
	}
	tag, err := s.pool.Exec(ctx, `
		UPDATE appointments
		SET doc = (doc - 'appointment_type') || jsonb_build_object(
			'appointment_type_id',
			COALESCE(($1::jsonb) ->> (doc->>'appointment_type'), $2::text))
		WHERE doc ? 'appointment_type'`, m, fallback)
	if err != nil {
		return 0, fmt.Errorf("migrate legacy types: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (s *Store) BackfillTypeID(ctx context.Context, typeID string) (int64, error) {
	tag, err := s.pool.Exec(ctx, `
		UPDATE appointments
		SET doc = jsonb_set(doc, '{appointment_type_id}', to_jsonb($1::text))
		WHERE NOT doc ? 'appointment_type_id'`, typeID)
	if err != nil {
		return 0, fmt.Errorf("backfill type id: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (s *Store) NormalizeLuggage(ctx context.Context) (int64, error) {
	tag, err := s.pool.Exec(ctx, `
		UPDATE appointments
		SET doc = (doc - 'luggage_count') || jsonb_build_object(
			'luggage_passengers',
			CASE WHEN COALESCE(doc->>'luggage_passengers', '') <> ''
				THEN doc->>'luggage_passengers'
				ELSE COALESCE(doc->>'luggage_count', '')
			END)
		WHERE doc ? 'luggage_count'`)
	if err != nil {
		return 0, fmt.Errorf("normalize luggage: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (s *Store) RenameType(ctx context.Context, from, to string) (int64, error) {
	tag, err := s.pool.Exec(ctx, `
		UPDATE appointment_types
		SET doc = jsonb_set(doc, '{name}', to_jsonb($2::text))
		WHERE doc->>'name' = $1`, from, to)
	if err != nil {
		return 0, fmt.Errorf("rename type: %w", err)
	}
	return tag.RowsAffected(), nil
}
