package sqlitestore

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

func (s *Store) MigrateLegacyTypes(ctx context.Context, mapping map[string]string, fallback string) (int64, error) {
	codes := make([]string, 0, len(mapping))
	for c := range mapping {
		codes = append(codes, c)
	}
	sort.Strings(codes)

	expr := "?"
	var args []any
	if len(codes) > 0 {
		var b strings.Builder
		b.WriteString(`CASE json_extract(doc, '$.appointment_type')`)
		for _, c := range codes {
			b.WriteString(" WHEN ? THEN ?")
			args = append(args, c, mapping[c])
		}
		b.WriteString(" ELSE ? END")
		expr = b.String()
	}
	args = append(args, fallback)

	res, err := s.db.ExecContext(ctx, `
		UPDATE appointments
		SET doc = json_set(json_remove(doc, '$.appointment_type'), '$.appointment_type_id', `+expr+`)
		WHERE json_type(doc, '$.appointment_type') IS NOT NULL`, args...)
	if err != nil {
		return 0, fmt.Errorf("migrate legacy types: %w", err)
	}
	return affected(res)
}

func (s *Store) BackfillTypeID(ctx context.Context, typeID string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE appointments
		SET doc = json_set(doc, '$.appointment_type_id', ?)
		WHERE json_type(doc, '$.appointment_type_id') IS NULL`, typeID)
	if err != nil {
		return 0, fmt.Errorf("backfill type id: %w", err)
	}
	return affected(res)
}

func (s *Store) NormalizeLuggage(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE appointments
		SET doc = json_set(json_remove(doc, '$.luggage_count'), '$.luggage_passengers',
			CASE WHEN COALESCE(json_extract(doc, '$.luggage_passengers'), '') <> ''
				THEN json_extract(doc, '$.luggage_passengers')
				ELSE CAST(COALESCE(json_extract(doc, '$.luggage_count'), '') AS TEXT)
			END)
		WHERE json_type(doc, '$.luggage_count') IS NOT NULL`)
	if err != nil {
		return 0, fmt.Errorf("normalize luggage: %w", err)
	}
	return affected(res)
}

func (s *Store) RenameType(ctx context.Context, from, to string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE appointment_types
		SET doc = json_set(doc, '$.name', ?)
		WHERE json_extract(doc, '$.name') = ?`, to, from)
	if err != nil {
		return 0, fmt.Errorf("rename type: %w", err)
	}
	return affected(res)
}
