// Package migrate normalizes appointment documents written by older
// revisions of the scheduler.
package migrate

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"

	"driver-scheduler/internal/model"
	"driver-scheduler/internal/store"
)

// SeedCreatedAt is the created_at given to seeded default types.
const SeedCreatedAt = "2025-10-18T00:00:00"

// DefaultTypes are seeded into an empty registry. Code is the value the
// legacy appointment_type field used for the category.
var DefaultTypes = []struct {
	Code, Name, Color, Icon string
}{
	{"airport", "機場接送", "#9333ea", "Plane"},
	{"city", "市區接送", "#06b6d4", "Car"},
	{"corporate", "商務用車", "#64748b", "Briefcase"},
	{"personal", "私人行程", "#10b981", "User"},
	{"vip", "VIP 專屬", "#f59e0b", "Star"},
}

var ErrNoTypes = errors.New("no appointment types to default to")

type Result struct {
	Seeded            int
	DefaultTypeID     string
	Retyped           int64
	Backfilled        int64
	LuggageNormalized int64
}

// Run seeds the registry when empty and rewrites legacy appointments.
// It stops at the first store error; running it again resumes.
func Run(ctx context.Context, st store.Store) (*Result, error) {
	res := &Result{}

	n, err := st.CountTypes(ctx)
	if err != nil {
		return nil, fmt.Errorf("count types: %w", err)
	}
	var seeded []model.AppointmentType
	if n == 0 {
		for _, d := range DefaultTypes {
			seeded = append(seeded, model.AppointmentType{
				ID:        uuid.New().String(),
				Name:      d.Name,
				Color:     d.Color,
				Icon:      d.Icon,
				CreatedAt: SeedCreatedAt,
			})
		}
		if err := st.InsertTypes(ctx, seeded); err != nil {
			return nil, fmt.Errorf("seed types: %w", err)
		}
		res.Seeded = len(seeded)
		log.Printf("[migrate] created %d default appointment types", len(seeded))
	}

	types, err := st.ListTypes(ctx, 1000)
	if err != nil {
		return nil, fmt.Errorf("list types: %w", err)
	}
	if len(types) == 0 {
		return nil, ErrNoTypes
	}
	res.DefaultTypeID = types[0].ID

	mapping := codeMapping(seeded, types)
	if res.Retyped, err = st.MigrateLegacyTypes(ctx, mapping, res.DefaultTypeID); err != nil {
		return nil, err
	}
	log.Printf("[migrate] updated %d appointments with old type field", res.Retyped)

	if res.Backfilled, err = st.BackfillTypeID(ctx, res.DefaultTypeID); err != nil {
		return nil, err
	}
	log.Printf("[migrate] added type id to %d appointments without type", res.Backfilled)

	if res.LuggageNormalized, err = st.NormalizeLuggage(ctx); err != nil {
		return nil, err
	}
	log.Printf("[migrate] folded luggage count into %d appointments", res.LuggageNormalized)
	return res, nil
}

// codeMapping pairs legacy codes with type ids. Freshly seeded types map
// positionally; otherwise a code maps to the first existing type that
// still carries its default name. Codes with no match are left out and
// fall through to the default type.
func codeMapping(seeded, existing []model.AppointmentType) map[string]string {
	m := map[string]string{}
	if len(seeded) == len(DefaultTypes) {
		for i, d := range DefaultTypes {
			m[d.Code] = seeded[i].ID
		}
		return m
	}
	for _, d := range DefaultTypes {
		for _, t := range existing {
			if t.Name == d.Name {
				m[d.Code] = t.ID
				break
			}
		}
	}
	return m
}

// RenameType renames every type called from.
func RenameType(ctx context.Context, st store.Store, from, to string) (int64, error) {
	if from == "" || to == "" {
		return 0, errors.New("rename needs both names")
	}
	n, err := st.RenameType(ctx, from, to)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		log.Printf("[migrate] no appointment type named %q", from)
	} else {
		log.Printf("[migrate] renamed %q to %q on %d types", from, to, n)
	}
	return n, nil
}
