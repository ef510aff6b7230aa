package mongostore

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"

	"driver-scheduler/internal/model"
)

func (s *Store) InsertType(ctx context.Context, t *model.AppointmentType) error {
	if _, err := s.types.InsertOne(ctx, t); err != nil {
		return fmt.Errorf("insert appointment type: %w", err)
	}
	return nil
}

func (s *Store) InsertTypes(ctx context.Context, ts []model.AppointmentType) error {
	docs := make([]any, len(ts))
	for i := range ts {
		docs[i] = ts[i]
	}
	if _, err := s.types.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("insert appointment types: %w", err)
	}
	return nil
}

func (s *Store) ListTypes(ctx context.Context, limit int) ([]model.AppointmentType, error) {
	ts, err := findAll[model.AppointmentType](ctx, s.types, bson.M{}, limit)
	if err != nil {
		return nil, fmt.Errorf("list appointment types: %w", err)
	}
	return ts, nil
}

func (s *Store) GetType(ctx context.Context, id string) (*model.AppointmentType, error) {
	return findOne[model.AppointmentType](ctx, s.types, bson.M{"id": id})
}

func (s *Store) UpdateType(ctx context.Context, id string, fields map[string]any) error {
	return setByID(ctx, s.types, id, fields)
}

func (s *Store) DeleteType(ctx context.Context, id string) error {
	return deleteByID(ctx, s.types, id)
}

func (s *Store) CountTypes(ctx context.Context) (int64, error) {
	n, err := s.types.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count appointment types: %w", err)
	}
	return n, nil
}
