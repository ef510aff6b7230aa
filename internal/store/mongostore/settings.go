package mongostore

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"driver-scheduler/internal/model"
	"driver-scheduler/internal/store"
)

func (s *Store) GetAuthConfig(ctx context.Context, user string) (*model.AuthConfig, error) {
	return findOne[model.AuthConfig](ctx, s.auth, bson.M{"user": user})
}

func (s *Store) UpsertPattern(ctx context.Context, user string, pattern []int, updatedAt string) error {
	_, err := s.auth.UpdateOne(ctx,
		bson.M{"user": user},
		bson.M{"$set": bson.M{"pattern": pattern, "updated_at": updatedAt}},
		options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert pattern: %w", err)
	}
	return nil
}

func (s *Store) GetSMSTemplate(ctx context.Context) (*model.SMSTemplate, error) {
	t, err := findOne[model.SMSTemplate](ctx, s.settings, bson.M{"key": store.SMSTemplateKey})
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("get sms template: %w", err)
	}
	return t, err
}

func (s *Store) SaveSMSTemplate(ctx context.Context, t *model.SMSTemplate) error {
	_, err := s.settings.UpdateOne(ctx,
		bson.M{"key": store.SMSTemplateKey},
		bson.M{"$set": bson.M{
			"greeting":   t.Greeting,
			"fields":     t.Fields,
			"closing":    t.Closing,
			"updated_at": t.UpdatedAt,
		}},
		options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save sms template: %w", err)
	}
	return nil
}
