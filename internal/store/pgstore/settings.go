package pgstore

import (
	"context"
	"errors"
	"fmt"

	"driver-scheduler/internal/model"
	"driver-scheduler/internal/store"
)

func (s *Store) GetAuthConfig(ctx context.Context, user string) (*model.AuthConfig, error) {
	return getDoc[model.AuthConfig](ctx, s.pool,
		`SELECT doc FROM auth_config WHERE user_name = $1`, user)
}

func (s *Store) UpsertPattern(ctx context.Context, user string, pattern []int, updatedAt string) error {
	doc, err := encode(model.AuthConfig{User: user, Pattern: pattern, UpdatedAt: updatedAt})
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO auth_config (user_name, doc) VALUES ($1, $2::jsonb)
		ON CONFLICT (user_name) DO UPDATE SET doc = auth_config.doc || EXCLUDED.doc`,
		user, doc)
	if err != nil {
		return fmt.Errorf("upsert pattern: %w", err)
	}
	return nil
}

// GetSMSTemplate returns store.ErrNotFound until a template is saved.
func (s *Store) GetSMSTemplate(ctx context.Context) (*model.SMSTemplate, error) {
	t, err := getDoc[model.SMSTemplate](ctx, s.pool,
		`SELECT doc FROM settings WHERE key = $1`, store.SMSTemplateKey)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("get sms template: %w", err)
	}
	return t, err
}

func (s *Store) SaveSMSTemplate(ctx context.Context, t *model.SMSTemplate) error {
	doc, err := encode(t)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO settings (key, doc) VALUES ($1, $2::jsonb)
		ON CONFLICT (key) DO UPDATE SET doc = EXCLUDED.doc`,
		store.SMSTemplateKey, doc)
	if err != nil {
		return fmt.Errorf("save sms template: %w", err)
	}
	return nil
}
