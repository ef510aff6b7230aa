package sqlitestore

import (
	"context"
	"errors"
	"fmt"

	"driver-scheduler/internal/model"
	"driver-scheduler/internal/store"
)

func (s *Store) GetAuthConfig(ctx context.Context, user string) (*model.AuthConfig, error) {
	return getDoc[model.AuthConfig](ctx, s.db,
		`SELECT doc FROM auth_config WHERE user_name = ?`, user)
}

func (s *Store) UpsertPattern(ctx context.Context, user string, pattern []int, updatedAt string) error {
	doc, err := encode(model.AuthConfig{User: user, Pattern: pattern, UpdatedAt: updatedAt})
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO auth_config (user_name, doc) VALUES (?, json(?))
		ON CONFLICT (user_name) DO UPDATE SET doc = json_patch(auth_config.doc, excluded.doc)`,
		user, doc)
	if err != nil {
		return fmt.Errorf("upsert pattern: %w", err)
	}
	return nil
}

func (s *Store) GetSMSTemplate(ctx context.Context) (*model.SMSTemplate, error) {
	t, err := getDoc[model.SMSTemplate](ctx, s.db,
		`SELECT doc FROM settings WHERE name = ?`, store.SMSTemplateKey)
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
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO settings (name, doc) VALUES (?, json(?))
		ON CONFLICT (name) DO UPDATE SET doc = excluded.doc`,
		store.SMSTemplateKey, doc)
	if err != nil {
		return fmt.Errorf("save sms template: %w", err)
	}
	return nil
}
