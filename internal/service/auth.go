package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"driver-scheduler/internal/auth"
	"driver-scheduler/internal/events"
	"driver-scheduler/internal/store"
)

// MinPatternLength is the fewest dots a pattern lock may have.
const MinPatternLength = 4

type Credentials struct {
	Password string `json:"password,omitempty"`
	Pattern  []int  `json:"pattern,omitempty"`
}

type LoginResult struct {
	Token   string `json:"token"`
	Message string `json:"message"`
}

// Login accepts exactly one credential form. An empty password or pattern
// counts as not supplied.
func (s *Service) Login(ctx context.Context, c Credentials) (*LoginResult, error) {
	hasPassword, hasPattern := c.Password != "", len(c.Pattern) > 0
	switch {
	case hasPassword && hasPattern:
		return nil, badRequest("Provide either password or pattern, not both")
	case hasPassword:
		if !s.checkPassword(c.Password) {
			return nil, unauthorized("Invalid password")
		}
	case hasPattern:
		cfg, err := s.store.GetAuthConfig(ctx, auth.DriverUser)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("load auth config: %w", err)
		}
		if !cfg.HasPattern() {
			return nil, unauthorized("Pattern not set up")
		}
		if !auth.MatchPattern(cfg.Pattern, c.Pattern) {
			return nil, unauthorized("Invalid pattern")
		}
	default:
		return nil, badRequest("Password or pattern required")
	}

	tok, err := auth.MakeToken(auth.DriverUser, s.secret, s.now())
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &LoginResult{Token: tok, Message: "Login successful"}, nil
}

func (s *Service) checkPassword(pw string) bool {
	if s.hash != "" {
		return auth.CheckPassword(s.hash, pw)
	}
	return auth.MatchSecret(s.password, pw)
}

func (s *Service) PatternStatus(ctx context.Context) (bool, error) {
	cfg, err := s.store.GetAuthConfig(ctx, auth.DriverUser)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load auth config: %w", err)
	}
	return cfg.HasPattern(), nil
}

// SetupPattern replaces any stored pattern.
func (s *Service) SetupPattern(ctx context.Context, pattern []int) error {
	if len(pattern) < MinPatternLength {
		return badRequest("Pattern must have at least %d dots", MinPatternLength)
	}
	if err := s.store.UpsertPattern(ctx, auth.DriverUser, pattern, s.stamp()); err != nil {
		return err
	}
	s.publish(ctx, events.PatternSet, auth.DriverUser, nil)
	return nil
}

// VerifyToken returns the user a bearer token was issued to.
func (s *Service) VerifyToken(raw string) (string, error) {
	if raw == "" {
		return "", unauthorized("Not authenticated")
	}
	c, err := auth.ParseToken(raw, s.secret, s.now())
	if errors.Is(err, jwt.ErrTokenExpired) {
		return "", unauthorized("Token has expired")
	}
	if err != nil {
		return "", unauthorized("Invalid token")
	}
	return c.User, nil
}
