package devices

import (
	"context"
	"fmt"

	"github.com/repairtrack-api/internal/domain"
)

type Service interface {
	// RegisterToken records a push token on the caller's user record.
	// Re-registering a token the record already holds is a no-op.
	RegisterToken(ctx context.Context, uid, token string) error
}

type userStore interface {
	Get(ctx context.Context, uid string) (*domain.User, error)
	Update(ctx context.Context, uid string, updates map[string]interface{}) error
}

type service struct {
	users userStore
}

func NewService(users userStore) Service {
	return &service{users: users}
}

func (s *service) RegisterToken(ctx context.Context, uid, token string) error {
	if token == "" {
		return fmt.Errorf("token is required: %w", domain.ErrBadRequest)
	}

	u, err := s.users.Get(ctx, uid)
	if err != nil {
		return err
	}
	for _, t := range u.FCMTokens {
		if t == token {
			return nil
		}
	}

	tokens := u.FCMTokens
	// A non-empty list shadows the legacy single-token field during
	// resolution, so fold that token in before the list comes into effect.
	if len(tokens) == 0 && u.FCMToken != "" && u.FCMToken != token {
		tokens = append(tokens, u.FCMToken)
	}
	tokens = append(tokens, token)
	return s.users.Update(ctx, uid, map[string]interface{}{"fcm_tokens": tokens})
}
