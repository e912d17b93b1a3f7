package staff

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/repairtrack-api/internal/domain"
	"github.com/repairtrack-api/internal/pkg/validate"
)

type Service interface {
	Create(ctx context.Context, req domain.CreateStaffRequest) (*domain.User, error)
	Delete(ctx context.Context, staffUID string) error
	SignOutAllDevices(ctx context.Context, callerUID string) error
}

type identityProvider interface {
	CreateUser(ctx context.Context, email, password, displayName string) (string, error)
	DeleteUser(ctx context.Context, uid string) error
	RevokeRefreshTokens(ctx context.Context, uid string) error
}

type userStore interface {
	Put(ctx context.Context, u *domain.User) error
	Delete(ctx context.Context, uid string) error
}

type smsSender interface {
	SendSMS(ctx context.Context, to, message string) error
}

type service struct {
	identity identityProvider
	users    userStore
	sms      smsSender
}

// NewService wires the staff account operations. sms may be nil; the welcome
// message is then skipped.
func NewService(identity identityProvider, users userStore, sms smsSender) Service {
	return &service{identity: identity, users: users, sms: sms}
}

// Create provisions the account with the identity provider, then stores the
// staff record under the returned uid. If the record write fails the
// identity account is deleted again so the two stores stay consistent.
func (s *service) Create(ctx context.Context, req domain.CreateStaffRequest) (*domain.User, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%s: %w", err.Error(), domain.ErrBadRequest)
	}

	uid, err := s.identity.CreateUser(ctx, req.Email, req.Password, req.Name)
	if err != nil {
		return nil, fmt.Errorf("create identity account: %w", err)
	}

	now := time.Now().UTC()
	u := &domain.User{
		UID:         uid,
		Email:       req.Email,
		Name:        req.Name,
		Mobile:      req.Mobile,
		Role:        domain.RoleStaff,
		BusinessID:  req.BusinessID,
		Permissions: req.Permissions,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.users.Put(ctx, u); err != nil {
		if delErr := s.identity.DeleteUser(ctx, uid); delErr != nil {
			slog.Error("could not roll back identity account", "uid", uid, "err", delErr)
		}
		return nil, fmt.Errorf("store staff record: %w", err)
	}

	if s.sms != nil {
		msg := fmt.Sprintf("Hi %s, your staff account is ready. Sign in with %s.", req.Name, req.Email)
		if err := s.sms.SendSMS(ctx, req.Mobile, msg); err != nil {
			slog.Warn("welcome sms failed", "uid", uid, "err", err)
		}
	}

	return u, nil
}

func (s *service) Delete(ctx context.Context, staffUID string) error {
	if staffUID == "" {
		return fmt.Errorf("staffUid is required: %w", domain.ErrBadRequest)
	}
	if err := s.identity.DeleteUser(ctx, staffUID); err != nil {
		return fmt.Errorf("delete identity account: %w", err)
	}
	return s.users.Delete(ctx, staffUID)
}

// SignOutAllDevices revokes every refresh token the identity provider has
// issued to the caller. Bearers already in the wild expire on their own.
func (s *service) SignOutAllDevices(ctx context.Context, callerUID string) error {
	if callerUID == "" {
		return fmt.Errorf("caller identity required: %w", domain.ErrUnauthorized)
	}
	return s.identity.RevokeRefreshTokens(ctx, callerUID)
}
