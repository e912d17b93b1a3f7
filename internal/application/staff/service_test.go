package staff

import (
	"context"
	"errors"
	"testing"

	"github.com/repairtrack-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockIdentity struct{ mock.Mock }

func (m *mockIdentity) CreateUser(ctx context.Context, email, password, displayName string) (string, error) {
	args := m.Called(ctx, email, password, displayName)
	return args.String(0), args.Error(1)
}

func (m *mockIdentity) DeleteUser(ctx context.Context, uid string) error {
	return m.Called(ctx, uid).Error(0)
}

func (m *mockIdentity) RevokeRefreshTokens(ctx context.Context, uid string) error {
	return m.Called(ctx, uid).Error(0)
}

type mockUserStore struct{ mock.Mock }

func (m *mockUserStore) Put(ctx context.Context, u *domain.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *mockUserStore) Delete(ctx context.Context, uid string) error {
	return m.Called(ctx, uid).Error(0)
}

type mockSMS struct{ mock.Mock }

func (m *mockSMS) SendSMS(ctx context.Context, to, message string) error {
	return m.Called(ctx, to, message).Error(0)
}

func validCreate() domain.CreateStaffRequest {
	return domain.CreateStaffRequest{
		Email:       "jo@example.com",
		Password:    "s3cret-pass",
		Name:        "Jo",
		Mobile:      "111",
		Permissions: []string{"repairs:write"},
		BusinessID:  "biz1",
	}
}

func TestCreate_InvalidRequest(t *testing.T) {
	identity := new(mockIdentity)
	svc := NewService(identity, new(mockUserStore), nil)

	req := validCreate()
	req.Password = "short"
	_, err := svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrBadRequest)
	identity.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCreate_Success(t *testing.T) {
	identity := new(mockIdentity)
	users := new(mockUserStore)
	sms := new(mockSMS)
	svc := NewService(identity, users, sms)

	identity.On("CreateUser", mock.Anything, "jo@example.com", "s3cret-pass", "Jo").Return("uid-1", nil)
	users.On("Put", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.UID == "uid-1" && u.Role == domain.RoleStaff && u.BusinessID == "biz1"
	})).Return(nil)
	sms.On("SendSMS", mock.Anything, "111", mock.Anything).Return(nil)

	u, err := svc.Create(context.Background(), validCreate())
	require.NoError(t, err)
	assert.Equal(t, "uid-1", u.UID)
	assert.Equal(t, domain.RoleStaff, u.Role)
	assert.False(t, u.CreatedAt.IsZero())
	identity.AssertExpectations(t)
	users.AssertExpectations(t)
	sms.AssertExpectations(t)
}

func TestCreate_IdentityFailure(t *testing.T) {
	identity := new(mockIdentity)
	users := new(mockUserStore)
	svc := NewService(identity, users, nil)

	identity.On("CreateUser", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("", errors.New("email already exists"))

	_, err := svc.Create(context.Background(), validCreate())
	assert.Error(t, err)
	users.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
}

func TestCreate_StoreFailureRollsBackIdentity(t *testing.T) {
	identity := new(mockIdentity)
	users := new(mockUserStore)
	svc := NewService(identity, users, nil)

	identity.On("CreateUser", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("uid-1", nil)
	users.On("Put", mock.Anything, mock.Anything).Return(errors.New("table unavailable"))
	identity.On("DeleteUser", mock.Anything, "uid-1").Return(nil)

	_, err := svc.Create(context.Background(), validCreate())
	assert.Error(t, err)
	identity.AssertCalled(t, "DeleteUser", mock.Anything, "uid-1")
}

func TestCreate_SMSFailureIsNotFatal(t *testing.T) {
	identity := new(mockIdentity)
	users := new(mockUserStore)
	sms := new(mockSMS)
	svc := NewService(identity, users, sms)

	identity.On("CreateUser", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("uid-1", nil)
	users.On("Put", mock.Anything, mock.Anything).Return(nil)
	sms.On("SendSMS", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("sns throttled"))

	u, err := svc.Create(context.Background(), validCreate())
	require.NoError(t, err)
	assert.Equal(t, "uid-1", u.UID)
}

func TestDelete(t *testing.T) {
	identity := new(mockIdentity)
	users := new(mockUserStore)
	svc := NewService(identity, users, nil)

	identity.On("DeleteUser", mock.Anything, "uid-1").Return(nil)
	users.On("Delete", mock.Anything, "uid-1").Return(nil)

	require.NoError(t, svc.Delete(context.Background(), "uid-1"))
	identity.AssertExpectations(t)
	users.AssertExpectations(t)
}

func TestDelete_EmptyUID(t *testing.T) {
	svc := NewService(new(mockIdentity), new(mockUserStore), nil)
	assert.ErrorIs(t, svc.Delete(context.Background(), ""), domain.ErrBadRequest)
}

func TestDelete_IdentityFailureSkipsStore(t *testing.T) {
	identity := new(mockIdentity)
	users := new(mockUserStore)
	svc := NewService(identity, users, nil)

	identity.On("DeleteUser", mock.Anything, "uid-1").Return(errors.New("not found"))

	assert.Error(t, svc.Delete(context.Background(), "uid-1"))
	users.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestSignOutAllDevices(t *testing.T) {
	identity := new(mockIdentity)
	svc := NewService(identity, new(mockUserStore), nil)

	identity.On("RevokeRefreshTokens", mock.Anything, "uid-1").Return(nil)
	require.NoError(t, svc.SignOutAllDevices(context.Background(), "uid-1"))
	identity.AssertExpectations(t)
}

func TestSignOutAllDevices_EmptyCaller(t *testing.T) {
	svc := NewService(new(mockIdentity), new(mockUserStore), nil)
	assert.ErrorIs(t, svc.SignOutAllDevices(context.Background(), ""), domain.ErrUnauthorized)
}
