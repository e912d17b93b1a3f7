package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/repairtrack-api/internal/domain"
	"github.com/repairtrack-api/internal/push/apns"
	"github.com/repairtrack-api/internal/push/fcm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockResolver struct{ mock.Mock }

func (m *mockResolver) ResolveByBusiness(ctx context.Context, businessID string) ([]string, error) {
	args := m.Called(ctx, businessID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *mockResolver) ResolveByMobile(ctx context.Context, mobile string) ([]string, error) {
	args := m.Called(ctx, mobile)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type mockDispatcher struct{ mock.Mock }

func (m *mockDispatcher) Dispatch(ctx context.Context, tokens []string, fcmMsg *fcm.Message, apnsPayload *apns.Payload) []domain.BatchResult {
	args := m.Called(ctx, tokens, fcmMsg, apnsPayload)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]domain.BatchResult)
}

func validBroadcast() BroadcastRequest {
	return BroadcastRequest{BusinessID: "biz1", Title: "t", Message: "m"}
}

func TestBroadcast_MissingFields(t *testing.T) {
	resolver := new(mockResolver)
	svc := NewService(resolver, new(mockDispatcher))

	_, err := svc.Broadcast(context.Background(), BroadcastRequest{Title: "t"})
	assert.ErrorIs(t, err, domain.ErrBadRequest)
	resolver.AssertNotCalled(t, "ResolveByBusiness", mock.Anything, mock.Anything)
}

func TestBroadcast_NoRecipients(t *testing.T) {
	resolver := new(mockResolver)
	dispatcher := new(mockDispatcher)
	svc := NewService(resolver, dispatcher)

	resolver.On("ResolveByBusiness", mock.Anything, "biz1").Return([]string{}, nil)

	report, err := svc.Broadcast(context.Background(), validBroadcast())
	require.NoError(t, err)
	assert.Equal(t, "No recipients found", report.Message)
	assert.Zero(t, report.TotalTokens)
	dispatcher.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestBroadcast_ResolveError(t *testing.T) {
	resolver := new(mockResolver)
	svc := NewService(resolver, new(mockDispatcher))

	resolver.On("ResolveByBusiness", mock.Anything, "biz1").Return(nil, errors.New("table unavailable"))

	_, err := svc.Broadcast(context.Background(), validBroadcast())
	assert.Error(t, err)
}

func TestBroadcast_DeliversAndAggregates(t *testing.T) {
	resolver := new(mockResolver)
	dispatcher := new(mockDispatcher)
	svc := NewService(resolver, dispatcher)

	tokens := []string{"tok-a", "tok-b", "tok-c", "tok-d"}
	resolver.On("ResolveByBusiness", mock.Anything, "biz1").Return(tokens, nil)
	dispatcher.On("Dispatch", mock.Anything, tokens, mock.Anything, mock.Anything).Return([]domain.BatchResult{
		{BatchIndex: 1, Channel: domain.ChannelFCM, SuccessCount: 3},
		{BatchIndex: 1, Channel: domain.ChannelAPNS, SuccessCount: 1},
	})

	report, err := svc.Broadcast(context.Background(), validBroadcast())
	require.NoError(t, err)
	assert.Equal(t, 4, report.TotalTokens)
	assert.Equal(t, 4, report.TotalSuccess)
	assert.Zero(t, report.TotalFailure)
	assert.Equal(t, "Dispatched to 4 tokens", report.Message)
	require.Len(t, report.BatchResults, 2)
}

func TestStatusUpdate_MissingFields(t *testing.T) {
	resolver := new(mockResolver)
	svc := NewService(resolver, new(mockDispatcher))

	_, err := svc.StatusUpdate(context.Background(), StatusUpdateRequest{Mobile: "111"})
	assert.ErrorIs(t, err, domain.ErrBadRequest)
	resolver.AssertNotCalled(t, "ResolveByMobile", mock.Anything, mock.Anything)
}

func TestStatusUpdate_Delivers(t *testing.T) {
	resolver := new(mockResolver)
	dispatcher := new(mockDispatcher)
	svc := NewService(resolver, dispatcher)

	resolver.On("ResolveByMobile", mock.Anything, "111").Return([]string{"tok-a"}, nil)
	dispatcher.On("Dispatch", mock.Anything, []string{"tok-a"}, mock.Anything, mock.Anything).Return([]domain.BatchResult{
		{BatchIndex: 1, Channel: domain.ChannelFCM, SuccessCount: 1},
	})

	report, err := svc.StatusUpdate(context.Background(), StatusUpdateRequest{Mobile: "111", Title: "t", Message: "m"})
	require.NoError(t, err)
	assert.Equal(t, 1, report.TotalSuccess)
	assert.Equal(t, "Dispatched to 1 tokens", report.Message)
}
