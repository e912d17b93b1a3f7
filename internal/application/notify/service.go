package notify

import (
	"context"
	"fmt"

	"github.com/repairtrack-api/internal/domain"
	"github.com/repairtrack-api/internal/pkg/validate"
	"github.com/repairtrack-api/internal/push/apns"
	"github.com/repairtrack-api/internal/push/fcm"
)

type BroadcastRequest struct {
	BusinessID string            `json:"businessId" validate:"required"`
	Title      string            `json:"title" validate:"required"`
	Message    string            `json:"message" validate:"required"`
	ImageURL   string            `json:"imageUrl,omitempty"`
	Data       map[string]string `json:"data,omitempty"`
}

type StatusUpdateRequest struct {
	Mobile   string            `json:"mobile" validate:"required"`
	Title    string            `json:"title" validate:"required"`
	Message  string            `json:"message" validate:"required"`
	ImageURL string            `json:"imageUrl,omitempty"`
	Data     map[string]string `json:"data,omitempty"`
}

type Service interface {
	// Broadcast notifies every customer with repair history under the
	// business.
	Broadcast(ctx context.Context, req BroadcastRequest) (*domain.DeliveryReport, error)
	// StatusUpdate notifies every device belonging to one mobile number.
	StatusUpdate(ctx context.Context, req StatusUpdateRequest) (*domain.DeliveryReport, error)
}

type tokenResolver interface {
	ResolveByBusiness(ctx context.Context, businessID string) ([]string, error)
	ResolveByMobile(ctx context.Context, mobile string) ([]string, error)
}

type batchDispatcher interface {
	Dispatch(ctx context.Context, tokens []string, fcmMsg *fcm.Message, apnsPayload *apns.Payload) []domain.BatchResult
}

type service struct {
	resolver   tokenResolver
	dispatcher batchDispatcher
}

func NewService(resolver tokenResolver, dispatcher batchDispatcher) Service {
	return &service{resolver: resolver, dispatcher: dispatcher}
}

func (s *service) Broadcast(ctx context.Context, req BroadcastRequest) (*domain.DeliveryReport, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("missing required fields: %w", domain.ErrBadRequest)
	}
	tokens, err := s.resolver.ResolveByBusiness(ctx, req.BusinessID)
	if err != nil {
		return nil, err
	}
	return s.deliver(ctx, tokens, Request{
		Title:    req.Title,
		Body:     req.Message,
		ImageURL: req.ImageURL,
		Data:     req.Data,
	}), nil
}

func (s *service) StatusUpdate(ctx context.Context, req StatusUpdateRequest) (*domain.DeliveryReport, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("missing required fields: %w", domain.ErrBadRequest)
	}
	tokens, err := s.resolver.ResolveByMobile(ctx, req.Mobile)
	if err != nil {
		return nil, err
	}
	return s.deliver(ctx, tokens, Request{
		Title:    req.Title,
		Body:     req.Message,
		ImageURL: req.ImageURL,
		Data:     req.Data,
	}), nil
}

// deliver runs compose → dispatch → aggregate. Zero resolved tokens is an
// expected, successful outcome: nobody to notify, no sender invoked.
func (s *service) deliver(ctx context.Context, tokens []string, content Request) *domain.DeliveryReport {
	if len(tokens) == 0 {
		return &domain.DeliveryReport{Message: "No recipients found"}
	}
	fcmMsg, apnsPayload := Compose(content)
	results := s.dispatcher.Dispatch(ctx, tokens, fcmMsg, apnsPayload)
	report := Aggregate(len(tokens), results)
	report.Message = fmt.Sprintf("Dispatched to %d tokens", report.TotalTokens)
	return &report
}
