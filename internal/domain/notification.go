package domain

// Channel is the delivery channel a push token belongs to.
type Channel string

const (
	ChannelFCM  Channel = "fcm"
	ChannelAPNS Channel = "apns"
)

// TokenDetail is the per-token outcome inside one batch.
type TokenDetail struct {
	Token  string `json:"token"`
	OK     bool   `json:"ok"`
	Status int    `json:"status,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// BatchResult is the outcome of one dispatched chunk. When the send call
// itself failed (as opposed to partial per-token rejection) Error is set and
// both counts are zero.
type BatchResult struct {
	BatchIndex   int           `json:"batchIndex"`
	Channel      Channel       `json:"channel"`
	SuccessCount int           `json:"successCount"`
	FailureCount int           `json:"failureCount"`
	Detail       []TokenDetail `json:"detail,omitempty"`
	Error        string        `json:"error,omitempty"`
}

// DeliveryReport is the aggregate returned to the caller. It is derived per
// invocation and never persisted. TotalTokens counts the deduplicated tokens
// attempted, before the channel split.
type DeliveryReport struct {
	Message      string        `json:"message"`
	TotalTokens  int           `json:"totalTokens"`
	TotalSuccess int           `json:"totalSuccess"`
	TotalFailure int           `json:"totalFailure"`
	BatchResults []BatchResult `json:"results"`
}
