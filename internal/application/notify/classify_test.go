package notify

import (
	"strings"
	"testing"

	"github.com/repairtrack-api/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  domain.Channel
	}{
		{"64 hex lowercase", strings.Repeat("ab12", 16), domain.ChannelAPNS},
		{"64 hex uppercase", strings.Repeat("AB12", 16), domain.ChannelAPNS},
		{"64 hex mixed case", strings.Repeat("aB3F", 16), domain.ChannelAPNS},
		{"63 hex chars", strings.Repeat("a", 63), domain.ChannelFCM},
		{"65 hex chars", strings.Repeat("a", 65), domain.ChannelFCM},
		{"64 chars with non-hex", strings.Repeat("g", 64), domain.ChannelFCM},
		{"fcm registration token", "dQw4w9WgXcQ:APA91bHun4MxP5egoKMwt2KZFBaFUH-1RYqx", domain.ChannelFCM},
		{"short opaque token", "abc123", domain.ChannelFCM},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.token))
		})
	}
}
