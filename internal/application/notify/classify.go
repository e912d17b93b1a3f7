package notify

import (
	"regexp"

	"github.com/repairtrack-api/internal/domain"
)

// Raw APNs device tokens are exactly 64 hex characters. Everything else a
// user record can legitimately hold is an FCM registration token. This shape
// check is the only signal separating the two incompatible payload formats,
// so it must be applied identically everywhere tokens are gathered.
var apnsTokenPattern = regexp.MustCompile(`^[0-9a-fA-F]{64}$`)

// Classify reports which delivery channel a token belongs to. Callers filter
// out empty tokens before classifying.
func Classify(token string) domain.Channel {
	if apnsTokenPattern.MatchString(token) {
		return domain.ChannelAPNS
	}
	return domain.ChannelFCM
}
