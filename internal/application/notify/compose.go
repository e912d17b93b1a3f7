package notify

import (
	"github.com/repairtrack-api/internal/push/apns"
	"github.com/repairtrack-api/internal/push/fcm"
)

// Request is the channel-agnostic notification content. Data is forwarded
// to the client app unmodified.
type Request struct {
	Title    string
	Body     string
	ImageURL string
	Data     map[string]string
}

// Compose builds the two channel-specific representations of equivalent
// content. Pure: it does not depend on how many tokens will receive the
// notification. The APNs topic is session configuration, not payload.
func Compose(req Request) (*fcm.Message, *apns.Payload) {
	msg := &fcm.Message{
		Notification: fcm.Notification{
			Title: req.Title,
			Body:  req.Body,
			Image: req.ImageURL,
		},
		Android: &fcm.AndroidConfig{
			Priority:     "high",
			Notification: &fcm.AndroidNotification{Sound: "default"},
		},
		Data: req.Data,
	}

	payload := &apns.Payload{
		APS: apns.APS{
			Alert: apns.Alert{Title: req.Title, Body: req.Body},
			Sound: "default",
		},
	}

	if req.ImageURL != "" {
		msg.Android.Notification.Image = req.ImageURL
		// For tokens FCM relays to Apple devices itself.
		msg.APNS = &fcm.APNSConfig{
			Payload:    map[string]interface{}{"aps": map[string]interface{}{"mutable-content": 1}},
			FCMOptions: &fcm.APNSFCMOptions{Image: req.ImageURL},
		}
		// mutable-content tells the client's notification extension to fetch
		// and attach the image before display.
		payload.APS.MutableContent = 1
	}

	if req.ImageURL != "" || len(req.Data) > 0 {
		custom := make(map[string]string, len(req.Data)+1)
		if req.ImageURL != "" {
			custom["image_url"] = req.ImageURL
		}
		// Caller data is merged last, so on a key collision the caller's
		// value wins. Flat merge into the outer object is the wire format
		// the client expects.
		for k, v := range req.Data {
			custom[k] = v
		}
		payload.Custom = custom
	}

	return msg, payload
}
