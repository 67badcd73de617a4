package ws

import (
	"encoding/json"
	"sync/atomic"
	"time"
)

type PreferencesUpdatedEvent struct {
	Type      string `json:"type"`
	UserID    string `json:"user_id"`
	Action    string `json:"action"`
	Timestamp string `json:"timestamp"`
}

var defaultHub atomic.Pointer[Hub]

func SetDefaultHub(h *Hub) {
	defaultHub.Store(h)
}

// NotifyPreferencesUpdated broadcasts a preference-activity event; a nil
// default hub makes this a no-op so usecases never depend on the socket
// layer being up.
func NotifyPreferencesUpdated(userID string, action string) {
	h := defaultHub.Load()
	if h == nil {
		return
	}

	evt := PreferencesUpdatedEvent{
		Type:      "preferences_updated",
		UserID:    userID,
		Action:    action,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	b, err := json.Marshal(evt)
	if err != nil {
		return
	}

	h.Broadcast(b)
}
