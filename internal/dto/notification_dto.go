package dto

import "time"

// Notification is the real-time payload pushed over the websocket hub.
// Nothing is persisted; missed notifications are simply gone.
type Notification struct {
	Type      string                 `json:"type"`
	Title     string                 `json:"title"`
	Message   string                 `json:"message"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}
