package dto

import (
	"time"

	"smart-hire-be/pkg/engine/dispatcher"
	"smart-hire-be/pkg/store"
)

type CreateSessionResponse struct {
	SessionId string `json:"session_id"`
	Message   string `json:"message"`
}

type SendMessageRequest struct {
	SessionId string `json:"session_id" validate:"required"`
	Message   string `json:"message" validate:"required"`
}

type SendMessageResponse struct {
	SessionId  string                       `json:"session_id"`
	Response   string                       `json:"response"`
	Intent     string                       `json:"intent"`
	Confidence float64                      `json:"confidence"`
	State      string                       `json:"state"`
	Actions    []dispatcher.SuggestedAction `json:"actions"`
	Data       map[string]interface{}       `json:"data,omitempty"`
	Timestamp  time.Time                    `json:"timestamp"`
}

type ExecuteActionRequest struct {
	SessionId string `json:"session_id" validate:"required"`
	Action    string `json:"action" validate:"required"`
}

type ExecuteActionResponse struct {
	SessionId string                       `json:"session_id"`
	Success   bool                         `json:"success"`
	Response  string                       `json:"response"`
	State     string                       `json:"state"`
	Actions   []dispatcher.SuggestedAction `json:"actions"`
	Data      map[string]interface{}       `json:"data,omitempty"`
	Timestamp time.Time                    `json:"timestamp"`
}

type HistoryTurn struct {
	Role      string    `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

type GetHistoryResponse struct {
	SessionId string        `json:"session_id"`
	State     string        `json:"state"`
	History   []HistoryTurn `json:"history"`
}

// NewHistoryTurns converts stored turns for the wire.
func NewHistoryTurns(turns []store.Turn) []HistoryTurn {
	out := make([]HistoryTurn, 0, len(turns))
	for _, t := range turns {
		out = append(out, HistoryTurn{Role: t.Role, Text: t.Text, Timestamp: t.Timestamp})
	}
	return out
}
