package server

import (
	"encoding/json"
	"time"

	"github.com/lox/diceduel/internal/game"
)

// Message represents the base WebSocket message structure
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
	RequestID string          `json:"requestId,omitempty"`
}

// NewMessage creates a new message stamped with now
func NewMessage(messageType MessageType, data any, now time.Time) (*Message, error) {
	msg := &Message{
		Type:      messageType,
		Timestamp: now,
	}
	if data == nil {
		return msg, nil
	}
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	msg.Data = dataBytes
	return msg, nil
}

// Client → Server Messages

type ToggleLockData struct {
	Die int `json:"die"`
}

// Server → Client Messages

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type LogData struct {
	Event game.EventType `json:"event"`
	Text  string         `json:"text"`
}

type TurnEndedData struct {
	Side    game.Side `json:"side"`
	Banked  int       `json:"banked"`
	Balance int       `json:"balance"`
}

type MatchOverData struct {
	MatchID string    `json:"matchId"`
	Winner  game.Side `json:"winner"`
	Human   int       `json:"human"`
	Bot     int       `json:"bot"`
}

type FeedbackData struct {
	Intensity game.Intensity `json:"intensity"`
}
