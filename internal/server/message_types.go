package server

// MessageType represents a WebSocket message type with type safety
type MessageType string

// WebSocket message type constants
// These are used for client-server communication protocol
const (
	// Client to server messages
	MessageTypeRoll       MessageType = "roll"
	MessageTypeRollLocked MessageType = "roll_locked"
	MessageTypeToggleLock MessageType = "toggle_lock"
	MessageTypeBank       MessageType = "bank"
	MessageTypeRestart    MessageType = "restart"

	// Server to client messages
	MessageTypeSnapshot  MessageType = "snapshot"
	MessageTypeLog       MessageType = "log"
	MessageTypeTurnEnded MessageType = "turn_ended"
	MessageTypeMatchOver MessageType = "match_over"
	MessageTypeFeedback  MessageType = "feedback"
	MessageTypeError     MessageType = "error"
)

// String returns the string representation of the message type
func (mt MessageType) String() string {
	return string(mt)
}
