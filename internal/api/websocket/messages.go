package websocket

import (
	"time"

	"github.com/KevinKickass/StormBridge/internal/streaming"
)

// MessageType defines the type of WebSocket message
type MessageType string

const (
	MessageTypeChannelFrame MessageType = "channel_frame"
	MessageTypeBridgeState  MessageType = "bridge_state"
)

// Message represents a WebSocket message
type Message struct {
	Type      MessageType `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// BridgeStateData represents a lifecycle state change
type BridgeStateData struct {
	State    string `json:"state"`
	Previous string `json:"previous_state"`
}

// NewMessage creates a new message with current timestamp
func NewMessage(msgType MessageType, data interface{}) Message {
	return Message{
		Type:      msgType,
		Timestamp: time.Now(),
		Data:      data,
	}
}

func NewChannelFrameMessage(frame *streaming.Frame) Message {
	return Message{
		Type:      MessageTypeChannelFrame,
		Timestamp: frame.Timestamp,
		Data:      frame,
	}
}

func NewBridgeStateMessage(newState, previousState string) Message {
	return NewMessage(MessageTypeBridgeState, BridgeStateData{
		State:    newState,
		Previous: previousState,
	})
}
