package domain

import "time"

// MessageKind classifies an inbound chat message.
type MessageKind string

const (
	MessageText   MessageKind = "text"
	MessageAudio  MessageKind = "audio"
	MessageImage  MessageKind = "image"
	MessageButton MessageKind = "button"
)

// InboundMessage is a message received from the chat transport.
type InboundMessage struct {
	ID            string      `json:"id"`
	EndpointID    string      `json:"endpointId"` // sender's WhatsApp id
	Kind          MessageKind `json:"kind"`
	Content       string      `json:"content,omitempty"`
	MediaID       string      `json:"mediaId,omitempty"`
	ButtonPayload string      `json:"buttonPayload,omitempty"`
	Timestamp     time.Time   `json:"timestamp"`
}

// StoredMessage is a single turn kept in session history.
type StoredMessage struct {
	Role      string    `json:"role"` // "user" or "assistant"
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}
