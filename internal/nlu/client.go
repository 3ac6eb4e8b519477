// Package nlu defines the contract with the external language service
// used for Hinglish understanding and speech-to-text.
package nlu

import "context"

// Role constants for chat messages.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is a single turn sent to the language model.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Client is the interface the decision core consumes. Both calls are
// synchronous request/response; callers treat any error (including
// timeouts) as a recoverable service failure.
type Client interface {
	// Complete sends a chat completion request and returns the raw
	// assistant text.
	Complete(ctx context.Context, messages []ChatMessage) (string, error)

	// Transcribe converts an audio payload to text.
	Transcribe(ctx context.Context, audio []byte, languageCode string) (string, error)
}
