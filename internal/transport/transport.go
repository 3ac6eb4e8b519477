// Package transport delivers replies to chat endpoints.
package transport

import "context"

// Button is one tappable quick-reply. ID comes back verbatim in the
// button press webhook.
type Button struct {
	ID    string
	Title string
}

// Transport sends messages out and pulls media in.
type Transport interface {
	// SendText delivers a plain text message to an endpoint.
	SendText(ctx context.Context, to, text string) error
	// SendButtons delivers a message with quick-reply buttons.
	SendButtons(ctx context.Context, to, body string, buttons []Button) error
	// DownloadMedia fetches the raw bytes of an inbound media item.
	DownloadMedia(ctx context.Context, mediaID string) ([]byte, error)
}
