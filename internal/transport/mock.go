package transport

import (
	"context"
	"sync"
)

// SentMessage records one outbound message for assertions.
type SentMessage struct {
	To      string
	Text    string
	Buttons []Button
}

// Mock is an in-memory Transport for tests.
type Mock struct {
	mu   sync.Mutex
	Sent []SentMessage
	// Media maps media id to payload for DownloadMedia.
	Media map[string][]byte
	// Err, when set, is returned by every call.
	Err error
}

// NewMock creates an empty mock transport.
func NewMock() *Mock {
	return &Mock{Media: make(map[string][]byte)}
}

func (m *Mock) SendText(_ context.Context, to, text string) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, SentMessage{To: to, Text: text})
	return nil
}

func (m *Mock) SendButtons(_ context.Context, to, body string, buttons []Button) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, SentMessage{To: to, Text: body, Buttons: buttons})
	return nil
}

func (m *Mock) DownloadMedia(_ context.Context, mediaID string) ([]byte, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Media[mediaID], nil
}

// Last returns the most recent sent message, or nil.
func (m *Mock) Last() *SentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Sent) == 0 {
		return nil
	}
	return &m.Sent[len(m.Sent)-1]
}
