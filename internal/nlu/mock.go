package nlu

import "context"

// MockClient is a test double for Client.
type MockClient struct {
	CompleteFunc   func(ctx context.Context, messages []ChatMessage) (string, error)
	TranscribeFunc func(ctx context.Context, audio []byte, languageCode string) (string, error)
}

func (m *MockClient) Complete(ctx context.Context, messages []ChatMessage) (string, error) {
	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, messages)
	}
	return "", nil
}

func (m *MockClient) Transcribe(ctx context.Context, audio []byte, languageCode string) (string, error) {
	if m.TranscribeFunc != nil {
		return m.TranscribeFunc(ctx, audio, languageCode)
	}
	return "", nil
}
