package nlu

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/Ranveersingh1113/Bharat-Biz-Agent/internal/logging"
)

// chatTemperature keeps classification output stable across calls.
const chatTemperature = 0.3

// SarvamClient talks to the Sarvam AI platform. Chat completions use
// the OpenAI-compatible wire format; speech-to-text is a multipart
// upload to Sarvam's own endpoint.
type SarvamClient struct {
	apiKey      string
	baseURL     string
	chatModel   string
	speechModel string
	chat        *openai.Client
	httpClient  *http.Client
	log         *logging.Logger
}

// SarvamOptions configures a SarvamClient.
type SarvamOptions struct {
	APIKey      string
	BaseURL     string // e.g. https://api.sarvam.ai
	ChatModel   string // e.g. sarvam-m
	SpeechModel string // e.g. saarika:v2.5
	Timeout     time.Duration
}

// NewSarvamClient creates a Sarvam API client.
func NewSarvamClient(opts SarvamOptions, log *logging.Logger) *SarvamClient {
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	httpClient := &http.Client{Timeout: timeout}

	base := strings.TrimRight(opts.BaseURL, "/")
	cfg := openai.DefaultConfig(opts.APIKey)
	cfg.BaseURL = base + "/v1"
	cfg.HTTPClient = httpClient

	return &SarvamClient{
		apiKey:      opts.APIKey,
		baseURL:     base,
		chatModel:   opts.ChatModel,
		speechModel: opts.SpeechModel,
		chat:        openai.NewClientWithConfig(cfg),
		httpClient:  httpClient,
		log:         log.Sub("nlu"),
	}
}

// Complete sends a chat completion request and returns the assistant text.
func (c *SarvamClient) Complete(ctx context.Context, messages []ChatMessage) (string, error) {
	msgs := make([]openai.ChatCompletionMessage, len(messages))
	for i, m := range messages {
		msgs[i] = openai.ChatCompletionMessage{Role: m.Role, Content: m.Content}
	}

	resp, err := c.chat.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.chatModel,
		Messages:    msgs,
		Temperature: chatTemperature,
	})
	if err != nil {
		return "", fmt.Errorf("sarvam chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("sarvam chat completion: empty choices")
	}

	content := resp.Choices[0].Message.Content
	c.log.Debug().Int("chars", len(content)).Msg("chat completion received")
	return content, nil
}

// Transcribe converts an audio payload to text via speech-to-text.
func (c *SarvamClient) Transcribe(ctx context.Context, audio []byte, languageCode string) (string, error) {
	if languageCode == "" {
		languageCode = "hi-IN"
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	part, err := mw.CreateFormFile("file", "audio.ogg")
	if err != nil {
		return "", fmt.Errorf("building transcription request: %w", err)
	}
	if _, err := part.Write(audio); err != nil {
		return "", fmt.Errorf("building transcription request: %w", err)
	}
	_ = mw.WriteField("model", c.speechModel)
	_ = mw.WriteField("language_code", languageCode)
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("building transcription request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/speech-to-text", &body)
	if err != nil {
		return "", fmt.Errorf("building transcription request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("api-subscription-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("speech-to-text request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading speech-to-text response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("speech-to-text error (%d): %s", resp.StatusCode, string(respBody))
	}

	var result struct {
		Transcript   string `json:"transcript"`
		LanguageCode string `json:"language_code"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("parsing speech-to-text response: %w", err)
	}

	c.log.Debug().Str("language", result.LanguageCode).Int("chars", len(result.Transcript)).Msg("transcription received")
	return result.Transcript, nil
}
