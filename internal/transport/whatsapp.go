package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Ranveersingh1113/Bharat-Biz-Agent/internal/logging"
)

const defaultGraphURL = "https://graph.facebook.com"

// WhatsAppClient sends messages through the WhatsApp Cloud API.
type WhatsAppClient struct {
	accessToken   string
	phoneNumberID string
	baseURL       string
	httpClient    *http.Client
	log           *logging.Logger
}

// WhatsAppOptions configures a WhatsAppClient.
type WhatsAppOptions struct {
	AccessToken   string
	PhoneNumberID string
	APIVersion    string // e.g. v18.0
	BaseURL       string // override for tests
	Timeout       time.Duration
}

// NewWhatsAppClient creates a WhatsApp Cloud API client.
func NewWhatsAppClient(opts WhatsAppOptions, log *logging.Logger) *WhatsAppClient {
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	base := opts.BaseURL
	if base == "" {
		base = defaultGraphURL
	}
	version := opts.APIVersion
	if version == "" {
		version = "v18.0"
	}

	return &WhatsAppClient{
		accessToken:   opts.AccessToken,
		phoneNumberID: opts.PhoneNumberID,
		baseURL:       strings.TrimRight(base, "/") + "/" + version,
		httpClient:    &http.Client{Timeout: timeout},
		log:           log.Sub("whatsapp"),
	}
}

// SendText delivers a plain text message.
func (c *WhatsAppClient) SendText(ctx context.Context, to, text string) error {
	payload := map[string]any{
		"messaging_product": "whatsapp",
		"to":                to,
		"type":              "text",
		"text":              map[string]any{"body": text},
	}
	return c.post(ctx, payload)
}

// SendButtons delivers an interactive message with up to three
// quick-reply buttons, the Cloud API maximum.
func (c *WhatsAppClient) SendButtons(ctx context.Context, to, body string, buttons []Button) error {
	if len(buttons) == 0 {
		return c.SendText(ctx, to, body)
	}
	if len(buttons) > 3 {
		buttons = buttons[:3]
	}

	actionButtons := make([]map[string]any, len(buttons))
	for i, b := range buttons {
		actionButtons[i] = map[string]any{
			"type":  "reply",
			"reply": map[string]any{"id": b.ID, "title": b.Title},
		}
	}

	payload := map[string]any{
		"messaging_product": "whatsapp",
		"to":                to,
		"type":              "interactive",
		"interactive": map[string]any{
			"type":   "button",
			"body":   map[string]any{"text": body},
			"action": map[string]any{"buttons": actionButtons},
		},
	}
	return c.post(ctx, payload)
}

// DownloadMedia resolves a media id to its URL and fetches the bytes.
func (c *WhatsAppClient) DownloadMedia(ctx context.Context, mediaID string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+mediaID, nil)
	if err != nil {
		return nil, fmt.Errorf("building media lookup: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("media lookup: %w", err)
	}
	defer resp.Body.Close()

	lookupBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading media lookup response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("media lookup error (%d): %s", resp.StatusCode, string(lookupBody))
	}

	var meta struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(lookupBody, &meta); err != nil {
		return nil, fmt.Errorf("parsing media lookup response: %w", err)
	}
	if meta.URL == "" {
		return nil, fmt.Errorf("media %s has no download url", mediaID)
	}

	dlReq, err := http.NewRequestWithContext(ctx, http.MethodGet, meta.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("building media download: %w", err)
	}
	dlReq.Header.Set("Authorization", "Bearer "+c.accessToken)

	dlResp, err := c.httpClient.Do(dlReq)
	if err != nil {
		return nil, fmt.Errorf("media download: %w", err)
	}
	defer dlResp.Body.Close()

	data, err := io.ReadAll(dlResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading media download: %w", err)
	}
	if dlResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("media download error (%d)", dlResp.StatusCode)
	}

	c.log.Debug().Str("media", mediaID).Int("bytes", len(data)).Msg("media downloaded")
	return data, nil
}

func (c *WhatsAppClient) post(ctx context.Context, payload map[string]any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding message: %w", err)
	}

	url := fmt.Sprintf("%s/%s/messages", c.baseURL, c.phoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("building message request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending message: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("whatsapp send error (%d): %s", resp.StatusCode, string(body))
	}

	c.log.Debug().Str("to", payload["to"].(string)).Msg("message sent")
	return nil
}
