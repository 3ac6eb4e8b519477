package transport

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ranveersingh1113/Bharat-Biz-Agent/internal/logging"
)

func testClient(serverURL string) *WhatsAppClient {
	return NewWhatsAppClient(WhatsAppOptions{
		AccessToken:   "test-token",
		PhoneNumberID: "12345",
		APIVersion:    "v18.0",
		BaseURL:       serverURL,
	}, logging.New(nil, "silent"))
}

func TestSendText(t *testing.T) {
	var captured map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v18.0/12345/messages", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &captured))
		w.Write([]byte(`{"messages":[{"id":"wamid.1"}]}`))
	}))
	defer server.Close()

	err := testClient(server.URL).SendText(context.Background(), "919876543210", "namaste")
	require.NoError(t, err)

	assert.Equal(t, "whatsapp", captured["messaging_product"])
	assert.Equal(t, "919876543210", captured["to"])
	assert.Equal(t, "text", captured["type"])
	text := captured["text"].(map[string]any)
	assert.Equal(t, "namaste", text["body"])
}

func TestSendButtons(t *testing.T) {
	var captured map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &captured))
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	err := testClient(server.URL).SendButtons(context.Background(), "919876543210", "Approve karein?", []Button{
		{ID: "approve_abc", Title: "✅ Approve"},
		{ID: "reject_abc", Title: "❌ Reject"},
	})
	require.NoError(t, err)

	assert.Equal(t, "interactive", captured["type"])
	interactive := captured["interactive"].(map[string]any)
	assert.Equal(t, "button", interactive["type"])
	buttons := interactive["action"].(map[string]any)["buttons"].([]any)
	require.Len(t, buttons, 2)
	first := buttons[0].(map[string]any)["reply"].(map[string]any)
	assert.Equal(t, "approve_abc", first["id"])
}

func TestSendButtons_TruncatesToThree(t *testing.T) {
	var captured map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &captured))
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	buttons := []Button{{ID: "1"}, {ID: "2"}, {ID: "3"}, {ID: "4"}}
	err := testClient(server.URL).SendButtons(context.Background(), "919876543210", "pick", buttons)
	require.NoError(t, err)

	got := captured["interactive"].(map[string]any)["action"].(map[string]any)["buttons"].([]any)
	assert.Len(t, got, 3)
}

func TestSendText_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"bad token"}}`))
	}))
	defer server.Close()

	err := testClient(server.URL).SendText(context.Background(), "919876543210", "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestDownloadMedia(t *testing.T) {
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v18.0/media-1":
			assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
			json.NewEncoder(w).Encode(map[string]string{"url": server.URL + "/files/media-1"})
		case "/files/media-1":
			w.Write([]byte("audio-bytes"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	data, err := testClient(server.URL).DownloadMedia(context.Background(), "media-1")
	require.NoError(t, err)
	assert.Equal(t, []byte("audio-bytes"), data)
}

func TestDownloadMedia_MissingURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	_, err := testClient(server.URL).DownloadMedia(context.Background(), "media-1")
	require.Error(t, err)
}
