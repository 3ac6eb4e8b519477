package webhook

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/Ranveersingh1113/Bharat-Biz-Agent/internal/domain"
)

// metaPayload mirrors the WhatsApp Cloud API webhook envelope, limited
// to the fields the assistant consumes.
type metaPayload struct {
	Entry []struct {
		Changes []struct {
			Value struct {
				Messages []metaMessage `json:"messages"`
			} `json:"value"`
		} `json:"changes"`
	} `json:"entry"`
}

type metaMessage struct {
	ID        string `json:"id"`
	From      string `json:"from"`
	Timestamp string `json:"timestamp"`
	Type      string `json:"type"`
	Text      *struct {
		Body string `json:"body"`
	} `json:"text"`
	Audio *struct {
		ID string `json:"id"`
	} `json:"audio"`
	Image *struct {
		ID string `json:"id"`
	} `json:"image"`
	Interactive *struct {
		Type        string `json:"type"`
		ButtonReply *struct {
			ID    string `json:"id"`
			Title string `json:"title"`
		} `json:"button_reply"`
	} `json:"interactive"`
}

// decodePayload extracts the inbound messages from a webhook body.
// Status updates and unsupported message types are skipped.
func decodePayload(body io.Reader) ([]domain.InboundMessage, error) {
	var payload metaPayload
	if err := json.NewDecoder(body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding webhook payload: %w", err)
	}

	var messages []domain.InboundMessage
	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			for _, m := range change.Value.Messages {
				msg, ok := convertMessage(m)
				if ok {
					messages = append(messages, msg)
				}
			}
		}
	}
	return messages, nil
}

func convertMessage(m metaMessage) (domain.InboundMessage, bool) {
	msg := domain.InboundMessage{
		ID:         m.ID,
		EndpointID: m.From,
		Timestamp:  parseEpoch(m.Timestamp),
	}

	switch m.Type {
	case "text":
		if m.Text == nil {
			return msg, false
		}
		msg.Kind = domain.MessageText
		msg.Content = m.Text.Body
	case "audio":
		if m.Audio == nil {
			return msg, false
		}
		msg.Kind = domain.MessageAudio
		msg.MediaID = m.Audio.ID
	case "image":
		if m.Image == nil {
			return msg, false
		}
		msg.Kind = domain.MessageImage
		msg.MediaID = m.Image.ID
	case "interactive":
		if m.Interactive == nil || m.Interactive.ButtonReply == nil {
			return msg, false
		}
		msg.Kind = domain.MessageButton
		msg.ButtonPayload = m.Interactive.ButtonReply.ID
		msg.Content = m.Interactive.ButtonReply.Title
	default:
		return msg, false
	}
	return msg, true
}

func parseEpoch(s string) time.Time {
	secs, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Now().UTC()
	}
	return time.Unix(secs, 0).UTC()
}
