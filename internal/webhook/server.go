// Package webhook exposes the inbound HTTP surface: Meta webhook
// verification, message delivery, and health.
package webhook

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/Ranveersingh1113/Bharat-Biz-Agent/internal/config"
	"github.com/Ranveersingh1113/Bharat-Biz-Agent/internal/domain"
	"github.com/Ranveersingh1113/Bharat-Biz-Agent/internal/logging"
	"github.com/Ranveersingh1113/Bharat-Biz-Agent/internal/orchestrator"
	"github.com/Ranveersingh1113/Bharat-Biz-Agent/internal/transport"
	"github.com/Ranveersingh1113/Bharat-Biz-Agent/internal/version"
)

// Processor handles one inbound message. Implemented by the
// orchestrator.
type Processor interface {
	ProcessMessage(ctx context.Context, msg domain.InboundMessage) orchestrator.Reply
}

// Server receives WhatsApp webhook calls and forwards the decoded
// messages to the processor, sending replies back out.
type Server struct {
	cfg        config.Config
	processor  Processor
	transport  transport.Transport
	log        *logging.Logger
	httpServer *http.Server
}

// NewServer creates a webhook server.
func NewServer(cfg config.Config, processor Processor, tr transport.Transport, log *logging.Logger) *Server {
	return &Server{
		cfg:       cfg,
		processor: processor,
		transport: tr,
		log:       log.Sub("webhook"),
	}
}

// resolveBindAddr computes the listen address from config.
func resolveBindAddr(cfg config.WebhookConfig) string {
	switch cfg.Bind {
	case "lan":
		return fmt.Sprintf("0.0.0.0:%d", cfg.Port)
	default:
		return fmt.Sprintf("127.0.0.1:%d", cfg.Port)
	}
}

// Start begins serving. It blocks until the context is cancelled or an
// error occurs.
func (s *Server) Start(ctx context.Context) error {
	addr := resolveBindAddr(s.cfg.Webhook)

	mux := http.NewServeMux()
	mux.HandleFunc("/webhook", s.handleWebhook)
	mux.HandleFunc("/healthz", s.handleHealth)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
		BaseContext:  func(l net.Listener) context.Context { return ctx },
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	s.log.Info().
		Str("addr", ln.Addr().String()).
		Str("bind", s.cfg.Webhook.Bind).
		Str("version", version.Version).
		Msg("webhook server starting")

	go func() {
		<-ctx.Done()
		s.log.Info().Msg("shutting down webhook server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.httpServer.Shutdown(shutdownCtx)
	}()

	if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleVerify(w, r)
	case http.MethodPost:
		s.handleDelivery(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleVerify answers Meta's subscription handshake: echo the
// challenge when the verify token matches.
func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	mode := q.Get("hub.mode")
	token := q.Get("hub.verify_token")
	challenge := q.Get("hub.challenge")

	if mode == "subscribe" && token == s.cfg.WhatsApp.VerifyToken {
		s.log.Info().Msg("webhook verified")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(challenge))
		return
	}
	s.log.Warn().Str("mode", mode).Msg("webhook verification refused")
	http.Error(w, "verification failed", http.StatusForbidden)
}

// handleDelivery decodes inbound messages, runs each through the
// processor and sends the reply. Always answers 200 so Meta does not
// retry storms on processing errors.
func (s *Server) handleDelivery(w http.ResponseWriter, r *http.Request) {
	messages, err := decodePayload(r.Body)
	if err != nil {
		s.log.Warn().Err(err).Msg("undecodable webhook payload")
		w.WriteHeader(http.StatusOK)
		return
	}

	for _, msg := range messages {
		reply := s.processor.ProcessMessage(r.Context(), msg)
		if reply.Text == "" {
			continue
		}
		var sendErr error
		if len(reply.Buttons) > 0 {
			sendErr = s.transport.SendButtons(r.Context(), msg.EndpointID, reply.Text, reply.Buttons)
		} else {
			sendErr = s.transport.SendText(r.Context(), msg.EndpointID, reply.Text)
		}
		if sendErr != nil {
			s.log.Error().Err(sendErr).Str("endpoint", msg.EndpointID).Msg("reply send failed")
		}
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"status":"ok","version":%q}`, version.Version)
}
