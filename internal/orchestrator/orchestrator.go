// Package orchestrator drives multi-turn conversations: it resolves
// each inbound message to an intent, fills missing slots across turns,
// and dispatches to the business services.
package orchestrator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Ranveersingh1113/Bharat-Biz-Agent/internal/bulkorder"
	"github.com/Ranveersingh1113/Bharat-Biz-Agent/internal/domain"
	"github.com/Ranveersingh1113/Bharat-Biz-Agent/internal/extract"
	"github.com/Ranveersingh1113/Bharat-Biz-Agent/internal/intent"
	"github.com/Ranveersingh1113/Bharat-Biz-Agent/internal/inventory"
	"github.com/Ranveersingh1113/Bharat-Biz-Agent/internal/invoice"
	"github.com/Ranveersingh1113/Bharat-Biz-Agent/internal/ledger"
	"github.com/Ranveersingh1113/Bharat-Biz-Agent/internal/logging"
	"github.com/Ranveersingh1113/Bharat-Biz-Agent/internal/nlu"
	"github.com/Ranveersingh1113/Bharat-Biz-Agent/internal/store"
	"github.com/Ranveersingh1113/Bharat-Biz-Agent/internal/transport"
)

// ReplyKind tells the caller what category of outcome this turn was.
type ReplyKind string

const (
	// ReplyAnswered is a completed operation.
	ReplyAnswered ReplyKind = "answered"
	// ReplyPrompt asks the user for a missing slot.
	ReplyPrompt ReplyKind = "prompt"
	// ReplyGated means the operation is parked behind owner approval.
	ReplyGated ReplyKind = "gated"
	// ReplyUnavailable means persistence is down.
	ReplyUnavailable ReplyKind = "unavailable"
	// ReplyError is an unexpected internal failure.
	ReplyError ReplyKind = "error"
)

// Reply is the orchestrator's answer for one inbound message.
type Reply struct {
	Kind    ReplyKind
	Text    string
	Buttons []transport.Button
}

// Options carries business defaults the orchestrator needs.
type Options struct {
	OwnerPhone     string
	DefaultGSTRate float64
	DefaultRate    float64 // rupees per meter when no inventory match
	IdleMinutes    int
}

// Orchestrator wires the services behind one ProcessMessage entry point.
type Orchestrator struct {
	opts       Options
	sessions   *store.SessionStore
	customers  *store.CustomerStore
	invoices   *store.InvoiceStore
	calculator *invoice.Calculator
	ledger     *ledger.Service
	inventory  *inventory.Service
	classifier *intent.Classifier
	extractor  *extract.Extractor
	parser     *bulkorder.Parser
	client     nlu.Client
	transport  transport.Transport
	log        *logging.Logger
	now        func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex
	cache map[string]*domain.Session
}

// Deps bundles the orchestrator's collaborators.
type Deps struct {
	Sessions   *store.SessionStore
	Customers  *store.CustomerStore
	Invoices   *store.InvoiceStore
	Calculator *invoice.Calculator
	Ledger     *ledger.Service
	Inventory  *inventory.Service
	Classifier *intent.Classifier
	Extractor  *extract.Extractor
	Parser     *bulkorder.Parser
	Client     nlu.Client // may be nil; general queries then use the static menu
	Transport  transport.Transport
}

// New creates an orchestrator.
func New(opts Options, deps Deps, log *logging.Logger) *Orchestrator {
	if opts.IdleMinutes == 0 {
		opts.IdleMinutes = 30
	}
	if opts.DefaultGSTRate == 0 {
		opts.DefaultGSTRate = 5.0
	}
	if opts.DefaultRate == 0 {
		opts.DefaultRate = 200
	}
	if deps.Parser == nil {
		deps.Parser = bulkorder.New()
	}
	return &Orchestrator{
		opts:       opts,
		sessions:   deps.Sessions,
		customers:  deps.Customers,
		invoices:   deps.Invoices,
		calculator: deps.Calculator,
		ledger:     deps.Ledger,
		inventory:  deps.Inventory,
		classifier: deps.Classifier,
		extractor:  deps.Extractor,
		parser:     deps.Parser,
		client:     deps.Client,
		transport:  deps.Transport,
		log:        log.Sub("orchestrator"),
		now:        time.Now,
		locks:      make(map[string]*sync.Mutex),
		cache:      make(map[string]*domain.Session),
	}
}

// ProcessMessage handles one inbound message end to end and returns
// the reply to send. It never panics across this boundary.
func (o *Orchestrator) ProcessMessage(ctx context.Context, msg domain.InboundMessage) (reply Reply) {
	defer func() {
		if r := recover(); r != nil {
			o.log.Error().Interface("panic", r).Str("endpoint", msg.EndpointID).Msg("recovered while processing message")
			reply = Reply{Kind: ReplyError, Text: replyInternalError}
		}
	}()

	// one message at a time per endpoint
	lock := o.endpointLock(msg.EndpointID)
	lock.Lock()
	defer lock.Unlock()

	sess, err := o.loadSession(msg.EndpointID)
	if err != nil {
		o.log.Error().Err(err).Str("endpoint", msg.EndpointID).Msg("session load failed")
		return Reply{Kind: ReplyUnavailable, Text: replyStoreDown}
	}

	text, early := o.resolveContent(ctx, msg, sess)
	if early != nil {
		o.saveSession(sess)
		return *early
	}

	now := o.now().UTC()
	sess.Touch("user", text, now)

	if sess.Pending != nil {
		reply = o.handlePending(ctx, sess, text)
	} else {
		reply = o.dispatch(ctx, sess, text)
	}

	sess.Touch("assistant", reply.Text, o.now().UTC())
	o.saveSession(sess)
	return reply
}

// resolveContent turns audio/image/button messages into text the
// pipeline can work with. A non-nil Reply short-circuits the turn.
func (o *Orchestrator) resolveContent(ctx context.Context, msg domain.InboundMessage, sess *domain.Session) (string, *Reply) {
	switch msg.Kind {
	case domain.MessageButton:
		reply := o.handleButton(ctx, msg.ButtonPayload)
		return "", &reply

	case domain.MessageAudio:
		if o.client == nil || o.transport == nil {
			return "", &Reply{Kind: ReplyAnswered, Text: replyVoiceFailed}
		}
		audio, err := o.transport.DownloadMedia(ctx, msg.MediaID)
		if err != nil {
			o.log.Warn().Err(err).Msg("voice download failed")
			return "", &Reply{Kind: ReplyAnswered, Text: replyVoiceFailed}
		}
		transcript, err := o.client.Transcribe(ctx, audio, "")
		if err != nil || transcript == "" {
			o.log.Warn().Err(err).Msg("transcription failed")
			return "", &Reply{Kind: ReplyAnswered, Text: replyVoiceFailed}
		}
		o.log.Debug().Str("endpoint", sess.EndpointID).Msg("voice transcribed")
		return transcript, nil

	case domain.MessageImage:
		// assume payment screenshot; verification needs the UTR
		return "", &Reply{Kind: ReplyAnswered, Text: replyScreenshot}

	default:
		return msg.Content, nil
	}
}

// loadSession returns the cached session for an endpoint, falling back
// to the store. Idle sessions keep their identity but drop
// conversation state.
func (o *Orchestrator) loadSession(endpointID string) (*domain.Session, error) {
	o.mu.Lock()
	sess, ok := o.cache[endpointID]
	o.mu.Unlock()

	if !ok {
		var err error
		sess, err = o.sessions.GetOrCreate(endpointID)
		if err != nil {
			return nil, err
		}
		o.mu.Lock()
		o.cache[endpointID] = sess
		o.mu.Unlock()
	}

	idle := time.Duration(o.opts.IdleMinutes) * time.Minute
	if !sess.LastActivity.IsZero() && o.now().UTC().Sub(sess.LastActivity) > idle {
		sess.CurrentIntent = ""
		sess.Context = domain.Entities{}
		sess.Pending = nil
		sess.Messages = nil
	}
	return sess, nil
}

// saveSession writes the session through to the store. A write failure
// is logged, not surfaced: the cache still has the state.
func (o *Orchestrator) saveSession(sess *domain.Session) {
	if err := o.sessions.Save(sess); err != nil {
		o.log.Error().Err(err).Str("endpoint", sess.EndpointID).Msg("session save failed")
	}
}

func (o *Orchestrator) endpointLock(endpointID string) *sync.Mutex {
	o.mu.Lock()
	defer o.mu.Unlock()
	lock, ok := o.locks[endpointID]
	if !ok {
		lock = &sync.Mutex{}
		o.locks[endpointID] = lock
	}
	return lock
}

// notifyOwner pushes an approval request to the owner with
// approve/reject buttons. Best effort.
func (o *Orchestrator) notifyOwner(ctx context.Context, req *domain.HITLRequest) {
	if o.transport == nil || o.opts.OwnerPhone == "" {
		return
	}
	body := fmt.Sprintf("*🔔 Approval chahiye*\n\n%s: ₹%.0f\n%s",
		req.CustomerName, req.Amount, req.Notes)
	err := o.transport.SendButtons(ctx, o.opts.OwnerPhone, body, []transport.Button{
		{ID: "approve_" + req.ID, Title: "✅ Approve"},
		{ID: "reject_" + req.ID, Title: "❌ Reject"},
	})
	if err != nil {
		o.log.Warn().Err(err).Msg("owner notification failed")
	}
}
