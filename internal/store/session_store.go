package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Ranveersingh1113/Bharat-Biz-Agent/internal/domain"
)

// SessionStore persists conversation sessions, one per chat endpoint.
// Context, pending action and message history are stored as JSON.
type SessionStore struct {
	db *DB
}

// NewSessionStore creates a session store using the given database.
func NewSessionStore(db *DB) *SessionStore {
	return &SessionStore{db: db}
}

// GetOrCreate finds the session for an endpoint or creates a fresh one.
func (s *SessionStore) GetOrCreate(endpointID string) (*domain.Session, error) {
	sess, err := s.Get(endpointID)
	if err != nil {
		return nil, err
	}
	if sess != nil {
		return sess, nil
	}

	now := time.Now().UTC()
	sess = &domain.Session{
		ID:           uuid.New().String(),
		EndpointID:   endpointID,
		LastActivity: now,
		CreatedAt:    now,
	}
	if err := s.Save(sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Get returns the session for an endpoint, or nil if none exists.
func (s *SessionStore) Get(endpointID string) (*domain.Session, error) {
	var (
		sess                   domain.Session
		contextJSON, msgsJSON  string
		pendingJSON            sql.NullString
		lastActivity, created  string
	)
	err := s.db.sql.QueryRow(`
		SELECT id, endpoint_id, customer_id, current_intent, context, pending, messages, last_activity, created_at
		FROM sessions WHERE endpoint_id = ?`, endpointID,
	).Scan(
		&sess.ID, &sess.EndpointID, &sess.CustomerID, &sess.CurrentIntent,
		&contextJSON, &pendingJSON, &msgsJSON, &lastActivity, &created,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading session for %s: %w", endpointID, err)
	}

	if err := json.Unmarshal([]byte(contextJSON), &sess.Context); err != nil {
		return nil, fmt.Errorf("decoding session context: %w", err)
	}
	if pendingJSON.Valid && pendingJSON.String != "" {
		var pending domain.PendingAction
		if err := json.Unmarshal([]byte(pendingJSON.String), &pending); err != nil {
			return nil, fmt.Errorf("decoding pending action: %w", err)
		}
		sess.Pending = &pending
	}
	if err := json.Unmarshal([]byte(msgsJSON), &sess.Messages); err != nil {
		return nil, fmt.Errorf("decoding session messages: %w", err)
	}
	sess.LastActivity, _ = time.Parse(time.DateTime, lastActivity)
	sess.CreatedAt, _ = time.Parse(time.DateTime, created)
	return &sess, nil
}

// Save upserts the session keyed by endpoint id.
func (s *SessionStore) Save(sess *domain.Session) error {
	contextJSON, err := json.Marshal(sess.Context)
	if err != nil {
		return fmt.Errorf("encoding session context: %w", err)
	}
	msgs := sess.Messages
	if msgs == nil {
		msgs = []domain.StoredMessage{}
	}
	msgsJSON, err := json.Marshal(msgs)
	if err != nil {
		return fmt.Errorf("encoding session messages: %w", err)
	}

	var pendingJSON sql.NullString
	if sess.Pending != nil {
		data, err := json.Marshal(sess.Pending)
		if err != nil {
			return fmt.Errorf("encoding pending action: %w", err)
		}
		pendingJSON = sql.NullString{String: string(data), Valid: true}
	}

	_, err = s.db.sql.Exec(`
		INSERT INTO sessions (id, endpoint_id, customer_id, current_intent, context, pending, messages, last_activity, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(endpoint_id) DO UPDATE SET
			customer_id = excluded.customer_id,
			current_intent = excluded.current_intent,
			context = excluded.context,
			pending = excluded.pending,
			messages = excluded.messages,
			last_activity = excluded.last_activity`,
		sess.ID, sess.EndpointID, sess.CustomerID, string(sess.CurrentIntent),
		string(contextJSON), pendingJSON, string(msgsJSON),
		sess.LastActivity.UTC().Format(time.DateTime),
		sess.CreatedAt.UTC().Format(time.DateTime),
	)
	if err != nil {
		return fmt.Errorf("saving session %s: %w", sess.EndpointID, err)
	}
	return nil
}

// DeleteIdle removes sessions with no activity since the cutoff and
// returns how many were removed.
func (s *SessionStore) DeleteIdle(cutoff time.Time) (int64, error) {
	res, err := s.db.sql.Exec(
		`DELETE FROM sessions WHERE last_activity < ?`,
		cutoff.UTC().Format(time.DateTime),
	)
	if err != nil {
		return 0, fmt.Errorf("deleting idle sessions: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
