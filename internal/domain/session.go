package domain

import "time"

// PendingStep names the slot a multi-turn action is waiting on.
type PendingStep string

const (
	StepInvoiceNeedCustomer PendingStep = "invoice:need_customer"
	StepInvoiceNeedAmount   PendingStep = "invoice:need_amount"
	StepPaymentNeedAmount   PendingStep = "payment:need_amount"
	StepCustomerNeedName    PendingStep = "add_customer:need_name"
	StepReminderApproval    PendingStep = "reminder:awaiting_approval"
)

// PendingAction describes an in-progress multi-turn operation.
// A nil PendingAction on the session means state "none".
type PendingAction struct {
	Step          PendingStep `json:"step"`
	CustomerID    string      `json:"customerId,omitempty"`
	CustomerName  string      `json:"customerName,omitempty"`
	PaymentMethod string      `json:"paymentMethod,omitempty"`
	HITLRequests  []string    `json:"hitlRequests,omitempty"` // gated reminder request ids
}

// Session tracks one conversation, keyed by the chat endpoint id.
// History is append-only context; entity values in Context are
// overwritten by newer extractions.
type Session struct {
	ID            string          `json:"id"`
	EndpointID    string          `json:"endpointId"`
	CustomerID    string          `json:"customerId,omitempty"`
	Messages      []StoredMessage `json:"messages,omitempty"`
	CurrentIntent Intent          `json:"currentIntent,omitempty"`
	Context       Entities        `json:"context"`
	Pending       *PendingAction  `json:"pending,omitempty"`
	LastActivity  time.Time       `json:"lastActivity"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// Touch records activity and appends a turn to the history.
func (s *Session) Touch(role, content string, at time.Time) {
	s.Messages = append(s.Messages, StoredMessage{Role: role, Content: content, Timestamp: at})
	s.LastActivity = at
}
