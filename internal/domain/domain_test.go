package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseIntent(t *testing.T) {
	assert.Equal(t, IntentGenerateInvoice, ParseIntent("generate_invoice"))
	assert.Equal(t, IntentBulkOrder, ParseIntent("bulk_order"))
	assert.Equal(t, IntentUnknown, ParseIntent("make_tea"))
	assert.Equal(t, IntentUnknown, ParseIntent(""))
	// the closed set never accepts "unknown" as a model answer either
	assert.Equal(t, IntentUnknown, ParseIntent("unknown"))
}

func TestEntitiesMerge_LastWriteWins(t *testing.T) {
	amt := 5000.0
	qty := 100.0
	e := Entities{Amount: &amt, FabricType: "silk", Color: "red"}

	newAmt := 7000.0
	e.Merge(Entities{Amount: &newAmt, Quantity: &qty, CustomerName: "Ramesh"})

	assert.Equal(t, 7000.0, *e.Amount)
	assert.Equal(t, 100.0, *e.Quantity)
	assert.Equal(t, "Ramesh", e.CustomerName)
	// fields absent in the newer extraction survive
	assert.Equal(t, "silk", e.FabricType)
	assert.Equal(t, "red", e.Color)
}

func TestEntitiesMerge_EmptyIsNoop(t *testing.T) {
	amt := 5000.0
	e := Entities{Amount: &amt, CustomerName: "Ramesh"}
	e.Merge(Entities{})
	assert.Equal(t, 5000.0, *e.Amount)
	assert.Equal(t, "Ramesh", e.CustomerName)
}

func TestSessionTouch(t *testing.T) {
	s := Session{}
	at := time.Date(2026, 8, 24, 10, 0, 0, 0, time.UTC)
	s.Touch("user", "stock kitna hai", at)
	s.Touch("assistant", "sab theek", at.Add(time.Second))

	assert.Len(t, s.Messages, 2)
	assert.Equal(t, "user", s.Messages[0].Role)
	assert.Equal(t, at.Add(time.Second), s.LastActivity)
}
