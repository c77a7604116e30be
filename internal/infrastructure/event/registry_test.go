package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHandlerRegistry(t *testing.T) {
	t.Run("specific types", func(t *testing.T) {
		r := NewHandlerRegistry()
		h := newTestHandler()
		r.Register(h, "LeadCreated", "LeadUpdated")

		assert.Len(t, r.GetHandlers("LeadCreated"), 1)
		assert.Len(t, r.GetHandlers("LeadUpdated"), 1)
		assert.Empty(t, r.GetHandlers("DealCreated"))
		assert.Equal(t, []string{"LeadCreated", "LeadUpdated"}, r.EventTypes())
	})

	t.Run("duplicate registration is ignored", func(t *testing.T) {
		r := NewHandlerRegistry()
		h := newTestHandler()
		r.Register(h, "TicketCreated")
		r.Register(h, "TicketCreated")
		assert.Len(t, r.GetHandlers("TicketCreated"), 1)
	})

	t.Run("wildcard handlers follow typed handlers", func(t *testing.T) {
		r := NewHandlerRegistry()
		typed := newTestHandler()
		wildcard := newTestHandler()
		r.Register(wildcard)
		r.Register(typed, "CampaignCreated")

		handlers := r.GetHandlers("CampaignCreated")
		assert.Len(t, handlers, 2)
		assert.Same(t, typed, handlers[0])
		assert.Same(t, wildcard, handlers[1])
		assert.Len(t, r.GetHandlers("Other"), 1)
	})

	t.Run("unregister removes empty types", func(t *testing.T) {
		r := NewHandlerRegistry()
		a := newTestHandler()
		b := newTestHandler()
		r.Register(a, "DealCreated", "DealUpdated")
		r.Register(b, "DealCreated")
		r.Register(a)

		r.Unregister(a)
		assert.Len(t, r.GetHandlers("DealCreated"), 1)
		assert.Empty(t, r.GetHandlers("DealUpdated"))
		assert.Equal(t, []string{"DealCreated"}, r.EventTypes())
	})
}
