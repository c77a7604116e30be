package workflow

import (
	"context"

	"github.com/crm/backend/internal/domain/customer"
	"github.com/crm/backend/internal/domain/marketing"
	"github.com/crm/backend/internal/domain/sales"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/domain/support"
	"github.com/crm/backend/internal/domain/workflow"
	"go.uber.org/zap"
)

type triggerKey struct {
	entity workflow.EntityType
	event  workflow.TriggerEvent
}

var eventTriggers = map[string]triggerKey{
	customer.EventTypeLeadCreated:            {workflow.EntityLead, workflow.TriggerCreated},
	customer.EventTypeLeadUpdated:            {workflow.EntityLead, workflow.TriggerUpdated},
	customer.EventTypeLeadStatusChanged:      {workflow.EntityLead, workflow.TriggerStatusChanged},
	customer.EventTypeLeadScoreChanged:       {workflow.EntityLead, workflow.TriggerScoreChanged},
	sales.EventTypeDealCreated:               {workflow.EntityDeal, workflow.TriggerCreated},
	sales.EventTypeDealUpdated:               {workflow.EntityDeal, workflow.TriggerUpdated},
	sales.EventTypeDealStageChanged:          {workflow.EntityDeal, workflow.TriggerStatusChanged},
	support.EventTypeTicketCreated:           {workflow.EntityTicket, workflow.TriggerCreated},
	support.EventTypeTicketUpdated:           {workflow.EntityTicket, workflow.TriggerUpdated},
	support.EventTypeTicketStatusChanged:     {workflow.EntityTicket, workflow.TriggerStatusChanged},
	marketing.EventTypeCampaignCreated:       {workflow.EntityCampaign, workflow.TriggerCreated},
	marketing.EventTypeCampaignStatusChanged: {workflow.EntityCampaign, workflow.TriggerStatusChanged},
}

// EventHandler feeds domain events from the bus into the engine
type EventHandler struct {
	engine *Engine
	logger *zap.Logger
}

// NewEventHandler creates the bus subscriber for the engine
func NewEventHandler(engine *Engine, logger *zap.Logger) *EventHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventHandler{engine: engine, logger: logger}
}

// EventTypes lists the events that can fire rules
func (h *EventHandler) EventTypes() []string {
	types := make([]string, 0, len(eventTriggers))
	for t := range eventTriggers {
		types = append(types, t)
	}
	return types
}

// Handle converts the event to a trigger and runs the engine
func (h *EventHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	key, ok := eventTriggers[event.EventType()]
	if !ok {
		return nil
	}
	data := map[string]any{}
	if p, ok := event.(shared.PayloadEvent); ok {
		if payload := p.Payload(); payload != nil {
			data = payload
		}
	}
	_, err := h.engine.ProcessEvent(ctx, workflow.Trigger{
		TenantID:     event.TenantID(),
		EntityType:   key.entity,
		EntityID:     event.AggregateID().String(),
		TriggerEvent: key.event,
		Data:         data,
	})
	return err
}

var _ shared.EventHandler = (*EventHandler)(nil)
