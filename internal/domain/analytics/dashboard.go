package analytics

import (
	"context"
	"maps"

	"github.com/google/uuid"
)

// Unavailable marks a dashboard section whose source failed
const Unavailable = "unavailable"

// Dashboard section keys
const (
	SectionTotalCustomers = "totalCustomers"
	SectionTotalLeads     = "totalLeads"
	SectionTotalDeals     = "totalDeals"
	SectionClosedWonDeals = "closedWonDeals"
	SectionPipelineValue  = "pipelineValue"
	SectionTotalTickets   = "totalTickets"
	SectionOpenTickets    = "openTickets"
)

// Dashboard maps section keys to either a number or Unavailable
type Dashboard map[string]any

// Complete reports whether every section has a value
func (d Dashboard) Complete() bool {
	for _, v := range d {
		if s, ok := v.(string); ok && s == Unavailable {
			return false
		}
	}
	return true
}

// Clone returns a shallow copy
func (d Dashboard) Clone() Dashboard {
	return maps.Clone(d)
}

// Int returns a numeric section as int64; ok is false when missing or unavailable
func (d Dashboard) Int(key string) (int64, bool) {
	switch v := d[key].(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case float64:
		return int64(v), true
	}
	return 0, false
}

// CustomerCounter reports customer totals
type CustomerCounter interface {
	CountCustomers(ctx context.Context, tenantID uuid.UUID) (int64, error)
}

// LeadCounter reports lead totals
type LeadCounter interface {
	CountLeads(ctx context.Context, tenantID uuid.UUID) (int64, error)
}

// DealCounter reports deal totals and pipeline value
type DealCounter interface {
	CountDeals(ctx context.Context, tenantID uuid.UUID) (int64, error)
	CountClosedWonDeals(ctx context.Context, tenantID uuid.UUID) (int64, error)
	OpenPipelineValue(ctx context.Context, tenantID uuid.UUID) (float64, error)
}

// TicketCounter reports ticket totals
type TicketCounter interface {
	CountTickets(ctx context.Context, tenantID uuid.UUID) (int64, error)
	CountOpenTickets(ctx context.Context, tenantID uuid.UUID) (int64, error)
}
