package workflow

import "github.com/prometheus/client_golang/prometheus"

// Metrics counts rule executions by outcome
type Metrics struct {
	executions *prometheus.CounterVec
}

// NewMetrics registers the workflow collectors on reg. A nil reg leaves
// them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		executions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "crm_workflow_rule_executions_total",
				Help: "Workflow rule executions by status",
			},
			[]string{"status"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.executions)
	}
	return m
}

func (m *Metrics) observe(status string) {
	if m == nil {
		return
	}
	m.executions.WithLabelValues(status).Inc()
}
