package printing

import (
	"testing"
	"time"

	"github.com/crm/backend/internal/domain/analytics"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newReport(t *testing.T, data any) *analytics.Report {
	t.Helper()
	r, err := analytics.NewReport(uuid.New(), "Q1 Pipeline", analytics.ReportTypeSales, "Quarterly <review>", "admin")
	require.NoError(t, err)
	if data != nil {
		require.NoError(t, r.SetData(data))
	}
	return r
}

func TestReportTemplate_Render(t *testing.T) {
	tmpl := NewReportTemplate()
	tmpl.now = func() time.Time { return time.Date(2024, 4, 1, 8, 30, 0, 0, time.UTC) }

	t.Run("summary sections and tables", func(t *testing.T) {
		report := newReport(t, map[string]any{
			"totalDeals":    12,
			"pipelineValue": 1500.5,
			"byPriority":    map[string]any{"HIGH": 3, "LOW": 9},
			"stages": []any{
				map[string]any{"stage": "PROSPECTING", "count": 4},
				map[string]any{"stage": "CLOSED_WON", "count": 2, "totalValue": 900},
			},
		})

		html, err := tmpl.Render(report)
		require.NoError(t, err)
		assert.Contains(t, html, "<title>Q1 Pipeline</title>")
		assert.Contains(t, html, "Sales report")
		assert.Contains(t, html, "2024-04-01 08:30 UTC")
		assert.Contains(t, html, "Quarterly &lt;review&gt;")
		assert.Contains(t, html, "<th>Total Deals</th><td class=\"num\">12</td>")
		assert.Contains(t, html, "<th>Pipeline Value</th><td class=\"num\">1500.50</td>")
		assert.Contains(t, html, "<h2>By Priority</h2>")
		assert.Contains(t, html, "<th>Count</th><th>Stage</th><th>Total Value</th>")
		assert.Contains(t, html, "<td>CLOSED_WON</td>")
		assert.NotContains(t, html, "No data.")
	})

	t.Run("empty data", func(t *testing.T) {
		html, err := tmpl.Render(newReport(t, nil))
		require.NoError(t, err)
		assert.Contains(t, html, "No data.")
	})

	t.Run("nil report", func(t *testing.T) {
		_, err := tmpl.Render(nil)
		var renderErr *RenderError
		require.ErrorAs(t, err, &renderErr)
		assert.Equal(t, ErrCodeInvalidHTML, renderErr.Code)
	})
}

func TestSplitWords(t *testing.T) {
	tests := map[string]string{
		"totalCustomers": "total customers",
		"open_tickets":   "open tickets",
		"HIGH":           "high",
		"clickRate":      "click rate",
		"":               "",
	}
	for in, want := range tests {
		assert.Equal(t, want, splitWords(in), in)
	}
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "-", formatValue(nil))
	assert.Equal(t, "3", formatValue(float64(3)))
	assert.Equal(t, "0.25", formatValue(0.25))
	assert.Equal(t, "true", formatValue(true))
	assert.Equal(t, "7", formatValue(int64(7)))
	assert.Equal(t, "a: 1, b: x", formatValue(map[string]any{"b": "x", "a": float64(1)}))
	assert.Equal(t, "1, 2", formatValue([]any{float64(1), float64(2)}))
}
