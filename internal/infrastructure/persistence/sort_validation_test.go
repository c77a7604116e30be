package persistence

import (
	"context"
	"testing"

	"github.com/crm/backend/internal/domain/customer"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSortOrder(t *testing.T) {
	for in, want := range map[string]string{
		"":            "DESC",
		"asc":         "ASC",
		"  Asc ":      "ASC",
		"desc":        "DESC",
		"ascending":   "DESC",
		"ASC; DELETE": "DESC",
	} {
		assert.Equal(t, want, ValidateSortOrder(in), "input %q", in)
	}
}

func TestValidateSortField(t *testing.T) {
	tests := []struct {
		name  string
		field string
		want  string
	}{
		{"whitelisted", "score", "score"},
		{"trimmed", " rating ", "rating"},
		{"empty falls back", "", "created_at"},
		{"unknown column", "password_hash", "created_at"},
		{"case matters", "SCORE", "created_at"},
		{"expression", "score DESC, (SELECT 1)", "created_at"},
		{"comment", "score--", "created_at"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateSortField(tt.field, LeadSortFields, "created_at"))
		})
	}
}

func TestSortWhitelistsCoverBaseColumns(t *testing.T) {
	for name, fields := range map[string]map[string]bool{
		"user":          UserSortFields,
		"customer":      CustomerSortFields,
		"lead":          LeadSortFields,
		"deal":          DealSortFields,
		"opportunity":   OpportunitySortFields,
		"ticket":        TicketSortFields,
		"campaign":      CampaignSortFields,
		"segment":       SegmentSortFields,
		"report":        ReportSortFields,
		"workflow rule": WorkflowRuleSortFields,
	} {
		for _, col := range []string{"id", "created_at", "updated_at"} {
			assert.True(t, fields[col], "%s whitelist lacks %s", name, col)
		}
	}
}

func TestColumnName(t *testing.T) {
	assert.Equal(t, "created_at", ColumnName("createdAt"))
	assert.Equal(t, "expected_close_date", ColumnName("expectedCloseDate"))
	assert.Equal(t, "score", ColumnName("score"))
	assert.Equal(t, "sla_deadline", ColumnName("sla_deadline"))
	assert.Equal(t, "", ColumnName("  "))
}

func TestApplyOrdering_CustomerList(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormCustomerRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	for _, last := range []string{"Moreau", "Adler", "Zeller"} {
		c, err := customer.NewCustomer(tenantID, customer.CustomerDetails{FirstName: "Kim", LastName: last, Email: last + "@example.com"})
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, c))
	}

	lastNames := func(filter shared.Filter) []string {
		found, err := repo.FindAllForTenant(ctx, tenantID, filter)
		require.NoError(t, err)
		out := make([]string, 0, len(found))
		for _, c := range found {
			out = append(out, c.LastName)
		}
		return out
	}

	assert.Equal(t, []string{"Adler", "Moreau", "Zeller"}, lastNames(shared.Filter{OrderBy: "lastName", OrderDir: "asc"}))
	assert.Equal(t, []string{"Zeller", "Moreau", "Adler"}, lastNames(shared.Filter{OrderBy: "last_name"}))
	assert.Equal(t, []string{"Adler"}, lastNames(shared.Filter{OrderBy: "lastName", OrderDir: "asc", Page: 1, PageSize: 1}))
	// a rejected column still returns every row
	assert.Len(t, lastNames(shared.Filter{OrderBy: "1; DROP TABLE customers"}), 3)
}
