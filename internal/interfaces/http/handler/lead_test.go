package handler

import (
	"net/http"
	"testing"

	customerapp "github.com/crm/backend/internal/application/customer"
	"github.com/crm/backend/internal/infrastructure/persistence"
	"github.com/crm/backend/internal/interfaces/http/dto"
	"github.com/crm/backend/internal/interfaces/http/middleware"
	"github.com/crm/backend/internal/testutil"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newLeadEngine(t *testing.T) *gin.Engine {
	t.Helper()
	require.NoError(t, middleware.SetupValidator())

	db := testutil.NewSQLiteDB(t)
	svc := customerapp.NewLeadService(
		persistence.NewGormLeadRepository(db),
		persistence.NewGormLeadHistoryRepository(db),
		persistence.NewGormCustomerRepository(db),
		zap.NewNop(),
	)
	h := NewLeadHandler(svc)

	engine := testutil.NewEngine(asUser(testutil.TestTenantID(), "alice"))
	g := engine.Group("/leads")
	g.POST("", h.Create)
	g.GET("", h.List)
	g.GET("/count", h.Count)
	g.GET("/high-score", h.ListHighScore)
	g.GET("/status/:status", h.ListByStatus)
	g.GET("/assignee/:user_id", h.ListByAssignee)
	g.GET("/:id", h.GetByID)
	g.PUT("/:id", h.Update)
	g.PATCH("/:id/status", h.UpdateStatus)
	g.POST("/:id/convert", h.Convert)
	g.GET("/:id/history", h.History)
	g.DELETE("/:id", h.Delete)
	return engine
}

func createLead(t *testing.T, engine http.Handler, req customerapp.CreateLeadRequest) customerapp.LeadResponse {
	t.Helper()
	w := testutil.DoJSON(t, engine, http.MethodPost, "/leads", req)
	return testutil.AssertSuccess[customerapp.LeadResponse](t, w, http.StatusCreated)
}

func TestLeadHandler_Create(t *testing.T) {
	engine := newLeadEngine(t)

	lead := createLead(t, engine, customerapp.CreateLeadRequest{Name: "Ada Lovelace", Email: "ada@example.com", Score: 90})
	assert.Equal(t, "NEW", lead.Status)
	assert.False(t, lead.IsConverted)

	tests := []struct {
		name string
		body customerapp.CreateLeadRequest
	}{
		{"missing name", customerapp.CreateLeadRequest{Email: "x@example.com"}},
		{"score above range", customerapp.CreateLeadRequest{Name: "X", Score: 101}},
		{"unknown status", customerapp.CreateLeadRequest{Name: "X", Status: "HOT"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := testutil.DoJSON(t, engine, http.MethodPost, "/leads", tt.body)
			testutil.AssertError(t, w, http.StatusBadRequest, dto.ErrCodeValidation)
		})
	}
}

func TestLeadHandler_HighScore(t *testing.T) {
	engine := newLeadEngine(t)
	createLead(t, engine, customerapp.CreateLeadRequest{Name: "Hot", Score: 95})
	createLead(t, engine, customerapp.CreateLeadRequest{Name: "Warm", Score: 70})
	createLead(t, engine, customerapp.CreateLeadRequest{Name: "Cold", Score: 10})

	w := testutil.DoJSON(t, engine, http.MethodGet, "/leads/high-score", nil)
	assert.Len(t, testutil.AssertSuccess[[]customerapp.LeadResponse](t, w, http.StatusOK), 2)

	w = testutil.DoJSON(t, engine, http.MethodGet, "/leads/high-score?min_score=90", nil)
	leads := testutil.AssertSuccess[[]customerapp.LeadResponse](t, w, http.StatusOK)
	require.Len(t, leads, 1)
	assert.Equal(t, "Hot", leads[0].Name)

	for _, raw := range []string{"abc", "-1", "101"} {
		w = testutil.DoJSON(t, engine, http.MethodGet, "/leads/high-score?min_score="+raw, nil)
		testutil.AssertError(t, w, http.StatusBadRequest, dto.ErrCodeInvalidInput)
	}
}

func TestLeadHandler_StatusAndHistory(t *testing.T) {
	engine := newLeadEngine(t)
	lead := createLead(t, engine, customerapp.CreateLeadRequest{Name: "Grace Hopper", Email: "grace@example.com"})
	path := "/leads/" + lead.ID.String()

	w := testutil.DoJSON(t, engine, http.MethodPatch, path+"/status", customerapp.UpdateLeadStatusRequest{Status: "QUALIFIED"})
	assert.Equal(t, "QUALIFIED", testutil.AssertSuccess[customerapp.LeadResponse](t, w, http.StatusOK).Status)

	// repeating the same status writes no history
	w = testutil.DoJSON(t, engine, http.MethodPatch, path+"/status", customerapp.UpdateLeadStatusRequest{Status: "QUALIFIED"})
	testutil.AssertSuccess[customerapp.LeadResponse](t, w, http.StatusOK)

	w = testutil.DoJSON(t, engine, http.MethodGet, path+"/history", nil)
	history := testutil.AssertSuccess[[]customerapp.LeadHistoryResponse](t, w, http.StatusOK)
	fields := make([]string, 0, len(history))
	for _, h := range history {
		fields = append(fields, h.FieldChanged)
		assert.Equal(t, "alice", h.ChangedBy)
	}
	assert.ElementsMatch(t, []string{"CREATED", "STATUS"}, fields)

	w = testutil.DoJSON(t, engine, http.MethodGet, "/leads/status/QUALIFIED", nil)
	assert.Len(t, testutil.AssertSuccess[[]customerapp.LeadResponse](t, w, http.StatusOK), 1)

	w = testutil.DoJSON(t, engine, http.MethodGet, "/leads/"+uuid.NewString()+"/history", nil)
	testutil.AssertError(t, w, http.StatusNotFound, dto.ErrCodeNotFound)
}

func TestLeadHandler_Convert(t *testing.T) {
	engine := newLeadEngine(t)

	t.Run("creates a customer once", func(t *testing.T) {
		lead := createLead(t, engine, customerapp.CreateLeadRequest{Name: "Alan Turing", Email: "alan@example.com", Company: "Bletchley"})

		w := testutil.DoJSON(t, engine, http.MethodPost, "/leads/"+lead.ID.String()+"/convert", nil)
		res := testutil.AssertSuccess[customerapp.ConvertLeadResponse](t, w, http.StatusOK)
		assert.Equal(t, "CONVERTED", res.Lead.Status)
		assert.True(t, res.Lead.IsConverted)
		require.NotNil(t, res.Lead.ConvertedCustomerID)
		assert.Equal(t, res.Customer.ID, *res.Lead.ConvertedCustomerID)
		assert.Equal(t, "Alan", res.Customer.FirstName)
		assert.Equal(t, "Turing", res.Customer.LastName)

		w = testutil.DoJSON(t, engine, http.MethodPost, "/leads/"+lead.ID.String()+"/convert", nil)
		testutil.AssertError(t, w, http.StatusUnprocessableEntity, dto.ErrCodeInvalidState)
	})

	t.Run("needs an email", func(t *testing.T) {
		lead := createLead(t, engine, customerapp.CreateLeadRequest{Name: "No Mail"})
		w := testutil.DoJSON(t, engine, http.MethodPost, "/leads/"+lead.ID.String()+"/convert", nil)
		testutil.AssertError(t, w, http.StatusUnprocessableEntity, dto.ErrCodeInvalidState)
	})

	t.Run("customer email taken", func(t *testing.T) {
		lead := createLead(t, engine, customerapp.CreateLeadRequest{Name: "Alan Again", Email: "alan@example.com"})
		w := testutil.DoJSON(t, engine, http.MethodPost, "/leads/"+lead.ID.String()+"/convert", nil)
		testutil.AssertError(t, w, http.StatusConflict, dto.ErrCodeAlreadyExists)
	})
}

func TestLeadHandler_Delete(t *testing.T) {
	engine := newLeadEngine(t)
	lead := createLead(t, engine, customerapp.CreateLeadRequest{Name: "Temp"})

	w := testutil.DoJSON(t, engine, http.MethodDelete, "/leads/"+lead.ID.String(), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = testutil.DoJSON(t, engine, http.MethodGet, "/leads/count", nil)
	assert.Zero(t, testutil.AssertSuccess[CountData](t, w, http.StatusOK).Count)
}
