package handler

import (
	"errors"
	"net/http"
	"testing"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/interfaces/http/dto"
	"github.com/crm/backend/internal/interfaces/http/middleware"
	"github.com/crm/backend/internal/testutil"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetActor(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*gin.Context)
		want  string
	}{
		{
			name: "username wins",
			setup: func(c *gin.Context) {
				c.Set(middleware.JWTUsernameKey, "alice")
				c.Set(middleware.JWTUserIDKey, "7d2c3a1e-0000-0000-0000-000000000001")
			},
			want: "alice",
		},
		{
			name: "falls back to user id",
			setup: func(c *gin.Context) {
				c.Set(middleware.JWTUserIDKey, "7d2c3a1e-0000-0000-0000-000000000001")
			},
			want: "7d2c3a1e-0000-0000-0000-000000000001",
		},
		{
			name:  "anonymous",
			setup: func(c *gin.Context) {},
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tc := testutil.NewTestContext(t)
			tt.setup(tc.Context)
			assert.Equal(t, tt.want, getActor(tc.Context))
		})
	}
}

func TestGetUserID(t *testing.T) {
	tc := testutil.NewTestContext(t)
	assert.Equal(t, uuid.Nil, getUserID(tc.Context))

	id := uuid.New()
	tc.Context.Set(middleware.JWTUserIDKey, id.String())
	assert.Equal(t, id, getUserID(tc.Context))

	tc.Context.Set(middleware.JWTUserIDKey, "garbage")
	assert.Equal(t, uuid.Nil, getUserID(tc.Context))
}

func TestBaseHandlerResponses(t *testing.T) {
	h := &BaseHandler{}

	t.Run("success", func(t *testing.T) {
		tc := testutil.NewTestContext(t)
		h.Success(tc.Context, map[string]string{"key": "value"})
		data := testutil.AssertSuccess[map[string]string](t, tc.Recorder, http.StatusOK)
		assert.Equal(t, "value", data["key"])
	})

	t.Run("success with meta", func(t *testing.T) {
		tc := testutil.NewTestContext(t)
		h.SuccessWithMeta(tc.Context, []string{"a", "b"}, 25, 2, 10)
		env := testutil.Decode[[]string](t, tc.Recorder)
		require.NotNil(t, env.Meta)
		assert.EqualValues(t, 25, env.Meta.Total)
		assert.Equal(t, 3, env.Meta.TotalPages)
	})

	t.Run("created", func(t *testing.T) {
		tc := testutil.NewTestContext(t)
		h.Created(tc.Context, map[string]string{"id": "123"})
		testutil.AssertSuccess[map[string]string](t, tc.Recorder, http.StatusCreated)
	})

	t.Run("no content", func(t *testing.T) {
		// a handler is needed for gin to flush the status
		engine := testutil.NewEngine()
		engine.DELETE("/x", func(c *gin.Context) { h.NoContent(c) })
		w := testutil.DoJSON(t, engine, http.MethodDelete, "/x", nil)
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Body.String())
	})

	t.Run("error carries the request id", func(t *testing.T) {
		tc := testutil.NewTestContext(t)
		tc.SetRequestID("req-42")
		h.NotFound(tc.Context, "missing")
		info := testutil.AssertError(t, tc.Recorder, http.StatusNotFound, dto.ErrCodeNotFound)
		assert.Equal(t, "req-42", info.RequestID)
		assert.Equal(t, "missing", info.Message)
	})
}

func TestBaseHandlerHandleError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"not found", shared.NewDomainError("NOT_FOUND", "Lead not found"), http.StatusNotFound, dto.ErrCodeNotFound},
		{"already exists", shared.NewDomainError("ALREADY_EXISTS", "dup"), http.StatusConflict, dto.ErrCodeAlreadyExists},
		{"invalid state", shared.NewDomainError("INVALID_STATE", "converted"), http.StatusUnprocessableEntity, dto.ErrCodeInvalidState},
		{"field validation", shared.NewDomainError("INVALID_SCORE", "range"), http.StatusBadRequest, "ERR_INVALID_SCORE"},
		{"forbidden", shared.NewDomainError("FORBIDDEN", "no"), http.StatusForbidden, dto.ErrCodeForbidden},
		{"wrapped domain error", errors.Join(errors.New("ctx"), shared.NewDomainError("NOT_FOUND", "x")), http.StatusNotFound, dto.ErrCodeNotFound},
		{"plain error hides details", errors.New("pq: connection refused"), http.StatusInternalServerError, dto.ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tc := testutil.NewTestContext(t)
			(&BaseHandler{}).HandleError(tc.Context, tt.err)
			info := testutil.AssertError(t, tc.Recorder, tt.status, tt.code)
			assert.NotContains(t, info.Message, "pq:")
		})
	}

	t.Run("nil error writes nothing", func(t *testing.T) {
		tc := testutil.NewTestContext(t)
		(&BaseHandler{}).HandleError(tc.Context, nil)
		assert.Empty(t, tc.Recorder.Body.String())
	})
}

func TestBaseHandlerPathID(t *testing.T) {
	h := &BaseHandler{}
	engine := testutil.NewEngine()
	engine.GET("/items/:id", func(c *gin.Context) {
		id, ok := h.pathID(c, "id")
		if !ok {
			return
		}
		h.Success(c, id)
	})

	id := uuid.New()
	w := testutil.DoJSON(t, engine, http.MethodGet, "/items/"+id.String(), nil)
	assert.Equal(t, id, testutil.AssertSuccess[uuid.UUID](t, w, http.StatusOK))

	w = testutil.DoJSON(t, engine, http.MethodGet, "/items/42", nil)
	testutil.AssertError(t, w, http.StatusBadRequest, dto.ErrCodeInvalidInput)
}

func TestBaseHandlerBindJSON(t *testing.T) {
	require.NoError(t, middleware.SetupValidator())

	type body struct {
		Name     string `json:"name" binding:"required"`
		Priority string `json:"priority" binding:"omitempty,crm_priority"`
	}
	h := &BaseHandler{}
	engine := testutil.NewEngine()
	engine.POST("/", func(c *gin.Context) {
		var req body
		if !h.bindJSON(c, &req) {
			return
		}
		h.Success(c, req)
	})

	t.Run("valid", func(t *testing.T) {
		w := testutil.DoJSON(t, engine, http.MethodPost, "/", body{Name: "x", Priority: "HIGH"})
		assert.Equal(t, "x", testutil.AssertSuccess[body](t, w, http.StatusOK).Name)
	})

	t.Run("validation details use json names", func(t *testing.T) {
		w := testutil.DoJSON(t, engine, http.MethodPost, "/", map[string]string{"priority": "SOMEDAY"})
		info := testutil.AssertError(t, w, http.StatusBadRequest, dto.ErrCodeValidation)
		fields := make([]string, 0, len(info.Details))
		for _, d := range info.Details {
			fields = append(fields, d.Field)
		}
		assert.ElementsMatch(t, []string{"name", "priority"}, fields)
	})

	t.Run("empty body", func(t *testing.T) {
		w := testutil.DoJSON(t, engine, http.MethodPost, "/", nil)
		testutil.AssertError(t, w, http.StatusBadRequest, dto.ErrCodeInvalidJSON)
	})
}
