package customer

import (
	"context"
	"errors"
	"testing"

	"github.com/crm/backend/internal/domain/customer"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newCreateCustomerRequest() CreateCustomerRequest {
	return CreateCustomerRequest{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "Ada@Example.com",
		Company:   "Analytical Engines",
		Address:   AddressDTO{City: "London", Country: "UK"},
	}
}

func newTestCustomer(t *testing.T, tenantID uuid.UUID) *customer.Customer {
	t.Helper()
	c, err := customer.NewCustomer(tenantID, customer.CustomerDetails{
		FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com",
	})
	require.NoError(t, err)
	c.ClearDomainEvents()
	return c
}

func TestCustomerService_Create(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	userID := uuid.New()

	t.Run("creates with normalized email and publishes event", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		pub := &recordingPublisher{}
		svc := NewCustomerService(repo, nil)
		svc.SetEventPublisher(pub)

		repo.On("ExistsByEmail", ctx, tenantID, "ada@example.com", (*uuid.UUID)(nil)).Return(false, nil)
		repo.On("Save", ctx, mock.AnythingOfType("*customer.Customer")).Return(nil)

		resp, err := svc.Create(ctx, tenantID, userID, newCreateCustomerRequest())
		require.NoError(t, err)
		assert.Equal(t, "ada@example.com", resp.Email)
		assert.Equal(t, "Ada Lovelace", resp.FullName)
		assert.Equal(t, "ACTIVE", resp.Status)
		assert.Equal(t, "London", resp.Address.City)
		assert.Equal(t, []string{customer.EventTypeCustomerCreated}, pub.types)
		repo.AssertExpectations(t)
	})

	t.Run("explicit status", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		svc := NewCustomerService(repo, nil)
		req := newCreateCustomerRequest()
		req.Status = "PROSPECT"

		repo.On("ExistsByEmail", ctx, tenantID, "ada@example.com", (*uuid.UUID)(nil)).Return(false, nil)
		repo.On("Save", ctx, mock.Anything).Return(nil)

		resp, err := svc.Create(ctx, tenantID, uuid.Nil, req)
		require.NoError(t, err)
		assert.Equal(t, "PROSPECT", resp.Status)
	})

	t.Run("duplicate email", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		svc := NewCustomerService(repo, nil)
		repo.On("ExistsByEmail", ctx, tenantID, "ada@example.com", (*uuid.UUID)(nil)).Return(true, nil)

		_, err := svc.Create(ctx, tenantID, userID, newCreateCustomerRequest())
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("invalid email format", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		svc := NewCustomerService(repo, nil)
		req := newCreateCustomerRequest()
		req.Email = "not-an-email"
		repo.On("ExistsByEmail", ctx, tenantID, "not-an-email", (*uuid.UUID)(nil)).Return(false, nil)

		_, err := svc.Create(ctx, tenantID, userID, req)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_EMAIL", domainErr.Code)
	})
}

func TestCustomerService_Update(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("changed email is re-checked excluding self", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		svc := NewCustomerService(repo, nil)
		existing := newTestCustomer(t, tenantID)

		req := UpdateCustomerRequest(newCreateCustomerRequest())
		req.Email = "countess@example.com"
		repo.On("FindByIDForTenant", ctx, tenantID, existing.ID).Return(existing, nil)
		repo.On("ExistsByEmail", ctx, tenantID, "countess@example.com", &existing.ID).Return(false, nil)
		repo.On("Save", ctx, existing).Return(nil)

		resp, err := svc.Update(ctx, tenantID, existing.ID, req)
		require.NoError(t, err)
		assert.Equal(t, "countess@example.com", resp.Email)
		repo.AssertExpectations(t)
	})

	t.Run("unchanged email skips the uniqueness check", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		svc := NewCustomerService(repo, nil)
		existing := newTestCustomer(t, tenantID)

		repo.On("FindByIDForTenant", ctx, tenantID, existing.ID).Return(existing, nil)
		repo.On("Save", ctx, existing).Return(nil)

		_, err := svc.Update(ctx, tenantID, existing.ID, UpdateCustomerRequest(newCreateCustomerRequest()))
		require.NoError(t, err)
		repo.AssertNotCalled(t, "ExistsByEmail", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("not found", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		svc := NewCustomerService(repo, nil)
		id := uuid.New()
		repo.On("FindByIDForTenant", ctx, tenantID, id).Return(nil, shared.ErrNotFound)

		_, err := svc.Update(ctx, tenantID, id, UpdateCustomerRequest(newCreateCustomerRequest()))
		assert.True(t, shared.IsNotFound(err))
	})
}

func TestCustomerService_Queries(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("list applies defaults and status filter", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		svc := NewCustomerService(repo, nil)
		c := newTestCustomer(t, tenantID)

		matcher := mock.MatchedBy(func(f shared.Filter) bool {
			return f.Page == 1 && f.PageSize == 20 && f.Filters["status"] == "ACTIVE"
		})
		repo.On("FindAllForTenant", ctx, tenantID, matcher).Return([]customer.Customer{*c}, nil)
		repo.On("CountForTenant", ctx, tenantID, matcher).Return(int64(1), nil)

		items, total, err := svc.List(ctx, tenantID, CustomerListFilter{Status: "ACTIVE"})
		require.NoError(t, err)
		assert.Len(t, items, 1)
		assert.Equal(t, int64(1), total)
	})

	t.Run("search requires a name", func(t *testing.T) {
		svc := NewCustomerService(new(MockCustomerRepository), nil)
		_, err := svc.SearchByName(ctx, tenantID, "")
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})

	t.Run("by status rejects unknown status", func(t *testing.T) {
		svc := NewCustomerService(new(MockCustomerRepository), nil)
		_, err := svc.ListByStatus(ctx, tenantID, "GONE")
		assert.Error(t, err)
	})

	t.Run("exists maps not found to false", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		svc := NewCustomerService(repo, nil)
		missing, broken := uuid.New(), uuid.New()
		repo.On("FindByIDForTenant", ctx, tenantID, missing).Return(nil, shared.ErrNotFound)
		repo.On("FindByIDForTenant", ctx, tenantID, broken).Return(nil, errors.New("db down"))

		ok, err := svc.Exists(ctx, tenantID, missing)
		require.NoError(t, err)
		assert.False(t, ok)

		_, err = svc.Exists(ctx, tenantID, broken)
		assert.Error(t, err)
	})
}
