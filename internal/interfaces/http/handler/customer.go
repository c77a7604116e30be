package handler

import (
	customerapp "github.com/crm/backend/internal/application/customer"
	"github.com/gin-gonic/gin"
)

// CustomerHandler handles customer-related API endpoints
type CustomerHandler struct {
	BaseHandler
	customerService *customerapp.CustomerService
}

// NewCustomerHandler creates a new CustomerHandler
func NewCustomerHandler(customerService *customerapp.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService}
}

// ExistsData reports whether a record exists
// @Description Existence check result
type ExistsData struct {
	Exists bool `json:"exists"`
}

// Create godoc
// @ID           createCustomer
// @Summary      Create a new customer
// @Description  Email must be unique within the tenant
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID when the token carries none"
// @Param        request body customerapp.CreateCustomerRequest true "Customer creation request"
// @Success      201 {object} APIResponse[customerapp.CustomerResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /customers [post]
func (h *CustomerHandler) Create(c *gin.Context) {
	var req customerapp.CreateCustomerRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.customerService.Create(c.Request.Context(), getTenantID(c), getUserID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// GetByID godoc
// @ID           getCustomer
// @Summary      Get customer by ID
// @Tags         customers
// @Produce      json
// @Param        id path string true "Customer ID" format(uuid)
// @Success      200 {object} APIResponse[customerapp.CustomerResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /customers/{id} [get]
func (h *CustomerHandler) GetByID(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.customerService.GetByID(c.Request.Context(), getTenantID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// List godoc
// @ID           listCustomers
// @Summary      List customers
// @Description  Paginated list with optional search and status filter
// @Tags         customers
// @Produce      json
// @Param        search query string false "Name, email or company fragment"
// @Param        status query string false "Status" Enums(ACTIVE, INACTIVE, PROSPECT)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Param        order_by query string false "Sort field" default(created_at)
// @Param        order_dir query string false "Sort direction" Enums(asc, desc) default(desc)
// @Success      200 {object} APIResponse[[]customerapp.CustomerResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /customers [get]
func (h *CustomerHandler) List(c *gin.Context) {
	var filter customerapp.CustomerListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	customers, total, err := h.customerService.List(c.Request.Context(), getTenantID(c), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, customers, total, filter.Page, filter.PageSize)
}

// Search godoc
// @ID           searchCustomers
// @Summary      Search customers by name
// @Tags         customers
// @Produce      json
// @Param        name query string true "Name fragment"
// @Success      200 {object} APIResponse[[]customerapp.CustomerResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /customers/search [get]
func (h *CustomerHandler) Search(c *gin.Context) {
	name := c.Query("name")
	if name == "" {
		h.BadRequest(c, "name is required")
		return
	}
	customers, err := h.customerService.SearchByName(c.Request.Context(), getTenantID(c), name)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, customers)
}

// ListByStatus godoc
// @ID           listCustomersByStatus
// @Summary      List customers with a status
// @Tags         customers
// @Produce      json
// @Param        status path string true "Status" Enums(ACTIVE, INACTIVE, PROSPECT)
// @Success      200 {object} APIResponse[[]customerapp.CustomerResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /customers/status/{status} [get]
func (h *CustomerHandler) ListByStatus(c *gin.Context) {
	customers, err := h.customerService.ListByStatus(c.Request.Context(), getTenantID(c), c.Param("status"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, customers)
}

// Update godoc
// @ID           updateCustomer
// @Summary      Update a customer
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        id path string true "Customer ID" format(uuid)
// @Param        request body customerapp.UpdateCustomerRequest true "Customer update request"
// @Success      200 {object} APIResponse[customerapp.CustomerResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /customers/{id} [put]
func (h *CustomerHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req customerapp.UpdateCustomerRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.customerService.Update(c.Request.Context(), getTenantID(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete godoc
// @ID           deleteCustomer
// @Summary      Delete a customer
// @Tags         customers
// @Param        id path string true "Customer ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /customers/{id} [delete]
func (h *CustomerHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.customerService.Delete(c.Request.Context(), getTenantID(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Count godoc
// @ID           countCustomers
// @Summary      Count customers of the tenant
// @Tags         customers
// @Produce      json
// @Success      200 {object} APIResponse[CountData]
// @Security     BearerAuth
// @Router       /customers/count [get]
func (h *CustomerHandler) Count(c *gin.Context) {
	count, err := h.customerService.Count(c.Request.Context(), getTenantID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, CountData{Count: count})
}

// Exists godoc
// @ID           customerExists
// @Summary      Check that a customer exists
// @Tags         customers
// @Produce      json
// @Param        id path string true "Customer ID" format(uuid)
// @Success      200 {object} APIResponse[ExistsData]
// @Security     BearerAuth
// @Router       /customers/{id}/exists [get]
func (h *CustomerHandler) Exists(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	exists, err := h.customerService.Exists(c.Request.Context(), getTenantID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ExistsData{Exists: exists})
}
