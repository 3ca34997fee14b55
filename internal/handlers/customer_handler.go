package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pawpoint/vetclinic/internal/httperr"
	"github.com/pawpoint/vetclinic/internal/httpresp"
	"github.com/pawpoint/vetclinic/internal/infra/repository"
	"github.com/pawpoint/vetclinic/internal/middleware"
	"github.com/pawpoint/vetclinic/internal/models"
)

type CustomerHandler struct {
	store *repository.Store[models.Customer]
}

func NewCustomerHandler(store *repository.Store[models.Customer]) *CustomerHandler {
	return &CustomerHandler{store: store}
}

type CustomerRequest struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone"`
	Email string `json:"email"`
	Notes string `json:"notes"`
}

func clinicIDFromContext(c *gin.Context) uint {
	v, _ := c.Get(middleware.ContextClinicID)
	id, _ := v.(uint)
	return id
}

// List returns live customers only.
func (h *CustomerHandler) List(c *gin.Context) {
	clinicID := clinicIDFromContext(c)

	customers, err := h.store.FindActive(c.Request.Context(), repository.ByClinic(clinicID))
	if err != nil {
		httperr.Internal(c, "failed_to_list_customers", "Could not list customers.")
		return
	}

	httpresp.List(c, customers)
}

// ListArchived returns soft-deleted customers, for the restore screen.
func (h *CustomerHandler) ListArchived(c *gin.Context) {
	clinicID := clinicIDFromContext(c)

	customers, err := h.store.FindDeletedOnly(c.Request.Context(), repository.ByClinic(clinicID))
	if err != nil {
		httperr.Internal(c, "failed_to_list_customers", "Could not list archived customers.")
		return
	}

	httpresp.List(c, customers)
}

func (h *CustomerHandler) Get(c *gin.Context) {
	clinicID := clinicIDFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_customer_id", "Customer id must be numeric.")
		return
	}

	customer, err := h.store.FirstActive(c.Request.Context(),
		repository.ByClinic(clinicID),
		func(db *gorm.DB) *gorm.DB { return db.Where("id = ?", id) },
	)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			httperr.NotFound(c, "customer_not_found", "Customer not found.")
			return
		}
		httperr.Internal(c, "failed_to_get_customer", "Could not load customer.")
		return
	}

	httpresp.OK(c, customer)
}

func (h *CustomerHandler) Create(c *gin.Context) {
	clinicID := clinicIDFromContext(c)
	actor := middleware.ActorFromContext(c)

	var req CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request payload.")
		return
	}

	customer := models.Customer{
		ClinicID: clinicID,
		Name:     req.Name,
		Phone:    req.Phone,
		Email:    req.Email,
		Notes:    req.Notes,
	}

	if err := h.store.Create(c.Request.Context(), actor, &customer, c.Request); err != nil {
		httperr.Internal(c, "failed_to_create_customer", "Could not create customer.")
		return
	}

	httpresp.Created(c, customer)
}

func (h *CustomerHandler) Update(c *gin.Context) {
	clinicID := clinicIDFromContext(c)
	actor := middleware.ActorFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_customer_id", "Customer id must be numeric.")
		return
	}

	customer, err := h.store.FirstActive(c.Request.Context(),
		repository.ByClinic(clinicID),
		func(db *gorm.DB) *gorm.DB { return db.Where("id = ?", id) },
	)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			httperr.NotFound(c, "customer_not_found", "Customer not found.")
			return
		}
		httperr.Internal(c, "failed_to_get_customer", "Could not load customer.")
		return
	}

	var req CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request payload.")
		return
	}

	customer.Name = req.Name
	customer.Phone = req.Phone
	customer.Email = req.Email
	customer.Notes = req.Notes

	if err := h.store.Update(c.Request.Context(), actor, customer, c.Request); err != nil {
		httperr.Internal(c, "failed_to_update_customer", "Could not update customer.")
		return
	}

	httpresp.OK(c, customer)
}

// Delete archives the customer. Already-archived customers come back
// 200 unchanged: the archive stands as of its first deletion.
func (h *CustomerHandler) Delete(c *gin.Context) {
	clinicID := clinicIDFromContext(c)
	actor := middleware.ActorFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_customer_id", "Customer id must be numeric.")
		return
	}

	customer, err := h.store.First(c.Request.Context(),
		repository.ByClinic(clinicID),
		func(db *gorm.DB) *gorm.DB { return db.Where("id = ?", id) },
	)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			httperr.NotFound(c, "customer_not_found", "Customer not found.")
			return
		}
		httperr.Internal(c, "failed_to_get_customer", "Could not load customer.")
		return
	}

	if err := h.store.SoftDelete(c.Request.Context(), actor, customer, c.Request); err != nil {
		httperr.Internal(c, "failed_to_delete_customer", "Could not archive customer.")
		return
	}

	httpresp.OK(c, customer)
}

func (h *CustomerHandler) Restore(c *gin.Context) {
	clinicID := clinicIDFromContext(c)
	actor := middleware.ActorFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_customer_id", "Customer id must be numeric.")
		return
	}

	customer, err := h.store.First(c.Request.Context(),
		repository.ByClinic(clinicID),
		func(db *gorm.DB) *gorm.DB { return db.Where("id = ?", id) },
	)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			httperr.NotFound(c, "customer_not_found", "Customer not found.")
			return
		}
		httperr.Internal(c, "failed_to_get_customer", "Could not load customer.")
		return
	}

	if err := h.store.Restore(c.Request.Context(), actor, customer, c.Request); err != nil {
		httperr.Internal(c, "failed_to_restore_customer", "Could not restore customer.")
		return
	}

	httpresp.OK(c, customer)
}
