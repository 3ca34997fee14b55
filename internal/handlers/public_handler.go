package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domain "github.com/pawpoint/vetclinic/internal/domain/appointment"
	"github.com/pawpoint/vetclinic/internal/httperr"
	"github.com/pawpoint/vetclinic/internal/models"
	"github.com/pawpoint/vetclinic/internal/timezone"
	usecase "github.com/pawpoint/vetclinic/internal/usecase/appointment"
)

// PublicHandler serves the unauthenticated clinic pages. No audit here:
// there is no staff actor.
type PublicHandler struct {
	db           *gorm.DB
	availability *usecase.GetAvailability
}

func NewPublicHandler(db *gorm.DB, availability *usecase.GetAvailability) *PublicHandler {
	return &PublicHandler{db: db, availability: availability}
}

func (h *PublicHandler) ListServices(c *gin.Context) {
	slug := c.Param("slug")

	var clinic models.Clinic
	if err := h.db.Where("slug = ?", slug).First(&clinic).Error; err != nil {
		httperr.NotFound(c, "clinic_not_found", "Clinic not found.")
		return
	}

	category := strings.TrimSpace(strings.ToLower(c.Query("category")))
	query := strings.TrimSpace(strings.ToLower(c.Query("query")))

	q := h.db.Where("clinic_id = ? AND active = true", clinic.ID)

	if category != "" {
		q = q.Where("LOWER(category) = ?", category)
	}

	if query != "" {
		like := "%" + query + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	var services []models.Service
	if err := q.Order("id ASC").Find(&services).Error; err != nil {
		httperr.Internal(c, "failed_to_list_services", "Could not list services.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"clinic":   clinic,
		"services": services,
	})
}

// Availability returns the free slots of one of the clinic's vets for a
// service on a given day.
func (h *PublicHandler) Availability(c *gin.Context) {
	slug := c.Param("slug")
	dateStr := c.Query("date")
	serviceIDStr := c.Query("service_id")

	if dateStr == "" || serviceIDStr == "" {
		httperr.BadRequest(c, "missing_params", "date and service_id are required.")
		return
	}

	serviceID, err := strconv.ParseUint(serviceIDStr, 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_service_id", "Service id must be numeric.")
		return
	}

	var clinic models.Clinic
	if err := h.db.Where("slug = ?", slug).First(&clinic).Error; err != nil {
		httperr.NotFound(c, "clinic_not_found", "Clinic not found.")
		return
	}

	vetID, err := strconv.ParseUint(c.Query("vet_id"), 10, 64)
	if err != nil {
		// No vet requested: default to the clinic's first vet.
		var vet models.User
		if err := h.db.
			Where("clinic_id = ? AND role = ?", clinic.ID, models.RoleVet).
			Order("id ASC").
			First(&vet).Error; err != nil {
			httperr.BadRequest(c, "vet_not_found", "No veterinarian available.")
			return
		}
		vetID = uint64(vet.ID)
	}

	date, err := time.ParseInLocation(
		"2006-01-02",
		dateStr,
		timezone.Location(clinic.Timezone),
	)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Date must be YYYY-MM-DD.")
		return
	}

	slots, err := h.availability.Execute(c.Request.Context(), domain.AvailabilityInput{
		ClinicID:  clinic.ID,
		VetID:     uint(vetID),
		ServiceID: uint(serviceID),
		Date:      date,
	})
	if err != nil {
		if httperr.IsBusiness(err, "service_not_found") {
			httperr.BadRequest(c, "service_not_found", "Service not found.")
			return
		}
		httperr.Internal(c, "availability_failed", "Could not compute free slots.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":  dateStr,
		"slots": slots,
	})
}
