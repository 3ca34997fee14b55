package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pawpoint/vetclinic/internal/audit"
	"github.com/pawpoint/vetclinic/internal/httperr"
	"github.com/pawpoint/vetclinic/internal/httpresp"
	"github.com/pawpoint/vetclinic/internal/middleware"
	"github.com/pawpoint/vetclinic/internal/models"
)

type PrescriptionHandler struct {
	db       *gorm.DB
	recorder *audit.Recorder
}

func NewPrescriptionHandler(db *gorm.DB, recorder *audit.Recorder) *PrescriptionHandler {
	return &PrescriptionHandler{db: db, recorder: recorder}
}

type PrescriptionRequest struct {
	PetID          string `json:"pet_id" binding:"required"`
	Medication     string `json:"medication" binding:"required"`
	Dosage         string `json:"dosage"`
	Instructions   string `json:"instructions"`
	IsControlled   bool   `json:"is_controlled"`
	RefillsAllowed int    `json:"refills_allowed"`
	ExpiresAt      string `json:"expires_at"` // YYYY-MM-DD
}

func (h *PrescriptionHandler) List(c *gin.Context) {
	clinicID := clinicIDFromContext(c)

	q := h.db.Where("clinic_id = ?", clinicID)
	if petID := c.Query("pet_id"); petID != "" {
		q = q.Where("pet_id = ?", petID)
	}
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var prescriptions []models.Prescription
	if err := q.Order("created_at DESC").Find(&prescriptions).Error; err != nil {
		httperr.Internal(c, "failed_to_list_prescriptions", "Could not list prescriptions.")
		return
	}

	httpresp.List(c, prescriptions)
}

func (h *PrescriptionHandler) Get(c *gin.Context) {
	clinicID := clinicIDFromContext(c)

	var prescription models.Prescription
	err := h.db.Preload("Pet").Preload("PrescribedBy").
		Where("id = ? AND clinic_id = ?", c.Param("id"), clinicID).
		First(&prescription).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			httperr.NotFound(c, "prescription_not_found", "Prescription not found.")
			return
		}
		httperr.Internal(c, "failed_to_get_prescription", "Could not load prescription.")
		return
	}

	httpresp.OK(c, prescription)
}

func (h *PrescriptionHandler) Create(c *gin.Context) {
	clinicID := clinicIDFromContext(c)
	actor := middleware.ActorFromContext(c)

	if actor == nil || actor.Role != models.RoleVet {
		httperr.Forbidden(c, "vets_only", "Only veterinarians can prescribe.")
		return
	}

	var req PrescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request payload.")
		return
	}

	var expiresAt *time.Time
	if req.ExpiresAt != "" {
		t, err := time.Parse("2006-01-02", req.ExpiresAt)
		if err != nil {
			httperr.BadRequest(c, "invalid_expires_at", "Expiry must be YYYY-MM-DD.")
			return
		}
		expiresAt = &t
	}

	var pet models.Pet
	if err := h.db.Where("id = ? AND clinic_id = ? AND deleted_at IS NULL", req.PetID, clinicID).
		First(&pet).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			httperr.NotFound(c, "pet_not_found", "Pet not found.")
			return
		}
		httperr.Internal(c, "failed_to_get_pet", "Could not load pet.")
		return
	}

	prescription := models.Prescription{
		ClinicID:       clinicID,
		PetID:          pet.ID,
		PrescribedByID: actor.ID,
		Medication:     req.Medication,
		Dosage:         req.Dosage,
		Instructions:   req.Instructions,
		IsControlled:   req.IsControlled,
		RefillsAllowed: req.RefillsAllowed,
		Status:         models.PrescriptionActive,
		ExpiresAt:      expiresAt,
	}

	err := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&prescription).Error; err != nil {
			return err
		}
		return h.recorder.WithTx(tx).RecordChange(
			c.Request.Context(), actor, models.ActionCreate, &prescription, c.Request, nil)
	})
	if err != nil {
		httperr.Internal(c, "failed_to_create_prescription", "Could not create prescription.")
		return
	}

	httpresp.Created(c, prescription)
}

// Refill consumes one refill; exhausting the allowance completes the
// prescription.
func (h *PrescriptionHandler) Refill(c *gin.Context) {
	clinicID := clinicIDFromContext(c)
	actor := middleware.ActorFromContext(c)

	var prescription models.Prescription
	err := h.db.Where("id = ? AND clinic_id = ?", c.Param("id"), clinicID).
		First(&prescription).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			httperr.NotFound(c, "prescription_not_found", "Prescription not found.")
			return
		}
		httperr.Internal(c, "failed_to_get_prescription", "Could not load prescription.")
		return
	}

	if prescription.Status != models.PrescriptionActive {
		httperr.Conflict(c, "prescription_not_active", "Only active prescriptions can be refilled.")
		return
	}
	if prescription.ExpiresAt != nil && prescription.ExpiresAt.Before(time.Now()) {
		httperr.Conflict(c, "prescription_expired", "The prescription has expired.")
		return
	}
	if prescription.RefillsUsed >= prescription.RefillsAllowed {
		httperr.Conflict(c, "no_refills_left", "All refills have been used.")
		return
	}

	prescription.RefillsUsed++
	if prescription.RefillsUsed >= prescription.RefillsAllowed {
		prescription.Status = models.PrescriptionCompleted
	}

	err = h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&prescription).Error; err != nil {
			return err
		}
		return h.recorder.WithTx(tx).RecordChange(
			c.Request.Context(), actor, models.ActionUpdate, &prescription, c.Request,
			map[string]any{"refills_used": prescription.RefillsUsed, "status": prescription.Status})
	})
	if err != nil {
		httperr.Internal(c, "failed_to_refill_prescription", "Could not record the refill.")
		return
	}

	httpresp.OK(c, prescription)
}

func (h *PrescriptionHandler) Cancel(c *gin.Context) {
	clinicID := clinicIDFromContext(c)
	actor := middleware.ActorFromContext(c)

	var prescription models.Prescription
	err := h.db.Where("id = ? AND clinic_id = ?", c.Param("id"), clinicID).
		First(&prescription).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			httperr.NotFound(c, "prescription_not_found", "Prescription not found.")
			return
		}
		httperr.Internal(c, "failed_to_get_prescription", "Could not load prescription.")
		return
	}

	if prescription.Status != models.PrescriptionActive {
		httperr.Conflict(c, "prescription_not_active", "Only active prescriptions can be cancelled.")
		return
	}

	prescription.Status = models.PrescriptionCancelled

	err = h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&prescription).Error; err != nil {
			return err
		}
		return h.recorder.WithTx(tx).RecordChange(
			c.Request.Context(), actor, models.ActionUpdate, &prescription, c.Request,
			map[string]any{"status": prescription.Status})
	})
	if err != nil {
		httperr.Internal(c, "failed_to_cancel_prescription", "Could not cancel prescription.")
		return
	}

	httpresp.OK(c, prescription)
}
