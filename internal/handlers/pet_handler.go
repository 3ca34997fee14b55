package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pawpoint/vetclinic/internal/httperr"
	"github.com/pawpoint/vetclinic/internal/httpresp"
	"github.com/pawpoint/vetclinic/internal/infra/repository"
	"github.com/pawpoint/vetclinic/internal/middleware"
	"github.com/pawpoint/vetclinic/internal/models"
	"github.com/pawpoint/vetclinic/internal/storage"
)

const maxPhotoUploadBytes = 10 << 20 // 10 MiB

type PetHandler struct {
	store  *repository.Store[models.Pet]
	photos *storage.PhotoStore
}

func NewPetHandler(store *repository.Store[models.Pet], photos *storage.PhotoStore) *PetHandler {
	return &PetHandler{store: store, photos: photos}
}

type PetRequest struct {
	CustomerID uint    `json:"customer_id" binding:"required"`
	Name       string  `json:"name" binding:"required"`
	Species    string  `json:"species" binding:"required"`
	Breed      string  `json:"breed"`
	Sex        string  `json:"sex"`
	BirthDate  string  `json:"birth_date"` // YYYY-MM-DD
	WeightKg   float64 `json:"weight_kg"`
}

func parseBirthDate(s string) (*time.Time, bool) {
	if s == "" {
		return nil, true
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, false
	}
	return &t, true
}

func (h *PetHandler) List(c *gin.Context) {
	clinicID := clinicIDFromContext(c)

	scopes := []repository.Scope{repository.ByClinic(clinicID)}
	if customerID := c.Query("customer_id"); customerID != "" {
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			return db.Where("customer_id = ?", customerID)
		})
	}

	pets, err := h.store.FindActive(c.Request.Context(), scopes...)
	if err != nil {
		httperr.Internal(c, "failed_to_list_pets", "Could not list pets.")
		return
	}

	httpresp.List(c, pets)
}

func (h *PetHandler) ListArchived(c *gin.Context) {
	clinicID := clinicIDFromContext(c)

	pets, err := h.store.FindDeletedOnly(c.Request.Context(), repository.ByClinic(clinicID))
	if err != nil {
		httperr.Internal(c, "failed_to_list_pets", "Could not list archived pets.")
		return
	}

	httpresp.List(c, pets)
}

func (h *PetHandler) Get(c *gin.Context) {
	clinicID := clinicIDFromContext(c)
	id := c.Param("id")

	pet, err := h.store.FirstActive(c.Request.Context(),
		repository.ByClinic(clinicID),
		func(db *gorm.DB) *gorm.DB { return db.Where("id = ?", id).Preload("Customer") },
	)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			httperr.NotFound(c, "pet_not_found", "Pet not found.")
			return
		}
		httperr.Internal(c, "failed_to_get_pet", "Could not load pet.")
		return
	}

	httpresp.OK(c, pet)
}

func (h *PetHandler) Create(c *gin.Context) {
	clinicID := clinicIDFromContext(c)
	actor := middleware.ActorFromContext(c)

	var req PetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request payload.")
		return
	}

	birthDate, ok := parseBirthDate(req.BirthDate)
	if !ok {
		httperr.BadRequest(c, "invalid_birth_date", "Birth date must be YYYY-MM-DD.")
		return
	}

	pet := models.Pet{
		ClinicID:   clinicID,
		CustomerID: req.CustomerID,
		Name:       req.Name,
		Species:    req.Species,
		Breed:      req.Breed,
		Sex:        req.Sex,
		BirthDate:  birthDate,
		WeightKg:   req.WeightKg,
	}

	if err := h.store.Create(c.Request.Context(), actor, &pet, c.Request); err != nil {
		httperr.Internal(c, "failed_to_create_pet", "Could not create pet.")
		return
	}

	httpresp.Created(c, pet)
}

func (h *PetHandler) Update(c *gin.Context) {
	clinicID := clinicIDFromContext(c)
	actor := middleware.ActorFromContext(c)
	id := c.Param("id")

	pet, err := h.store.FirstActive(c.Request.Context(),
		repository.ByClinic(clinicID),
		func(db *gorm.DB) *gorm.DB { return db.Where("id = ?", id) },
	)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			httperr.NotFound(c, "pet_not_found", "Pet not found.")
			return
		}
		httperr.Internal(c, "failed_to_get_pet", "Could not load pet.")
		return
	}

	var req PetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request payload.")
		return
	}

	birthDate, ok := parseBirthDate(req.BirthDate)
	if !ok {
		httperr.BadRequest(c, "invalid_birth_date", "Birth date must be YYYY-MM-DD.")
		return
	}

	pet.CustomerID = req.CustomerID
	pet.Name = req.Name
	pet.Species = req.Species
	pet.Breed = req.Breed
	pet.Sex = req.Sex
	pet.BirthDate = birthDate
	pet.WeightKg = req.WeightKg

	if err := h.store.Update(c.Request.Context(), actor, pet, c.Request); err != nil {
		httperr.Internal(c, "failed_to_update_pet", "Could not update pet.")
		return
	}

	httpresp.OK(c, pet)
}

func (h *PetHandler) Delete(c *gin.Context) {
	clinicID := clinicIDFromContext(c)
	actor := middleware.ActorFromContext(c)
	id := c.Param("id")

	pet, err := h.store.First(c.Request.Context(),
		repository.ByClinic(clinicID),
		func(db *gorm.DB) *gorm.DB { return db.Where("id = ?", id) },
	)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			httperr.NotFound(c, "pet_not_found", "Pet not found.")
			return
		}
		httperr.Internal(c, "failed_to_get_pet", "Could not load pet.")
		return
	}

	if err := h.store.SoftDelete(c.Request.Context(), actor, pet, c.Request); err != nil {
		httperr.Internal(c, "failed_to_delete_pet", "Could not archive pet.")
		return
	}

	httpresp.OK(c, pet)
}

func (h *PetHandler) Restore(c *gin.Context) {
	clinicID := clinicIDFromContext(c)
	actor := middleware.ActorFromContext(c)
	id := c.Param("id")

	pet, err := h.store.First(c.Request.Context(),
		repository.ByClinic(clinicID),
		func(db *gorm.DB) *gorm.DB { return db.Where("id = ?", id) },
	)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			httperr.NotFound(c, "pet_not_found", "Pet not found.")
			return
		}
		httperr.Internal(c, "failed_to_get_pet", "Could not load pet.")
		return
	}

	if err := h.store.Restore(c.Request.Context(), actor, pet, c.Request); err != nil {
		httperr.Internal(c, "failed_to_restore_pet", "Could not restore pet.")
		return
	}

	httpresp.OK(c, pet)
}

// UploadPhoto accepts a multipart "photo" file, converts it and stores
// it in S3, then saves the object key on the pet.
func (h *PetHandler) UploadPhoto(c *gin.Context) {
	clinicID := clinicIDFromContext(c)
	actor := middleware.ActorFromContext(c)
	id := c.Param("id")

	pet, err := h.store.FirstActive(c.Request.Context(),
		repository.ByClinic(clinicID),
		func(db *gorm.DB) *gorm.DB { return db.Where("id = ?", id) },
	)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			httperr.NotFound(c, "pet_not_found", "Pet not found.")
			return
		}
		httperr.Internal(c, "failed_to_get_pet", "Could not load pet.")
		return
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		httperr.BadRequest(c, "missing_photo", "Multipart field 'photo' is required.")
		return
	}
	if fileHeader.Size > maxPhotoUploadBytes {
		httperr.BadRequest(c, "photo_too_large", "Photo must be at most 10 MiB.")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		httperr.Internal(c, "failed_to_read_photo", "Could not read uploaded photo.")
		return
	}
	defer file.Close()

	key, err := h.photos.SavePetPhoto(c.Request.Context(), pet.ID, file)
	if err != nil {
		httperr.BadRequest(c, "invalid_photo", "Photo could not be processed.")
		return
	}

	pet.PhotoKey = key
	if err := h.store.Update(c.Request.Context(), actor, pet, c.Request); err != nil {
		httperr.Internal(c, "failed_to_update_pet", "Could not save photo reference.")
		return
	}

	httpresp.OK(c, pet)
}
