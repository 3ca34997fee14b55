package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pawpoint/vetclinic/internal/audit"
	domain "github.com/pawpoint/vetclinic/internal/domain/appointment"
	"github.com/pawpoint/vetclinic/internal/httperr"
	"github.com/pawpoint/vetclinic/internal/models"
)

type AppointmentGormRepository struct {
	db       *gorm.DB
	recorder *audit.Recorder
}

func NewAppointmentGormRepository(db *gorm.DB, recorder *audit.Recorder) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db, recorder: recorder}
}

// --------------------------------------------------
// Clinic
// --------------------------------------------------

func (r *AppointmentGormRepository) GetClinicByID(
	ctx context.Context,
	id uint,
) (*models.Clinic, error) {

	var clinic models.Clinic
	if err := r.db.WithContext(ctx).First(&clinic, id).Error; err != nil {
		return nil, err
	}
	return &clinic, nil
}

// --------------------------------------------------
// Service
// --------------------------------------------------

func (r *AppointmentGormRepository) GetService(
	ctx context.Context,
	clinicID uint,
	serviceID uint,
) (*models.Service, error) {

	var svc models.Service
	if err := r.db.WithContext(ctx).
		Where("id = ? AND clinic_id = ? AND active = ?", serviceID, clinicID, true).
		First(&svc).Error; err != nil {
		return nil, err
	}
	return &svc, nil
}

// --------------------------------------------------
// Customer / Pet
// --------------------------------------------------

func (r *AppointmentGormRepository) GetOrCreateCustomer(
	ctx context.Context,
	clinicID uint,
	name string,
	phone string,
	email string,
) (*models.Customer, error) {

	var customer models.Customer
	err := r.db.WithContext(ctx).
		Where("clinic_id = ? AND phone = ? AND deleted_at IS NULL", clinicID, phone).
		First(&customer).Error

	if err == nil {
		return &customer, nil
	}

	customer = models.Customer{
		ClinicID: clinicID,
		Name:     name,
		Phone:    phone,
		Email:    email,
	}

	if err := r.db.WithContext(ctx).Create(&customer).Error; err != nil {
		return nil, err
	}

	return &customer, nil
}

func (r *AppointmentGormRepository) GetPet(
	ctx context.Context,
	clinicID uint,
	petID string,
) (*models.Pet, error) {

	var pet models.Pet
	if err := r.db.WithContext(ctx).
		Where("id = ? AND clinic_id = ? AND deleted_at IS NULL", petID, clinicID).
		First(&pet).Error; err != nil {
		return nil, err
	}
	return &pet, nil
}

// --------------------------------------------------
// Appointment (create / conflict)
// --------------------------------------------------

func (r *AppointmentGormRepository) CreateAppointment(
	ctx context.Context,
	actor *models.User,
	ap *models.Appointment,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(ap).Error; err != nil {
			return err
		}
		return r.recorder.WithTx(tx).RecordChange(ctx, actor, models.ActionCreate, ap, nil, nil)
	})
}

func (r *AppointmentGormRepository) AssertNoTimeConflict(
	ctx context.Context,
	vetID uint,
	start time.Time,
	end time.Time,
) error {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where(
			"vet_id = ? AND status = 'scheduled' AND start_time < ? AND end_time > ?",
			vetID,
			end,
			start,
		).
		Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		return httperr.ErrBusiness("time_conflict")
	}

	return nil
}

// --------------------------------------------------
// Appointment (state change)
// --------------------------------------------------

func (r *AppointmentGormRepository) GetAppointmentForVet(
	ctx context.Context,
	appointmentID uint,
	vetID uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Where("id = ? AND vet_id = ?", appointmentID, vetID).
		First(&ap).Error; err != nil {
		return nil, err
	}

	return &ap, nil
}

func (r *AppointmentGormRepository) UpdateAppointment(
	ctx context.Context,
	actor *models.User,
	ap *models.Appointment,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(ap).Error; err != nil {
			return err
		}
		return r.recorder.WithTx(tx).RecordChange(ctx, actor, models.ActionUpdate, ap, nil,
			map[string]any{"status": ap.Status})
	})
}

// --------------------------------------------------
// Schedule
// --------------------------------------------------

func (r *AppointmentGormRepository) IsWithinOpenHours(
	ctx context.Context,
	clinicID uint,
	start time.Time,
	end time.Time,
) (bool, error) {

	var clinic models.Clinic
	if err := r.db.WithContext(ctx).First(&clinic, clinicID).Error; err != nil {
		return false, nil
	}

	if clinic.OpensAt == "" || clinic.ClosesAt == "" {
		return false, nil
	}

	loc := start.Location()
	parseHM := func(hm string) time.Time {
		t, _ := time.Parse("15:04", hm)
		return time.Date(
			start.Year(), start.Month(), start.Day(),
			t.Hour(), t.Minute(), 0, 0,
			loc,
		)
	}

	opens := parseHM(clinic.OpensAt)
	closes := parseHM(clinic.ClosesAt)

	if start.Before(opens) || end.After(closes) {
		return false, nil
	}

	return true, nil
}

func (r *AppointmentGormRepository) ListAppointmentsForDay(
	ctx context.Context,
	vetID uint,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Select("start_time", "end_time").
		Where(
			"vet_id = ? AND status = 'scheduled' AND start_time >= ? AND start_time < ?",
			vetID, start, end,
		).
		Order("start_time ASC").
		Find(&apps).Error; err != nil {
		return nil, err
	}

	return apps, nil
}

func (r *AppointmentGormRepository) ListAppointmentsForPeriod(
	ctx context.Context,
	vetID uint,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {

	var apps []models.Appointment

	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Pet").
		Preload("Service").
		Where(
			"vet_id = ? AND start_time >= ? AND start_time < ?",
			vetID,
			start,
			end,
		).
		Order("start_time ASC").
		Find(&apps).Error

	if err != nil {
		return nil, err
	}

	return apps, nil
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
