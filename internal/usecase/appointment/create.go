package appointment

import (
	"context"
	"time"

	domain "github.com/pawpoint/vetclinic/internal/domain/appointment"
	"github.com/pawpoint/vetclinic/internal/httperr"
	"github.com/pawpoint/vetclinic/internal/models"
	"github.com/pawpoint/vetclinic/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type CreateAppointmentInput struct {
	ClinicID uint
	VetID    uint
	Actor    *models.User

	CustomerName  string
	CustomerPhone string
	CustomerEmail string

	PetID     string
	ServiceID uint

	Date  string
	Time  string
	Notes string
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	repo domain.Repository
}

func NewCreateAppointment(repo domain.Repository) *CreateAppointment {
	return &CreateAppointment{repo: repo}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	clinic, err := uc.repo.GetClinicByID(ctx, in.ClinicID)
	if err != nil {
		return nil, err
	}

	// Date/time in the clinic's timezone.
	start, err := time.ParseInLocation(
		"2006-01-02 15:04",
		in.Date+" "+in.Time,
		timezone.Location(clinic.Timezone),
	)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date_or_time")
	}

	// Minimum booking advance.
	minAdvance := clinic.MinAdvanceMinutes
	if minAdvance <= 0 {
		minAdvance = 60
	}

	now := timezone.NowIn(clinic.Timezone)
	if start.Before(now.Add(time.Duration(minAdvance) * time.Minute)) {
		return nil, httperr.ErrBusiness("too_soon")
	}

	svc, err := uc.repo.GetService(ctx, in.ClinicID, in.ServiceID)
	if err != nil {
		return nil, httperr.ErrBusiness("service_not_found")
	}

	end := start.Add(time.Duration(svc.DurationMin) * time.Minute)

	ok, err := uc.repo.IsWithinOpenHours(ctx, in.ClinicID, start, end)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, httperr.ErrBusiness("outside_open_hours")
	}

	customer, err := uc.repo.GetOrCreateCustomer(
		ctx,
		in.ClinicID,
		in.CustomerName,
		in.CustomerPhone,
		in.CustomerEmail,
	)
	if err != nil {
		return nil, err
	}

	pet, err := uc.repo.GetPet(ctx, in.ClinicID, in.PetID)
	if err != nil {
		return nil, httperr.ErrBusiness("pet_not_found")
	}

	if err := uc.repo.AssertNoTimeConflict(ctx, in.VetID, start, end); err != nil {
		return nil, err
	}

	ap := &models.Appointment{
		ClinicID:   in.ClinicID,
		VetID:      in.VetID,
		CustomerID: customer.ID,
		PetID:      pet.ID,
		ServiceID:  svc.ID,
		StartTime:  start,
		EndTime:    end,
		Status:     string(domain.InitialStatus()),
		Notes:      in.Notes,
	}

	// The repository writes the lifecycle audit record in the same
	// transaction as the insert.
	if err := uc.repo.CreateAppointment(ctx, in.Actor, ap); err != nil {
		return nil, err
	}

	return ap, nil
}
