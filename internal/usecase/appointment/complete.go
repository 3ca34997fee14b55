package appointment

import (
	"context"

	domain "github.com/pawpoint/vetclinic/internal/domain/appointment"
	"github.com/pawpoint/vetclinic/internal/httperr"
	"github.com/pawpoint/vetclinic/internal/models"
	"github.com/pawpoint/vetclinic/internal/timezone"
)

type CompleteAppointment struct {
	repo domain.Repository
}

func NewCompleteAppointment(repo domain.Repository) *CompleteAppointment {
	return &CompleteAppointment{repo: repo}
}

func (uc *CompleteAppointment) Execute(
	ctx context.Context,
	actor *models.User,
	clinicID uint,
	vetID uint,
	appointmentID uint,
) (*models.Appointment, error) {

	clinic, err := uc.repo.GetClinicByID(ctx, clinicID)
	if err != nil {
		return nil, err
	}

	ap, err := uc.repo.GetAppointmentForVet(ctx, appointmentID, vetID)
	if err != nil {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}

	now := timezone.NowIn(clinic.Timezone)
	if err := domain.Complete(ap, now); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateAppointment(ctx, actor, ap); err != nil {
		return nil, err
	}

	return ap, nil
}
