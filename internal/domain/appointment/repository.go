package appointment

import (
	"context"
	"time"

	"github.com/pawpoint/vetclinic/internal/models"
)

// Repository is the persistence port for the appointment use cases.
// Write methods take the acting staff user so the implementation can
// emit the lifecycle audit record inside the same transaction as the
// business write.
type Repository interface {
	// -------- Clinic --------
	GetClinicByID(
		ctx context.Context,
		id uint,
	) (*models.Clinic, error)

	// -------- Service --------
	GetService(
		ctx context.Context,
		clinicID uint,
		serviceID uint,
	) (*models.Service, error)

	// -------- Customer / Pet --------
	GetOrCreateCustomer(
		ctx context.Context,
		clinicID uint,
		name string,
		phone string,
		email string,
	) (*models.Customer, error)

	GetPet(
		ctx context.Context,
		clinicID uint,
		petID string,
	) (*models.Pet, error)

	// -------- Appointment (create / conflict) --------
	CreateAppointment(
		ctx context.Context,
		actor *models.User,
		ap *models.Appointment,
	) error

	AssertNoTimeConflict(
		ctx context.Context,
		vetID uint,
		start time.Time,
		end time.Time,
	) error

	// -------- Appointment (state change) --------
	GetAppointmentForVet(
		ctx context.Context,
		appointmentID uint,
		vetID uint,
	) (*models.Appointment, error)

	UpdateAppointment(
		ctx context.Context,
		actor *models.User,
		ap *models.Appointment,
	) error

	// -------- Schedule --------
	IsWithinOpenHours(
		ctx context.Context,
		clinicID uint,
		start time.Time,
		end time.Time,
	) (bool, error)

	ListAppointmentsForDay(
		ctx context.Context,
		vetID uint,
		start time.Time,
		end time.Time,
	) ([]models.Appointment, error)

	ListAppointmentsForPeriod(
		ctx context.Context,
		vetID uint,
		start time.Time,
		end time.Time,
	) ([]models.Appointment, error)
}
