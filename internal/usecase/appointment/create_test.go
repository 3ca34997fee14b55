package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawpoint/vetclinic/internal/httperr"
	"github.com/pawpoint/vetclinic/internal/models"
)

// fakeRepo satisfies the repository port in memory.
type fakeRepo struct {
	clinic  *models.Clinic
	service *models.Service
	pet     *models.Pet

	openHours       bool
	conflictErr     error
	dayAppointments []models.Appointment

	created      *models.Appointment
	createdActor *models.User
	updated      *models.Appointment
	appointment  *models.Appointment
}

func (f *fakeRepo) GetClinicByID(ctx context.Context, id uint) (*models.Clinic, error) {
	return f.clinic, nil
}

func (f *fakeRepo) GetService(ctx context.Context, clinicID, serviceID uint) (*models.Service, error) {
	if f.service == nil {
		return nil, httperr.ErrBusiness("service_not_found")
	}
	return f.service, nil
}

func (f *fakeRepo) GetOrCreateCustomer(ctx context.Context, clinicID uint, name, phone, email string) (*models.Customer, error) {
	return &models.Customer{ID: 11, ClinicID: clinicID, Name: name, Phone: phone}, nil
}

func (f *fakeRepo) GetPet(ctx context.Context, clinicID uint, petID string) (*models.Pet, error) {
	if f.pet == nil {
		return nil, httperr.ErrBusiness("pet_not_found")
	}
	return f.pet, nil
}

func (f *fakeRepo) CreateAppointment(ctx context.Context, actor *models.User, ap *models.Appointment) error {
	ap.ID = 99
	f.created = ap
	f.createdActor = actor
	return nil
}

func (f *fakeRepo) AssertNoTimeConflict(ctx context.Context, vetID uint, start, end time.Time) error {
	return f.conflictErr
}

func (f *fakeRepo) GetAppointmentForVet(ctx context.Context, appointmentID, vetID uint) (*models.Appointment, error) {
	if f.appointment == nil {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}
	return f.appointment, nil
}

func (f *fakeRepo) UpdateAppointment(ctx context.Context, actor *models.User, ap *models.Appointment) error {
	f.updated = ap
	return nil
}

func (f *fakeRepo) IsWithinOpenHours(ctx context.Context, clinicID uint, start, end time.Time) (bool, error) {
	return f.openHours, nil
}

func (f *fakeRepo) ListAppointmentsForDay(ctx context.Context, vetID uint, start, end time.Time) ([]models.Appointment, error) {
	return f.dayAppointments, nil
}

func (f *fakeRepo) ListAppointmentsForPeriod(ctx context.Context, vetID uint, start, end time.Time) ([]models.Appointment, error) {
	return nil, nil
}

func baseRepo() *fakeRepo {
	pet := &models.Pet{Name: "Biscuit", Species: "dog"}
	pet.ID = "2f0c5a1e-0000-0000-0000-00000000beef"

	return &fakeRepo{
		clinic: &models.Clinic{
			ID:                1,
			Timezone:          "America/New_York",
			MinAdvanceMinutes: 60,
		},
		service:   &models.Service{ID: 3, DurationMin: 30, Active: true},
		pet:       pet,
		openHours: true,
	}
}

func futureDate() string {
	return time.Now().AddDate(0, 0, 30).Format("2006-01-02")
}

func baseInput() CreateAppointmentInput {
	return CreateAppointmentInput{
		ClinicID:      1,
		VetID:         2,
		Actor:         &models.User{ID: 2, ClinicID: 1, Role: models.RoleVet},
		CustomerName:  "Dana Ruiz",
		CustomerPhone: "555-0142",
		PetID:         "2f0c5a1e-0000-0000-0000-00000000beef",
		ServiceID:     3,
		Date:          futureDate(),
		Time:          "10:00",
	}
}

func TestCreateAppointmentHappyPath(t *testing.T) {
	repo := baseRepo()
	uc := NewCreateAppointment(repo)

	ap, err := uc.Execute(context.Background(), baseInput())
	require.NoError(t, err)
	require.NotNil(t, ap)

	assert.Equal(t, uint(99), ap.ID)
	assert.Equal(t, "scheduled", ap.Status)
	assert.Equal(t, uint(11), ap.CustomerID)
	assert.Equal(t, repo.pet.ID, ap.PetID)
	assert.Equal(t, 30*time.Minute, ap.EndTime.Sub(ap.StartTime))
	require.NotNil(t, repo.createdActor)
	assert.Equal(t, uint(2), repo.createdActor.ID)
}

func TestCreateAppointmentRejectsBadDate(t *testing.T) {
	uc := NewCreateAppointment(baseRepo())

	in := baseInput()
	in.Time = "25:99"

	_, err := uc.Execute(context.Background(), in)
	assert.True(t, httperr.IsBusiness(err, "invalid_date_or_time"))
}

func TestCreateAppointmentRejectsTooSoon(t *testing.T) {
	uc := NewCreateAppointment(baseRepo())

	in := baseInput()
	in.Date = time.Now().AddDate(0, 0, -1).Format("2006-01-02")

	_, err := uc.Execute(context.Background(), in)
	assert.True(t, httperr.IsBusiness(err, "too_soon"))
}

func TestCreateAppointmentRejectsUnknownService(t *testing.T) {
	repo := baseRepo()
	repo.service = nil
	uc := NewCreateAppointment(repo)

	_, err := uc.Execute(context.Background(), baseInput())
	assert.True(t, httperr.IsBusiness(err, "service_not_found"))
}

func TestCreateAppointmentRejectsOutsideOpenHours(t *testing.T) {
	repo := baseRepo()
	repo.openHours = false
	uc := NewCreateAppointment(repo)

	_, err := uc.Execute(context.Background(), baseInput())
	assert.True(t, httperr.IsBusiness(err, "outside_open_hours"))
}

func TestCreateAppointmentRejectsUnknownPet(t *testing.T) {
	repo := baseRepo()
	repo.pet = nil
	uc := NewCreateAppointment(repo)

	_, err := uc.Execute(context.Background(), baseInput())
	assert.True(t, httperr.IsBusiness(err, "pet_not_found"))
}

func TestCreateAppointmentPropagatesConflict(t *testing.T) {
	repo := baseRepo()
	repo.conflictErr = httperr.ErrBusiness("time_conflict")
	uc := NewCreateAppointment(repo)

	_, err := uc.Execute(context.Background(), baseInput())
	assert.True(t, httperr.IsBusiness(err, "time_conflict"))
	assert.Nil(t, repo.created)
}

func TestCancelAppointment(t *testing.T) {
	repo := baseRepo()
	repo.appointment = &models.Appointment{ID: 5, Status: "scheduled"}
	uc := NewCancelAppointment(repo)

	ap, err := uc.Execute(context.Background(),
		&models.User{ID: 2, Role: models.RoleVet}, 1, 2, 5)
	require.NoError(t, err)
	assert.Equal(t, "cancelled", ap.Status)
	require.NotNil(t, ap.CancelledAt)
	assert.Same(t, ap, repo.updated)
}

func TestCompleteAppointmentRejectsCancelled(t *testing.T) {
	repo := baseRepo()
	repo.appointment = &models.Appointment{ID: 5, Status: "cancelled"}
	uc := NewCompleteAppointment(repo)

	_, err := uc.Execute(context.Background(),
		&models.User{ID: 2, Role: models.RoleVet}, 1, 2, 5)
	assert.True(t, httperr.IsBusiness(err, "invalid_state"))
	assert.Nil(t, repo.updated)
}
