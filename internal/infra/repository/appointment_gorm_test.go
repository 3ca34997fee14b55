package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawpoint/vetclinic/internal/audit"
	"github.com/pawpoint/vetclinic/internal/models"
)

func newAppointmentRepo(t *testing.T) (*AppointmentGormRepository, *Store[models.Customer]) {
	t.Helper()

	db := newTestDB(t)
	registry, err := audit.DefaultRegistry()
	require.NoError(t, err)
	recorder := audit.NewRecorder(db, registry)
	return NewAppointmentGormRepository(db, recorder), NewStore[models.Customer](db, recorder)
}

func TestGetOrCreateCustomerIgnoresArchivedRows(t *testing.T) {
	repo, store := newAppointmentRepo(t)
	ctx := context.Background()
	actor := vetActor()

	archived := &models.Customer{ClinicID: 1, Name: "Old Name", Phone: "555-0142"}
	require.NoError(t, store.Create(ctx, actor, archived, nil))
	require.NoError(t, store.SoftDelete(ctx, actor, archived, nil))

	// Booking for the same phone must not resurrect the archived row.
	customer, err := repo.GetOrCreateCustomer(ctx, 1, "New Name", "555-0142", "")
	require.NoError(t, err)
	assert.NotEqual(t, archived.ID, customer.ID)
	assert.Equal(t, "New Name", customer.Name)
	assert.False(t, customer.IsDeleted())
}

func TestGetServiceReturnsActiveOnly(t *testing.T) {
	repo, _ := newAppointmentRepo(t)
	ctx := context.Background()

	db := repo.db
	active := models.Service{ClinicID: 1, Name: "Exam", DurationMin: 30, Active: true}
	retired := models.Service{ClinicID: 1, Name: "Old Dental", DurationMin: 60, Active: false}
	require.NoError(t, db.Create(&active).Error)
	require.NoError(t, db.Create(&retired).Error)

	svc, err := repo.GetService(ctx, 1, active.ID)
	require.NoError(t, err)
	assert.Equal(t, "Exam", svc.Name)

	_, err = repo.GetService(ctx, 1, retired.ID)
	assert.Error(t, err)
}

func TestServiceCreatedInactiveStaysInactive(t *testing.T) {
	repo, _ := newAppointmentRepo(t)

	retired := models.Service{ClinicID: 1, Name: "Legacy Grooming", DurationMin: 45, Active: false}
	require.NoError(t, repo.db.Create(&retired).Error)

	var got models.Service
	require.NoError(t, repo.db.First(&got, retired.ID).Error)
	assert.False(t, got.Active)
}

func TestIsWithinOpenHours(t *testing.T) {
	repo, _ := newAppointmentRepo(t)
	ctx := context.Background()

	clinic := models.Clinic{Name: "Pawpoint", Slug: "pawpoint", OpensAt: "08:00", ClosesAt: "18:00"}
	require.NoError(t, repo.db.Create(&clinic).Error)

	day := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	ok, err := repo.IsWithinOpenHours(ctx, clinic.ID,
		day.Add(10*time.Hour), day.Add(10*time.Hour+30*time.Minute))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.IsWithinOpenHours(ctx, clinic.ID,
		day.Add(7*time.Hour), day.Add(8*time.Hour))
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.IsWithinOpenHours(ctx, clinic.ID,
		day.Add(17*time.Hour+45*time.Minute), day.Add(18*time.Hour+15*time.Minute))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCreateAppointmentAuditsInTransaction(t *testing.T) {
	repo, _ := newAppointmentRepo(t)
	ctx := context.Background()

	ap := &models.Appointment{
		ClinicID:  1,
		VetID:     2,
		StartTime: time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2025, 6, 2, 10, 30, 0, 0, time.UTC),
		Status:    "scheduled",
	}
	require.NoError(t, repo.CreateAppointment(ctx, vetActor(), ap))
	require.NotZero(t, ap.ID)

	var rec models.AuditLog
	require.NoError(t, repo.db.
		Where("resource_type = ?", "appointments.appointment").
		First(&rec).Error)
	assert.Equal(t, models.ActionCreate, rec.Action)
}
