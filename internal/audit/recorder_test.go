package audit

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pawpoint/vetclinic/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.Clinic{},
		&models.User{},
		&models.Customer{},
		&models.Pet{},
		&models.Prescription{},
		&models.AuditLog{},
	))
	return db
}

func newTestRecorder(t *testing.T) (*Recorder, *gorm.DB) {
	t.Helper()

	db := newTestDB(t)
	registry, err := DefaultRegistry()
	require.NoError(t, err)
	return NewRecorder(db, registry), db
}

func staffActor() *models.User {
	return &models.User{ID: 1, ClinicID: 1, Role: models.RoleVet}
}

func TestLogPersistsRecord(t *testing.T) {
	recorder, db := newTestRecorder(t)

	req := httptest.NewRequest("GET", "/crm/customers/5", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.9")
	req.Header.Set("User-Agent", "integration-test")

	err := recorder.Log(context.Background(), LogInput{
		Actor:        staffActor(),
		Action:       models.ActionView,
		ResourceType: "crm.customer",
		ResourceID:   "5",
		Request:      req,
	})
	require.NoError(t, err)

	var rec models.AuditLog
	require.NoError(t, db.First(&rec).Error)
	assert.Equal(t, models.ActionView, rec.Action)
	assert.Equal(t, "crm.customer", rec.ResourceType)
	assert.Equal(t, "5", rec.ResourceID)
	assert.Equal(t, "/crm/customers/5", rec.URLPath)
	assert.Equal(t, "203.0.113.9", rec.IPAddress)
	assert.Equal(t, "integration-test", rec.UserAgent)
	assert.Equal(t, models.SensitivityNormal, rec.Sensitivity)
	require.NotNil(t, rec.ActorID)
	assert.Equal(t, uint(1), *rec.ActorID)
}

func TestLogTruncatesRepr(t *testing.T) {
	recorder, db := newTestRecorder(t)

	err := recorder.Log(context.Background(), LogInput{
		Actor:        staffActor(),
		Action:       models.ActionCreate,
		ResourceType: "crm.customer",
		ResourceRepr: strings.Repeat("n", 400),
	})
	require.NoError(t, err)

	var rec models.AuditLog
	require.NoError(t, db.First(&rec).Error)
	assert.Len(t, rec.ResourceRepr, models.AuditReprMaxLen)
}

func TestRecordChangeWritesForStaff(t *testing.T) {
	recorder, db := newTestRecorder(t)

	customer := &models.Customer{ID: 7, Name: "Dana Ruiz", Phone: "555-0142"}
	err := recorder.RecordChange(context.Background(), staffActor(),
		models.ActionCreate, customer, nil, nil)
	require.NoError(t, err)

	var count int64
	db.Model(&models.AuditLog{}).Count(&count)
	assert.Equal(t, int64(1), count)

	var rec models.AuditLog
	require.NoError(t, db.First(&rec).Error)
	assert.Equal(t, "crm.customer", rec.ResourceType)
	assert.Equal(t, "7", rec.ResourceID)
	assert.Equal(t, "Dana Ruiz (555-0142)", rec.ResourceRepr)
}

func TestRecordChangeSkipsNonStaff(t *testing.T) {
	recorder, db := newTestRecorder(t)

	customerUser := &models.User{ID: 2, Role: models.RoleCustomer}
	customer := &models.Customer{ID: 7, Name: "Dana Ruiz"}

	require.NoError(t, recorder.RecordChange(context.Background(),
		customerUser, models.ActionCreate, customer, nil, nil))
	require.NoError(t, recorder.RecordChange(context.Background(),
		nil, models.ActionCreate, customer, nil, nil))

	var count int64
	db.Model(&models.AuditLog{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestRecordChangeSkipsUntrackedTypes(t *testing.T) {
	recorder, db := newTestRecorder(t)

	// Pets implement Auditable but are not in the registry.
	pet := &models.Pet{Name: "Biscuit", Species: "dog"}
	pet.ID = "0d7c2a84-0000-0000-0000-000000000001"
	require.NoError(t, recorder.RecordChange(context.Background(),
		staffActor(), models.ActionCreate, pet, nil, nil))

	// Plain structs without Auditable are skipped too.
	require.NoError(t, recorder.RecordChange(context.Background(),
		staffActor(), models.ActionCreate, &models.Clinic{}, nil, nil))

	var count int64
	db.Model(&models.AuditLog{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestRecordChangeUsesRegistrySensitivity(t *testing.T) {
	recorder, db := newTestRecorder(t)

	prescription := &models.Prescription{
		Medication: "Carprofen",
		Dosage:     "25mg",
	}
	prescription.ID = "0d7c2a84-0000-0000-0000-000000000002"

	require.NoError(t, recorder.RecordChange(context.Background(),
		staffActor(), models.ActionCreate, prescription, nil, nil))

	var rec models.AuditLog
	require.NoError(t, db.First(&rec).Error)
	assert.Equal(t, models.SensitivityHigh, rec.Sensitivity)
}
