package repository

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pawpoint/vetclinic/internal/audit"
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
		&models.Service{},
		&models.Appointment{},
		&models.AuditLog{},
	))
	return db
}

func newCustomerStore(t *testing.T) (*Store[models.Customer], *gorm.DB) {
	t.Helper()

	db := newTestDB(t)
	registry, err := audit.DefaultRegistry()
	require.NoError(t, err)
	return NewStore[models.Customer](db, audit.NewRecorder(db, registry)), db
}

func vetActor() *models.User {
	return &models.User{ID: 1, ClinicID: 1, Role: models.RoleVet}
}

func auditCount(t *testing.T, db *gorm.DB, action string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&models.AuditLog{}).Where("action = ?", action).Count(&n).Error)
	return n
}

func TestViewsSeparateLiveAndDeleted(t *testing.T) {
	store, _ := newCustomerStore(t)
	ctx := context.Background()
	actor := vetActor()

	live := &models.Customer{ClinicID: 1, Name: "Live"}
	gone := &models.Customer{ClinicID: 1, Name: "Gone"}
	require.NoError(t, store.Create(ctx, actor, live, nil))
	require.NoError(t, store.Create(ctx, actor, gone, nil))
	require.NoError(t, store.SoftDelete(ctx, actor, gone, nil))

	active, err := store.FindActive(ctx, ByClinic(1))
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Live", active[0].Name)

	all, err := store.FindAll(ctx, ByClinic(1))
	require.NoError(t, err)
	assert.Len(t, all, 2)

	deleted, err := store.FindDeletedOnly(ctx, ByClinic(1))
	require.NoError(t, err)
	require.Len(t, deleted, 1)
	assert.Equal(t, "Gone", deleted[0].Name)
	assert.True(t, deleted[0].IsDeleted())
}

func TestSoftDeleteIsIdempotent(t *testing.T) {
	store, db := newCustomerStore(t)
	ctx := context.Background()
	actor := vetActor()

	customer := &models.Customer{ClinicID: 1, Name: "Once"}
	require.NoError(t, store.Create(ctx, actor, customer, nil))

	require.NoError(t, store.SoftDelete(ctx, actor, customer, nil))
	firstStamp := *customer.DeletedAt

	// Second delete changes nothing and writes no second record.
	require.NoError(t, store.SoftDelete(ctx, actor, customer, nil))

	var reloaded models.Customer
	require.NoError(t, db.First(&reloaded, customer.ID).Error)
	require.NotNil(t, reloaded.DeletedAt)
	assert.Equal(t, firstStamp.Unix(), reloaded.DeletedAt.Unix())

	assert.Equal(t, int64(1), auditCount(t, db, models.ActionDelete))
}

func TestRestoreBringsRowBack(t *testing.T) {
	store, db := newCustomerStore(t)
	ctx := context.Background()
	actor := vetActor()

	customer := &models.Customer{ClinicID: 1, Name: "Back"}
	require.NoError(t, store.Create(ctx, actor, customer, nil))
	require.NoError(t, store.SoftDelete(ctx, actor, customer, nil))
	require.NoError(t, store.Restore(ctx, actor, customer, nil))

	assert.False(t, customer.IsDeleted())

	active, err := store.FindActive(ctx, ByClinic(1))
	require.NoError(t, err)
	assert.Len(t, active, 1)

	// The restore is recorded as an update flagged restored=true.
	var rec models.AuditLog
	require.NoError(t, db.
		Where("action = ?", models.ActionUpdate).
		Order("id DESC").
		First(&rec).Error)
	assert.Equal(t, true, rec.Extra["restored"])

	// Restoring a live row is a no-op.
	require.NoError(t, store.Restore(ctx, actor, customer, nil))
}

func TestWritesEmitLifecycleAudit(t *testing.T) {
	store, db := newCustomerStore(t)
	ctx := context.Background()
	actor := vetActor()

	customer := &models.Customer{ClinicID: 1, Name: "Audited"}
	require.NoError(t, store.Create(ctx, actor, customer, nil))
	assert.Equal(t, int64(1), auditCount(t, db, models.ActionCreate))

	customer.Phone = "555-0100"
	require.NoError(t, store.Update(ctx, actor, customer, nil))
	assert.Equal(t, int64(1), auditCount(t, db, models.ActionUpdate))

	var rec models.AuditLog
	require.NoError(t, db.Where("action = ?", models.ActionCreate).First(&rec).Error)
	assert.Equal(t, "crm.customer", rec.ResourceType)
	require.NotNil(t, rec.ActorID)
	assert.Equal(t, actor.ID, *rec.ActorID)
}

func TestNonStaffWritesAreNotAudited(t *testing.T) {
	store, db := newCustomerStore(t)
	ctx := context.Background()

	portalUser := &models.User{ID: 9, Role: models.RoleCustomer}
	customer := &models.Customer{ClinicID: 1, Name: "Quiet"}
	require.NoError(t, store.Create(ctx, portalUser, customer, nil))

	var count int64
	db.Model(&models.AuditLog{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestSoftDeleteRequiresSoftDeletableEntity(t *testing.T) {
	db := newTestDB(t)
	registry, err := audit.DefaultRegistry()
	require.NoError(t, err)
	store := NewStore[models.Service](db, audit.NewRecorder(db, registry))

	svc := &models.Service{ClinicID: 1, Name: "Exam", DurationMin: 30}
	require.NoError(t, db.Create(svc).Error)

	err = store.SoftDelete(context.Background(), vetActor(), svc, nil)
	assert.ErrorIs(t, err, ErrNotSoftDeletable)
}

func TestHardDeleteRemovesRowKeepsTrail(t *testing.T) {
	store, db := newCustomerStore(t)
	ctx := context.Background()
	actor := vetActor()

	customer := &models.Customer{ClinicID: 1, Name: "Purged"}
	require.NoError(t, store.Create(ctx, actor, customer, nil))
	require.NoError(t, store.HardDelete(ctx, actor, customer, nil))

	var count int64
	db.Model(&models.Customer{}).Count(&count)
	assert.Equal(t, int64(0), count)

	var rec models.AuditLog
	require.NoError(t, db.
		Where("action = ?", models.ActionDelete).
		First(&rec).Error)
	assert.Equal(t, true, rec.Extra["hard"])
}
