package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pawpoint/vetclinic/internal/models"
)

func seedAuditLogs(t *testing.T, db *gorm.DB) {
	t.Helper()

	actorA := uint(1)
	actorB := uint(2)
	base := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	rows := []models.AuditLog{
		{ActorID: &actorA, Action: models.ActionView, ResourceType: "crm.customer", ResourceID: "1",
			Sensitivity: models.SensitivityNormal, IPAddress: "203.0.113.9", CreatedAt: base},
		{ActorID: &actorA, Action: models.ActionUpdate, ResourceType: "crm.customer", ResourceID: "1",
			Sensitivity: models.SensitivityNormal, CreatedAt: base.Add(1 * time.Hour)},
		{ActorID: &actorB, Action: models.ActionView, ResourceType: "pharmacy.prescription", ResourceID: "rx-1",
			Sensitivity: models.SensitivityHigh, CreatedAt: base.Add(2 * time.Hour)},
		{ActorID: &actorB, Action: models.ActionExport, ResourceType: "audit.audit_log",
			Sensitivity: models.SensitivityHigh, CreatedAt: base.Add(3 * time.Hour)},
		{ActorID: &actorA, Action: models.ActionDelete, ResourceType: "crm.customer", ResourceID: "2",
			Sensitivity: models.SensitivityCritical, CreatedAt: base.Add(4 * time.Hour)},
	}
	for i := range rows {
		require.NoError(t, db.Create(&rows[i]).Error)
	}
}

func TestListOrdersNewestFirst(t *testing.T) {
	db := newTestDB(t)
	seedAuditLogs(t, db)
	repo := NewAuditLogRepository(db)

	logs, total, err := repo.List(context.Background(), AuditLogFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, logs, 5)

	for i := 1; i < len(logs); i++ {
		assert.False(t, logs[i].CreatedAt.After(logs[i-1].CreatedAt))
	}
	assert.Equal(t, models.ActionDelete, logs[0].Action)
}

func TestListFiltersBySensitivitySet(t *testing.T) {
	db := newTestDB(t)
	seedAuditLogs(t, db)
	repo := NewAuditLogRepository(db)

	logs, total, err := repo.List(context.Background(), AuditLogFilter{
		Sensitivities: []models.Sensitivity{models.SensitivityHigh, models.SensitivityCritical},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	for _, l := range logs {
		assert.NotEqual(t, models.SensitivityNormal, l.Sensitivity)
	}
}

func TestListFiltersByActorAndAction(t *testing.T) {
	db := newTestDB(t)
	seedAuditLogs(t, db)
	repo := NewAuditLogRepository(db)

	actorA := uint(1)
	logs, total, err := repo.List(context.Background(), AuditLogFilter{
		ActorID: &actorA,
		Action:  models.ActionView,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, logs, 1)
	assert.Equal(t, "203.0.113.9", logs[0].IPAddress)
}

func TestListFiltersByTimeRange(t *testing.T) {
	db := newTestDB(t)
	seedAuditLogs(t, db)
	repo := NewAuditLogRepository(db)

	from := time.Date(2025, 3, 10, 13, 30, 0, 0, time.UTC)
	to := time.Date(2025, 3, 10, 15, 30, 0, 0, time.UTC)

	_, total, err := repo.List(context.Background(), AuditLogFilter{From: &from, To: &to})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}

func TestListCapsLimit(t *testing.T) {
	db := newTestDB(t)
	seedAuditLogs(t, db)
	repo := NewAuditLogRepository(db)

	logs, total, err := repo.List(context.Background(), AuditLogFilter{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Len(t, logs, 2)

	// Absurd limits fall back to the default.
	logs, _, err = repo.List(context.Background(), AuditLogFilter{Limit: 9999})
	require.NoError(t, err)
	assert.Len(t, logs, 5)
}

func TestHistoryReturnsFullTrail(t *testing.T) {
	db := newTestDB(t)
	seedAuditLogs(t, db)
	repo := NewAuditLogRepository(db)

	logs, err := repo.History(context.Background(), "crm.customer", "1")
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, models.ActionUpdate, logs[0].Action)
	assert.Equal(t, models.ActionView, logs[1].Action)
}

func TestSummaryAggregates(t *testing.T) {
	db := newTestDB(t)
	seedAuditLogs(t, db)
	repo := NewAuditLogRepository(db)

	summary, err := repo.Summary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(5), summary.Total)
	assert.Equal(t, int64(2), summary.ByAction[models.ActionView])
	assert.Equal(t, int64(1), summary.ByAction[models.ActionExport])
	assert.Equal(t, int64(2), summary.BySensitivity[string(models.SensitivityHigh)])
	assert.Equal(t, int64(3), summary.HighSensitivity)
}
