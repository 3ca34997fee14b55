package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/pawpoint/vetclinic/internal/models"
)

// AuditLogRepository is the read side of the audit trail. It exposes
// filtered range scans and aggregates only; the recorder owns the one
// append path and nothing anywhere updates or deletes a record.
type AuditLogRepository struct {
	db *gorm.DB
}

func NewAuditLogRepository(db *gorm.DB) *AuditLogRepository {
	return &AuditLogRepository{db: db}
}

// AuditLogFilter narrows a listing. Zero values mean "no filter".
type AuditLogFilter struct {
	ActorID       *uint
	Action        string
	ResourceType  string
	ResourceID    string
	Sensitivities []models.Sensitivity
	IPAddress     string
	From          *time.Time
	To            *time.Time

	Limit  int
	Offset int
}

// List returns matching records newest first (created_at descending,
// id as the tie-break for records sharing a timestamp) plus the total
// match count before pagination.
func (r *AuditLogRepository) List(ctx context.Context, f AuditLogFilter) ([]models.AuditLog, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.AuditLog{})

	if f.ActorID != nil {
		q = q.Where("actor_id = ?", *f.ActorID)
	}
	if f.Action != "" {
		q = q.Where("action = ?", f.Action)
	}
	if f.ResourceType != "" {
		q = q.Where("resource_type = ?", f.ResourceType)
	}
	if f.ResourceID != "" {
		q = q.Where("resource_id = ?", f.ResourceID)
	}
	if len(f.Sensitivities) > 0 {
		q = q.Where("sensitivity IN ?", f.Sensitivities)
	}
	if f.IPAddress != "" {
		q = q.Where("ip_address = ?", f.IPAddress)
	}
	if f.From != nil {
		q = q.Where("created_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("created_at <= ?", *f.To)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := f.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	var logs []models.AuditLog
	err := q.
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(f.Offset).
		Find(&logs).Error
	if err != nil {
		return nil, 0, err
	}

	return logs, total, nil
}

// History returns the full ordered trail for one resource.
func (r *AuditLogRepository) History(ctx context.Context, resourceType, resourceID string) ([]models.AuditLog, error) {
	var logs []models.AuditLog
	err := r.db.WithContext(ctx).
		Where("resource_type = ? AND resource_id = ?", resourceType, resourceID).
		Order("created_at DESC, id DESC").
		Find(&logs).Error
	return logs, err
}

// --------------------------------------------------
// Dashboard aggregates
// --------------------------------------------------

type AuditSummary struct {
	Total           int64            `json:"total"`
	ByAction        map[string]int64 `json:"by_action"`
	BySensitivity   map[string]int64 `json:"by_sensitivity"`
	HighSensitivity int64            `json:"high_sensitivity"`
}

func (r *AuditLogRepository) Summary(ctx context.Context) (*AuditSummary, error) {
	out := &AuditSummary{
		ByAction:      map[string]int64{},
		BySensitivity: map[string]int64{},
	}

	base := r.db.WithContext(ctx).Model(&models.AuditLog{})

	if err := base.Session(&gorm.Session{}).Count(&out.Total).Error; err != nil {
		return nil, err
	}

	type bucket struct {
		Key   string
		Count int64
	}

	var actions []bucket
	if err := base.Session(&gorm.Session{}).
		Select("action AS key, COUNT(*) AS count").
		Group("action").
		Scan(&actions).Error; err != nil {
		return nil, err
	}
	for _, b := range actions {
		out.ByAction[b.Key] = b.Count
	}

	var tiers []bucket
	if err := base.Session(&gorm.Session{}).
		Select("sensitivity AS key, COUNT(*) AS count").
		Group("sensitivity").
		Scan(&tiers).Error; err != nil {
		return nil, err
	}
	for _, b := range tiers {
		out.BySensitivity[b.Key] = b.Count
	}

	err := base.Session(&gorm.Session{}).
		Where("sensitivity IN ?", []models.Sensitivity{models.SensitivityHigh, models.SensitivityCritical}).
		Count(&out.HighSensitivity).Error
	if err != nil {
		return nil, err
	}

	return out, nil
}
