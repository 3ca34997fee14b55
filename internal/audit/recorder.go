package audit

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/pawpoint/vetclinic/internal/models"
)

// Recorder is the single write path into the audit trail. Writes are
// synchronous: when a caller returns successfully its record is
// already durable. There is no queue and no batching.
type Recorder struct {
	db       *gorm.DB
	registry *Registry
}

func NewRecorder(db *gorm.DB, registry *Registry) *Recorder {
	return &Recorder{db: db, registry: registry}
}

// WithTx binds the recorder to an open transaction so a lifecycle
// record commits or rolls back together with its triggering write.
func (r *Recorder) WithTx(tx *gorm.DB) *Recorder {
	return &Recorder{db: tx, registry: r.registry}
}

// LogInput is the explicit-log entry point's argument bag. Only Actor,
// Action and ResourceType are required.
type LogInput struct {
	Actor        *models.User
	Action       string
	ResourceType string
	ResourceID   string
	ResourceRepr string
	Request      *http.Request
	Sensitivity  models.Sensitivity
	Extra        map[string]any
}

// Log constructs and persists one audit record.
func (r *Recorder) Log(ctx context.Context, in LogInput) error {
	rec := models.AuditLog{
		Action:       in.Action,
		ResourceType: in.ResourceType,
		ResourceID:   in.ResourceID,
		ResourceRepr: truncate(in.ResourceRepr, models.AuditReprMaxLen),
		Sensitivity:  in.Sensitivity,
	}

	if in.Actor != nil {
		id := in.Actor.ID
		rec.ActorID = &id
	}

	if in.Request != nil {
		rc := ExtractContext(in.Request)
		rec.URLPath = rc.URLPath
		rec.Method = rc.Method
		rec.IPAddress = rc.IPAddress
		rec.UserAgent = rc.UserAgent
	}

	if rec.Sensitivity == "" {
		rec.Sensitivity = models.SensitivityNormal
	}

	if len(in.Extra) > 0 {
		rec.Extra = datatypes.JSONMap(in.Extra)
	}

	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return classifyWriteErr(err)
	}
	return nil
}

// RecordChange is the lifecycle entry point, called explicitly from
// the persistence boundary after a successful tracked-entity write.
// It is a no-op for anonymous or non-staff actors, for entities that
// are not Auditable, and for resource types outside the registry.
func (r *Recorder) RecordChange(ctx context.Context, actor *models.User, action string, entity any, req *http.Request, extra map[string]any) error {
	if actor == nil || !actor.Staff() {
		return nil
	}

	res, ok := entity.(Auditable)
	if !ok {
		return nil
	}

	entry, tracked := r.registry.Tracked(res.AuditResourceType())
	if !tracked {
		return nil
	}

	return r.Log(ctx, LogInput{
		Actor:        actor,
		Action:       action,
		ResourceType: res.AuditResourceType(),
		ResourceID:   res.AuditResourceID(),
		ResourceRepr: res.AuditResourceRepr(),
		Request:      req,
		Sensitivity:  entry.Sensitivity,
		Extra:        extra,
	})
}

func truncate(s string, max int) string {
	if len(s) > max {
		return s[:max]
	}
	return s
}

// classifyWriteErr surfaces the Postgres error code for constraint
// violations so operators can distinguish schema trouble from a
// storage outage in the logs.
func classifyWriteErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return fmt.Errorf("audit insert rejected (sqlstate %s): %w", pgErr.Code, err)
	}
	return fmt.Errorf("audit insert failed: %w", err)
}
