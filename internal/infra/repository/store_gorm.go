package repository

import (
	"context"
	"errors"
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/pawpoint/vetclinic/internal/audit"
	"github.com/pawpoint/vetclinic/internal/models"
)

var ErrNotSoftDeletable = errors.New("entity does not support soft delete")

// Scope is a caller-supplied query refinement (filters, ordering,
// pagination) composed onto whichever visibility view is in use.
type Scope = func(*gorm.DB) *gorm.DB

func ByClinic(clinicID uint) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("clinic_id = ?", clinicID)
	}
}

// --------------------------------------------------
// Store
// --------------------------------------------------

// Store wraps persistence for one entity type. Reads go through one of
// three explicit views; FindActive is the only one ordinary lookups
// should use. Writes on tracked entities emit lifecycle audit records
// inside the same transaction as the business change.
type Store[T any] struct {
	db       *gorm.DB
	recorder *audit.Recorder
}

func NewStore[T any](db *gorm.DB, recorder *audit.Recorder) *Store[T] {
	return &Store[T]{db: db, recorder: recorder}
}

// --------------------------------------------------
// Views
// --------------------------------------------------

// FindActive is the default view: soft-deleted rows are invisible.
func (s *Store[T]) FindActive(ctx context.Context, scopes ...Scope) ([]T, error) {
	var out []T
	err := s.view(ctx, scopes).Where("deleted_at IS NULL").Find(&out).Error
	return out, err
}

// FindAll sees every row, deleted or not. Explicit opt-in only.
func (s *Store[T]) FindAll(ctx context.Context, scopes ...Scope) ([]T, error) {
	var out []T
	err := s.view(ctx, scopes).Find(&out).Error
	return out, err
}

// FindDeletedOnly sees only soft-deleted rows.
func (s *Store[T]) FindDeletedOnly(ctx context.Context, scopes ...Scope) ([]T, error) {
	var out []T
	err := s.view(ctx, scopes).Where("deleted_at IS NOT NULL").Find(&out).Error
	return out, err
}

// FirstActive fetches one live row.
func (s *Store[T]) FirstActive(ctx context.Context, scopes ...Scope) (*T, error) {
	var out T
	err := s.view(ctx, scopes).Where("deleted_at IS NULL").First(&out).Error
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// First fetches one row regardless of deletion state.
func (s *Store[T]) First(ctx context.Context, scopes ...Scope) (*T, error) {
	var out T
	err := s.view(ctx, scopes).First(&out).Error
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Store[T]) view(ctx context.Context, scopes []Scope) *gorm.DB {
	q := s.db.WithContext(ctx).Model(new(T))
	for _, sc := range scopes {
		q = sc(q)
	}
	return q
}

// --------------------------------------------------
// Writes (lifecycle audit in the same transaction)
// --------------------------------------------------

func (s *Store[T]) Create(ctx context.Context, actor *models.User, entity *T, req *http.Request) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(entity).Error; err != nil {
			return err
		}
		return s.recorder.WithTx(tx).RecordChange(ctx, actor, models.ActionCreate, entity, req, nil)
	})
}

func (s *Store[T]) Update(ctx context.Context, actor *models.User, entity *T, req *http.Request) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(entity).Error; err != nil {
			return err
		}
		return s.recorder.WithTx(tx).RecordChange(ctx, actor, models.ActionUpdate, entity, req, nil)
	})
}

// SoftDelete stamps deleted_at with a single-column atomic update.
// Idempotent: a second delete finds no live row and changes nothing
// (first deletion wins), without error.
func (s *Store[T]) SoftDelete(ctx context.Context, actor *models.User, entity *T, req *http.Request) error {
	sd, ok := any(entity).(interface {
		Deleted() *time.Time
		SetDeleted(*time.Time)
	})
	if !ok {
		return ErrNotSoftDeletable
	}
	if sd.Deleted() != nil {
		return nil
	}

	now := time.Now().UTC()
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(entity).Where("deleted_at IS NULL").UpdateColumn("deleted_at", now)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Lost a race with another delete; theirs stands.
			return nil
		}
		sd.SetDeleted(&now)
		return s.recorder.WithTx(tx).RecordChange(ctx, actor, models.ActionDelete, entity, req, nil)
	})
}

// Restore clears deleted_at. Restoring a live row is a no-op.
func (s *Store[T]) Restore(ctx context.Context, actor *models.User, entity *T, req *http.Request) error {
	sd, ok := any(entity).(interface {
		Deleted() *time.Time
		SetDeleted(*time.Time)
	})
	if !ok {
		return ErrNotSoftDeletable
	}
	if sd.Deleted() == nil {
		return nil
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(entity).Where("deleted_at IS NOT NULL").UpdateColumn("deleted_at", nil)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		sd.SetDeleted(nil)
		return s.recorder.WithTx(tx).RecordChange(ctx, actor, models.ActionUpdate, entity, req,
			map[string]any{"restored": true})
	})
}

// HardDelete removes the row unconditionally, bypassing soft delete.
// Referential behavior follows the entity's declared constraints; the
// audit trail itself always survives (actor references nullify).
func (s *Store[T]) HardDelete(ctx context.Context, actor *models.User, entity *T, req *http.Request) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Delete(entity).Error; err != nil {
			return err
		}
		return s.recorder.WithTx(tx).RecordChange(ctx, actor, models.ActionDelete, entity, req,
			map[string]any{"hard": true})
	})
}
