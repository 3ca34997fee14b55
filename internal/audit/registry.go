package audit

import (
	"fmt"
	"strings"

	"github.com/pawpoint/vetclinic/internal/models"
)

// Auditable is implemented by entities that can describe themselves to
// the audit trail. Implementing it does not by itself make an entity
// tracked: lifecycle records are only written for types whose resource
// type appears in the Registry.
type Auditable interface {
	AuditResourceType() string
	AuditResourceID() string
	AuditResourceRepr() string
}

// Entry declares one tracked entity type. ExtraKeys documents the
// extra-data keys producers of this resource's records are expected to
// use, keyed by action; the shape is advisory, not schema-enforced.
type Entry struct {
	ResourceType string
	Sensitivity  models.Sensitivity
	ExtraKeys    map[string][]string
}

// Registry is the startup-validated allow-list of entity types whose
// create/update/delete events produce audit records.
type Registry struct {
	entries map[string]Entry
}

// NewRegistry validates the tracked set once, at construction. A bad
// allow-list fails deployment instead of being discovered per-event.
func NewRegistry(entries []Entry) (*Registry, error) {
	m := make(map[string]Entry, len(entries))
	for _, e := range entries {
		if e.ResourceType == "" {
			return nil, fmt.Errorf("audit registry: entry with empty resource type")
		}
		if !strings.Contains(e.ResourceType, ".") {
			return nil, fmt.Errorf("audit registry: resource type %q is not dot-qualified", e.ResourceType)
		}
		if _, dup := m[e.ResourceType]; dup {
			return nil, fmt.Errorf("audit registry: duplicate resource type %q", e.ResourceType)
		}
		if e.Sensitivity == "" {
			e.Sensitivity = models.SensitivityNormal
		}
		m[e.ResourceType] = e
	}
	return &Registry{entries: m}, nil
}

// Tracked returns the entry for a resource type, ok=false when the
// type is not audited.
func (r *Registry) Tracked(resourceType string) (Entry, bool) {
	e, ok := r.entries[resourceType]
	return e, ok
}

func (r *Registry) Len() int { return len(r.entries) }

// DefaultRegistry lists the entity types tracked in the reference
// deployment. Changing the set is a redeploy, not a runtime API.
func DefaultRegistry() (*Registry, error) {
	return NewRegistry([]Entry{
		{
			ResourceType: "pharmacy.prescription",
			Sensitivity:  models.SensitivityHigh,
			ExtraKeys: map[string][]string{
				models.ActionUpdate: {"refills_used", "status"},
			},
		},
		{
			ResourceType: "inventory.purchase_order",
			Sensitivity:  models.SensitivityNormal,
			ExtraKeys: map[string][]string{
				models.ActionUpdate: {"status"},
			},
		},
		{
			ResourceType: "billing.invoice",
			Sensitivity:  models.SensitivityHigh,
			ExtraKeys: map[string][]string{
				models.ActionUpdate: {"status"},
			},
		},
		{
			ResourceType: "crm.customer",
			Sensitivity:  models.SensitivityNormal,
			ExtraKeys: map[string][]string{
				models.ActionUpdate: {"restored"},
				models.ActionDelete: {"hard"},
			},
		},
		{
			ResourceType: "appointments.appointment",
			Sensitivity:  models.SensitivityNormal,
			ExtraKeys: map[string][]string{
				models.ActionUpdate: {"status"},
			},
		},
	})
}
