package audit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawpoint/vetclinic/internal/models"
)

func TestNewRegistryRejectsEmptyResourceType(t *testing.T) {
	_, err := NewRegistry([]Entry{{ResourceType: ""}})
	assert.Error(t, err)
}

func TestNewRegistryRejectsUnqualifiedResourceType(t *testing.T) {
	_, err := NewRegistry([]Entry{{ResourceType: "customer"}})
	assert.Error(t, err)
}

func TestNewRegistryRejectsDuplicates(t *testing.T) {
	_, err := NewRegistry([]Entry{
		{ResourceType: "crm.customer"},
		{ResourceType: "crm.customer"},
	})
	assert.Error(t, err)
}

func TestNewRegistryDefaultsSensitivity(t *testing.T) {
	r, err := NewRegistry([]Entry{{ResourceType: "crm.customer"}})
	require.NoError(t, err)

	entry, ok := r.Tracked("crm.customer")
	require.True(t, ok)
	assert.Equal(t, models.SensitivityNormal, entry.Sensitivity)
}

func TestDefaultRegistry(t *testing.T) {
	r, err := DefaultRegistry()
	require.NoError(t, err)
	assert.Equal(t, 5, r.Len())

	entry, ok := r.Tracked("pharmacy.prescription")
	require.True(t, ok)
	assert.Equal(t, models.SensitivityHigh, entry.Sensitivity)

	_, ok = r.Tracked("pets.pet")
	assert.False(t, ok)
}
