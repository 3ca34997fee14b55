package audit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawpoint/vetclinic/internal/models"
)

func TestClassifyPrescriptionDetail(t *testing.T) {
	c := DefaultClassifier()

	resourceType, tier, ok := c.Classify("/pharmacy/prescriptions/42/")
	require.True(t, ok)
	assert.Equal(t, "pharmacy.prescription", resourceType)
	assert.Equal(t, models.SensitivityHigh, tier)
	assert.Equal(t, "42", c.ResourceID("/pharmacy/prescriptions/42/"))
}

func TestClassifyLongestPrefixWins(t *testing.T) {
	c := DefaultClassifier()

	resourceType, _, ok := c.Classify("/inventory/purchase-orders")
	require.True(t, ok)
	assert.Equal(t, "inventory.purchase_order", resourceType)

	// The bare section falls back to the section rule, not the most
	// specific child.
	resourceType, _, ok = c.Classify("/inventory/")
	require.True(t, ok)
	assert.Equal(t, "inventory.dashboard", resourceType)
}

func TestClassifyUnmatchedPathNotAudited(t *testing.T) {
	c := DefaultClassifier()

	_, _, ok := c.Classify("/me/appointments")
	assert.False(t, ok)

	_, _, ok = c.Classify("/health")
	assert.False(t, ok)
}

func TestClassifyUnknownSubpathKeepsTrail(t *testing.T) {
	// An audited section with no specific rule still produces a record
	// under a synthetic resource type. /referrals has a section rule,
	// so use a classifier without one.
	custom := NewClassifier([]string{"/labs/"}, nil, nil)
	resourceType, tier, ok := custom.Classify("/labs/results/7")
	require.True(t, ok)
	assert.Equal(t, "unknown./labs/results", resourceType)
	assert.Equal(t, models.SensitivityNormal, tier)
}

func TestClassifyIsDeterministic(t *testing.T) {
	c := DefaultClassifier()

	first, firstTier, _ := c.Classify("/crm/customers/9")
	for i := 0; i < 100; i++ {
		rt, tier, ok := c.Classify("/crm/customers/9")
		require.True(t, ok)
		assert.Equal(t, first, rt)
		assert.Equal(t, firstTier, tier)
	}
	assert.Equal(t, "crm.customer", first)
	assert.Equal(t, models.SensitivityHigh, firstTier)
}

func TestResourceIDExtraction(t *testing.T) {
	c := DefaultClassifier()

	assert.Equal(t, "17", c.ResourceID("/crm/customers/17"))
	assert.Equal(t, "17", c.ResourceID("/crm/customers/17/"))
	assert.Equal(t,
		"7b1e9f14-9f2a-4c0e-8a33-0d5ba5e2f901",
		c.ResourceID("/pharmacy/prescriptions/7b1e9f14-9f2a-4c0e-8a33-0d5ba5e2f901"))
	assert.Equal(t, "", c.ResourceID("/crm/customers"))
	assert.Equal(t, "", c.ResourceID("/crm/customers/archived"))
}
