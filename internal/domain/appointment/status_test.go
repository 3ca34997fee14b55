package appointment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawpoint/vetclinic/internal/httperr"
	"github.com/pawpoint/vetclinic/internal/models"
)

func TestCanCancel(t *testing.T) {
	assert.NoError(t, CanCancel(StatusScheduled))
	assert.Error(t, CanCancel(StatusCancelled))
	assert.Error(t, CanCancel(StatusCompleted))
	assert.True(t, httperr.IsBusiness(CanCancel(StatusCompleted), "invalid_state"))
}

func TestCanComplete(t *testing.T) {
	assert.NoError(t, CanComplete(StatusScheduled))
	assert.Error(t, CanComplete(StatusCancelled))
	assert.Error(t, CanComplete(StatusCompleted))
}

func TestCancelStampsTimestamp(t *testing.T) {
	ap := &models.Appointment{Status: string(StatusScheduled)}
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, Cancel(ap, now))
	assert.Equal(t, string(StatusCancelled), ap.Status)
	require.NotNil(t, ap.CancelledAt)
	assert.Equal(t, now, *ap.CancelledAt)

	// A second cancel is rejected, the stamp stays.
	assert.Error(t, Cancel(ap, now.Add(time.Hour)))
	assert.Equal(t, now, *ap.CancelledAt)
}

func TestCompleteStampsTimestamp(t *testing.T) {
	ap := &models.Appointment{Status: string(StatusScheduled)}
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, Complete(ap, now))
	assert.Equal(t, string(StatusCompleted), ap.Status)
	require.NotNil(t, ap.CompletedAt)

	assert.Error(t, Cancel(ap, now))
}
