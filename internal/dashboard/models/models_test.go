package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	appmodels "visadesk/internal/application/models"
)

func TestPriorityFor(t *testing.T) {
	assert.Equal(t, PriorityHigh, PriorityFor(0))
	assert.Equal(t, PriorityHigh, PriorityFor(30))
	assert.Equal(t, PriorityMedium, PriorityFor(31))
	assert.Equal(t, PriorityMedium, PriorityFor(60))
	assert.Equal(t, PriorityLow, PriorityFor(61))
}

func TestComputeStatsApprovalBoundary(t *testing.T) {
	now := time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)
	apps := []appmodels.Application{
		{Status: appmodels.StatusApproved, UpdatedAt: StartOfMonth(now)},
		{Status: appmodels.StatusApproved, UpdatedAt: StartOfMonth(now).Add(-time.Nanosecond)},
		{Status: appmodels.StatusRejected, UpdatedAt: now},
		{Status: appmodels.StatusProcessing, Documents: []appmodels.Document{{Name: "Passport"}, {Name: "Visa", Verified: true}}},
	}
	st := ComputeStats(nil, apps, now)
	assert.Equal(t, 1, st.ApprovalsThisMonth)
	assert.Equal(t, 1, st.ActiveApplications)
	assert.Equal(t, 1, st.PendingDocuments)
	assert.Equal(t, 0, st.TotalClients)
}
