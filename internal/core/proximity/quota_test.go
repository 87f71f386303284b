package proximity

import (
	"testing"
	"time"

	"github.com/furqan-y-khan/workify/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckQuota_FreeBoundary(t *testing.T) {
	allowed := CheckQuota(domain.QuotaPolicy{Tier: domain.TierFree, Action: domain.ActionApplication, UsageCount: 0, Limit: 1})
	assert.True(t, allowed.Allowed)
	assert.Equal(t, domain.QuotaWithinLimit, allowed.State)
	assert.Equal(t, 1, allowed.Remaining)
	assert.Empty(t, allowed.Reason)

	denied := CheckQuota(domain.QuotaPolicy{Tier: domain.TierFree, Action: domain.ActionApplication, UsageCount: 1, Limit: 1})
	assert.False(t, denied.Allowed)
	assert.Equal(t, domain.QuotaAtLimit, denied.State)
	assert.Equal(t, 0, denied.Remaining)
	assert.Contains(t, denied.Reason, "1 application")
}

func TestCheckQuota_PremiumAlwaysAllowed(t *testing.T) {
	for _, usage := range []int{0, 1, 3, 1000} {
		d := CheckQuota(domain.QuotaPolicy{Tier: domain.TierPremium, Action: domain.ActionJobPosting, UsageCount: usage, Limit: 3})
		assert.True(t, d.Allowed, "usage=%d", usage)
		assert.Equal(t, -1, d.Limit)
	}
}

func TestCheckQuota_TotalOverOddInput(t *testing.T) {
	tests := []struct {
		name    string
		policy  domain.QuotaPolicy
		allowed bool
	}{
		{"zero limit denies", domain.QuotaPolicy{Tier: domain.TierFree, Limit: 0}, false},
		{"negative usage treated as zero", domain.QuotaPolicy{Tier: domain.TierFree, UsageCount: -5, Limit: 1}, true},
		{"negative limit means uncapped", domain.QuotaPolicy{Tier: domain.TierFree, UsageCount: 99, Limit: -1}, true},
		{"unknown tier behaves as free", domain.QuotaPolicy{Tier: "gold", UsageCount: 3, Limit: 3}, false},
		{"free job postings below limit", domain.QuotaPolicy{Tier: domain.TierFree, Action: domain.ActionJobPosting, UsageCount: 2, Limit: 3}, true},
		{"free job postings at limit", domain.QuotaPolicy{Tier: domain.TierFree, Action: domain.ActionJobPosting, UsageCount: 3, Limit: 3}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() { CheckQuota(tt.policy) })
			assert.Equal(t, tt.allowed, CheckQuota(tt.policy).Allowed)
		})
	}
}

func TestQuotaGate_UsesConfiguredLimits(t *testing.T) {
	gate, err := NewQuotaGate(domain.QuotaLimits{FreeApplications: 2, FreeJobPostings: 5, WindowDays: 7})
	require.NoError(t, err)

	assert.True(t, gate.Decide(domain.TierFree, domain.ActionApplication, 1).Allowed)
	assert.False(t, gate.Decide(domain.TierFree, domain.ActionApplication, 2).Allowed)
	assert.True(t, gate.Decide(domain.TierFree, domain.ActionJobPosting, 4).Allowed)
	assert.False(t, gate.Decide(domain.TierFree, domain.ActionJobPosting, 5).Allowed)

	now := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC), gate.WindowStart(now))
}

func TestQuotaGate_DefaultLimits(t *testing.T) {
	gate, err := NewQuotaGate(domain.DefaultQuotaLimits())
	require.NoError(t, err)

	policy := gate.Policy(domain.TierFree, domain.ActionJobPosting, 0)
	assert.Equal(t, 3, policy.Limit)
	assert.Equal(t, 1, gate.Policy(domain.TierFree, domain.ActionApplication, 0).Limit)

	now := time.Date(2024, 3, 31, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, now.AddDate(0, 0, -30), gate.WindowStart(now))
}

func TestNewQuotaGate_RejectsEmptyWindow(t *testing.T) {
	_, err := NewQuotaGate(domain.QuotaLimits{FreeApplications: 1})
	assert.Error(t, err)
}
