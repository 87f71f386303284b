package usecase

import (
	"context"
	"testing"

	"github.com/furqan-y-khan/workify/internal/core/domain"
	"github.com/furqan-y-khan/workify/internal/core/proximity"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jobAt(title string, loc domain.Location) domain.Candidate {
	return domain.Candidate{
		ID:        uuid.New(),
		Kind:      domain.CandidateJob,
		Title:     title,
		Category:  "Plumbing",
		Location:  loc,
		CreatedAt: fixedNow,
	}
}

func userAt(id uuid.UUID, name string, role domain.Role, loc domain.Location) domain.Candidate {
	return domain.Candidate{ID: id, Kind: domain.CandidateUser, Title: name, Role: role, Location: loc, CreatedAt: fixedNow}
}

func newSearchJobs(req *fakeRequesters, cand *fakeCandidates) *SearchJobsUseCase {
	uc := NewSearchJobsUseCase(req, cand, proximity.NewEngine(proximity.EngineConfig{}))
	uc.now = fixedClock
	return uc
}

func TestSearchJobs_UsesProfileLocationAndHints(t *testing.T) {
	seeker := domain.RequesterContext{UserID: uuid.New(), Role: domain.RoleJobSeeker, Location: domain.MustLocation(40.7128, -74.0060)}
	cand := &fakeCandidates{jobs: []domain.Candidate{
		jobAt("near", domain.MustLocation(40.73, -74.0)),
		jobAt("far", domain.MustLocation(34.05, -118.24)),
	}}
	uc := newSearchJobs(newFakeRequesters(seeker), cand)

	res, err := uc.Execute(context.Background(), seeker.UserID, domain.SearchRequest{
		Filters: domain.SearchFilters{MaxDistanceKm: 25, Category: "Plumbing"},
		SortKey: domain.SortDistance,
	})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "near", res.Items[0].Title)
	assert.False(t, res.DistanceFilterSkipped)

	assert.True(t, cand.lastHints.OnlyOpen)
	assert.Equal(t, "Plumbing", cand.lastHints.Category)
	assert.Len(t, cand.lastHints.GeohashPrefixes, 9)
}

func TestSearchJobs_ClientLocationOverridesProfile(t *testing.T) {
	seeker := domain.RequesterContext{UserID: uuid.New(), Role: domain.RoleJobSeeker, Location: domain.MustLocation(34.05, -118.24)}
	cand := &fakeCandidates{jobs: []domain.Candidate{jobAt("nyc", domain.MustLocation(40.73, -74.0))}}
	uc := newSearchJobs(newFakeRequesters(seeker), cand)

	res, err := uc.Execute(context.Background(), seeker.UserID, domain.SearchRequest{
		Requester: domain.RequesterContext{Location: domain.MustLocation(40.7128, -74.0060)},
		Filters:   domain.SearchFilters{MaxDistanceKm: 10},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.TotalCount)
}

func TestSearchJobs_UnresolvedRequesterFailsOpen(t *testing.T) {
	seeker := domain.RequesterContext{UserID: uuid.New(), Role: domain.RoleJobSeeker}
	cand := &fakeCandidates{jobs: []domain.Candidate{
		jobAt("a", domain.MustLocation(1, 1)),
		jobAt("b", domain.Location{}),
	}}
	uc := newSearchJobs(newFakeRequesters(seeker), cand)

	res, err := uc.Execute(context.Background(), seeker.UserID, domain.SearchRequest{
		Filters: domain.SearchFilters{MaxDistanceKm: 5},
	})
	require.NoError(t, err)
	assert.True(t, res.DistanceFilterSkipped)
	assert.Equal(t, 2, res.TotalCount)
	assert.Nil(t, cand.lastHints.GeohashPrefixes)
}

func TestSearchJobs_PostalOverrideHint(t *testing.T) {
	seeker := domain.RequesterContext{UserID: uuid.New(), Role: domain.RoleJobSeeker}
	cand := &fakeCandidates{}
	uc := newSearchJobs(newFakeRequesters(seeker), cand)

	_, err := uc.Execute(context.Background(), seeker.UserID, domain.SearchRequest{
		Filters: domain.SearchFilters{PostalCode: " 10001 ", MaxDistanceKm: 5},
	})
	require.NoError(t, err)
	assert.Equal(t, "10001", cand.lastHints.PostalCode)
	assert.Nil(t, cand.lastHints.GeohashPrefixes)
}

func TestSearchJobs_Errors(t *testing.T) {
	seeker := domain.RequesterContext{UserID: uuid.New(), Role: domain.RoleJobSeeker}
	cand := &fakeCandidates{err: errStorage}
	uc := newSearchJobs(newFakeRequesters(seeker), cand)

	_, err := uc.Execute(context.Background(), seeker.UserID, domain.SearchRequest{SortKey: "bogus"})
	assert.ErrorIs(t, err, domain.ErrUnknownSortKey)

	_, err = uc.Execute(context.Background(), uuid.New(), domain.SearchRequest{})
	assert.ErrorIs(t, err, domain.ErrRequesterNotFound)

	_, err = uc.Execute(context.Background(), seeker.UserID, domain.SearchRequest{})
	assert.ErrorIs(t, err, errStorage)
}

func TestFindNearbyUsers(t *testing.T) {
	poster := domain.RequesterContext{UserID: uuid.New(), Role: domain.RoleJobPoster, Location: domain.MustLocation(51.5074, -0.1278)}
	seeker := domain.RequesterContext{UserID: uuid.New(), Role: domain.RoleJobSeeker}
	nearID, farID := uuid.New(), uuid.New()
	cand := &fakeCandidates{users: []domain.Candidate{
		userAt(farID, "Far", domain.RoleJobSeeker, domain.MustLocation(51.6, -0.2)),
		userAt(nearID, "Near", domain.RoleJobSeeker, domain.MustLocation(51.51, -0.13)),
		userAt(uuid.New(), "Other poster", domain.RoleJobPoster, domain.MustLocation(51.5074, -0.1278)),
		userAt(poster.UserID, "Me", domain.RoleJobSeeker, domain.MustLocation(51.5074, -0.1278)),
	}}
	uc := NewFindNearbyUsersUseCase(newFakeRequesters(poster, seeker), cand, proximity.NewEngine(proximity.EngineConfig{}))
	uc.now = fixedClock

	res, err := uc.Execute(context.Background(), poster.UserID, domain.SearchRequest{
		Filters: domain.SearchFilters{MaxDistanceKm: 50},
	})
	require.NoError(t, err)
	require.Len(t, res.Items, 2)
	assert.Equal(t, nearID, res.Items[0].ID)
	assert.Equal(t, farID, res.Items[1].ID)
	require.NotNil(t, cand.lastHints.ExcludeUserID)
	assert.Equal(t, poster.UserID, *cand.lastHints.ExcludeUserID)
	assert.Equal(t, domain.RoleJobSeeker, cand.lastHints.TargetRole)

	_, err = uc.Execute(context.Background(), seeker.UserID, domain.SearchRequest{})
	assert.ErrorIs(t, err, domain.ErrForbiddenRole)
}
