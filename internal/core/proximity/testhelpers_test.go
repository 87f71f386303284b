package proximity

import (
	"time"

	"github.com/furqan-y-khan/workify/internal/core/domain"
	"github.com/google/uuid"
)

// kmPerDegreeEquator - длина одного градуса долготы на экваторе при R = 6371 км
const kmPerDegreeEquator = EarthRadiusKm * 3.141592653589793 / 180

var baseTime = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

// eastOfOrigin - точка на экваторе на distanceKm к востоку от (0,0)
func eastOfOrigin(distanceKm float64) domain.Location {
	return domain.MustLocation(0, distanceKm/kmPerDegreeEquator)
}

func origin() domain.Location {
	return domain.MustLocation(0, 0)
}

func job(title string, loc domain.Location) domain.Candidate {
	return domain.Candidate{
		ID:            uuid.New(),
		Kind:          domain.CandidateJob,
		Title:         title,
		Description:   title + " description",
		Category:      "Plumbing",
		JobType:       "One-time Job",
		PaymentType:   "Fixed Price",
		Location:      loc,
		CreatedAt:     baseTime,
		WorkersNeeded: 1,
	}
}

func requestFrom(loc domain.Location) domain.SearchRequest {
	return domain.SearchRequest{
		Requester: domain.RequesterContext{
			UserID:   uuid.New(),
			Role:     domain.RoleJobSeeker,
			Tier:     domain.TierFree,
			Location: loc,
		},
	}
}

func titles(items []domain.RankedCandidate) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Title)
	}
	return out
}
