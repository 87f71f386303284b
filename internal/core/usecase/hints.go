package usecase

import (
	"strings"

	"github.com/furqan-y-khan/workify/internal/core/domain"
	"github.com/furqan-y-khan/workify/internal/core/proximity"
)

// candidateHints переводит фильтры запроса в подсказки для хранилища.
// Подсказки всегда не строже фильтра движка.
func candidateHints(req domain.SearchRequest) domain.CandidateHints {
	f := req.Filters
	hints := domain.CandidateHints{IncludeRemote: f.IncludeRemote}

	if domain.IsActive(f.Category) {
		hints.Category = strings.TrimSpace(f.Category)
	}
	if domain.IsActive(f.JobType) {
		hints.JobType = strings.TrimSpace(f.JobType)
	}
	if domain.IsActive(f.PaymentType) {
		hints.PaymentType = strings.TrimSpace(f.PaymentType)
	}

	if f.UsesPostalOverride() {
		// при включенных удаленных вакансиях индекс не сужает выборку
		if !f.IncludeRemote {
			hints.PostalCode = domain.NormalizePostalCode(f.PostalCode)
		}
		return hints
	}
	if f.MaxDistanceKm > 0 {
		hints.GeohashPrefixes = proximity.CoverRadius(req.Requester.Location, f.MaxDistanceKm)
	}
	return hints
}
