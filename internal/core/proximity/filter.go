package proximity

import (
	"strings"

	"github.com/furqan-y-khan/workify/internal/core/domain"
	"golang.org/x/text/cases"
)

// Filter возвращает кандидатов, прошедших все предикаты запроса, сохраняя
// исходный порядок. Расстояние вычисляется один раз и прикрепляется к результату.
//
// Предикаты независимы, порядок их применения на результат не влияет.
// Если у запрашивающего нет координат, фильтр по радиусу пропускается
// (fail open): пользователь видит нефильтрованный список, а не пустой.
func Filter(candidates []domain.Candidate, req domain.SearchRequest) []domain.RankedCandidate {
	f := req.Filters
	origin := req.Requester.Location

	// cases.Caser хранит состояние, поэтому создается на каждый вызов
	folder := cases.Fold()
	keyword := folder.String(strings.TrimSpace(f.Keyword))
	place := folder.String(strings.TrimSpace(f.PlaceContains))
	postal := domain.NormalizePostalCode(f.PostalCode)

	out := make([]domain.RankedCandidate, 0, len(candidates))
	for _, c := range candidates {
		if isSelf(c, req.Requester) {
			continue
		}
		if keyword != "" && !matchesKeyword(folder, c, keyword) {
			continue
		}
		if domain.IsActive(f.Category) && c.Category != f.Category {
			continue
		}
		if domain.IsActive(f.JobType) && c.JobType != f.JobType {
			continue
		}
		if !matchesPayment(c, f) {
			continue
		}
		if place != "" && !matchesPlace(folder, c, place) {
			continue
		}
		if f.TargetRole != "" && c.Kind == domain.CandidateUser && c.Role != f.TargetRole {
			continue
		}
		if !req.IncludeFullyFilled && c.IsFullyFilled() {
			continue
		}

		distance, ok := locate(c, origin, f, postal)
		if !ok {
			continue
		}
		out = append(out, domain.RankedCandidate{Candidate: c, DistanceKm: distance})
	}
	return out
}

// DistanceFilterSkipped - был ли запрошен радиус, который пришлось проигнорировать
// из-за отсутствия координат у запрашивающего.
func DistanceFilterSkipped(req domain.SearchRequest) bool {
	if req.Filters.UsesPostalOverride() {
		return false
	}
	return req.Filters.MaxDistanceKm > 0 && !req.Requester.Location.IsResolved()
}

// locate решает вопрос о расстоянии: включать ли кандидата и какое расстояние ему приписать.
func locate(c domain.Candidate, origin domain.Location, f domain.SearchFilters, postal string) (*float64, bool) {
	remoteAllowed := f.IncludeRemote && c.Kind == domain.CandidateJob && c.IsRemote

	// Режим индекса: совпадение индекса считается совпадением места, расстояние 0.
	// Haversine не применяется, координаты запрашивающего не нужны.
	if postal != "" {
		if domain.NormalizePostalCode(c.Location.PostalCode) == postal {
			zero := 0.0
			return &zero, true
		}
		return nil, remoteAllowed
	}

	var distance *float64
	if d, err := DistanceKm(origin, c.Location); err == nil {
		distance = &d
	}

	if f.MaxDistanceKm <= 0 || !origin.IsResolved() {
		return distance, true
	}
	if distance != nil && *distance <= f.MaxDistanceKm {
		return distance, true
	}
	if remoteAllowed {
		return nil, true
	}
	return nil, false
}

func isSelf(c domain.Candidate, requester domain.RequesterContext) bool {
	return c.Kind == domain.CandidateUser && c.ID == requester.UserID
}

func matchesKeyword(folder cases.Caser, c domain.Candidate, keyword string) bool {
	for _, field := range []string{c.Title, c.Description, c.Category} {
		if strings.Contains(folder.String(field), keyword) {
			return true
		}
	}
	return false
}

func matchesPlace(folder cases.Caser, c domain.Candidate, place string) bool {
	return strings.Contains(folder.String(c.Location.PlaceName), place) ||
		strings.Contains(folder.String(c.Location.PostalCode), place)
}

// null-сумма не удовлетворяет минимуму
func matchesPayment(c domain.Candidate, f domain.SearchFilters) bool {
	if domain.IsActive(f.PaymentType) && c.PaymentType != f.PaymentType {
		return false
	}
	if f.MinPayment != nil {
		if c.PaymentAmount == nil || *c.PaymentAmount < *f.MinPayment {
			return false
		}
	}
	return true
}
