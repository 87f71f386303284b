package proximity

import (
	"fmt"
	"math"
	"sort"

	"github.com/furqan-y-khan/workify/internal/core/domain"
)

// Rank возвращает новый срез, отсортированный стабильно по ключу.
// Равные элементы сохраняют входной порядок, поэтому повторное ранжирование
// по тому же ключу ничего не меняет.
//
// Кандидаты без расстояния при сортировке по расстоянию идут в конец.
// Кандидаты без суммы оплаты идут в конец при обоих направлениях сортировки по оплате:
// "не указано" это не "ноль".
func Rank(items []domain.RankedCandidate, key domain.SortKey) ([]domain.RankedCandidate, error) {
	less, err := lessFor(key)
	if err != nil {
		return nil, err
	}
	ranked := make([]domain.RankedCandidate, len(items))
	copy(ranked, items)
	sort.SliceStable(ranked, func(i, j int) bool {
		return less(ranked[i], ranked[j])
	})
	return ranked, nil
}

// WithDistances прикрепляет расстояние от origin к каждому кандидату без фильтрации.
func WithDistances(candidates []domain.Candidate, origin domain.Location) []domain.RankedCandidate {
	out := make([]domain.RankedCandidate, 0, len(candidates))
	for _, c := range candidates {
		rc := domain.RankedCandidate{Candidate: c}
		if d, err := DistanceKm(origin, c.Location); err == nil {
			rc.DistanceKm = &d
		}
		out = append(out, rc)
	}
	return out
}

type lessFunc func(a, b domain.RankedCandidate) bool

func lessFor(key domain.SortKey) (lessFunc, error) {
	if key == "" {
		key = domain.DefaultSortKey
	}
	switch key {
	case domain.SortRecency:
		return func(a, b domain.RankedCandidate) bool {
			return a.CreatedAt.After(b.CreatedAt)
		}, nil
	case domain.SortDistance:
		return func(a, b domain.RankedCandidate) bool {
			return distanceKey(a) < distanceKey(b)
		}, nil
	case domain.SortPayDesc:
		return func(a, b domain.RankedCandidate) bool {
			return payLess(a.PaymentAmount, b.PaymentAmount, func(x, y float64) bool { return x > y })
		}, nil
	case domain.SortPayAsc:
		return func(a, b domain.RankedCandidate) bool {
			return payLess(a.PaymentAmount, b.PaymentAmount, func(x, y float64) bool { return x < y })
		}, nil
	case domain.SortDemandDesc:
		return func(a, b domain.RankedCandidate) bool {
			return a.Capacity() > b.Capacity()
		}, nil
	}
	return nil, fmt.Errorf("%w: %q", domain.ErrUnknownSortKey, key)
}

func distanceKey(rc domain.RankedCandidate) float64 {
	if rc.DistanceKm == nil {
		return math.Inf(1)
	}
	return *rc.DistanceKm
}

// payLess: null всегда больше любого заданного значения, два null равны
func payLess(a, b *float64, before func(x, y float64) bool) bool {
	switch {
	case a == nil:
		return false
	case b == nil:
		return true
	default:
		return before(*a, *b)
	}
}
