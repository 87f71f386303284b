package domain

import (
	"fmt"
	"math"
	"strings"
)

// AllSentinel отключает фильтр по категории, типу работы или типу оплаты.
const AllSentinel = "All"

type SortKey string

const (
	SortRecency    SortKey = "recency"
	SortDistance   SortKey = "distance"
	SortPayDesc    SortKey = "pay_desc"
	SortPayAsc     SortKey = "pay_asc"
	SortDemandDesc SortKey = "demand_desc"
)

const DefaultSortKey = SortRecency

// ParseSortKey понимает канонические ключи и подписи из UI ("Most Recent", "Nearest First" ...).
// Пустая строка дает ключ по умолчанию.
func ParseSortKey(s string) (SortKey, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return DefaultSortKey, nil
	case "recency", "most recent", "newest":
		return SortRecency, nil
	case "distance", "nearest first", "nearest":
		return SortDistance, nil
	case "pay_desc", "highest pay", "pay (high to low)":
		return SortPayDesc, nil
	case "pay_asc", "lowest pay", "pay (low to high)":
		return SortPayAsc, nil
	case "demand_desc", "most workers needed", "demand":
		return SortDemandDesc, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSortKey, s)
}

// SearchFilters - фильтры запроса. Пустые строки и nil означают "не фильтровать".
type SearchFilters struct {
	Keyword     string
	Category    string
	JobType     string
	PaymentType string
	MinPayment  *float64
	// MaxDistanceKm <= 0 отключает фильтр по расстоянию
	MaxDistanceKm float64
	// PostalCode включает режим точного совпадения индекса вместо Haversine
	PostalCode    string
	PlaceContains string
	IncludeRemote bool
	// TargetRole ограничивает поиск пользователей одной ролью
	TargetRole Role
}

// SearchRequest - полный запрос к движку.
type SearchRequest struct {
	Requester          RequesterContext
	Filters            SearchFilters
	SortKey            SortKey
	IncludeFullyFilled bool
	Page               int
	PageSize           int
}

// Validate отклоняет некорректный ввод до начала работы движка.
func (r SearchRequest) Validate() error {
	if r.Filters.MaxDistanceKm < 0 || math.IsNaN(r.Filters.MaxDistanceKm) {
		return fmt.Errorf("%w: %v", ErrNegativeDistance, r.Filters.MaxDistanceKm)
	}
	if r.Filters.MinPayment != nil && (*r.Filters.MinPayment < 0 || math.IsNaN(*r.Filters.MinPayment)) {
		return fmt.Errorf("%w: %v", ErrNegativeAmount, *r.Filters.MinPayment)
	}
	if r.SortKey != "" {
		if _, err := ParseSortKey(string(r.SortKey)); err != nil {
			return err
		}
	}
	if r.Page < 0 || r.PageSize < 0 {
		return fmt.Errorf("%w: page=%d page_size=%d", ErrInvalidPagination, r.Page, r.PageSize)
	}
	return nil
}

// UsesPostalOverride - задан ли явный индекс для режима совпадения.
func (f SearchFilters) UsesPostalOverride() bool {
	return NormalizePostalCode(f.PostalCode) != ""
}

// IsActive сообщает, задан ли фильтр со значением, отличным от "All".
func IsActive(value string) bool {
	v := strings.TrimSpace(value)
	return v != "" && !strings.EqualFold(v, AllSentinel)
}

// RankedCandidate - кандидат с вычисленным расстоянием.
// DistanceKm == nil, если расстояние неизвестно.
type RankedCandidate struct {
	Candidate
	DistanceKm *float64
}

// SearchResult - страница результатов.
type SearchResult struct {
	Items        []RankedCandidate
	TotalCount   int
	CurrentPage  int
	ItemsPerPage int
	// DistanceFilterSkipped выставляется, когда фильтр по радиусу был запрошен,
	// но у запрашивающего нет координат
	DistanceFilterSkipped bool
}

// TotalPages - количество страниц при текущем размере страницы.
func (r SearchResult) TotalPages() int {
	if r.ItemsPerPage <= 0 || r.TotalCount == 0 {
		return 0
	}
	return (r.TotalCount + r.ItemsPerPage - 1) / r.ItemsPerPage
}
