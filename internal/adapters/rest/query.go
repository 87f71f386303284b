package rest

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/furqan-y-khan/workify/internal/core/domain"
)

// SearchDefaults - поведение параметров, не указанных в запросе.
type SearchDefaults struct {
	// RadiusKm применяется, если max_distance_km не передан; 0 отключает радиус
	RadiusKm float64
}

// parseSearchRequest собирает SearchRequest из query-параметров.
// Координаты lat/lon, если переданы, заменяют локацию профиля.
func parseSearchRequest(r *http.Request, defaults SearchDefaults) (domain.SearchRequest, error) {
	q := r.URL.Query()
	req := domain.SearchRequest{
		Filters: domain.SearchFilters{
			Keyword:       strings.TrimSpace(q.Get("q")),
			Category:      q.Get("category"),
			JobType:       q.Get("job_type"),
			PaymentType:   q.Get("payment_type"),
			PostalCode:    q.Get("postal_code"),
			PlaceContains: strings.TrimSpace(q.Get("place")),
			MaxDistanceKm: defaults.RadiusKm,
		},
		SortKey: domain.SortKey(q.Get("sort")),
	}

	var err error
	if req.Filters.MinPayment, err = queryFloat(r, "min_payment"); err != nil {
		return req, fmt.Errorf("%w: min_payment", domain.ErrInvalidParameter)
	}
	radius, err := queryFloat(r, "max_distance_km")
	if err != nil {
		return req, fmt.Errorf("%w: max_distance_km", domain.ErrInvalidParameter)
	}
	if radius != nil {
		req.Filters.MaxDistanceKm = *radius
	}
	if req.Filters.IncludeRemote, err = queryBool(r, "include_remote", false); err != nil {
		return req, fmt.Errorf("%w: include_remote must be a boolean", domain.ErrInvalidParameter)
	}
	if req.IncludeFullyFilled, err = queryBool(r, "include_filled", false); err != nil {
		return req, fmt.Errorf("%w: include_filled must be a boolean", domain.ErrInvalidParameter)
	}
	if req.Page, err = queryInt(r, "page", 0); err != nil {
		return req, fmt.Errorf("%w: page", domain.ErrInvalidParameter)
	}
	if req.PageSize, err = queryInt(r, "page_size", 0); err != nil {
		return req, fmt.Errorf("%w: page_size", domain.ErrInvalidParameter)
	}

	lat, err := queryFloat(r, "lat")
	if err != nil {
		return req, fmt.Errorf("%w: lat", domain.ErrInvalidParameter)
	}
	lon, err := queryFloat(r, "lon")
	if err != nil {
		return req, fmt.Errorf("%w: lon", domain.ErrInvalidParameter)
	}
	if lat != nil || lon != nil {
		loc, err := domain.NewLocation(lat, lon, "", "")
		if err != nil {
			return req, err
		}
		req.Requester.Location = loc
	}

	return req, req.Validate()
}
