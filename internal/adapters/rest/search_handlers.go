package rest

import (
	"net/http"

	"github.com/furqan-y-khan/workify/internal/contextkeys"
	"github.com/furqan-y-khan/workify/internal/core/port"
	"github.com/furqan-y-khan/workify/internal/core/port/usecases_port"
)

type SearchHandler struct {
	searchJobsUC  usecases_port.SearchJobsUseCase
	nearbyUsersUC usecases_port.FindNearbyUsersUseCase
	defaults      SearchDefaults
}

func NewSearchHandler(searchJobsUC usecases_port.SearchJobsUseCase,
	nearbyUsersUC usecases_port.FindNearbyUsersUseCase,
	defaults SearchDefaults) *SearchHandler {
	return &SearchHandler{
		searchJobsUC:  searchJobsUC,
		nearbyUsersUC: nearbyUsersUC,
		defaults:      defaults,
	}
}

// SearchJobs обрабатывает GET /api/v1/jobs/search
func (h *SearchHandler) SearchJobs(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "SearchJobs"})

	claims, ok := contextkeys.ClaimsFromContext(r.Context())
	if !ok {
		WriteJSONError(w, http.StatusUnauthorized, "Missing identity")
		return
	}

	req, err := parseSearchRequest(r, h.defaults)
	if err != nil {
		writeDomainError(w, logger, err)
		return
	}

	result, err := h.searchJobsUC.Execute(r.Context(), claims.UserID, req)
	if err != nil {
		writeDomainError(w, logger, err)
		return
	}

	RespondWithJSON(w, http.StatusOK, toSearchResponse(result))
}

// FindNearbyUsers обрабатывает GET /api/v1/users/nearby
func (h *SearchHandler) FindNearbyUsers(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "FindNearbyUsers"})

	claims, ok := contextkeys.ClaimsFromContext(r.Context())
	if !ok {
		WriteJSONError(w, http.StatusUnauthorized, "Missing identity")
		return
	}

	req, err := parseSearchRequest(r, h.defaults)
	if err != nil {
		writeDomainError(w, logger, err)
		return
	}

	result, err := h.nearbyUsersUC.Execute(r.Context(), claims.UserID, req)
	if err != nil {
		writeDomainError(w, logger, err)
		return
	}

	RespondWithJSON(w, http.StatusOK, toSearchResponse(result))
}
