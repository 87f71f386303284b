package rest

import (
	"net/http"

	"github.com/furqan-y-khan/workify/internal/contextkeys"
	"github.com/furqan-y-khan/workify/internal/core/domain"
	"github.com/furqan-y-khan/workify/internal/core/port"
	"github.com/furqan-y-khan/workify/internal/core/port/usecases_port"
	"github.com/go-chi/chi/v5"
)

type QuotaHandler struct {
	checkQuotaUC usecases_port.CheckQuotaUseCase
}

func NewQuotaHandler(checkQuotaUC usecases_port.CheckQuotaUseCase) *QuotaHandler {
	return &QuotaHandler{checkQuotaUC: checkQuotaUC}
}

// CheckQuota обрабатывает GET /api/v1/quota/{action}. Отказ по квоте это 200 с allowed=false.
func (h *QuotaHandler) CheckQuota(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "CheckQuota"})

	claims, ok := contextkeys.ClaimsFromContext(r.Context())
	if !ok {
		WriteJSONError(w, http.StatusUnauthorized, "Missing identity")
		return
	}

	action, err := domain.ParseActionKind(chi.URLParam(r, "action"))
	if err != nil {
		writeDomainError(w, logger, err)
		return
	}

	decision, err := h.checkQuotaUC.Execute(r.Context(), claims.UserID, action)
	if err != nil {
		writeDomainError(w, logger, err)
		return
	}

	RespondWithJSON(w, http.StatusOK, toQuotaResponse(decision))
}
