package rest

import (
	"net/http"

	"github.com/furqan-y-khan/workify/internal/contextkeys"
	"github.com/furqan-y-khan/workify/internal/core/port"
	"github.com/furqan-y-khan/workify/internal/core/port/usecases_port"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type JobHandler struct {
	postJobUC usecases_port.PostJobUseCase
	applyUC   usecases_port.SubmitApplicationUseCase
}

func NewJobHandler(postJobUC usecases_port.PostJobUseCase, applyUC usecases_port.SubmitApplicationUseCase) *JobHandler {
	return &JobHandler{postJobUC: postJobUC, applyUC: applyUC}
}

// PostJob обрабатывает POST /api/v1/jobs
func (h *JobHandler) PostJob(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "PostJob"})

	claims, ok := contextkeys.ClaimsFromContext(r.Context())
	if !ok {
		WriteJSONError(w, http.StatusUnauthorized, "Missing identity")
		return
	}

	var req CreateJobRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		logger.Warn("Invalid request body", port.Fields{"reason": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	job, decision, err := h.postJobUC.Execute(r.Context(), claims.UserID, req.toDomain())
	if err != nil {
		writeDomainError(w, logger, err)
		return
	}

	RespondWithJSON(w, http.StatusCreated, CreateJobResponse{Job: toJobResponse(job), Quota: toQuotaResponse(decision)})
}

// SubmitApplication обрабатывает POST /api/v1/jobs/{jobID}/applications
func (h *JobHandler) SubmitApplication(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "SubmitApplication"})

	claims, ok := contextkeys.ClaimsFromContext(r.Context())
	if !ok {
		WriteJSONError(w, http.StatusUnauthorized, "Missing identity")
		return
	}

	jobID, err := uuid.Parse(chi.URLParam(r, "jobID"))
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, "Invalid job ID format")
		return
	}

	var req SubmitApplicationRequest
	if r.ContentLength != 0 {
		if err := decodeJSONBody(w, r, &req); err != nil {
			logger.Warn("Invalid request body", port.Fields{"reason": err.Error()})
			WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}

	app, decision, err := h.applyUC.Execute(r.Context(), claims.UserID, jobID, req.CoverLetter)
	if err != nil {
		writeDomainError(w, logger, err)
		return
	}

	RespondWithJSON(w, http.StatusCreated, SubmitApplicationResponse{Application: toApplicationResponse(app), Quota: toQuotaResponse(decision)})
}
