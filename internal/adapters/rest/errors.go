package rest

import (
	"errors"
	"net/http"

	"github.com/furqan-y-khan/workify/internal/core/domain"
	"github.com/furqan-y-khan/workify/internal/core/port"
)

// statusFor сопоставляет доменную ошибку и HTTP-статус
func statusFor(err error) int {
	var denied *domain.QuotaDeniedError
	switch {
	case errors.As(err, &denied):
		return http.StatusTooManyRequests
	case domain.IsValidationError(err):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidToken), errors.Is(err, domain.ErrTokenExpired):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbiddenRole), errors.Is(err, domain.ErrOwnJob):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrRequesterNotFound), errors.Is(err, domain.ErrJobNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrAlreadyApplied), errors.Is(err, domain.ErrJobFilled), errors.Is(err, domain.ErrJobNotOpen):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// writeDomainError пишет ответ по ошибке use case. Внутренние ошибки наружу не раскрываются.
func writeDomainError(w http.ResponseWriter, logger port.LoggerPort, err error) {
	status := statusFor(err)

	var denied *domain.QuotaDeniedError
	if errors.As(err, &denied) {
		RespondWithJSON(w, status, ErrorResponse{Error: denied.Decision.Reason, Quota: toQuotaResponse(&denied.Decision)})
		return
	}

	if status == http.StatusInternalServerError {
		logger.Error("Use case failed", err, nil)
		WriteJSONError(w, status, "Internal server error")
		return
	}
	logger.Warn("Request rejected", port.Fields{"status_code": status, "reason": err.Error()})
	WriteJSONError(w, status, err.Error())
}
