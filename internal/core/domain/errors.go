package domain

import (
	"errors"
	"fmt"
)

// Ошибки валидации входных данных
var (
	ErrInvalidCoordinate  = errors.New("coordinate is out of range")
	ErrUnresolvedLocation = errors.New("location has no coordinates")
	ErrUnknownSortKey     = errors.New("unknown sort key")
	ErrNegativeDistance   = errors.New("max distance cannot be negative")
	ErrNegativeAmount     = errors.New("payment amount cannot be negative")
	ErrInvalidPagination  = errors.New("invalid pagination parameters")
	ErrUnknownRole        = errors.New("unknown role")
	ErrUnknownAction      = errors.New("unknown quota action")
	ErrInvalidJob         = errors.New("invalid job")
	ErrInvalidParameter   = errors.New("invalid request parameter")
)

// Ошибки доступа и бизнес-правил
var (
	ErrRequesterNotFound = errors.New("requester not found")
	ErrForbiddenRole     = errors.New("role is not allowed to perform this action")
	ErrJobNotFound       = errors.New("job not found")
	ErrJobNotOpen        = errors.New("job is not open for applications")
	ErrJobFilled         = errors.New("job has no open positions left")
	ErrAlreadyApplied    = errors.New("application for this job already exists")
	ErrOwnJob            = errors.New("cannot apply to own job")
	ErrSchemaVersion     = errors.New("database schema version mismatch")
	ErrGeocodeNotFound   = errors.New("address could not be geocoded")
	ErrGeocodeCacheMiss  = errors.New("geocode cache miss")
	ErrInvalidToken      = errors.New("invalid token")
	ErrTokenExpired      = errors.New("token has expired")
)

// QuotaDeniedError возвращается операциями записи, когда квота исчерпана.
// Сам гейт квот ошибок не возвращает, он отдает QuotaDecision.
type QuotaDeniedError struct {
	Decision QuotaDecision
}

func (e *QuotaDeniedError) Error() string {
	return fmt.Sprintf("quota denied for %s: %s", e.Decision.Action, e.Decision.Reason)
}

// IsValidationError сообщает, относится ли ошибка к некорректному вводу.
func IsValidationError(err error) bool {
	for _, target := range []error{
		ErrInvalidCoordinate, ErrUnknownSortKey, ErrNegativeDistance, ErrNegativeAmount,
		ErrInvalidPagination, ErrUnknownRole, ErrUnknownAction, ErrInvalidJob, ErrInvalidParameter,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
