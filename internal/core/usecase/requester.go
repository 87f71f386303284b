package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/furqan-y-khan/workify/internal/core/domain"
	"github.com/furqan-y-khan/workify/internal/core/port"
	"github.com/google/uuid"
)

// loadRequester загружает снимок пользователя и при необходимости подменяет локацию
// координатами, переданными клиентом.
func loadRequester(ctx context.Context, repo port.RequesterRepositoryPort, userID uuid.UUID, override domain.Location, now time.Time) (domain.RequesterContext, error) {
	requester, err := repo.GetRequester(ctx, userID, now)
	if err != nil {
		return domain.RequesterContext{}, fmt.Errorf("load requester %s: %w", userID, err)
	}
	if override.IsResolved() {
		if override.PostalCode == "" {
			override.PostalCode = requester.Location.PostalCode
		}
		requester.Location = override
	}
	return *requester, nil
}
