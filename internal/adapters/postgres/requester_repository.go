package postgres_adapter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/furqan-y-khan/workify/internal/contextkeys"
	"github.com/furqan-y-khan/workify/internal/core/domain"
	"github.com/furqan-y-khan/workify/internal/core/port"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const getRequesterQuery = `
	SELECT u.id, u.email, u.name, u.role, u.latitude, u.longitude, u.place_name, u.postal_code,
		EXISTS (
			SELECT 1 FROM subscriptions s
			WHERE s.user_id = u.id AND s.status = 'active' AND s.valid_until > $2
		) AS is_premium
	FROM users u
	WHERE u.id = $1`

// GetRequester загружает снимок пользователя вместе с тарифом на момент now.
func (a *PostgresStorageAdapter) GetRequester(ctx context.Context, userID uuid.UUID, now time.Time) (*domain.RequesterContext, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component": "PostgresStorageAdapter",
		"method":    "GetRequester",
		"user_id":   userID.String(),
	})

	var (
		rc        domain.RequesterContext
		role      string
		isPremium bool
	)
	repoLogger.Debug("Executing query to load requester.", nil)
	err := a.pool.QueryRow(ctx, getRequesterQuery, userID, now).Scan(
		&rc.UserID, &rc.Email, &rc.Name, &role,
		&rc.Location.Latitude, &rc.Location.Longitude, &rc.Location.PlaceName, &rc.Location.PostalCode,
		&isPremium,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			repoLogger.Warn("Requester not found.", nil)
			return nil, domain.ErrRequesterNotFound
		}
		repoLogger.Error("Failed to load requester", err, nil)
		return nil, fmt.Errorf("failed to load requester: %w", err)
	}

	rc.Role, err = domain.ParseRole(role)
	if err != nil {
		repoLogger.Error("Stored role is invalid", err, port.Fields{"role": role})
		return nil, fmt.Errorf("failed to load requester: %w", err)
	}
	rc.Tier = domain.TierFree
	if isPremium {
		rc.Tier = domain.TierPremium
	}

	repoLogger.Debug("Requester loaded.", port.Fields{"role": string(rc.Role), "tier": string(rc.Tier)})
	return &rc, nil
}

// CountActions считает записи журнала квот в окне [since, now].
func (a *PostgresStorageAdapter) CountActions(ctx context.Context, userID uuid.UUID, action domain.ActionKind, since time.Time) (int, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component": "PostgresStorageAdapter",
		"method":    "CountActions",
		"user_id":   userID.String(),
		"action":    string(action),
	})

	count, err := countActions(ctx, a.pool, userID, action, since)
	if err != nil {
		repoLogger.Error("Failed to count actions", err, nil)
		return 0, fmt.Errorf("failed to count actions: %w", err)
	}
	return count, nil
}

// ExpireSubscriptions переводит просроченные подписки в expired.
func (a *PostgresStorageAdapter) ExpireSubscriptions(ctx context.Context, now time.Time) (int64, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component": "PostgresStorageAdapter",
		"method":    "ExpireSubscriptions",
	})

	query := `UPDATE subscriptions SET status = 'expired' WHERE status = 'active' AND valid_until <= $1`
	tag, err := a.pool.Exec(ctx, query, now)
	if err != nil {
		repoLogger.Error("Failed to expire subscriptions", err, port.Fields{"query": query})
		return 0, fmt.Errorf("failed to expire subscriptions: %w", err)
	}
	return tag.RowsAffected(), nil
}
