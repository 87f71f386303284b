package postgres_adapter

import (
	"context"
	"fmt"

	"github.com/furqan-y-khan/workify/internal/contextkeys"
	"github.com/furqan-y-khan/workify/internal/core/domain"
	"github.com/furqan-y-khan/workify/internal/core/port"
	"github.com/jackc/pgx/v5"
)

const listJobsQuery = `
	SELECT j.id, j.title, j.description, j.category, j.job_type, j.payment_type,
		j.payment_amount::float8, j.latitude, j.longitude, j.place_name, j.postal_code,
		j.is_remote, j.created_at, j.workers_needed,
		(SELECT COUNT(*) FROM applications a WHERE a.job_id = j.id) AS current_applicants,
		j.poster_id, u.company_name, u.name
	FROM jobs j
	JOIN users u ON u.id = j.poster_id
	%s
	ORDER BY j.created_at DESC, j.id`

const listUsersQuery = `
	SELECT u.id, u.name, u.bio, u.trade_category, u.latitude, u.longitude,
		u.place_name, u.postal_code, u.created_at, u.company_name, u.role
	FROM users u
	%s
	ORDER BY u.created_at DESC, u.id`

// ListJobs отдает вакансии вместе с числом откликов и данными работодателя.
func (a *PostgresStorageAdapter) ListJobs(ctx context.Context, hints domain.CandidateHints) ([]domain.Candidate, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component": "PostgresStorageAdapter",
		"method":    "ListJobs",
	})

	where, args := jobHintsWhere(hints)
	query := fmt.Sprintf(listJobsQuery, where)

	repoLogger.Debug("Executing query to list jobs.", port.Fields{"conditions": where})
	rows, err := a.pool.Query(ctx, query, args...)
	if err != nil {
		repoLogger.Error("Failed to list jobs", err, port.Fields{"query": query})
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}

	candidates, err := pgx.CollectRows(rows, scanJobCandidate)
	if err != nil {
		repoLogger.Error("Failed to scan jobs", err, nil)
		return nil, fmt.Errorf("failed to scan jobs: %w", err)
	}

	repoLogger.Debug("Jobs listed.", port.Fields{"count": len(candidates)})
	return candidates, nil
}

// ListUsers отдает пользователей как кандидатов поиска "люди рядом".
func (a *PostgresStorageAdapter) ListUsers(ctx context.Context, hints domain.CandidateHints) ([]domain.Candidate, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component": "PostgresStorageAdapter",
		"method":    "ListUsers",
	})

	where, args := userHintsWhere(hints)
	query := fmt.Sprintf(listUsersQuery, where)

	repoLogger.Debug("Executing query to list users.", port.Fields{"conditions": where})
	rows, err := a.pool.Query(ctx, query, args...)
	if err != nil {
		repoLogger.Error("Failed to list users", err, port.Fields{"query": query})
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	candidates, err := pgx.CollectRows(rows, scanUserCandidate)
	if err != nil {
		repoLogger.Error("Failed to scan users", err, nil)
		return nil, fmt.Errorf("failed to scan users: %w", err)
	}

	repoLogger.Debug("Users listed.", port.Fields{"count": len(candidates)})
	return candidates, nil
}

func scanJobCandidate(row pgx.CollectableRow) (domain.Candidate, error) {
	c := domain.Candidate{Kind: domain.CandidateJob}
	err := row.Scan(
		&c.ID, &c.Title, &c.Description, &c.Category, &c.JobType, &c.PaymentType,
		&c.PaymentAmount, &c.Location.Latitude, &c.Location.Longitude, &c.Location.PlaceName, &c.Location.PostalCode,
		&c.IsRemote, &c.CreatedAt, &c.WorkersNeeded,
		&c.CurrentApplicants,
		&c.OwnerID, &c.CompanyName, &c.PosterName,
	)
	return c, err
}

func scanUserCandidate(row pgx.CollectableRow) (domain.Candidate, error) {
	c := domain.Candidate{Kind: domain.CandidateUser}
	var role string
	err := row.Scan(
		&c.ID, &c.Title, &c.Description, &c.Category, &c.Location.Latitude, &c.Location.Longitude,
		&c.Location.PlaceName, &c.Location.PostalCode, &c.CreatedAt, &c.CompanyName, &role,
	)
	if err != nil {
		return c, err
	}
	c.OwnerID = c.ID
	c.Role = domain.Role(role)
	return c, nil
}
