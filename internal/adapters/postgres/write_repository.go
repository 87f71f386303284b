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
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// CreateApplicationWithinQuota вставляет отклик одной транзакцией:
// блокировка счетчика заявителя, блокировка строки вакансии, проверки, квота, запись.
func (a *PostgresStorageAdapter) CreateApplicationWithinQuota(ctx context.Context, app domain.Application, since time.Time, guard port.QuotaGuard) (domain.QuotaDecision, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component":    "PostgresStorageAdapter",
		"method":       "CreateApplicationWithinQuota",
		"job_id":       app.JobID.String(),
		"applicant_id": app.ApplicantID.String(),
	})

	tx, err := a.pool.Begin(ctx)
	if err != nil {
		repoLogger.Error("Failed to begin transaction", err, nil)
		return domain.QuotaDecision{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := lockQuota(ctx, tx, app.ApplicantID, domain.ActionApplication); err != nil {
		repoLogger.Error("Failed to lock quota counter", err, nil)
		return domain.QuotaDecision{}, fmt.Errorf("failed to lock quota counter: %w", err)
	}

	job, err := lockJobForApplication(ctx, tx, app.JobID)
	if err != nil {
		if errors.Is(err, domain.ErrJobNotFound) {
			repoLogger.Warn("Job not found.", nil)
			return domain.QuotaDecision{}, err
		}
		repoLogger.Error("Failed to lock job", err, nil)
		return domain.QuotaDecision{}, fmt.Errorf("failed to lock job: %w", err)
	}

	var exists bool
	err = tx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM applications WHERE job_id = $1 AND applicant_id = $2)`,
		app.JobID, app.ApplicantID).Scan(&exists)
	if err != nil {
		repoLogger.Error("Failed to check existing application", err, nil)
		return domain.QuotaDecision{}, fmt.Errorf("failed to check existing application: %w", err)
	}
	if exists {
		return domain.QuotaDecision{}, domain.ErrAlreadyApplied
	}

	if err := domain.CheckApplicable(job, app.ApplicantID); err != nil {
		repoLogger.Debug("Application rejected by job rules.", port.Fields{"reason": err.Error()})
		return domain.QuotaDecision{}, err
	}

	usage, err := countActions(ctx, tx, app.ApplicantID, domain.ActionApplication, since)
	if err != nil {
		repoLogger.Error("Failed to count applications", err, nil)
		return domain.QuotaDecision{}, fmt.Errorf("failed to count applications: %w", err)
	}
	decision := guard(usage)
	if !decision.Allowed {
		repoLogger.Info("Application denied by quota.", port.Fields{"usage": usage, "limit": decision.Limit})
		return decision, &domain.QuotaDeniedError{Decision: decision}
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO applications (id, job_id, applicant_id, cover_letter, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		app.ID, app.JobID, app.ApplicantID, app.CoverLetter, app.Status, app.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.QuotaDecision{}, domain.ErrAlreadyApplied
		}
		repoLogger.Error("Failed to insert application", err, nil)
		return domain.QuotaDecision{}, fmt.Errorf("failed to insert application: %w", err)
	}

	if err := recordQuotaEvent(ctx, tx, app.ApplicantID, domain.ActionApplication, app.CreatedAt); err != nil {
		repoLogger.Error("Failed to record quota event", err, nil)
		return domain.QuotaDecision{}, fmt.Errorf("failed to record quota event: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		repoLogger.Error("Failed to commit transaction", err, nil)
		return domain.QuotaDecision{}, fmt.Errorf("failed to commit application: %w", err)
	}

	repoLogger.Debug("Application stored.", port.Fields{"application_id": app.ID.String()})
	return decision, nil
}

func lockJobForApplication(ctx context.Context, tx pgx.Tx, jobID uuid.UUID) (domain.JobForApplication, error) {
	job := domain.JobForApplication{ID: jobID}
	err := tx.QueryRow(ctx,
		`SELECT poster_id, status, workers_needed FROM jobs WHERE id = $1 FOR UPDATE`,
		jobID).Scan(&job.PosterID, &job.Status, &job.WorkersNeeded)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return job, domain.ErrJobNotFound
		}
		return job, err
	}

	err = tx.QueryRow(ctx, `SELECT COUNT(*) FROM applications WHERE job_id = $1`, jobID).Scan(&job.CurrentApplicants)
	return job, err
}

// CreateJobWithinQuota вставляет вакансию, если квота работодателя позволяет.
func (a *PostgresStorageAdapter) CreateJobWithinQuota(ctx context.Context, job domain.Job, since time.Time, guard port.QuotaGuard) (domain.QuotaDecision, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component": "PostgresStorageAdapter",
		"method":    "CreateJobWithinQuota",
		"job_id":    job.ID.String(),
		"poster_id": job.PosterID.String(),
	})

	tx, err := a.pool.Begin(ctx)
	if err != nil {
		repoLogger.Error("Failed to begin transaction", err, nil)
		return domain.QuotaDecision{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := lockQuota(ctx, tx, job.PosterID, domain.ActionJobPosting); err != nil {
		repoLogger.Error("Failed to lock quota counter", err, nil)
		return domain.QuotaDecision{}, fmt.Errorf("failed to lock quota counter: %w", err)
	}

	usage, err := countActions(ctx, tx, job.PosterID, domain.ActionJobPosting, since)
	if err != nil {
		repoLogger.Error("Failed to count job postings", err, nil)
		return domain.QuotaDecision{}, fmt.Errorf("failed to count job postings: %w", err)
	}
	decision := guard(usage)
	if !decision.Allowed {
		repoLogger.Info("Job posting denied by quota.", port.Fields{"usage": usage, "limit": decision.Limit})
		return decision, &domain.QuotaDeniedError{Decision: decision}
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO jobs (id, poster_id, title, description, category, job_type, payment_type, payment_amount,
			latitude, longitude, place_name, postal_code, geohash, is_remote, workers_needed, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
		job.ID, job.PosterID, job.Title, job.Description, job.Category, job.JobType, job.PaymentType, job.PaymentAmount,
		job.Location.Latitude, job.Location.Longitude, job.Location.PlaceName, job.Location.PostalCode,
		encodeGeohash(job.Location), job.IsRemote, job.WorkersNeeded, job.Status, job.CreatedAt)
	if err != nil {
		repoLogger.Error("Failed to insert job", err, nil)
		return domain.QuotaDecision{}, fmt.Errorf("failed to insert job: %w", err)
	}

	if err := recordQuotaEvent(ctx, tx, job.PosterID, domain.ActionJobPosting, job.CreatedAt); err != nil {
		repoLogger.Error("Failed to record quota event", err, nil)
		return domain.QuotaDecision{}, fmt.Errorf("failed to record quota event: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		repoLogger.Error("Failed to commit transaction", err, nil)
		return domain.QuotaDecision{}, fmt.Errorf("failed to commit job: %w", err)
	}

	repoLogger.Debug("Job stored.", nil)
	return decision, nil
}

// UpdateJobLocation записывает координаты после геокодирования.
// Название места и индекс, введенные пользователем, не перезаписываются.
func (a *PostgresStorageAdapter) UpdateJobLocation(ctx context.Context, jobID uuid.UUID, location domain.Location) error {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component": "PostgresStorageAdapter",
		"method":    "UpdateJobLocation",
		"job_id":    jobID.String(),
	})

	query := `
		UPDATE jobs SET
			latitude = $2,
			longitude = $3,
			geohash = $4,
			place_name = COALESCE(NULLIF(place_name, ''), $5),
			postal_code = COALESCE(NULLIF(postal_code, ''), $6)
		WHERE id = $1`

	tag, err := a.pool.Exec(ctx, query, jobID,
		location.Latitude, location.Longitude, encodeGeohash(location),
		location.PlaceName, location.PostalCode)
	if err != nil {
		repoLogger.Error("Failed to update job location", err, port.Fields{"query": query})
		return fmt.Errorf("failed to update job location: %w", err)
	}
	if tag.RowsAffected() == 0 {
		repoLogger.Warn("Job not found.", nil)
		return domain.ErrJobNotFound
	}
	return nil
}
