package postgres_adapter

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/furqan-y-khan/workify/internal/core/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	lockSQL        = `SELECT pg_advisory_xact_lock\(hashtextextended\(\$1, 0\)\)`
	lockJobSQL     = `SELECT poster_id, status, workers_needed FROM jobs WHERE id = \$1 FOR UPDATE`
	applicantsSQL  = `SELECT COUNT\(\*\) FROM applications WHERE job_id = \$1`
	alreadySQL     = `SELECT EXISTS \(SELECT 1 FROM applications WHERE job_id = \$1 AND applicant_id = \$2\)`
	usageSQL       = `SELECT COUNT\(\*\) FROM quota_events`
	insertAppSQL   = `INSERT INTO applications`
	insertJobSQL   = `INSERT INTO jobs`
	insertQuotaSQL = `INSERT INTO quota_events`
)

func newMockAdapter(t *testing.T) (*PostgresStorageAdapter, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	adapter, err := NewPostgresStorageAdapter(mock)
	require.NoError(t, err)
	return adapter, mock
}

// freeGuard пропускает, пока usage меньше limit
func freeGuard(limit int) func(int) domain.QuotaDecision {
	return func(usage int) domain.QuotaDecision {
		return domain.QuotaDecision{Allowed: usage < limit, Usage: usage, Limit: limit, Remaining: max(limit-usage-1, 0)}
	}
}

type applicationFixture struct {
	app    domain.Application
	poster uuid.UUID
	since  time.Time
}

func newApplicationFixture() applicationFixture {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	return applicationFixture{
		app: domain.Application{
			ID:          uuid.New(),
			JobID:       uuid.New(),
			ApplicantID: uuid.New(),
			Status:      domain.ApplicationStatusPending,
			CreatedAt:   now,
		},
		poster: uuid.New(),
		since:  now.AddDate(0, 0, -30),
	}
}

// expectLockedJob - блокировка квоты, затем строка вакансии под FOR UPDATE
func (f applicationFixture) expectLockedJob(mock pgxmock.PgxPoolIface, status string, workers, applicants int) {
	mock.ExpectBegin()
	mock.ExpectExec(lockSQL).
		WithArgs(quotaLockKey(f.app.ApplicantID, domain.ActionApplication)).
		WillReturnResult(pgxmock.NewResult("SELECT", 1))
	mock.ExpectQuery(lockJobSQL).
		WithArgs(f.app.JobID).
		WillReturnRows(pgxmock.NewRows([]string{"poster_id", "status", "workers_needed"}).AddRow(f.poster, status, workers))
	mock.ExpectQuery(applicantsSQL).
		WithArgs(f.app.JobID).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(applicants))
}

func (f applicationFixture) expectNotApplied(mock pgxmock.PgxPoolIface) {
	mock.ExpectQuery(alreadySQL).
		WithArgs(f.app.JobID, f.app.ApplicantID).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
}

func (f applicationFixture) expectUsage(mock pgxmock.PgxPoolIface, usage int) {
	mock.ExpectQuery(usageSQL).
		WithArgs(f.app.ApplicantID, string(domain.ActionApplication), f.since).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(usage))
}

func TestCreateApplicationWithinQuota_Success(t *testing.T) {
	adapter, mock := newMockAdapter(t)
	f := newApplicationFixture()

	f.expectLockedJob(mock, domain.JobStatusOpen, 2, 1)
	f.expectNotApplied(mock)
	f.expectUsage(mock, 0)
	mock.ExpectExec(insertAppSQL).
		WithArgs(f.app.ID, f.app.JobID, f.app.ApplicantID, f.app.CoverLetter, f.app.Status, f.app.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(insertQuotaSQL).
		WithArgs(f.app.ApplicantID, string(domain.ActionApplication), f.app.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	decision, err := adapter.CreateApplicationWithinQuota(context.Background(), f.app, f.since, freeGuard(1))
	require.NoError(t, err)
	assert.True(t, decision.Allowed)
	assert.Equal(t, 0, decision.Usage)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateApplicationWithinQuota_DeniedByQuota(t *testing.T) {
	adapter, mock := newMockAdapter(t)
	f := newApplicationFixture()

	f.expectLockedJob(mock, domain.JobStatusOpen, 3, 0)
	f.expectNotApplied(mock)
	f.expectUsage(mock, 1)
	mock.ExpectRollback()

	decision, err := adapter.CreateApplicationWithinQuota(context.Background(), f.app, f.since, freeGuard(1))
	var denied *domain.QuotaDeniedError
	require.ErrorAs(t, err, &denied)
	assert.False(t, decision.Allowed)
	assert.Equal(t, 1, denied.Decision.Usage)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateApplicationWithinQuota_UniqueViolation(t *testing.T) {
	adapter, mock := newMockAdapter(t)
	f := newApplicationFixture()

	f.expectLockedJob(mock, domain.JobStatusOpen, 2, 0)
	f.expectNotApplied(mock)
	f.expectUsage(mock, 0)
	mock.ExpectExec(insertAppSQL).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "applications_job_id_applicant_id_key"})
	mock.ExpectRollback()

	_, err := adapter.CreateApplicationWithinQuota(context.Background(), f.app, f.since, freeGuard(5))
	assert.ErrorIs(t, err, domain.ErrAlreadyApplied)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateApplicationWithinQuota_JobRulesCheckedBeforeQuota(t *testing.T) {
	tests := []struct {
		name       string
		status     string
		workers    int
		applicants int
		ownJob     bool
		want       error
	}{
		{"filled", domain.JobStatusOpen, 1, 1, false, domain.ErrJobFilled},
		{"closed", domain.JobStatusClosed, 2, 0, false, domain.ErrJobNotOpen},
		{"own job", domain.JobStatusOpen, 2, 0, true, domain.ErrOwnJob},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adapter, mock := newMockAdapter(t)
			f := newApplicationFixture()
			if tt.ownJob {
				f.poster = f.app.ApplicantID
			}

			f.expectLockedJob(mock, tt.status, tt.workers, tt.applicants)
			f.expectNotApplied(mock)
			mock.ExpectRollback()

			guardCalled := false
			guard := func(usage int) domain.QuotaDecision {
				guardCalled = true
				return freeGuard(1)(usage)
			}
			_, err := adapter.CreateApplicationWithinQuota(context.Background(), f.app, f.since, guard)
			assert.ErrorIs(t, err, tt.want)
			assert.False(t, guardCalled)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestCreateApplicationWithinQuota_AlreadyAppliedBeforeJobRules(t *testing.T) {
	adapter, mock := newMockAdapter(t)
	f := newApplicationFixture()

	// вакансия заполнена, но повторный отклик важнее
	f.expectLockedJob(mock, domain.JobStatusOpen, 1, 1)
	mock.ExpectQuery(alreadySQL).
		WithArgs(f.app.JobID, f.app.ApplicantID).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectRollback()

	_, err := adapter.CreateApplicationWithinQuota(context.Background(), f.app, f.since, freeGuard(1))
	assert.ErrorIs(t, err, domain.ErrAlreadyApplied)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateApplicationWithinQuota_JobNotFound(t *testing.T) {
	adapter, mock := newMockAdapter(t)
	f := newApplicationFixture()

	mock.ExpectBegin()
	mock.ExpectExec(lockSQL).WithArgs(pgxmock.AnyArg()).WillReturnResult(pgxmock.NewResult("SELECT", 1))
	mock.ExpectQuery(lockJobSQL).
		WithArgs(f.app.JobID).
		WillReturnRows(pgxmock.NewRows([]string{"poster_id", "status", "workers_needed"}))
	mock.ExpectRollback()

	_, err := adapter.CreateApplicationWithinQuota(context.Background(), f.app, f.since, freeGuard(1))
	assert.ErrorIs(t, err, domain.ErrJobNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateApplicationWithinQuota_LockFailure(t *testing.T) {
	adapter, mock := newMockAdapter(t)
	f := newApplicationFixture()

	mock.ExpectBegin()
	mock.ExpectExec(lockSQL).WithArgs(pgxmock.AnyArg()).WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	_, err := adapter.CreateApplicationWithinQuota(context.Background(), f.app, f.since, freeGuard(1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lock quota counter")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateJobWithinQuota(t *testing.T) {
	adapter, mock := newMockAdapter(t)
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	since := now.AddDate(0, 0, -30)
	job := domain.Job{
		ID:            uuid.New(),
		PosterID:      uuid.New(),
		Title:         "Fix roof",
		Description:   "Leaks",
		Category:      "Carpentry",
		Location:      domain.MustLocation(30.2672, -97.7431),
		WorkersNeeded: 1,
		Status:        domain.JobStatusOpen,
		CreatedAt:     now,
	}

	mock.ExpectBegin()
	mock.ExpectExec(lockSQL).
		WithArgs(quotaLockKey(job.PosterID, domain.ActionJobPosting)).
		WillReturnResult(pgxmock.NewResult("SELECT", 1))
	mock.ExpectQuery(usageSQL).
		WithArgs(job.PosterID, string(domain.ActionJobPosting), since).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(2))
	args := make([]interface{}, 17)
	for i := range args {
		args[i] = pgxmock.AnyArg()
	}
	mock.ExpectExec(insertJobSQL).WithArgs(args...).WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(insertQuotaSQL).
		WithArgs(job.PosterID, string(domain.ActionJobPosting), now).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	decision, err := adapter.CreateJobWithinQuota(context.Background(), job, since, freeGuard(3))
	require.NoError(t, err)
	assert.True(t, decision.Allowed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateJobWithinQuota_Denied(t *testing.T) {
	adapter, mock := newMockAdapter(t)
	since := time.Now().AddDate(0, 0, -30)
	job := domain.Job{ID: uuid.New(), PosterID: uuid.New()}

	mock.ExpectBegin()
	mock.ExpectExec(lockSQL).WithArgs(pgxmock.AnyArg()).WillReturnResult(pgxmock.NewResult("SELECT", 1))
	mock.ExpectQuery(usageSQL).
		WithArgs(job.PosterID, string(domain.ActionJobPosting), since).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectRollback()

	_, err := adapter.CreateJobWithinQuota(context.Background(), job, since, freeGuard(3))
	var denied *domain.QuotaDeniedError
	assert.ErrorAs(t, err, &denied)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateJobLocation(t *testing.T) {
	adapter, mock := newMockAdapter(t)
	jobID := uuid.New()
	loc := domain.MustLocation(30.2672, -97.7431)

	mock.ExpectExec(`UPDATE jobs SET`).
		WithArgs(jobID, loc.Latitude, loc.Longitude, encodeGeohash(loc), "", "").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	require.NoError(t, adapter.UpdateJobLocation(context.Background(), jobID, loc))

	mock.ExpectExec(`UPDATE jobs SET`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	assert.ErrorIs(t, adapter.UpdateJobLocation(context.Background(), uuid.New(), loc), domain.ErrJobNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}
