package postgres_adapter

import (
	"context"
	"fmt"
	"time"

	"github.com/furqan-y-khan/workify/internal/core/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mmcloughlin/geohash"
)

// DB - методы *pgxpool.Pool, которыми пользуется адаптер
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var _ DB = (*pgxpool.Pool)(nil)

// PostgresStorageAdapter - реализация портов хранения для PostgreSQL.
type PostgresStorageAdapter struct {
	pool DB
}

func NewPostgresStorageAdapter(pool DB) (*PostgresStorageAdapter, error) {
	if p, ok := pool.(*pgxpool.Pool); pool == nil || (ok && p == nil) {
		return nil, fmt.Errorf("database pool cannot be nil")
	}
	return &PostgresStorageAdapter{pool: pool}, nil
}

// querier - общее между пулом и транзакцией
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const countActionsQuery = `
	SELECT COUNT(*) FROM quota_events
	WHERE user_id = $1 AND action = $2 AND occurred_at >= $3`

func countActions(ctx context.Context, q querier, userID uuid.UUID, action domain.ActionKind, since time.Time) (int, error) {
	var count int
	if err := q.QueryRow(ctx, countActionsQuery, userID, string(action), since).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// quotaLockKey - ключ advisory-блокировки счетчика пользователя по одному действию
func quotaLockKey(userID uuid.UUID, action domain.ActionKind) string {
	return "quota:" + userID.String() + ":" + string(action)
}

// lockQuota сериализует проверку квоты одного пользователя до конца транзакции
func lockQuota(ctx context.Context, tx pgx.Tx, userID uuid.UUID, action domain.ActionKind) error {
	_, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, quotaLockKey(userID, action))
	return err
}

func recordQuotaEvent(ctx context.Context, tx pgx.Tx, userID uuid.UUID, action domain.ActionKind, at time.Time) error {
	_, err := tx.Exec(ctx,
		`INSERT INTO quota_events (user_id, action, occurred_at) VALUES ($1, $2, $3)`,
		userID, string(action), at)
	return err
}

// encodeGeohash возвращает nil для неразрешенной точки
func encodeGeohash(loc domain.Location) *string {
	lat, lon, ok := loc.Coordinates()
	if !ok {
		return nil
	}
	h := geohash.Encode(lat, lon)
	return &h
}
