package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bernardito-luis/eurodelivery/internal/domain/model"
	"github.com/bernardito-luis/eurodelivery/internal/domain/repository"
)

type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

var newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (pgxPool, error) {
	return pgxpool.NewWithConfig(ctx, cfg)
}

// Storage acts as repository factory backed by PostgreSQL.
type Storage struct {
	pool   pgxPool
	logger *slog.Logger
}

var _ repository.Factory = (*Storage)(nil)

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := newPgxPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *Storage) Users() repository.UserRepository {
	return &userRepository{storage: s}
}

func (s *Storage) Orders() repository.OrderRepository {
	return &orderRepository{storage: s}
}

func (s *Storage) Products() repository.ProductRepository {
	return &productRepository{storage: s}
}

func (s *Storage) StatusLogs() repository.StatusLogRepository {
	return &statusLogRepository{storage: s}
}

func (s *Storage) Statuses() repository.StatusRepository {
	return &statusRepository{storage: s}
}

func (s *Storage) Notifications() repository.NotificationRepository {
	return &notificationRepository{storage: s}
}

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
            id BIGSERIAL PRIMARY KEY,
            email TEXT UNIQUE NOT NULL,
            first_name TEXT NOT NULL DEFAULT '',
            last_name TEXT NOT NULL DEFAULT '',
            password_hash TEXT NOT NULL,
            is_superuser BOOLEAN NOT NULL DEFAULT FALSE,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
	`CREATE TABLE IF NOT EXISTS purchase_order_status (
            id SMALLINT PRIMARY KEY,
            name TEXT UNIQUE NOT NULL,
            description TEXT NOT NULL
        )`,
	`CREATE TABLE IF NOT EXISTS purchase_order (
            id BIGSERIAL PRIMARY KEY,
            user_id BIGINT NOT NULL REFERENCES users(id),
            status_id SMALLINT NOT NULL REFERENCES purchase_order_status(id),
            shipping_cost NUMERIC(12,2) NOT NULL DEFAULT 0,
            fee NUMERIC(12,2) NOT NULL DEFAULT 0,
            coupon TEXT NOT NULL DEFAULT '',
            discount NUMERIC(12,2) NOT NULL DEFAULT 0,
            user_comment TEXT NOT NULL DEFAULT '',
            admin_comment TEXT NOT NULL DEFAULT '',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
	`CREATE TABLE IF NOT EXISTS product (
            id BIGSERIAL PRIMARY KEY,
            purchase_order_id BIGINT REFERENCES purchase_order(id),
            user_id BIGINT NOT NULL REFERENCES users(id),
            shop_link TEXT NOT NULL DEFAULT '',
            product_link TEXT NOT NULL,
            vendor_code TEXT NOT NULL DEFAULT '',
            name TEXT NOT NULL DEFAULT '',
            color TEXT NOT NULL,
            size TEXT NOT NULL,
            quantity INTEGER NOT NULL,
            price NUMERIC(12,2) NOT NULL,
            discount_code TEXT NOT NULL DEFAULT '',
            discount_in_shop NUMERIC(12,2) NOT NULL DEFAULT 0,
            note TEXT NOT NULL DEFAULT ''
        )`,
	`CREATE TABLE IF NOT EXISTS status_log (
            id BIGSERIAL PRIMARY KEY,
            purchase_order_id BIGINT NOT NULL REFERENCES purchase_order(id),
            status_id SMALLINT NOT NULL REFERENCES purchase_order_status(id),
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
	`CREATE TABLE IF NOT EXISTS notification_outbox (
            id BIGSERIAL PRIMARY KEY,
            purchase_order_id BIGINT NOT NULL REFERENCES purchase_order(id),
            recipient TEXT NOT NULL,
            subject TEXT NOT NULL,
            body TEXT NOT NULL,
            state TEXT NOT NULL DEFAULT 'pending',
            attempts INTEGER NOT NULL DEFAULT 0,
            last_error TEXT,
            claimed_by TEXT,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
	`CREATE INDEX IF NOT EXISTS idx_purchase_order_user ON purchase_order(user_id, status_id, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_product_order ON product(purchase_order_id)`,
	`CREATE INDEX IF NOT EXISTS idx_status_log_order ON status_log(purchase_order_id, created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_notification_outbox_state ON notification_outbox(state, created_at)`,
}

func (s *Storage) initSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	query, args := seedStatusesQuery(model.Statuses())
	if _, err := s.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("seed statuses: %w", err)
	}

	return nil
}

// seedStatusesQuery upserts the catalogue so descriptions follow the code.
func seedStatusesQuery(statuses []model.StatusInfo) (string, []any) {
	values := make([]string, 0, len(statuses))
	args := make([]any, 0, len(statuses)*3)
	for i, st := range statuses {
		values = append(values, fmt.Sprintf("($%d, $%d, $%d)", i*3+1, i*3+2, i*3+3))
		args = append(args, st.ID, st.Name, st.Description)
	}
	query := `INSERT INTO purchase_order_status (id, name, description) VALUES ` +
		strings.Join(values, ", ") +
		` ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, description = EXCLUDED.description`
	return query, args
}

// WithinTransaction executes function inside transaction boundary.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(pgx.Tx) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = fn(tx)
	return err
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}
