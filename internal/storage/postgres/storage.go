package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/polkiloo/secondfamilies/internal/domain/errors"
	"github.com/polkiloo/secondfamilies/internal/domain/model"
	"github.com/polkiloo/secondfamilies/internal/domain/repository"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

var newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (pgxPool, error) {
	return pgxpool.NewWithConfig(ctx, cfg)
}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   pgxPool
	logger *slog.Logger
}

type userRepository struct {
	storage *Storage
}

type donationRepository struct {
	storage *Storage
}

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
	logger.Info("database schema ready")

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Factory methods for domain repositories.
func (s *Storage) Users() repository.UserRepository {
	return &userRepository{storage: s}
}

func (s *Storage) Donations() repository.DonationRepository {
	return &donationRepository{storage: s}
}

var _ repository.Factory = (*Storage)(nil)

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
            id TEXT PRIMARY KEY,
            email TEXT UNIQUE NOT NULL,
            password_hash TEXT NOT NULL,
            first_name TEXT NOT NULL DEFAULT '',
            last_name TEXT NOT NULL DEFAULT '',
            address TEXT NOT NULL DEFAULT '',
            phone_number TEXT NOT NULL DEFAULT '',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS donations (
            id BIGSERIAL PRIMARY KEY,
            user_id TEXT NOT NULL REFERENCES users(id),
            first_name TEXT,
            last_name TEXT,
            address TEXT,
            phone_number TEXT,
            email TEXT,
            amount TEXT,
            allocation TEXT,
            item TEXT,
            quantity TEXT,
            image_url TEXT,
            need_pickup TEXT,
            can_drop_off TEXT,
            date_pick_drop TEXT,
            donation_type TEXT NOT NULL,
            status TEXT NOT NULL,
            amazon_wish_list TEXT,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE INDEX IF NOT EXISTS idx_donations_user ON donations(user_id, created_at DESC)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// --- UserRepository implementation ---

const userColumns = `id, email, password_hash, first_name, last_name, address, phone_number, created_at`

func scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.Address, &u.PhoneNumber, &u.CreatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	const query = `INSERT INTO users (id, email, password_hash, first_name, last_name, address, phone_number)
                   VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING created_at`
	err := r.storage.pool.QueryRow(ctx, query,
		user.ID, user.Email, user.PasswordHash, user.FirstName, user.LastName, user.Address, user.PhoneNumber,
	).Scan(&user.CreatedAt)
	if err != nil {
		if pgCode(err) == uniqueViolation {
			return domainErrors.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email=$1`
	u, err := scanUser(r.storage.pool.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *userRepository) ListByEmail(ctx context.Context, email string) ([]model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email=$1 ORDER BY created_at`
	rows, err := r.storage.pool.Query(ctx, query, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id=$1`
	u, err := scanUser(r.storage.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	const query = `UPDATE users SET password_hash=$1 WHERE id=$2`
	tag, err := r.storage.pool.Exec(ctx, query, passwordHash, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

// --- DonationRepository implementation ---

func (r *donationRepository) Insert(ctx context.Context, d *model.Donation) (int64, error) {
	const query = `INSERT INTO donations (
                       user_id, first_name, last_name, address, phone_number, email,
                       amount, allocation, item, quantity, image_url, need_pickup,
                       can_drop_off, date_pick_drop, donation_type, status, amazon_wish_list)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
                   RETURNING id, created_at`
	err := r.storage.pool.QueryRow(ctx, query,
		d.UserID, d.FirstName, d.LastName, d.Address, d.PhoneNumber, d.Email,
		d.Amount, d.Allocation, d.Item, d.Quantity, d.ImageURL, d.NeedPickup,
		d.CanDropOff, d.DatePickDrop, string(d.DonationType), d.Status, d.AmazonWishList,
	).Scan(&d.ID, &d.CreatedAt)
	if err != nil {
		if pgCode(err) == foreignKeyViolation {
			return 0, domainErrors.ErrOwnerNotFound
		}
		return 0, err
	}
	return d.ID, nil
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}
