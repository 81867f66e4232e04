package identity

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/postify/postify/internal/platform/httpx"
	"github.com/postify/postify/internal/shared"
)

type Repository interface {
	FindByEmail(ctx context.Context, email string) (Owner, error)
	Create(ctx context.Context, owner Owner) (Owner, error)
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) FindByEmail(ctx context.Context, email string) (Owner, error) {
	var o Owner
	err := r.db.QueryRow(ctx,
		`SELECT id, email, name, password_hash, created_at, updated_at
		 FROM owners WHERE LOWER(email) = LOWER($1)`, email,
	).Scan(&o.ID, &o.Email, &o.Name, &o.PasswordHash, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Owner{}, shared.ErrNotFound
	}
	return o, err
}

func (r *repository) Create(ctx context.Context, owner Owner) (Owner, error) {
	now := time.Now().UTC()
	_, err := r.db.Exec(ctx,
		`INSERT INTO owners (id, email, name, password_hash, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $5)`,
		owner.ID, owner.Email, owner.Name, owner.PasswordHash, now)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Owner{}, httpx.ErrDuplicate
		}
		return Owner{}, err
	}
	owner.CreatedAt = now
	owner.UpdatedAt = now
	return owner, nil
}
