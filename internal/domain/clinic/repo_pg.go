package clinic

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinic/clinic/internal/platform/db"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) db.Querier {
	return db.Conn(ctx, r.pool)
}

func (r *repoPG) Create(ctx context.Context, c *Clinic) error {
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO clinics (id, name) VALUES ($1, $2)
		RETURNING created_at, updated_at`,
		c.ID, c.Name,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
	if db.IsUniqueViolation(err) {
		return ErrAlreadyExists
	}
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Clinic, error) {
	var c Clinic
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT id, name, created_at, updated_at FROM clinics WHERE id = $1`, id,
	).Scan(&c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repoPG) Update(ctx context.Context, c *Clinic) error {
	err := r.conn(ctx).QueryRow(ctx, `
		UPDATE clinics SET name = $2, updated_at = NOW() WHERE id = $1
		RETURNING created_at, updated_at`,
		c.ID, c.Name,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
