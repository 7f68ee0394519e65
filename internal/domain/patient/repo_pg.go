package patient

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

const cols = `id, clinic_id, name, email, phone_number, sex, created_at, updated_at`

func scan(row pgx.Row) (*Patient, error) {
	var p Patient
	err := row.Scan(&p.ID, &p.ClinicID, &p.Name, &p.Email, &p.PhoneNumber, &p.Sex, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repoPG) Create(ctx context.Context, p *Patient) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO patients (id, clinic_id, name, email, phone_number, sex)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING created_at, updated_at`,
		p.ID, p.ClinicID, p.Name, p.Email, p.PhoneNumber, p.Sex,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	return createErr(err)
}

func createErr(err error) error {
	if db.IsForeignKeyViolation(err) {
		return ErrClinicNotFound
	}
	return err
}

func (r *repoPG) GetByID(ctx context.Context, clinicID, id uuid.UUID) (*Patient, error) {
	return scan(r.conn(ctx).QueryRow(ctx,
		`SELECT `+cols+` FROM patients WHERE id = $1 AND clinic_id = $2`, id, clinicID))
}

func (r *repoPG) Update(ctx context.Context, p *Patient) error {
	err := r.conn(ctx).QueryRow(ctx, `
		UPDATE patients SET name=$3, email=$4, phone_number=$5, sex=$6, updated_at=NOW()
		WHERE id = $1 AND clinic_id = $2
		RETURNING updated_at`,
		p.ID, p.ClinicID, p.Name, p.Email, p.PhoneNumber, p.Sex,
	).Scan(&p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func (r *repoPG) Delete(ctx context.Context, clinicID, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM patients WHERE id = $1 AND clinic_id = $2`, id, clinicID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) ListByClinic(ctx context.Context, clinicID uuid.UUID) ([]*Patient, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+cols+` FROM patients WHERE clinic_id = $1`, clinicID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*Patient
	for rows.Next() {
		p, err := scan(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}
