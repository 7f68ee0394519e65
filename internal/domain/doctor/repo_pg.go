package doctor

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

const cols = `id, clinic_id, name, specialty, avatar_url, appointment_price_in_cents,
	available_from_week_day, available_to_week_day,
	to_char(available_from_time, 'HH24:MI:SS'), to_char(available_to_time, 'HH24:MI:SS'),
	created_at, updated_at`

func scan(row pgx.Row) (*Doctor, error) {
	var d Doctor
	err := row.Scan(&d.ID, &d.ClinicID, &d.Name, &d.Specialty, &d.AvatarURL, &d.AppointmentPriceInCents,
		&d.AvailableFromWeekDay, &d.AvailableToWeekDay,
		&d.AvailableFromTime, &d.AvailableToTime,
		&d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *repoPG) Create(ctx context.Context, d *Doctor) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO doctors (id, clinic_id, name, specialty, avatar_url, appointment_price_in_cents,
			available_from_week_day, available_to_week_day, available_from_time, available_to_time)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9::time,$10::time)
		RETURNING created_at, updated_at`,
		d.ID, d.ClinicID, d.Name, d.Specialty, d.AvatarURL, d.AppointmentPriceInCents,
		d.AvailableFromWeekDay, d.AvailableToWeekDay, d.AvailableFromTime, d.AvailableToTime,
	).Scan(&d.CreatedAt, &d.UpdatedAt)
	return createErr(err)
}

func createErr(err error) error {
	if db.IsForeignKeyViolation(err) {
		return ErrClinicNotFound
	}
	return err
}

func (r *repoPG) GetByID(ctx context.Context, clinicID, id uuid.UUID) (*Doctor, error) {
	return scan(r.conn(ctx).QueryRow(ctx,
		`SELECT `+cols+` FROM doctors WHERE id = $1 AND clinic_id = $2`, id, clinicID))
}

func (r *repoPG) Update(ctx context.Context, d *Doctor) error {
	err := r.conn(ctx).QueryRow(ctx, `
		UPDATE doctors SET name=$3, specialty=$4, avatar_url=$5, appointment_price_in_cents=$6,
			available_from_week_day=$7, available_to_week_day=$8,
			available_from_time=$9::time, available_to_time=$10::time, updated_at=NOW()
		WHERE id = $1 AND clinic_id = $2
		RETURNING updated_at`,
		d.ID, d.ClinicID, d.Name, d.Specialty, d.AvatarURL, d.AppointmentPriceInCents,
		d.AvailableFromWeekDay, d.AvailableToWeekDay, d.AvailableFromTime, d.AvailableToTime,
	).Scan(&d.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func (r *repoPG) Delete(ctx context.Context, clinicID, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM doctors WHERE id = $1 AND clinic_id = $2`, id, clinicID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListByClinic returns every doctor of the clinic; ordering is applied by
// the service.
func (r *repoPG) ListByClinic(ctx context.Context, clinicID uuid.UUID) ([]*Doctor, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+cols+` FROM doctors WHERE clinic_id = $1`, clinicID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*Doctor
	for rows.Next() {
		d, err := scan(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	return items, rows.Err()
}
