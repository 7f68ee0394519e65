package scheduling

import (
	"context"
	"errors"
	"time"

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

const apptCols = `a.id, a.clinic_id, a.patient_id, a.doctor_id, a.date, a.appointment_price_in_cents,
	a.created_at, a.updated_at`

func scanAppt(row pgx.Row, extra ...any) (*Appointment, error) {
	var a Appointment
	dest := append([]any{&a.ID, &a.ClinicID, &a.PatientID, &a.DoctorID, &a.Date, &a.AppointmentPriceInCents,
		&a.CreatedAt, &a.UpdatedAt}, extra...)
	err := row.Scan(dest...)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, err
	}
	a.Date = a.Date.UTC()
	return &a, nil
}

func (r *repoPG) Upsert(ctx context.Context, a *Appointment) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO appointments AS a (id, clinic_id, patient_id, doctor_id, date, appointment_price_in_cents)
		VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (id) DO UPDATE SET
			patient_id = EXCLUDED.patient_id,
			doctor_id = EXCLUDED.doctor_id,
			date = EXCLUDED.date,
			appointment_price_in_cents = EXCLUDED.appointment_price_in_cents,
			updated_at = NOW()
		WHERE a.clinic_id = EXCLUDED.clinic_id
		RETURNING a.created_at, a.updated_at`,
		a.ID, a.ClinicID, a.PatientID, a.DoctorID, a.Date.UTC(), a.AppointmentPriceInCents,
	).Scan(&a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrAppointmentNotFound
	}
	return err
}

func (r *repoPG) GetByID(ctx context.Context, clinicID, id uuid.UUID) (*Appointment, error) {
	return scanAppt(r.conn(ctx).QueryRow(ctx,
		`SELECT `+apptCols+` FROM appointments a WHERE a.id = $1 AND a.clinic_id = $2`, id, clinicID))
}

func (r *repoPG) Delete(ctx context.Context, clinicID, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM appointments WHERE id = $1 AND clinic_id = $2`, id, clinicID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAppointmentNotFound
	}
	return nil
}

func (r *repoPG) ListByClinic(ctx context.Context, clinicID uuid.UUID, limit, offset int) ([]*AppointmentView, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM appointments WHERE clinic_id = $1`, clinicID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+apptCols+`, p.name, d.name
		FROM appointments a
		JOIN patients p ON p.id = a.patient_id
		JOIN doctors d ON d.id = a.doctor_id
		WHERE a.clinic_id = $1
		ORDER BY a.date DESC
		LIMIT $2 OFFSET $3`, clinicID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*AppointmentView
	for rows.Next() {
		var v AppointmentView
		a, err := scanAppt(rows, &v.PatientName, &v.DoctorName)
		if err != nil {
			return nil, 0, err
		}
		v.Appointment = *a
		items = append(items, &v)
	}
	return items, total, rows.Err()
}

func (r *repoPG) ListForDoctorBetween(ctx context.Context, clinicID, doctorID uuid.UUID, from, to time.Time) ([]*Appointment, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+apptCols+` FROM appointments a
		WHERE a.clinic_id = $1 AND a.doctor_id = $2 AND a.date BETWEEN $3 AND $4
		ORDER BY a.date`, clinicID, doctorID, from.UTC(), to.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*Appointment
	for rows.Next() {
		a, err := scanAppt(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, rows.Err()
}
