package patient

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	SexMale   = "male"
	SexFemale = "female"
)

type Patient struct {
	ID          uuid.UUID `json:"id"`
	ClinicID    uuid.UUID `json:"clinic_id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phone_number"`
	Sex         string    `json:"sex"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// UpsertRequest is the body of POST /patients and PUT /patients/:id.
type UpsertRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	Email       string `json:"email" validate:"required,email"`
	PhoneNumber string `json:"phone_number" validate:"required,min=8,max=32"`
	Sex         string `json:"sex" validate:"required,oneof=male female"`
}

func (r *UpsertRequest) normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.PhoneNumber = strings.TrimSpace(r.PhoneNumber)
	r.Sex = strings.ToLower(strings.TrimSpace(r.Sex))
}

func (r *UpsertRequest) apply(p *Patient) {
	p.Name = r.Name
	p.Email = r.Email
	p.PhoneNumber = r.PhoneNumber
	p.Sex = r.Sex
}
