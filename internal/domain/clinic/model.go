package clinic

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Clinic owns doctors, patients and appointments. Its ID is the clinic_id
// carried by staff tokens.
type Clinic struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type UpsertRequest struct {
	Name string `json:"name" validate:"required,max=255"`
}

func (r *UpsertRequest) normalize() {
	r.Name = strings.TrimSpace(r.Name)
}
