package doctor

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/clinic/clinic/internal/platform/availability"
)

// Doctor is a clinic practitioner. Availability times are stored as UTC
// "HH:MM:SS"; week days use 0=Sunday.
type Doctor struct {
	ID                      uuid.UUID `json:"id"`
	ClinicID                uuid.UUID `json:"clinic_id"`
	Name                    string    `json:"name"`
	Specialty               string    `json:"specialty"`
	AvatarURL               *string   `json:"avatar_url,omitempty"`
	AppointmentPriceInCents int       `json:"appointment_price_in_cents"`
	AvailableFromWeekDay    int       `json:"available_from_week_day"`
	AvailableToWeekDay      int       `json:"available_to_week_day"`
	AvailableFromTime       string    `json:"available_from_time"`
	AvailableToTime         string    `json:"available_to_time"`
	CreatedAt               time.Time `json:"created_at"`
	UpdatedAt               time.Time `json:"updated_at"`
}

// Window builds the availability window from the stored fields.
func (d *Doctor) Window() (availability.Window, error) {
	return availability.NewWindow(d.AvailableFromWeekDay, d.AvailableToWeekDay, d.AvailableFromTime, d.AvailableToTime)
}

// UpsertRequest is the body of POST /doctors and PUT /doctors/:id.
type UpsertRequest struct {
	Name                    string `json:"name" validate:"required"`
	Specialty               string `json:"specialty" validate:"required"`
	AvatarURL               string `json:"avatar_url" validate:"avatar_url"`
	AppointmentPriceInCents int    `json:"appointment_price_in_cents" validate:"gte=1"`
	AvailableFromWeekDay    int    `json:"available_from_week_day" validate:"weekday"`
	AvailableToWeekDay      int    `json:"available_to_week_day" validate:"weekday"`
	AvailableFromTime       string `json:"available_from_time" validate:"required,timeofday"`
	AvailableToTime         string `json:"available_to_time" validate:"required,timeofday"`
}

func (r *UpsertRequest) normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Specialty = strings.TrimSpace(r.Specialty)
	r.AvatarURL = strings.TrimSpace(r.AvatarURL)
}

// apply copies the request onto d, storing times in HH:MM:SS form.
func (r *UpsertRequest) apply(d *Doctor, w availability.Window) {
	d.Name = r.Name
	d.Specialty = r.Specialty
	d.AvatarURL = nil
	if r.AvatarURL != "" {
		avatar := r.AvatarURL
		d.AvatarURL = &avatar
	}
	d.AppointmentPriceInCents = r.AppointmentPriceInCents
	d.AvailableFromWeekDay = int(w.FromWeekDay)
	d.AvailableToWeekDay = int(w.ToWeekDay)
	d.AvailableFromTime = w.FromTime.String()
	d.AvailableToTime = w.ToTime.String()
}

// AvailabilityView is returned by GET /doctors/:id/availability.
type AvailabilityView struct {
	DoctorID      uuid.UUID            `json:"doctor_id"`
	Timezone      string               `json:"timezone"`
	Summary       availability.Summary `json:"summary"`
	Date          string               `json:"date,omitempty"`
	DateAvailable *bool                `json:"date_available,omitempty"`
}
