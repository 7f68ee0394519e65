package scheduling

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/clinic/clinic/internal/domain/doctor"
	"github.com/clinic/clinic/internal/domain/patient"
	"github.com/clinic/clinic/internal/platform/auth"
	"github.com/clinic/clinic/internal/platform/availability"
	"github.com/clinic/clinic/internal/platform/validation"
	"github.com/clinic/clinic/pkg/pagination"
)

type Handler struct {
	svc *Service
	loc *time.Location
}

// NewHandler takes the clinic's default zone, used when a request has no
// ?tz= parameter.
func NewHandler(svc *Service, loc *time.Location) *Handler {
	return &Handler{svc: svc, loc: loc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	read := api.Group("", auth.RequireClinic(), auth.RequireRole(auth.RoleReceptionist, auth.RoleDoctor))
	read.GET("/appointments", h.List)
	read.GET("/appointments/:id", h.Get)
	read.POST("/appointments/check", h.Check)
	read.GET("/doctors/:id/slots", h.Slots)

	write := api.Group("", auth.RequireClinic(), auth.RequireRole(auth.RoleReceptionist))
	write.POST("/appointments", h.Create)
	write.PUT("/appointments/:id", h.Update)
	write.DELETE("/appointments/:id", h.Delete)
}

func clinicID(c echo.Context) uuid.UUID {
	id, _ := auth.ClinicIDFromContext(c.Request().Context())
	return id
}

func (h *Handler) location(c echo.Context) (*time.Location, error) {
	loc, err := availability.ResolveLocation(c.QueryParam("tz"), h.loc)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return loc, nil
}

func httpError(err error) error {
	switch {
	case errors.Is(err, ErrMissingClinic):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, ErrAppointmentNotFound),
		errors.Is(err, doctor.ErrNotFound),
		errors.Is(err, patient.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, validation.ErrInvalid):
		return echo.NewHTTPError(http.StatusBadRequest, validation.Message(err))
	case errors.Is(err, availability.ErrInvalidDate),
		errors.Is(err, availability.ErrInvalidTimeFormat),
		errors.Is(err, ErrDateOutsideAvailability),
		errors.Is(err, ErrTimeOutsideAvailability),
		errors.Is(err, ErrDateInPast):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, availability.ErrDuplicatePatientBooking),
		errors.Is(err, availability.ErrDoctorDoubleBooked),
		errors.Is(err, ErrBookingInProgress):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	}
	return echo.NewHTTPError(http.StatusInternalServerError, "internal server error").SetInternal(err)
}

func (h *Handler) bind(c echo.Context) (BookingRequest, *time.Location, error) {
	var req BookingRequest
	if err := c.Bind(&req); err != nil {
		return req, nil, echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	loc, err := h.location(c)
	return req, loc, err
}

func (h *Handler) Create(c echo.Context) error {
	req, loc, err := h.bind(c)
	if err != nil {
		return err
	}
	a, err := h.svc.Book(c.Request().Context(), clinicID(c), req, loc)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, a)
}

func (h *Handler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	req, loc, err := h.bind(c)
	if err != nil {
		return err
	}
	a, err := h.svc.Update(c.Request().Context(), clinicID(c), id, req, loc)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) Check(c echo.Context) error {
	req, loc, err := h.bind(c)
	if err != nil {
		return err
	}
	res, err := h.svc.Check(c.Request().Context(), clinicID(c), req, loc)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	a, err := h.svc.Get(c.Request().Context(), clinicID(c), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) List(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.List(c.Request().Context(), clinicID(c), pg.Limit, pg.Offset)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg))
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.Delete(c.Request().Context(), clinicID(c), id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Slots serves GET /doctors/:id/slots?date=&tz=. Without a date it lists
// today's slots.
func (h *Handler) Slots(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	loc, err := h.location(c)
	if err != nil {
		return err
	}
	date := h.svc.clock().In(loc)
	if raw := c.QueryParam("date"); raw != "" {
		if date, err = availability.ParseDate(raw, loc); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	}
	view, err := h.svc.Slots(c.Request().Context(), clinicID(c), id, date, loc)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, view)
}
