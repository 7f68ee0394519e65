package doctor

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

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
	read.GET("/doctors", h.List)
	read.GET("/doctors/:id", h.Get)
	read.GET("/doctors/:id/availability", h.Availability)

	write := api.Group("", auth.RequireClinic(), auth.RequireRole(auth.RoleReceptionist))
	write.POST("/doctors", h.Create)
	write.PUT("/doctors/:id", h.Update)
	write.DELETE("/doctors/:id", h.Delete)
}

func clinicID(c echo.Context) (uuid.UUID, error) {
	id, ok := auth.ClinicIDFromContext(c.Request().Context())
	if !ok {
		return uuid.Nil, echo.NewHTTPError(http.StatusForbidden, "clinic not found")
	}
	return id, nil
}

func httpError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrClinicNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, validation.ErrInvalid):
		return echo.NewHTTPError(http.StatusBadRequest, validation.Message(err))
	case errors.Is(err, availability.ErrInvalidAvailabilityWindow),
		errors.Is(err, availability.ErrInvalidTimeFormat),
		errors.Is(err, availability.ErrInvalidWeekDay):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return echo.NewHTTPError(http.StatusInternalServerError, "internal server error").SetInternal(err)
}

func (h *Handler) Create(c echo.Context) error {
	cid, err := clinicID(c)
	if err != nil {
		return err
	}
	var req UpsertRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	d, err := h.svc.Create(c.Request().Context(), cid, req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, d)
}

func (h *Handler) Get(c echo.Context) error {
	cid, err := clinicID(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	d, err := h.svc.Get(c.Request().Context(), cid, id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, d)
}

func (h *Handler) List(c echo.Context) error {
	cid, err := clinicID(c)
	if err != nil {
		return err
	}
	items, err := h.svc.List(c.Request().Context(), cid)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, pagination.Page(items, pagination.FromContext(c)))
}

func (h *Handler) Update(c echo.Context) error {
	cid, err := clinicID(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req UpsertRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	d, err := h.svc.Update(c.Request().Context(), cid, id, req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, d)
}

func (h *Handler) Delete(c echo.Context) error {
	cid, err := clinicID(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.Delete(c.Request().Context(), cid, id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Availability serves GET /doctors/:id/availability?tz=&date=.
func (h *Handler) Availability(c echo.Context) error {
	cid, err := clinicID(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	loc, err := availability.ResolveLocation(c.QueryParam("tz"), h.loc)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	var date time.Time
	if raw := c.QueryParam("date"); raw != "" {
		if date, err = availability.ParseDate(raw, loc); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	}
	view, err := h.svc.Availability(c.Request().Context(), cid, id, loc, date)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, view)
}
