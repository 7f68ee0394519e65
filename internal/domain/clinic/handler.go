package clinic

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/clinic/clinic/internal/platform/auth"
	"github.com/clinic/clinic/internal/platform/validation"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the caller's clinic at /clinics/current. POST
// /clinics registers it on first sign-in.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	read := api.Group("", auth.RequireClinic(), auth.RequireRole(auth.RoleReceptionist, auth.RoleDoctor))
	read.GET("/clinics/current", h.Get)

	write := api.Group("", auth.RequireClinic(), auth.RequireRole(auth.RoleReceptionist))
	write.POST("/clinics", h.Register)
	write.PUT("/clinics/current", h.Rename)
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
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrAlreadyExists):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, validation.ErrInvalid):
		return echo.NewHTTPError(http.StatusBadRequest, validation.Message(err))
	}
	return echo.NewHTTPError(http.StatusInternalServerError, "internal server error").SetInternal(err)
}

func (h *Handler) Register(c echo.Context) error {
	id, err := clinicID(c)
	if err != nil {
		return err
	}
	var req UpsertRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	cl, err := h.svc.Register(c.Request().Context(), id, req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, cl)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := clinicID(c)
	if err != nil {
		return err
	}
	cl, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, cl)
}

func (h *Handler) Rename(c echo.Context) error {
	id, err := clinicID(c)
	if err != nil {
		return err
	}
	var req UpsertRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	cl, err := h.svc.Rename(c.Request().Context(), id, req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, cl)
}
