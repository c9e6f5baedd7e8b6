package scheduling

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/clinic/clinic/internal/platform/auth"
	"github.com/clinic/clinic/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	grp := api.Group("", auth.RequireRole("admin", "doctor", "nurse", "registrar"))
	grp.GET("/appointments", h.ListAppointments)
	grp.GET("/appointments/:id", h.GetAppointment)
	grp.POST("/appointments", h.CreateAppointment)
	grp.PUT("/appointments/:id", h.UpdateAppointment)
	grp.PATCH("/appointments/:id/status", h.UpdateStatus)
	grp.DELETE("/appointments/:id", h.DeleteAppointment)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrPatientNotFound),
		errors.Is(err, ErrStaffNotFound), errors.Is(err, ErrDepartmentNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrStaffSlotTaken), errors.Is(err, ErrPatientSlotTaken):
		return http.StatusConflict
	case errors.Is(err, ErrDeleteForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) CreateAppointment(c echo.Context) error {
	var appt Appointment
	if err := c.Bind(&appt); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateAppointment(c.Request().Context(), &appt); err != nil {
		return echo.NewHTTPError(statusFor(err), err.Error())
	}
	return c.JSON(http.StatusCreated, appt)
}

func (h *Handler) GetAppointment(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	appt, err := h.svc.GetAppointment(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(statusFor(err), err.Error())
	}
	return c.JSON(http.StatusOK, appt)
}

func (h *Handler) ListAppointments(c echo.Context) error {
	pg := pagination.FromContext(c)
	ctx := c.Request().Context()

	var (
		items []*Appointment
		total int
		err   error
	)
	switch {
	case c.QueryParam("patient_id") != "":
		var pid uuid.UUID
		if pid, err = uuid.Parse(c.QueryParam("patient_id")); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid patient_id")
		}
		items, total, err = h.svc.ListAppointmentsByPatient(ctx, pid, pg.Limit, pg.Offset)
	case c.QueryParam("staff_id") != "":
		var sid uuid.UUID
		if sid, err = uuid.Parse(c.QueryParam("staff_id")); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid staff_id")
		}
		items, total, err = h.svc.ListAppointmentsByStaff(ctx, sid, pg.Limit, pg.Offset)
	case c.QueryParam("department_id") != "":
		var did uuid.UUID
		if did, err = uuid.Parse(c.QueryParam("department_id")); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid department_id")
		}
		items, total, err = h.svc.ListAppointmentsByDepartment(ctx, did, pg.Limit, pg.Offset)
	case c.QueryParam("status") != "":
		items, total, err = h.svc.ListAppointmentsByStatus(ctx, c.QueryParam("status"), pg.Limit, pg.Offset)
	case c.QueryParam("reason") != "":
		items, total, err = h.svc.SearchAppointmentsByReason(ctx, c.QueryParam("reason"), pg.Limit, pg.Offset)
	case c.QueryParam("from") != "" && c.QueryParam("to") != "":
		var from, to time.Time
		if from, err = time.Parse(time.RFC3339, c.QueryParam("from")); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid from timestamp")
		}
		if to, err = time.Parse(time.RFC3339, c.QueryParam("to")); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid to timestamp")
		}
		items, total, err = h.svc.ListAppointmentsByDateRange(ctx, from, to, pg.Limit, pg.Offset)
	default:
		items, total, err = h.svc.ListAppointments(ctx, pg.Limit, pg.Offset)
	}
	if err != nil {
		return echo.NewHTTPError(statusFor(err), err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) UpdateAppointment(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req UpdateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	appt, err := h.svc.UpdateAppointment(c.Request().Context(), id, &req)
	if err != nil {
		return echo.NewHTTPError(statusFor(err), err.Error())
	}
	return c.JSON(http.StatusOK, appt)
}

func (h *Handler) UpdateStatus(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	appt, err := h.svc.UpdateStatus(c.Request().Context(), id, body.Status)
	if err != nil {
		return echo.NewHTTPError(statusFor(err), err.Error())
	}
	return c.JSON(http.StatusOK, appt)
}

// DeleteAppointment requires the caller to identify the appointment's
// patient/staff pair via query parameters; a mismatch on either side is
// refused.
func (h *Handler) DeleteAppointment(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	patientID, err := uuid.Parse(c.QueryParam("patient_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "patient_id query parameter required")
	}
	staffID, err := uuid.Parse(c.QueryParam("staff_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "staff_id query parameter required")
	}
	if err := h.svc.DeleteAppointment(c.Request().Context(), id, patientID, staffID); err != nil {
		return echo.NewHTTPError(statusFor(err), err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
