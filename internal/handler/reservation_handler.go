package handler

import (
	"net/http"
	"time"

	"github.com/Eursukkul/booking-microservice/reservation-service/internal/dto"
	"github.com/Eursukkul/booking-microservice/reservation-service/internal/models"
	"github.com/Eursukkul/booking-microservice/reservation-service/internal/repository"
	"github.com/Eursukkul/booking-microservice/reservation-service/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

type ReservationHandler struct {
	svc   service.ReservationService
	stats service.StatsService
	log   logrus.FieldLogger
	now   func() time.Time
}

func NewReservationHandler(svc service.ReservationService, stats service.StatsService, log logrus.FieldLogger) *ReservationHandler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &ReservationHandler{svc: svc, stats: stats, log: log, now: time.Now}
}

func (h *ReservationHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/v1/reservations")
	g.POST("", h.CreateReservation)
	g.GET("", h.ListReservations)
	g.GET("/stats", h.GetStats)
	g.GET("/:token", h.GetReservation)
	g.PUT("/:token", h.UpdateReservation)
	g.DELETE("/:token/cancel", h.CancelReservation)

	e.GET("/api/v1/clients/:id/reservations", h.ListClientReservations)
}

func (h *ReservationHandler) respond(c echo.Context, code int, r *models.Reservation) error {
	return c.JSON(code, dto.ToReservationResponse(r, h.now(), h.svc.CancellationCutoff()))
}

func (h *ReservationHandler) CreateReservation(c echo.Context) error {
	var req dto.CreateReservationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	in, err := req.ToInput()
	if err != nil {
		return badRequest(err)
	}

	res, err := h.svc.Create(c.Request().Context(), in)
	if err != nil {
		return toHTTPError(h.log, err)
	}
	return h.respond(c, http.StatusCreated, res)
}

func (h *ReservationHandler) GetReservation(c echo.Context) error {
	res, err := h.svc.Get(c.Request().Context(), c.Param("token"))
	if err != nil {
		return toHTTPError(h.log, err)
	}
	return h.respond(c, http.StatusOK, res)
}

func (h *ReservationHandler) UpdateReservation(c echo.Context) error {
	var req dto.UpdateReservationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	in, err := req.ToInput()
	if err != nil {
		return badRequest(err)
	}

	res, err := h.svc.Update(c.Request().Context(), c.Param("token"), in)
	if err != nil {
		return toHTTPError(h.log, err)
	}
	return h.respond(c, http.StatusOK, res)
}

func (h *ReservationHandler) CancelReservation(c echo.Context) error {
	var req dto.CancelReservationRequest
	if err := bindOptional(c, &req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	res, err := h.svc.Cancel(c.Request().Context(), c.Param("token"), req.Reason)
	if err != nil {
		return toHTTPError(h.log, err)
	}
	return h.respond(c, http.StatusOK, res)
}

// ListReservations pages through reservations matching the query filters.
func (h *ReservationHandler) ListReservations(c echo.Context) error {
	var q service.ReservationQuery
	var err error
	if q.ClientID, err = queryUint(c, "client_id"); err != nil {
		return err
	}
	if q.RoomID, err = queryUint(c, "room_id"); err != nil {
		return err
	}
	if s := c.QueryParam("status"); s != "" {
		rs := models.ReservationStatus(s)
		q.Status = &rs
	}
	if v := c.QueryParam("check_in_from"); v != "" {
		d, err := dto.ParseDate("check_in_from", v)
		if err != nil {
			return badRequest(err)
		}
		q.CheckInFrom = &d
	}
	if v := c.QueryParam("check_in_to"); v != "" {
		d, err := dto.ParseDate("check_in_to", v)
		if err != nil {
			return badRequest(err)
		}
		q.CheckInTo = &d
	}
	if q.VIPOnly, err = queryBool(c, "vip_only"); err != nil {
		return err
	}
	if q.PageRequest, err = pageRequest(c); err != nil {
		return err
	}

	p, err := h.svc.List(c.Request().Context(), q)
	if err != nil {
		return toHTTPError(h.log, err)
	}
	return c.JSON(http.StatusOK, dto.ToReservationPageResponse(p, h.now(), h.svc.CancellationCutoff()))
}

func (h *ReservationHandler) ListClientReservations(c echo.Context) error {
	clientID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	page, err := queryInt(c, "page", 1)
	if err != nil {
		return err
	}
	limit, err := queryInt(c, "limit", 0)
	if err != nil {
		return err
	}
	var status *models.ReservationStatus
	if s := c.QueryParam("status"); s != "" {
		rs := models.ReservationStatus(s)
		status = &rs
	}

	p, err := h.svc.ListByClient(c.Request().Context(), clientID, status, page, limit)
	if err != nil {
		return toHTTPError(h.log, err)
	}
	return c.JSON(http.StatusOK, dto.ToReservationPageResponse(p, h.now(), h.svc.CancellationCutoff()))
}

func (h *ReservationHandler) GetStats(c echo.Context) error {
	var f repository.StatsFilter
	propertyID, err := queryUint(c, "property_id")
	if err != nil {
		return err
	}
	f.PropertyID = propertyID
	if v := c.QueryParam("date_from"); v != "" {
		d, err := dto.ParseDate("date_from", v)
		if err != nil {
			return badRequest(err)
		}
		f.DateFrom = &d
	}
	if v := c.QueryParam("date_to"); v != "" {
		d, err := dto.ParseDate("date_to", v)
		if err != nil {
			return badRequest(err)
		}
		f.DateTo = &d
	}

	stats, err := h.stats.Get(c.Request().Context(), f)
	if err != nil {
		return toHTTPError(h.log, err)
	}
	return c.JSON(http.StatusOK, stats)
}
