package handler

import (
	"net/http"
	"strconv"

	"github.com/Eursukkul/booking-microservice/reservation-service/internal/dto"
	"github.com/Eursukkul/booking-microservice/reservation-service/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

type ClientHandler struct {
	svc service.ClientService
	log logrus.FieldLogger
}

func NewClientHandler(svc service.ClientService, log logrus.FieldLogger) *ClientHandler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &ClientHandler{svc: svc, log: log}
}

func (h *ClientHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/v1/clients")
	g.POST("", h.UpsertClient)
	g.GET("", h.ListClients)
	g.GET("/search", h.SearchByEmail)
	g.GET("/:id", h.GetClient)
	g.GET("/:id/vip-status", h.VIPStatus)
}

// ListClients pages through clients; search matches names and email.
func (h *ClientHandler) ListClients(c echo.Context) error {
	q := service.ClientQuery{Search: c.QueryParam("search")}
	var err error
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
	return c.JSON(http.StatusOK, dto.ToClientPageResponse(p))
}

func (h *ClientHandler) GetClient(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	client, err := h.svc.Find(c.Request().Context(), id)
	if err != nil {
		return toHTTPError(h.log, err)
	}
	return c.JSON(http.StatusOK, dto.ToClientResponse(client))
}

// SearchByEmail looks a client up by exact, normalized email.
func (h *ClientHandler) SearchByEmail(c echo.Context) error {
	email := c.QueryParam("email")
	if email == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email is required")
	}
	client, err := h.svc.FindByEmail(c.Request().Context(), email)
	if err != nil {
		return toHTTPError(h.log, err)
	}
	return c.JSON(http.StatusOK, dto.ToClientResponse(client))
}

// UpsertClient finds or creates a client by email and returns a freshly
// checked VIP status.
func (h *ClientHandler) UpsertClient(c echo.Context) error {
	var req dto.ClientRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	res, err := h.svc.Resolve(c.Request().Context(), req.ToInput(), true)
	if err != nil {
		return toHTTPError(h.log, err)
	}
	return c.JSON(http.StatusOK, dto.ToVIPStatusResponse(res))
}

func (h *ClientHandler) VIPStatus(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	res, err := h.svc.VIPStatus(c.Request().Context(), id, forceRefresh(c))
	if err != nil {
		return toHTTPError(h.log, err)
	}
	return c.JSON(http.StatusOK, dto.ToVIPStatusResponse(res))
}

func forceRefresh(c echo.Context) bool {
	v, _ := strconv.ParseBool(c.QueryParam("force_refresh"))
	return v
}
