package handler

import (
	"net/http"

	"github.com/Eursukkul/booking-microservice/reservation-service/internal/dto"
	"github.com/Eursukkul/booking-microservice/reservation-service/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

type MaintenanceHandler struct {
	maintenance service.MaintenanceService
	clients     service.ClientService
	log         logrus.FieldLogger
}

func NewMaintenanceHandler(maintenance service.MaintenanceService, clients service.ClientService, log logrus.FieldLogger) *MaintenanceHandler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &MaintenanceHandler{maintenance: maintenance, clients: clients, log: log}
}

func (h *MaintenanceHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/v1/maintenance")
	g.POST("/complete", h.CompleteEnded)
	g.POST("/vip-refresh", h.RefreshVIP)
}

func (h *MaintenanceHandler) CompleteEnded(c echo.Context) error {
	n, err := h.maintenance.CompleteEnded(c.Request().Context())
	if err != nil {
		return toHTTPError(h.log, err)
	}
	return c.JSON(http.StatusOK, dto.CompletedResponse{Completed: n})
}

func (h *MaintenanceHandler) RefreshVIP(c echo.Context) error {
	summary, err := h.clients.RefreshAll(c.Request().Context())
	if err != nil {
		return toHTTPError(h.log, err)
	}
	return c.JSON(http.StatusOK, summary)
}
