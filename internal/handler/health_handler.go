package handler

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/Eursukkul/booking-microservice/reservation-service/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

const serviceName = "reservation-service"

// DatabaseHealth is satisfied by *database.Health.
type DatabaseHealth interface {
	Ping(ctx context.Context) error
	Version(ctx context.Context) (string, error)
	Stats() sql.DBStats
}

type HealthHandler struct {
	db      DatabaseHealth
	clients service.ClientService
	log     logrus.FieldLogger
	started time.Time
	now     func() time.Time
}

func NewHealthHandler(db DatabaseHealth, clients service.ClientService, log logrus.FieldLogger) *HealthHandler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &HealthHandler{db: db, clients: clients, log: log, started: time.Now(), now: time.Now}
}

func (h *HealthHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", h.Health)
	e.GET("/health/detailed", h.Detailed)
	e.GET("/health/database", h.Database)
}

type dependencyStatus struct {
	Status         string `json:"status"`
	ResponseTimeMS int64  `json:"response_time_ms"`
}

type detailedHealth struct {
	Status        string           `json:"status"`
	Service       string           `json:"service"`
	Timestamp     time.Time        `json:"timestamp"`
	UptimeSeconds int64            `json:"uptime_seconds"`
	Database      dependencyStatus `json:"database"`
	VIPAPI        dependencyStatus `json:"vip_api"`
}

type poolStats struct {
	Open    int `json:"open"`
	InUse   int `json:"in_use"`
	Idle    int `json:"idle"`
	MaxOpen int `json:"max_open"`
}

type databaseHealth struct {
	Status         string    `json:"status"`
	ResponseTimeMS int64     `json:"response_time_ms"`
	Version        string    `json:"version,omitempty"`
	Pool           poolStats `json:"pool"`
	Error          string    `json:"error,omitempty"`
}

// Health is the liveness check; it never fails on dependencies.
func (h *HealthHandler) Health(c echo.Context) error {
	vipStatus := "ok"
	if !h.clients.ProviderHealthy(c.Request().Context()) {
		vipStatus = "unavailable"
	}
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "ok",
		"service": serviceName,
		"vip_api": vipStatus,
	})
}

// Detailed checks every dependency and answers 503 when any is down.
func (h *HealthHandler) Detailed(c echo.Context) error {
	ctx := c.Request().Context()
	resp := detailedHealth{
		Status:        "ok",
		Service:       serviceName,
		Timestamp:     h.now().UTC(),
		UptimeSeconds: int64(h.now().Sub(h.started).Seconds()),
	}

	start := h.now()
	err := h.db.Ping(ctx)
	resp.Database = dependencyStatus{Status: "connected", ResponseTimeMS: h.now().Sub(start).Milliseconds()}
	if err != nil {
		h.log.WithError(err).Warn("database health check failed")
		resp.Database.Status = "unavailable"
		resp.Status = "degraded"
	}

	start = h.now()
	healthy := h.clients.ProviderHealthy(ctx)
	resp.VIPAPI = dependencyStatus{Status: "ok", ResponseTimeMS: h.now().Sub(start).Milliseconds()}
	if !healthy {
		resp.VIPAPI.Status = "unavailable"
		resp.Status = "degraded"
	}

	code := http.StatusOK
	if resp.Status != "ok" {
		code = http.StatusServiceUnavailable
	}
	return c.JSON(code, resp)
}

func (h *HealthHandler) Database(c echo.Context) error {
	ctx := c.Request().Context()
	start := h.now()
	resp := databaseHealth{Status: "connected"}

	version, err := h.db.Version(ctx)
	if err == nil {
		err = h.db.Ping(ctx)
	}
	resp.ResponseTimeMS = h.now().Sub(start).Milliseconds()
	stats := h.db.Stats()
	resp.Pool = poolStats{Open: stats.OpenConnections, InUse: stats.InUse, Idle: stats.Idle, MaxOpen: stats.MaxOpenConnections}
	if err != nil {
		h.log.WithError(err).Warn("database health check failed")
		resp.Status = "error"
		resp.Error = "database unavailable"
		return c.JSON(http.StatusServiceUnavailable, resp)
	}
	resp.Version = version
	return c.JSON(http.StatusOK, resp)
}
