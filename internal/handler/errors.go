package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/Eursukkul/booking-microservice/reservation-service/internal/dto"
	"github.com/Eursukkul/booking-microservice/reservation-service/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// toHTTPError maps service error kinds onto status codes. Unknown errors are
// logged and reported without detail.
func toHTTPError(log logrus.FieldLogger, err error) *echo.HTTPError {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrInvalidRequest), errors.Is(err, dto.ErrMissingField):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrConflict):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrLifecycleViolation):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	default:
		log.WithError(err).Error("request failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
}

func parseID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return uint(id), nil
}

func queryUint(c echo.Context, name string) (*uint, error) {
	v := c.QueryParam(name)
	if v == "" {
		return nil, nil
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	u := uint(n)
	return &u, nil
}

func queryInt(c echo.Context, name string, def int) (int, error) {
	v := c.QueryParam(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return n, nil
}

func queryBool(c echo.Context, name string) (bool, error) {
	v := c.QueryParam(name)
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return b, nil
}

// pageRequest reads page, limit, sort and order. Bounds are applied by the
// service.
func pageRequest(c echo.Context) (service.PageRequest, error) {
	page, err := queryInt(c, "page", 1)
	if err != nil {
		return service.PageRequest{}, err
	}
	limit, err := queryInt(c, "limit", service.DefaultPageSize)
	if err != nil {
		return service.PageRequest{}, err
	}
	return service.PageRequest{
		Page:  page,
		Limit: limit,
		Sort:  c.QueryParam("sort"),
		Order: c.QueryParam("order"),
	}, nil
}

// bindOptional binds a body that may be absent. Chunked requests report no
// length, so only a missing body or an empty stream counts as absent.
func bindOptional(c echo.Context, dst any) error {
	body := c.Request().Body
	if body == nil || body == http.NoBody {
		return nil
	}
	if err := c.Bind(dst); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func badRequest(err error) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusBadRequest, err.Error())
}
