package handler

import (
	"net/http"

	"github.com/Eursukkul/booking-microservice/reservation-service/internal/dto"
	"github.com/Eursukkul/booking-microservice/reservation-service/internal/models"
	"github.com/Eursukkul/booking-microservice/reservation-service/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

type RoomHandler struct {
	rooms        service.RoomService
	reservations service.ReservationService
	log          logrus.FieldLogger
}

func NewRoomHandler(rooms service.RoomService, reservations service.ReservationService, log logrus.FieldLogger) *RoomHandler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &RoomHandler{rooms: rooms, reservations: reservations, log: log}
}

func (h *RoomHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/v1/rooms")
	g.GET("", h.ListRooms)
	g.GET("/available", h.AvailableRooms)
	g.GET("/types", h.RoomTypes)
	g.GET("/:id", h.GetRoom)
}

// ListRooms pages through the rooms of one property.
func (h *RoomHandler) ListRooms(c echo.Context) error {
	var q service.RoomQuery
	var err error
	if q.PropertyID, err = queryUint(c, "property_id"); err != nil {
		return err
	}
	if q.PropertyID == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "property_id is required")
	}
	if q.RoomClassID, err = queryUint(c, "room_class_id"); err != nil {
		return err
	}
	if s := c.QueryParam("status"); s != "" {
		rs := models.RoomStatus(s)
		q.Status = &rs
	}
	if c.QueryParam("floor") != "" {
		floor, err := queryInt(c, "floor", 0)
		if err != nil {
			return err
		}
		q.Floor = &floor
	}
	if q.MinPrice, err = dto.ParseDecimal("min_price", c.QueryParam("min_price")); err != nil {
		return badRequest(err)
	}
	if q.MaxPrice, err = dto.ParseDecimal("max_price", c.QueryParam("max_price")); err != nil {
		return badRequest(err)
	}
	if q.PageRequest, err = pageRequest(c); err != nil {
		return err
	}

	p, err := h.rooms.List(c.Request().Context(), q)
	if err != nil {
		return toHTTPError(h.log, err)
	}
	return c.JSON(http.StatusOK, dto.ToRoomPageResponse(p))
}

func (h *RoomHandler) GetRoom(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	room, err := h.rooms.Get(c.Request().Context(), id)
	if err != nil {
		return toHTTPError(h.log, err)
	}
	return c.JSON(http.StatusOK, dto.ToRoomResponse(room))
}

func (h *RoomHandler) RoomTypes(c echo.Context) error {
	classes, err := h.rooms.Classes(c.Request().Context())
	if err != nil {
		return toHTTPError(h.log, err)
	}
	return c.JSON(http.StatusOK, dto.ToRoomClassResponses(classes))
}

// AvailableRooms lists bookable rooms of a property for a date range, each
// priced for the stay without any VIP discount.
func (h *RoomHandler) AvailableRooms(c echo.Context) error {
	propertyID, err := queryUint(c, "property_id")
	if err != nil {
		return err
	}
	if propertyID == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "property_id is required")
	}
	checkIn, err := dto.ParseDate("check_in_date", c.QueryParam("check_in_date"))
	if err != nil {
		return badRequest(err)
	}
	checkOut, err := dto.ParseDate("check_out_date", c.QueryParam("check_out_date"))
	if err != nil {
		return badRequest(err)
	}
	guests, err := queryInt(c, "guest_count", 1)
	if err != nil {
		return err
	}
	classID, err := queryUint(c, "room_class_id")
	if err != nil {
		return err
	}
	maxPrice, err := dto.ParseDecimal("max_price", c.QueryParam("max_price"))
	if err != nil {
		return badRequest(err)
	}

	quotes, err := h.reservations.AvailableRooms(c.Request().Context(), service.AvailabilityQuery{
		PropertyID:  *propertyID,
		CheckIn:     checkIn,
		CheckOut:    checkOut,
		GuestCount:  guests,
		RoomClassID: classID,
		MaxPrice:    maxPrice,
	})
	if err != nil {
		return toHTTPError(h.log, err)
	}

	resp := make([]dto.RoomQuoteResponse, len(quotes))
	for i, q := range quotes {
		resp[i] = dto.ToRoomQuoteResponse(q)
	}
	return c.JSON(http.StatusOK, resp)
}
