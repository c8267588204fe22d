package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xxsannx/pineus-tilu-booking/internal/service/booking"
)

type BookingHandler struct {
	service booking.BookingUseCase
}

type createBookingRequest struct {
	BookingDate string `json:"booking_date"`
	Amount      int64  `json:"amount"`
}

type verifyBookingRequest struct {
	OTP string `json:"otp"`
}

type createBookingResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	BookingID string `json:"booking_id"`
}

type listBookingsResponse struct {
	Success  bool              `json:"success"`
	Bookings []bookingResponse `json:"bookings"`
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("/bookings", h.create)
	router.GET("/bookings", h.list)
	router.POST("/bookings/:id/verify", h.verify)
	router.POST("/bookings/:id/resend", h.resend)
}

func (h *BookingHandler) create(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	bookingDate, err := time.Parse("2006-01-02", req.BookingDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid booking_date format, expected YYYY-MM-DD"})
		return
	}

	created, err := h.service.CreateBooking(c.Request.Context(), booking.CreateBookingInput{
		UserID:      callerID(c),
		BookingDate: bookingDate,
		Amount:      req.Amount,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, createBookingResponse{
		Success:   true,
		Message:   "booking created, OTP sent to your email",
		BookingID: created.ID,
	})
}

func (h *BookingHandler) verify(c *gin.Context) {
	var req verifyBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	if _, err := h.service.VerifyBooking(c.Request.Context(), callerID(c), c.Param("id"), req.OTP); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse{Success: true, Message: "booking verified"})
}

func (h *BookingHandler) resend(c *gin.Context) {
	if _, err := h.service.ResendOTP(c.Request.Context(), callerID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse{Success: true, Message: "a new OTP has been sent to your email"})
}

func (h *BookingHandler) list(c *gin.Context) {
	bookings, err := h.service.ListBookings(c.Request.Context(), callerID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	resp := listBookingsResponse{Success: true, Bookings: make([]bookingResponse, 0, len(bookings))}
	for i := range bookings {
		resp.Bookings = append(resp.Bookings, toBookingResponse(&bookings[i]))
	}

	c.JSON(http.StatusOK, resp)
}
