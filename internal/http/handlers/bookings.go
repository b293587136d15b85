package handlers

import (
	"net/http"
	"time"

	"ferry-booking/internal/http/middleware"
	"ferry-booking/internal/repositories"
	"ferry-booking/internal/services"

	"github.com/gin-gonic/gin"
)

func bookingService(c *gin.Context) services.BookingService {
	return services.BookingService{RequestID: middleware.GetRequestID(c)}
}

// POST /api/bookings
func CreateBooking(c *gin.Context) {
	var req services.CreateBookingRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	req.CreatedBy = middleware.GetUserID(c)

	booking, err := bookingService(c).CreateOnline(c.Request.Context(), req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"booking": booking})
}

// POST /api/bookings/walk-in
func CreateWalkInBooking(c *gin.Context) {
	var req services.CreateBookingRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	booking, err := bookingService(c).CreateWalkIn(c.Request.Context(), req, middleware.GetUserID(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"booking": booking})
}

// GET /api/bookings/:reference
func GetBooking(c *gin.Context) {
	booking, err := (repositories.BookingRepo{}).GetByReference(c.Param("reference"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": booking})
}

// POST /api/bookings/:reference/confirm-payment
func ConfirmPayment(c *gin.Context) {
	booking, err := bookingService(c).ConfirmPayment(c.Request.Context(), c.Param("reference"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": booking})
}

// POST /api/bookings/:reference/check-in
func CheckInBooking(c *gin.Context) {
	svc := services.CheckInService{RequestID: middleware.GetRequestID(c)}
	booking, err := svc.Apply(c.Request.Context(), c.Param("reference"), services.ActionCheckIn)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": booking})
}

// POST /api/bookings/:reference/board
func BoardBooking(c *gin.Context) {
	svc := services.CheckInService{RequestID: middleware.GetRequestID(c)}
	booking, err := svc.Apply(c.Request.Context(), c.Param("reference"), services.ActionBoard)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": booking})
}

type rescheduleRequest struct {
	TripID int64 `json:"trip_id"`
}

// POST /api/bookings/:reference/reschedule
func RescheduleBooking(c *gin.Context) {
	var req rescheduleRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	svc := services.RescheduleService{RequestID: middleware.GetRequestID(c)}
	result, err := svc.Reschedule(c.Request.Context(), c.Param("reference"), req.TripID, middleware.GetUserID(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GET /api/bookings/:reference/changes
func ListBookingChanges(c *gin.Context) {
	booking, err := (repositories.BookingRepo{}).GetByReference(c.Param("reference"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	changes, err := (repositories.BookingChangeRepo{}).ListByBooking(booking.ID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"changes": changes})
}

// DELETE /api/bookings/:reference/spam
func DeleteSpamBooking(c *gin.Context) {
	booking, err := (repositories.BookingRepo{}).GetByReference(c.Param("reference"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if err := bookingService(c).DeleteSpam(c.Request.Context(), booking.ID); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "booking deleted", "deleted_at": time.Now().UTC()})
}
