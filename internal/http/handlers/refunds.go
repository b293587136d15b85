package handlers

import (
	"net/http"

	"ferry-booking/internal/domain/models"
	"ferry-booking/internal/http/middleware"
	"ferry-booking/internal/repositories"
	"ferry-booking/internal/services"

	"github.com/gin-gonic/gin"
)

func refundService(c *gin.Context) services.RefundService {
	return services.RefundService{RequestID: middleware.GetRequestID(c)}
}

type refundRequest struct {
	Reason string `json:"reason"`
}

// POST /api/bookings/:reference/refund
func RequestRefund(c *gin.Context) {
	var req refundRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	refund, err := refundService(c).Request(c.Request.Context(), c.Param("reference"), req.Reason, middleware.GetUserID(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"refund": refund})
}

// GET /api/bookings/:reference/refund
func GetLatestRefund(c *gin.Context) {
	booking, err := (repositories.BookingRepo{}).GetByReference(c.Param("reference"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	refund, err := (repositories.RefundRepo{}).LatestByBooking(booking.ID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"refund": refund})
}

type refundReviewRequest struct {
	Status string `json:"status"`
}

// PUT /api/refunds/:id/review
func ReviewRefund(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req refundReviewRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	refund, err := refundService(c).Review(c.Request.Context(), id, models.RefundStatus(req.Status), middleware.GetUserID(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"refund": refund})
}

// POST /api/refunds/:id/process
func ProcessRefund(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	refund, err := refundService(c).Process(c.Request.Context(), id, middleware.GetUserID(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"refund": refund})
}
