package handlers

import (
	"net/http"

	"ferry-booking/internal/domain/models"
	"ferry-booking/internal/http/middleware"
	"ferry-booking/internal/services"

	"github.com/gin-gonic/gin"
)

func tripService(c *gin.Context) services.TripService {
	return services.TripService{RequestID: middleware.GetRequestID(c)}
}

// POST /api/trips/expand
func ExpandSchedule(c *gin.Context) {
	var req services.ExpandScheduleRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	created, err := tripService(c).ExpandSchedule(c.Request.Context(), req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"created_trip_ids": created, "created": len(created)})
}

// GET /api/trips?date=YYYY-MM-DD
func ListTrips(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		RespondError(c, http.StatusBadRequest, "date query parameter is required", nil)
		return
	}
	trips, err := tripService(c).ListByDate(date)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"trips": trips})
}

// GET /api/trips/:id
func GetTrip(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	trip, err := tripService(c).Get(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"trip": trip})
}

type tripStatusRequest struct {
	Status string `json:"status"`
}

// PUT /api/trips/:id/status
func SetTripStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req tripStatusRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	trip, err := tripService(c).SetStatus(id, models.TripStatus(req.Status))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"trip": trip})
}

// DELETE /api/trips/:id
func DeleteTrip(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := tripService(c).Delete(c.Request.Context(), id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "trip deleted"})
}

// GET /api/trips/:id/manifest
func TripManifest(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	entries, err := tripService(c).Manifest(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"manifest": entries})
}

// POST /api/trips/:id/reconcile
func ReconcileTrip(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	count, err := tripService(c).ReconcileWalkIn(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"walk_in_booked": count})
}
