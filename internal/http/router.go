package api

import (
	"log"
	stdhttp "net/http"
	"time"

	intconfig "ferry-booking/internal/config"
	h "ferry-booking/internal/http/handlers"
	"ferry-booking/internal/http/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func NewRouter(env intconfig.Env) *gin.Engine {
	h.SetJWTSecret(env.JWTSecret)

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     env.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization", "Accept", "Origin"},
		AllowCredentials: true,
		MaxAge:           24 * time.Hour,
	}))

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	auth := middleware.Auth([]byte(env.JWTSecret))
	staff := middleware.RequireRoles("admin", "staff")
	admin := middleware.RequireRoles("admin")

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/db-check", h.DBCheck)
		api.GET("/routes", h.Routes)

		authGroup := api.Group("/auth")
		authGroup.POST("/login", h.Login)
		authGroup.POST("/register", h.Register)

		trips := api.Group("/trips")
		trips.GET("", h.ListTrips)
		trips.GET("/:id", h.GetTrip)
		trips.POST("/expand", auth, staff, h.ExpandSchedule)
		trips.PUT("/:id/status", auth, staff, h.SetTripStatus)
		trips.DELETE("/:id", auth, admin, h.DeleteTrip)
		trips.GET("/:id/manifest", auth, staff, h.TripManifest)
		trips.POST("/:id/reconcile", auth, staff, h.ReconcileTrip)

		bookings := api.Group("/bookings")
		bookings.POST("", h.CreateBooking)
		bookings.POST("/walk-in", auth, staff, h.CreateWalkInBooking)
		bookings.GET("/:reference", h.GetBooking)
		bookings.POST("/:reference/confirm-payment", h.ConfirmPayment)
		bookings.POST("/:reference/check-in", auth, staff, h.CheckInBooking)
		bookings.POST("/:reference/board", auth, staff, h.BoardBooking)
		bookings.POST("/:reference/reschedule", h.RescheduleBooking)
		bookings.GET("/:reference/changes", h.ListBookingChanges)
		bookings.POST("/:reference/refund", h.RequestRefund)
		bookings.GET("/:reference/refund", h.GetLatestRefund)
		bookings.GET("/:reference/receipt", h.GetReceiptPDF)
		bookings.GET("/:reference/passengers/:position/e-ticket", h.GetETicketPDF)
		bookings.DELETE("/:reference/spam", auth, staff, h.DeleteSpamBooking)

		refunds := api.Group("/refunds", auth, staff)
		refunds.PUT("/:id/review", h.ReviewRefund)
		refunds.POST("/:id/process", h.ProcessRefund)

		restrictions := api.Group("/restrictions", auth, staff)
		restrictions.GET("/:profileID", h.GetRestriction)
		restrictions.POST("/:profileID/warn", h.WarnProfile)
		restrictions.POST("/:profileID/block", h.BlockProfile)
		restrictions.POST("/:profileID/unblock", h.UnblockProfile)
		restrictions.POST("/:profileID/clear-warnings", h.ClearProfileWarnings)
	}

	h.SetRouter(r)
	return r
}
