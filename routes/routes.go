package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"court-booking/controllers"
	"court-booking/middleware"
)

func normalizeOrigins(raw []string) []string {
	origins := make([]string, 0, len(raw))
	for _, part := range raw {
		if origin := strings.TrimSpace(part); origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

type Controllers struct {
	Booking  *controllers.BookingController
	Batch    *controllers.BatchController
	Settings *controllers.SettingsController
	Stats    *controllers.StatsController
}

// SetupRouter wires every controller under /api. A non-empty jwtSecret gates
// the API behind bearer tokens.
func SetupRouter(ctl Controllers, corsOrigins []string, jwtSecret string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.Logger())

	origins := normalizeOrigins(corsOrigins)
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.Use(middleware.JWTAuth(jwtSecret))
	{
		bookings := api.Group("/bookings")
		{
			bookings.GET("", ctl.Booking.GetBookings)
			bookings.POST("", ctl.Booking.CreateBooking)
			bookings.GET("/:id", ctl.Booking.GetBooking)
			bookings.DELETE("/:id", ctl.Booking.DeleteBooking)
			bookings.POST("/:id/paid", ctl.Booking.MarkPaid)
			bookings.POST("/:id/no-show", ctl.Booking.MarkNoShow)
			bookings.PATCH("/:id/status", ctl.Booking.UpdateStatus)
			bookings.POST("/:id/recurring", ctl.Booking.ToggleRecurring)
		}

		api.GET("/schedule", ctl.Booking.GetSchedule)
		api.GET("/availability", ctl.Booking.GetAvailability)

		batch := api.Group("/batch")
		{
			batch.POST("/plan", ctl.Batch.Plan)
			batch.POST("", ctl.Batch.Create)

			sessions := batch.Group("/sessions")
			sessions.POST("", ctl.Batch.StartSession)
			sessions.GET("/:id", ctl.Batch.GetSession)
			sessions.PUT("/:id/criteria", ctl.Batch.UpdateCriteria)
			sessions.POST("/:id/next", ctl.Batch.Next)
			sessions.POST("/:id/back", ctl.Batch.Back)
			sessions.POST("/:id/submit", ctl.Batch.Submit)
			sessions.DELETE("/:id", ctl.Batch.Discard)
		}

		settings := api.Group("/settings")
		{
			settings.GET("/facility", ctl.Settings.GetFacilitySettings)
			settings.PUT("/facility", ctl.Settings.UpdateFacilitySettings)
		}

		stats := api.Group("/stats")
		{
			stats.GET("/summary", ctl.Stats.Summary)
			stats.GET("/recent", ctl.Stats.Recent)
			stats.GET("/upcoming", ctl.Stats.Upcoming)
			stats.GET("/past", ctl.Stats.Past)
		}
	}

	return r
}
