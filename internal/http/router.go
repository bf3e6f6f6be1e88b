package api

import (
	stdhttp "net/http"

	"rentago/internal/domain/models"
	h "rentago/internal/http/handlers"
	"rentago/internal/http/middleware"
	"rentago/internal/utils"

	"github.com/gin-gonic/gin"
)

// NewRouter wires middleware and routes around an assembled Handler.
func NewRouter(hd *h.Handler) *gin.Engine {
	h.RegisterValidators()

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), middleware.CORS(hd.Env.CORSAllowedOrigins))

	if err := r.SetTrustedProxies(nil); err != nil {
		utils.LogWarn("", "http", "init", "failed to set trusted proxies: "+err.Error())
	}

	r.OPTIONS("/*path", func(c *gin.Context) { c.AbortWithStatus(stdhttp.StatusNoContent) })

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route tidak ditemukan",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	optionalAuth := middleware.AuthOptional(hd.Env.JWTSecret)
	requireAuth := middleware.RequireAuth(hd.Env.JWTSecret)
	resolveRole := middleware.ResolveRole(hd.Profiles)

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/db-check", hd.DBCheck)
		api.GET("/routes", h.Routes)

		// Catalogue
		vehicles := api.Group("/vehicles")
		vehicles.GET("", hd.ListVehicles)
		vehicles.GET("/:id", hd.GetVehicle)
		vehicles.GET("/:id/availability", hd.VehicleAvailability)

		// Bookings (guest or authenticated)
		bookings := api.Group("/bookings", optionalAuth)
		bookings.POST("", hd.SubmitBooking)
		bookings.POST("/quote", hd.QuoteBooking)

		// Gateway notifications
		api.POST("/payments/webhook", hd.PaymentWebhook)

		// Guest tracking
		api.POST("/track", hd.TrackBooking)
		api.GET("/track/:order_id/invoice", hd.BookingInvoicePDF)

		// Signed-in customer
		me := api.Group("/me", requireAuth)
		me.GET("", hd.Me)
		me.GET("/bookings", hd.MyBookings)

		// Back office
		admin := api.Group("/admin", requireAuth, resolveRole, middleware.RequireRoles(models.RoleAdmin))
		{
			admin.GET("/dashboard", hd.AdminDashboard)

			admin.POST("/vehicles", hd.CreateVehicle)
			admin.PUT("/vehicles/:id", hd.UpdateVehicle)
			admin.DELETE("/vehicles/:id", hd.DeleteVehicle)

			admin.GET("/promos", hd.ListPromos)
			admin.GET("/promos/:id", hd.GetPromo)
			admin.POST("/promos", hd.CreatePromo)
			admin.PUT("/promos/:id", hd.UpdatePromo)
			admin.DELETE("/promos/:id", hd.DeletePromo)

			admin.GET("/bookings", hd.AdminListBookings)
			admin.GET("/bookings/:id", hd.AdminGetBooking)
			admin.PATCH("/bookings/:id/status", hd.AdminUpdateBookingStatus)

			admin.GET("/users", hd.AdminListUsers)
			admin.POST("/users/:id/toggle-role", hd.AdminToggleUserRole)
		}
	}

	h.SetRouter(r)
	return r
}
