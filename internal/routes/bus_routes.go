package routes

import (
	"github.com/gin-gonic/gin"

	"bustracker/internal/controllers"
	"bustracker/internal/middleware"
)

func BusRoutes(r *gin.Engine, bus *controllers.BusController) {
	// Device-facing endpoints are public for now; trackers do not carry
	// credentials.
	pub := r.Group("/buses")
	{
		pub.GET("/:id/tracking", bus.Tracking)
		pub.POST("/:id/location", bus.UpdateLocation)
		pub.GET("/:id/history", bus.History)
	}

	admin := r.Group("/buses")
	admin.Use(middleware.RequireRoles("admin", "team_lead", "member", "user"))
	{
		admin.GET("", bus.List)
		admin.POST("", bus.Create)
		admin.POST("/:id", bus.Update)
	}
}
