package routes

import (
	"github.com/gin-gonic/gin"

	"bustracker/internal/controllers"
)

func StopRoutes(r *gin.Engine, stop *controllers.StopController) {
	stops := r.Group("/stops")
	{
		stops.GET("", stop.List)
		stops.POST("", stop.Create)
		stops.PUT("/:id", stop.Update)
		stops.DELETE("/:id", stop.Delete)
	}
}
