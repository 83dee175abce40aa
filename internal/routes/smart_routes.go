package routes

import (
	"github.com/gin-gonic/gin"

	"bustracker/internal/controllers"
	"bustracker/internal/middleware"
)

func SmartRoutes(r *gin.Engine, expense *controllers.ExpenseController, smart *controllers.SmartController) {
	g := r.Group("/smart")
	g.Use(middleware.RequireRoles("admin", "team_lead", "member", "user"))
	{
		g.GET("/expenses", expense.List)
		g.POST("/expenses", expense.Create)
		g.POST("/expenses/overview", expense.Overview)
		g.GET("/expenses/weekly", expense.Weekly)
		g.POST("/expenses/ai-suggestion", smart.AISuggestion)
		g.POST("/camera/damage-analyze", smart.AnalyzeDamage)
		g.POST("/expenses/:id", expense.Update)
		g.DELETE("/expenses/:id", expense.Delete)
	}
}
