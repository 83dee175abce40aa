package routes

import (
	"github.com/gin-gonic/gin"

	"bustracker/internal/controllers"
	"bustracker/internal/middleware"
)

func AuthRoutes(r *gin.Engine, auth *controllers.AuthController) {
	pub := r.Group("/auth")
	{
		pub.POST("/register", auth.Register)
		pub.POST("/login", auth.Login)
		pub.POST("/login-admin", auth.Login)
		pub.POST("/google-login", auth.GoogleLogin)
		pub.POST("/forgot-password", auth.ForgotPassword)
		pub.POST("/reset-password", auth.ResetPassword)
	}

	priv := r.Group("/")
	priv.Use(middleware.RequireAuth())
	{
		priv.GET("/me", auth.Me)
		priv.POST("/logout", auth.Logout)
		priv.POST("/auth/profile", auth.UpdateProfile)
		priv.POST("/auth/change-password", auth.ChangePassword)
	}

	dev := r.Group("/users")
	dev.Use(middleware.RequireRoles("developer"))
	{
		dev.GET("", auth.ListUsers)
	}
}
