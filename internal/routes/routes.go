package routes

import (
	"reflect"
	"strings"
	"time"

	ginlogger "github.com/gin-contrib/logger"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"bustracker/internal/controllers"
	"bustracker/internal/middleware"
)

// Controllers bundles the handler sets wired in main.
type Controllers struct {
	Auth    *controllers.AuthController
	Bus     *controllers.BusController
	Stop    *controllers.StopController
	Expense *controllers.ExpenseController
	Smart   *controllers.SmartController
}

func SetupRouter(ctrl *Controllers) *gin.Engine {
	registerTagNameFunc()

	r := gin.New()
	r.Use(ginlogger.SetLogger())
	r.Use(gin.Recovery())
	r.Use(middleware.CORS())

	r.GET("/test", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "success",
			"message": "Test endpoint is working!",
			"time":    time.Now(),
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	AuthRoutes(r, ctrl.Auth)
	BusRoutes(r, ctrl.Bus)
	StopRoutes(r, ctrl.Stop)
	SmartRoutes(r, ctrl.Expense, ctrl.Smart)

	return r
}

// registerTagNameFunc makes validation errors report json/form field
// names instead of Go struct field names.
func registerTagNameFunc() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return fld.Name
	})
}
