package api

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/wb-go/wbf/ginext"

	"eventpay/cmd/middleware"
	"eventpay/internal/service"
)

type Routers struct {
	Service        service.Service
	FrontendOrigin string
}

func NewRouters(r *Routers) *ginext.Engine {
	app := ginext.New("release")

	app.Use(middleware.LoggingMiddleware())
	app.Use(corsMiddleware(r.FrontendOrigin))

	app.GET("/", r.Service.Root)
	app.GET("/health", r.Service.Health)

	app.GET("/event", r.Service.GetEvent)
	app.PUT("/event", r.Service.UpdateEvent)

	app.POST("/register", r.Service.Register)
	app.GET("/registrations", r.Service.GetRegistrations)

	app.POST("/create-order", r.Service.CreateOrder)
	app.POST("/verify-payment", r.Service.VerifyPayment)

	app.POST("/admin/login", r.Service.AdminLogin)
	app.POST("/send-whatsapp", r.Service.SendWhatsApp)

	return app
}

// corsMiddleware allows only the configured front-end origin; with no
// origin configured it falls back to the permissive default.
func corsMiddleware(origin string) gin.HandlerFunc {
	if origin == "" {
		return cors.Default()
	}
	cfg := cors.DefaultConfig()
	cfg.AllowOrigins = []string{origin}
	cfg.AllowMethods = []string{"GET", "POST", "PUT", "OPTIONS"}
	cfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	return cors.New(cfg)
}
