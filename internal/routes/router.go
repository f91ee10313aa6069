// internal/routes/router.go
package routes

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Sannikov1993/PosResto-sub000/internal/attendance"
	"github.com/Sannikov1993/PosResto-sub000/internal/handlers"
	"github.com/Sannikov1993/PosResto-sub000/internal/middleware"
)

func NewRouter(db *gorm.DB, svc *attendance.Service) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:8080"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Api-Key"},
		AllowCredentials: true,
	}))

	authH := handlers.NewAuthHandler(db)
	webhookH := handlers.NewWebhookHandler(svc)
	qrH := handlers.NewQRHandler(db, svc)
	sessionH := handlers.NewSessionHandler(db, svc)
	overrideH := handlers.NewOverrideHandler(db)
	timesheetH := handlers.NewTimesheetHandler(db, svc)
	deviceH := handlers.NewDeviceHandler(db, svc)

	api := r.Group("/api/v1")
	{
		api.GET("/health", handlers.Health)
		api.POST("/auth/register", authH.RegisterOwner)
		api.POST("/auth/login", authH.Login)

		// Terminal ingress authenticates with the per-device api key, not a JWT.
		api.POST("/webhook/heartbeat", webhookH.Heartbeat)
		api.POST("/webhook/:vendor", webhookH.Receive)
	}

	authed := r.Group("/api/v1")
	authed.Use(middleware.AuthRequired())
	{
		authed.GET("/auth/me", authH.Me)
		authed.POST("/attendance/qr", qrH.Clock)
	}

	admin := r.Group("/api/v1")
	admin.Use(middleware.AuthRequired(), middleware.RequireManager())
	{
		admin.GET("/attendance/qr/code", qrH.CurrentCode)

		admin.GET("/sessions", sessionH.List)
		admin.POST("/sessions", sessionH.Create)
		admin.POST("/sessions/:id/close", sessionH.Close)
		admin.PUT("/sessions/:id", sessionH.Correct)
		admin.DELETE("/sessions/:id", sessionH.Delete)
		admin.DELETE("/events/:id", sessionH.DeleteEvent)

		admin.GET("/overrides", overrideH.List)
		admin.PUT("/overrides", overrideH.Upsert)
		admin.DELETE("/overrides", overrideH.Delete)

		admin.GET("/timesheet", timesheetH.Monthly)
		admin.GET("/timesheet/users/:id", timesheetH.User)

		admin.GET("/devices", deviceH.List)
		admin.POST("/devices", deviceH.Create)
		admin.GET("/devices/:id", deviceH.Get)
		admin.PUT("/devices/:id", deviceH.Update)
		admin.DELETE("/devices/:id", deviceH.Delete)
		admin.POST("/devices/:id/rotate-key", deviceH.RotateKey)
		admin.GET("/devices/:id/users", deviceH.ListLinks)
		admin.POST("/devices/:id/users", deviceH.LinkUser)
		admin.DELETE("/devices/:id/users/:linkID", deviceH.UnlinkUser)
	}

	return r
}
