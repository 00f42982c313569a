package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/event-info-api/internal/middleware"
	"github.com/noah-isme/event-info-api/internal/service"
)

// Routes groups everything RegisterRoutes mounts.
type Routes struct {
	Auth          *AuthHandler
	Events        *EventHandler
	Schedule      *ScheduleHandler
	Posts         *PostHandler
	Metrics       *MetricsHandler
	Guard         *middleware.Guard
	Authenticator *service.AuthService
	CookieName    string
	Logger        *zap.Logger
	ExposeMetrics bool
}

// RegisterRoutes mounts the API under /api plus the health and metrics endpoints.
func RegisterRoutes(r *gin.Engine, rt Routes) {
	if rt.Metrics != nil {
		r.GET("/health", rt.Metrics.Health)
		r.GET("/ready", rt.Metrics.Ready)
		if rt.ExposeMetrics {
			r.GET("/metrics", rt.Metrics.Prometheus)
		}
	}

	guard := rt.Guard
	api := r.Group("/api")
	api.Use(middleware.Authenticate(rt.Authenticator, rt.CookieName))

	api.POST("/login", guard.Require(service.OpAuthLogin), middleware.Audit(rt.Logger, "login", "auth"), rt.Auth.Login)
	api.POST("/logout", guard.Require(service.OpAuthLogout), middleware.Audit(rt.Logger, "logout", "auth"), rt.Auth.Logout)
	api.GET("/me", guard.Require(service.OpMeRead), rt.Auth.Me)

	events := api.Group("/events")
	events.GET("", guard.Require(service.OpEventsList), rt.Events.List)
	events.GET("/:id", guard.Require(service.OpEventsGet), rt.Events.Get)
	events.POST("", guard.Require(service.OpEventsCreate), middleware.Audit(rt.Logger, "create", "event"), rt.Events.Create)
	events.PUT("/:id", guard.Require(service.OpEventsUpdate), middleware.Audit(rt.Logger, "update", "event"), rt.Events.Update)
	events.DELETE("/:id", guard.Require(service.OpEventsDelete), middleware.Audit(rt.Logger, "delete", "event"), rt.Events.Delete)

	schedule := api.Group("/schedule")
	schedule.GET("", guard.Require(service.OpScheduleRead), rt.Schedule.List)
	schedule.GET("/export", guard.Require(service.OpScheduleExport), rt.Schedule.Export)
	schedule.GET("/:id", guard.Require(service.OpScheduleRead), rt.Schedule.Get)

	api.GET("/timeline", guard.Require(service.OpTimelineRead), rt.Posts.Timeline)

	posts := api.Group("/posts")
	posts.GET("", guard.Require(service.OpPostsRead), rt.Posts.List)
	posts.GET("/:id", guard.Require(service.OpPostsRead), rt.Posts.Get)
	posts.POST("", guard.Require(service.OpPostsCreate), middleware.Audit(rt.Logger, "create", "post"), rt.Posts.Create)
}
