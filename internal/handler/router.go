package handler

import (
	"log"
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"driver-scheduler/internal/middleware"
	"driver-scheduler/internal/rpc"
)

type RouterOptions struct {
	CORSOrigins  []string
	LoginLimiter *middleware.RateLimiter // nil disables login rate limiting
	GRPCWeb      http.Handler            // served at /<service>/<method> when set
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID",
			"X-Grpc-Web", "X-User-Agent"},
		ExposeHeaders: []string{"X-Request-ID", "Content-Disposition", "Grpc-Status", "Grpc-Message"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	}
	return cfg
}

func NewRouter(h *Handler, o RouterOptions) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), cors.New(corsConfig(o.CORSOrigins)))
	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not Found"})
	})

	api := r.Group("/api")
	api.GET("/health", h.Health)

	login := []gin.HandlerFunc{h.Login}
	if o.LoginLimiter != nil {
		login = append([]gin.HandlerFunc{middleware.RateLimitHTTP(o.LoginLimiter)}, login...)
	}
	api.POST("/auth/login", login...)
	api.GET("/auth/pattern-status", h.PatternStatus)

	authed := api.Group("", middleware.RequireToken(h.svc))
	authed.POST("/auth/setup-pattern", h.SetupPattern)

	types := authed.Group("/appointment-types")
	types.POST("", h.CreateType)
	types.GET("", h.ListTypes)
	types.PUT("/:id", h.UpdateType)
	types.DELETE("/:id", h.DeleteType)

	appts := authed.Group("/appointments")
	appts.POST("", h.CreateAppointment)
	appts.GET("", h.ListAppointments)
	appts.GET("/stats/income", h.IncomeStats)
	appts.GET("/stats/income/pdf", h.IncomeReport)
	appts.GET("/:id", h.GetAppointment)
	appts.PUT("/:id", h.UpdateAppointment)
	appts.DELETE("/:id", h.DeleteAppointment)
	appts.GET("/:id/sms", h.RenderSMS)

	authed.GET("/sms-template", h.SMSTemplate)
	authed.PUT("/sms-template", h.SaveSMSTemplate)

	if o.GRPCWeb != nil {
		r.POST("/"+rpc.ServiceName+"/:method", gin.WrapH(o.GRPCWeb))
	}
	return r
}
