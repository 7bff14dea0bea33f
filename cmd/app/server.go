package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"tripplanner/internal/api/controllers"
	"tripplanner/internal/config"
	mem "tripplanner/pkg/memcache"
	"tripplanner/pkg/middleware"
)

func StartServer(lc fx.Lifecycle, shutdowner fx.Shutdowner, cfg *config.Config, engine *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			log.Info("starting HTTP server", zap.String("addr", srv.Addr))
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("HTTP server stopped", zap.Error(err))
					_ = shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("stopping HTTP server")
			return srv.Shutdown(ctx)
		},
	})
}

func ProvideRouter(
	cfg *config.Config,
	log *zap.Logger,
	limiters mem.LimiterStore,
	healthController *controllers.HealthController,
	tripPlanController *controllers.TripPlanController) *gin.Engine {

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.TraceIDMiddleware())
	r.Use(middleware.RequestLoggerMiddleware(log))
	r.Use(middleware.CORSMiddleware(cfg.Server.CORSAllowedOrigins))

	session := middleware.SessionMiddleware(middleware.SessionOptions{
		Secret:     []byte(cfg.Session.Secret),
		CookieName: cfg.Session.CookieName,
		TTL:        cfg.Session.TTL,
		Secure:     cfg.Session.Secure,
	})

	RegisterRoutes(r, session, middleware.RateLimitMiddleware(limiters), healthController, tripPlanController)

	return r
}

func RegisterRoutes(r *gin.Engine,
	session gin.HandlerFunc,
	generateLimit gin.HandlerFunc,
	healthController *controllers.HealthController,
	tripPlanController *controllers.TripPlanController) {

	r.GET("/health", healthController.HealthCheck)

	tripPlansGroup := r.Group("/trip-plans", session)
	tripPlansGroup.GET("/form", tripPlanController.GetFormOptions)
	tripPlansGroup.GET("/tips", tripPlanController.GetTravelTips)
	tripPlansGroup.POST("/generate", generateLimit, tripPlanController.GenerateTravelPlan)
	tripPlansGroup.GET("/current", tripPlanController.GetCurrentPlan)
	tripPlansGroup.DELETE("/current", tripPlanController.ClearCurrentPlan)
	tripPlansGroup.GET("/current/download", tripPlanController.DownloadPlanText)
	tripPlansGroup.GET("/current/download.ics", tripPlanController.DownloadPlanICS)
	tripPlansGroup.GET("/current/download.pdf", tripPlanController.DownloadPlanPDF)
	tripPlansGroup.GET("/history", tripPlanController.ListPlanHistory)
	tripPlansGroup.GET("/history/:id", tripPlanController.GetPlanHistoryItem)
}
