package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Service   string    `json:"service"`
	Version   string    `json:"version"`
	DB        string    `json:"db"`
	Cache     string    `json:"cache"`
}

type HealthController struct {
	version string
	db      *gorm.DB
	redis   *redis.Client
}

// NewHealthController accepts nil db or redis; the dependency then reports
// "disabled".
func NewHealthController(version string, db *gorm.DB, redisClient *redis.Client) *HealthController {
	return &HealthController{
		version: version,
		db:      db,
		redis:   redisClient,
	}
}

func (h *HealthController) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
	defer cancel()

	resp := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Service:   "tripplanner",
		Version:   h.version,
		DB:        "disabled",
		Cache:     "memory",
	}

	if h.db != nil {
		resp.DB = "up"
		sqlDB, err := h.db.DB()
		if err != nil || sqlDB.PingContext(ctx) != nil {
			resp.DB = "down"
		}
	}
	if h.redis != nil {
		resp.Cache = "up"
		if err := h.redis.Ping(ctx).Err(); err != nil {
			resp.Cache = "down"
		}
	}

	code := http.StatusOK
	if resp.DB == "down" || resp.Cache == "down" {
		resp.Status = "degraded"
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, resp)
}
