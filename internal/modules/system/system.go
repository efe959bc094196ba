// Package system exposes health and scheduler introspection endpoints.
package system

import (
	"context"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tiendita/pos-core/internal/middleware"
	"github.com/tiendita/pos-core/internal/pkg/cron"
	"github.com/tiendita/pos-core/internal/pkg/permission"
	"github.com/tiendita/pos-core/internal/pkg/redis"
	"github.com/tiendita/pos-core/internal/pkg/response"
)

type Handler struct {
	db        *gorm.DB
	rdb       *redis.Client
	scheduler *cron.Scheduler
	startedAt time.Time
}

func NewHandler(db *gorm.DB, rdb *redis.Client, scheduler *cron.Scheduler) *Handler {
	return &Handler{
		db:        db,
		rdb:       rdb,
		scheduler: scheduler,
		startedAt: time.Now(),
	}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc, can middleware.PermissionFunc) {
	sys := rg.Group("/system")
	sys.GET("/health", h.health)

	admin := sys.Group("", authMW, can(permission.ResourceAll, permission.ActionManage))
	admin.GET("/info", h.info)
	admin.GET("/cron", h.listCron)
	admin.GET("/cron/:name", h.cronTask)
	admin.POST("/cron/:name/run", h.runCron)
}

// health reports liveness of the process and its two backing stores. Meant
// for load balancers, so it stays unauthenticated.
func (h *Handler) health(c *gin.Context) {
	dbOK := false
	if sqlDB, err := h.db.DB(); err == nil {
		dbOK = sqlDB.PingContext(c.Request.Context()) == nil
	}
	redisOK := h.rdb != nil && h.rdb.Raw().Ping(c.Request.Context()).Err() == nil

	status := "ok"
	if !dbOK || !redisOK {
		status = "degraded"
	}
	response.OK(c, gin.H{
		"status": status,
		"db":     dbOK,
		"redis":  redisOK,
		"uptime": time.Since(h.startedAt).Round(time.Second).String(),
	})
}

func (h *Handler) info(c *gin.Context) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	response.OK(c, gin.H{
		"go_version": runtime.Version(),
		"goroutines": runtime.NumGoroutine(),
		"heap_mb":    m.HeapAlloc / (1 << 20),
		"started_at": h.startedAt,
	})
}

func (h *Handler) listCron(c *gin.Context) {
	response.OK(c, h.scheduler.List())
}

func (h *Handler) cronTask(c *gin.Context) {
	task, err := h.scheduler.GetTask(c.Param("name"))
	if err != nil {
		response.NotFoundMsg(c, err.Error())
		return
	}
	response.OK(c, task)
}

func (h *Handler) runCron(c *gin.Context) {
	// the job must outlive the request
	if err := h.scheduler.Run(context.Background(), c.Param("name")); err != nil {
		response.NotFoundMsg(c, err.Error())
		return
	}
	response.OK(c, gin.H{"triggered": true})
}
