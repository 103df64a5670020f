package controller

import (
	"net/http"

	"quiz_portal_backend/internal/service"
	"quiz_portal_backend/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type HealthController struct {
	DB         *gorm.DB
	DataSource string
	Waker      *service.WakerService
}

// NewHealthController 的 db、waker 可为 nil（未启用 store 数据源或唤醒任务时）
func NewHealthController(db *gorm.DB, dataSource string, waker *service.WakerService) *HealthController {
	return &HealthController{DB: db, DataSource: dataSource, Waker: waker}
}

// @Summary 健康检查
// @Description 检查服务状态、当前数据源以及后端唤醒状态
// @Tags 系统
// @Produce json
// @Success 200 {object} util.Response
// @Failure 503 {object} util.Response
// @Router /api/health [get]
func (c *HealthController) HealthCheck(ctx *gin.Context) {
	components := gin.H{}

	if c.DB != nil {
		sqlDB, err := c.DB.DB()
		if err != nil {
			util.InternalServerError(ctx)
			return
		}
		if err := sqlDB.PingContext(ctx.Request.Context()); err != nil {
			util.Error(ctx, http.StatusServiceUnavailable, "Database unavailable")
			return
		}
		components["database"] = "up"
	}

	data := gin.H{
		"status":     "ok",
		"datasource": c.DataSource,
		"components": components,
	}
	if c.Waker != nil {
		data["backend"] = c.Waker.Status()
	}

	util.Success(ctx, data)
}
