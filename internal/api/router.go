package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	_ "github.com/wfunc/slot-sim/internal/api/docs" // 注册 swagger 文档
	"github.com/wfunc/slot-sim/internal/middleware"
	"go.uber.org/zap"
)

// Router API路由器
type Router struct {
	engine      *gin.Engine
	slotHandler *SlotHandler
	log         *zap.Logger
}

// NewRouter 创建路由器
func NewRouter(slotHandler *SlotHandler, log *zap.Logger) *Router {
	if log == nil {
		log = zap.NewNop()
	}

	engine := gin.New()

	// 全局中间件
	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestID())
	engine.Use(middleware.RequestLogger())

	router := &Router{
		engine:      engine,
		slotHandler: slotHandler,
		log:         log,
	}

	router.setupRoutes()

	return router
}

// setupRoutes 设置路由
func (r *Router) setupRoutes() {
	r.engine.GET("/health", r.healthCheck)

	// Swagger 文档: /swagger/index.html, /swagger/doc.json
	r.engine.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.DocExpansion("none"),
	))

	v1 := r.engine.Group("/api/v1")
	{
		v1.GET("/machine", r.slotHandler.Machine)
		v1.POST("/spins", r.slotHandler.Spin)
		v1.POST("/simulations", r.slotHandler.Simulate)
	}

	r.engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"code":    "NOT_FOUND",
			"message": "接口不存在",
		})
	})
}

// healthCheck 健康检查
func (r *Router) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"machine": r.slotHandler.currentMachine().Name,
	})
}

// Handler 返回HTTP处理器
func (r *Router) Handler() http.Handler {
	return r.engine
}

// GetEngine 获取Gin引擎（用于测试）
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
