package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tecmeup123/task-manager-sub000/config"
	"github.com/tecmeup123/task-manager-sub000/internal/api/handler"
	"github.com/tecmeup123/task-manager-sub000/internal/api/middleware"
	"github.com/tecmeup123/task-manager-sub000/pkg/jwt"
	"github.com/tecmeup123/task-manager-sub000/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证）
		auth := v1.Group("/auth")
		{
			auth.POST("/register", h.Auth.Register)
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.RefreshToken)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			// 认证模块（需要认证）
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.Me)

			// 用户模块
			users := authorized.Group("/users")
			{
				users.GET("/trainers", h.User.ListTrainers)
				users.GET("", middleware.RoleAuth("admin"), h.User.ListUsers)
				users.GET("/:id", middleware.RoleAuth("admin"), h.User.GetUser)
				users.PUT("/:id/role", middleware.RoleAuth("admin"), h.User.AssignRole)
			}

			// 版次模块
			editions := authorized.Group("/editions")
			{
				editions.GET("", h.Edition.ListEditions)
				editions.GET("/:id", h.Edition.GetEdition)
				editions.POST("", middleware.RoleAuth("admin", "trainer"), h.Edition.CreateEdition)
				editions.PUT("/:id", middleware.RoleAuth("admin", "trainer"), h.Edition.UpdateEdition)
				editions.PUT("/:id/archive", middleware.RoleAuth("admin", "trainer"), h.Edition.ArchiveEdition)
				editions.PUT("/:id/refresh-week", middleware.RoleAuth("admin", "trainer"), h.Edition.RefreshEditionWeek)
				editions.POST("/:id/duplicate", middleware.RoleAuth("admin", "trainer"), h.Edition.DuplicateEdition)
				editions.DELETE("/:id", middleware.RoleAuth("admin"), h.Edition.DeleteEdition)

				// 版次子资源：任务列表 / 审计记录 / 导出
				editions.GET("/:id/tasks", h.Task.ListEditionTasks)
				editions.GET("/:id/audit-logs", h.Task.ListEditionAuditLogs)
				editions.GET("/:id/export/xlsx", h.Export.ExportEditionTasks)
				editions.GET("/:id/export/ics", h.Export.ExportEditionCalendar)
			}

			// 任务模块
			tasks := authorized.Group("/tasks")
			{
				tasks.GET("/:id", h.Task.GetTask)
				tasks.POST("", middleware.RoleAuth("admin", "trainer"), h.Task.CreateTask)
				tasks.PATCH("/:id", h.Task.UpdateTask)
				tasks.DELETE("/:id", middleware.RoleAuth("admin", "trainer"), h.Task.DeleteTask)
			}

			// 通知模块
			notifications := authorized.Group("/notifications")
			{
				notifications.GET("", h.Notification.ListMyNotifications)
				notifications.PUT("/:id/read", h.Notification.MarkNotificationRead)
			}
		}
	}

	return r
}
