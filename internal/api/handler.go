// Package api HTTP 接口层：登录会话、主管自助签字、管理员全表维护、看板与审计。
package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ZegOn01/Dmt-Notas/internal/auth"
	"github.com/ZegOn01/Dmt-Notas/internal/config"
	"github.com/ZegOn01/Dmt-Notas/internal/reconcile"
	"github.com/ZegOn01/Dmt-Notas/internal/sheet"
	"github.com/ZegOn01/Dmt-Notas/internal/store"
)

// Handler API 处理器
type Handler struct {
	cfg      *config.AppConfig
	store    *store.Store
	workbook *sheet.Workbook
	auth     *auth.Service
	engine   *reconcile.Engine
}

// NewHandler 创建 API 处理器
func NewHandler(cfg *config.AppConfig, st *store.Store, wb *sheet.Workbook, authSvc *auth.Service) *Handler {
	return &Handler{
		cfg:      cfg,
		store:    st,
		workbook: wb,
		auth:     authSvc,
		engine:   reconcile.New(),
	}
}

// RegisterRoutes 注册 API 路由
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	// 登录 / 系统状态（无需会话）
	router.POST("/login", h.Login)
	router.GET("/status", h.GetStatus)

	// 会话范围内的路由
	authed := router.Group("", h.requireActor())
	{
		authed.POST("/logout", h.Logout)
		authed.GET("/me", h.GetMe)

		// 主管自助视图
		authed.GET("/records", h.ListRecords)
		authed.POST("/records", h.SaveRecords)

		// 看板
		authed.GET("/dashboard", h.GetDashboard)
	}

	// 管理员路由
	admin := authed.Group("/admin", h.requireAdmin())
	{
		admin.GET("/records", h.AdminListRecords)
		admin.POST("/records", h.AdminSaveRecords)
		admin.GET("/returns", h.AdminListReturns)
		admin.POST("/returns", h.AdminSaveReturns)
		admin.GET("/audit", h.AdminListAudit)
	}
}

// requireActor 会话中间件：校验 token 并把操作者身份放进请求上下文
func (h *Handler) requireActor() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		actor, err := h.auth.Check(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired session"})
			return
		}
		c.Set("actor", actor)
		c.Next()
	}
}

// requireAdmin 管理员中间件；必须挂在 requireActor 之后
func (h *Handler) requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !currentActor(c).Admin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin only"})
			return
		}
		c.Next()
	}
}

// bearerToken 从 Authorization 头取会话 token，Bearer 前缀可选
func bearerToken(c *gin.Context) string {
	v := c.GetHeader("Authorization")
	const prefix = "Bearer "
	if len(v) > len(prefix) && v[:len(prefix)] == prefix {
		return v[len(prefix):]
	}
	return v
}

// currentActor 取出 requireActor 放入的操作者身份
func currentActor(c *gin.Context) *auth.Actor {
	v, _ := c.Get("actor")
	actor, _ := v.(*auth.Actor)
	return actor
}

// writeError 把领域错误映射到 HTTP 状态码
// 远端不可用 503、远端拒绝访问 502、表级校验失败 422，其余 500
func writeError(c *gin.Context, err error) {
	var vErr *reconcile.ValidationError
	switch {
	case errors.As(err, &vErr):
		keys := make([]int, 0, len(vErr.Keys))
		for _, k := range vErr.Keys {
			keys = append(keys, int(k))
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":  "validation failed",
			"column": vErr.Column,
			"rows":   keys,
		})
	case errors.Is(err, sheet.ErrAuth):
		c.JSON(http.StatusBadGateway, gin.H{"error": "workbook access denied"})
	case errors.Is(err, sheet.ErrUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "workbook unavailable"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
