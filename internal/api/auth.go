package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ZegOn01/Dmt-Notas/internal/auth"
)

// LoginRequest 登录请求
type LoginRequest struct {
	User     string `json:"user"`
	Password string `json:"password"`
}

// Login 登录并颁发会话 token
// POST /api/login
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	actor, err := h.auth.Login(req.User, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid user or password"})
			return
		}
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, actor)
}

// Logout 注销当前会话
// POST /api/logout
func (h *Handler) Logout(c *gin.Context) {
	if err := h.auth.Logout(currentActor(c).Token); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// GetMe 返回当前会话的操作者身份
// GET /api/me
func (h *Handler) GetMe(c *gin.Context) {
	c.JSON(http.StatusOK, currentActor(c))
}
