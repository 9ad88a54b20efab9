package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ZegOn01/Dmt-Notas/internal/summary"
)

// GetDashboard 看板统计
// GET /api/dashboard?manager=KATIA
// 非管理员固定只能看自己范围；管理员可用 manager 参数聚焦某个负责人
func (h *Handler) GetDashboard(c *gin.Context) {
	actor := currentActor(c)

	tbl, _, err := h.fetchNotas()
	if err != nil {
		writeError(c, err)
		return
	}

	manager := c.Query("manager")
	if !actor.Admin {
		manager = actor.User
	}

	if manager == "" {
		c.JSON(http.StatusOK, summary.Build(tbl))
		return
	}
	c.JSON(http.StatusOK, summary.BuildFor(tbl, manager))
}
