package api

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
)

// StatusResponse 系统状态响应
type StatusResponse struct {
	WorkbookPath      string `json:"workbookPath"`
	WorkbookOk        bool   `json:"workbookOk"`
	NotasSheet        string `json:"notasSheet"`
	DevolucaoSheet    string `json:"devolucaoSheet"`
	DegradedNotas     int    `json:"degradedNotas"`
	DegradedDevolucao int    `json:"degradedDevolucao"`
}

// GetStatus 系统状态：工作簿可达性与累计解码退化
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	resp := StatusResponse{
		WorkbookPath:   h.workbook.Path(),
		NotasSheet:     h.cfg.Workbook.NotasSheet,
		DevolucaoSheet: h.cfg.Workbook.DevolucaoSheet,
	}

	if _, err := os.Stat(h.workbook.Path()); err == nil {
		resp.WorkbookOk = true
	}

	if n, err := h.store.DegradedTotal(h.cfg.Workbook.NotasSheet); err == nil {
		resp.DegradedNotas = n
	}
	if n, err := h.store.DegradedTotal(h.cfg.Workbook.DevolucaoSheet); err == nil {
		resp.DegradedDevolucao = n
	}

	c.JSON(http.StatusOK, resp)
}
