package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ZegOn01/Dmt-Notas/internal/model"
	"github.com/ZegOn01/Dmt-Notas/internal/reconcile"
)

// AdminRecordsResponse 管理员全量视图的响应
type AdminRecordsResponse struct {
	Columns  []string        `json:"columns"`
	Disabled []string        `json:"disabled"`
	Rows     []recordPayload `json:"rows"`
	Degraded int             `json:"degraded"`
}

// AdminListRecords 管理员全量视图
// GET /api/admin/records
func (h *Handler) AdminListRecords(c *gin.Context) {
	tbl, degraded, err := h.fetchNotas()
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, AdminRecordsResponse{
		Columns:  tbl.Columns,
		Disabled: h.cfg.Columns.AdminDisabled,
		Rows:     toPayloads(tbl.Rows),
		Degraded: degraded,
	})
}

// AdminSaveRecords 管理员全表保存：编辑集本身成为新的权威表
// POST /api/admin/records
// 这是唯一的删行途径：编辑集里没有的行会被删掉
func (h *Handler) AdminSaveRecords(c *gin.Context) {
	actor := currentActor(c)

	var req SaveRecordsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	edits, err := toRecords(req.Rows)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tbl, _, err := h.fetchNotas()
	if err != nil {
		writeError(c, err)
		return
	}

	rules := []reconcile.StampRule{reconcile.SignatureRule()}
	merged, err := h.engine.ReplaceAll(tbl, edits, rules)
	if err != nil {
		writeError(c, err)
		return
	}
	if err := h.workbook.Replace(h.cfg.Workbook.NotasSheet, merged); err != nil {
		writeError(c, err)
		return
	}

	stamped := stampedKeys(tbl, merged)
	_ = h.store.AddAudit(actor.User, h.cfg.Workbook.NotasSheet, "replace_all", len(edits), stamped)

	c.JSON(http.StatusOK, gin.H{
		"message": "saved",
		"stamped": stamped,
	})
}

// fetchDevolucao 读取退回表并上报本次解码退化
func (h *Handler) fetchDevolucao() (*model.Table, int, error) {
	tbl, degraded, err := h.workbook.Fetch(h.cfg.Workbook.DevolucaoSheet, model.DevolucaoSchema())
	if err != nil {
		return nil, 0, err
	}
	_ = h.store.RecordDegradation(h.cfg.Workbook.DevolucaoSheet, degraded)
	return tbl, degraded, nil
}

// AdminListReturns 管理员退回页视图
// GET /api/admin/returns
func (h *Handler) AdminListReturns(c *gin.Context) {
	tbl, degraded, err := h.fetchDevolucao()
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, AdminRecordsResponse{
		Columns:  tbl.Columns,
		Disabled: h.cfg.Columns.AdminDisabled,
		Rows:     toPayloads(tbl.Rows),
		Degraded: degraded,
	})
}

// AdminSaveReturns 管理员退回页保存：合并编辑集并触发退回规则
// POST /api/admin/returns
// 与全表保存不同，这条路径走合并语义：没出现在编辑集里的行原样保留
func (h *Handler) AdminSaveReturns(c *gin.Context) {
	actor := currentActor(c)

	var req SaveRecordsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	edits, err := toRecords(req.Rows)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tbl, _, err := h.fetchDevolucao()
	if err != nil {
		writeError(c, err)
		return
	}

	rules := []reconcile.StampRule{reconcile.ReturnRule()}
	merged, err := h.engine.Reconcile(tbl, edits, rules)
	if err != nil {
		writeError(c, err)
		return
	}
	if err := h.workbook.Replace(h.cfg.Workbook.DevolucaoSheet, merged); err != nil {
		writeError(c, err)
		return
	}

	stamped := stampedKeys(tbl, merged)
	_ = h.store.AddAudit(actor.User, h.cfg.Workbook.DevolucaoSheet, "reconcile", len(edits), stamped)

	c.JSON(http.StatusOK, gin.H{
		"message": "saved",
		"stamped": stamped,
	})
}

// AdminListAudit 最近的保存审计记录
// GET /api/admin/audit?limit=50
func (h *Handler) AdminListAudit(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	entries, err := h.store.ListAudit(limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}
