package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ZegOn01/Dmt-Notas/internal/model"
	"github.com/ZegOn01/Dmt-Notas/internal/reconcile"
	"github.com/ZegOn01/Dmt-Notas/internal/view"
)

// RecordsResponse 一个角色视图的响应
type RecordsResponse struct {
	Columns  []string        `json:"columns"`
	Editable []string        `json:"editable"`
	Rows     []recordPayload `json:"rows"`
	Degraded int             `json:"degraded"`
}

// SaveRecordsRequest 保存请求：视图上的编辑集
type SaveRecordsRequest struct {
	Rows []recordPayload `json:"rows"`
}

// fetchNotas 读取票据表并上报本次解码退化
func (h *Handler) fetchNotas() (*model.Table, int, error) {
	tbl, degraded, err := h.workbook.Fetch(h.cfg.Workbook.NotasSheet, model.NotasSchema())
	if err != nil {
		return nil, 0, err
	}
	_ = h.store.RecordDegradation(h.cfg.Workbook.NotasSheet, degraded)
	return tbl, degraded, nil
}

// ListRecords 主管自助视图：只看到负责人是自己的行
// GET /api/records
func (h *Handler) ListRecords(c *gin.Context) {
	actor := currentActor(c)

	tbl, degraded, err := h.fetchNotas()
	if err != nil {
		writeError(c, err)
		return
	}

	v := view.Derive(tbl, view.OwnerIs(actor.User))
	c.JSON(http.StatusOK, RecordsResponse{
		Columns:  tbl.Columns,
		Editable: h.cfg.Columns.ManagerEditable,
		Rows:     toPayloads(v.Rows),
		Degraded: degraded,
	})
}

// SaveRecords 主管自助保存：合并编辑集、触发签字规则、整表写回
// POST /api/records
// 编辑集里的每一行都必须落在自己的视图范围内；主管不允许新增行
func (h *Handler) SaveRecords(c *gin.Context) {
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

	// 范围校验：保存目标必须在自己的视图里
	scope := view.Derive(tbl, view.OwnerIs(actor.User))
	for _, edit := range edits {
		if edit.Key == 0 {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "managers cannot add rows"})
			return
		}
		if !scope.Contains(edit.Key) {
			c.JSON(http.StatusForbidden, gin.H{"error": "row outside your scope"})
			return
		}
	}

	rules := []reconcile.StampRule{reconcile.SignatureRule()}
	merged, err := h.engine.Reconcile(tbl, edits, rules)
	if err != nil {
		writeError(c, err)
		return
	}
	if err := h.workbook.Replace(h.cfg.Workbook.NotasSheet, merged); err != nil {
		writeError(c, err)
		return
	}

	stamped := stampedKeys(tbl, merged)
	_ = h.store.AddAudit(actor.User, h.cfg.Workbook.NotasSheet, "reconcile", len(edits), stamped)

	c.JSON(http.StatusOK, gin.H{
		"message": "saved",
		"stamped": stamped,
	})
}

// stampedKeys 找出本次合并中被盖上时间戳的行（签字或退回从缺省变为有值）
func stampedKeys(old, merged *model.Table) []int {
	var out []int
	for i := range merged.Rows {
		r := merged.Rows[i]
		idx := old.FindByKey(r.Key)
		if idx < 0 {
			continue
		}
		prev := old.Rows[idx]
		signed := r.GestorAssinatura.Valid && !prev.GestorAssinatura.Valid
		returned := r.DataDevolucao.Valid && !prev.DataDevolucao.Valid
		if signed || returned {
			out = append(out, int(r.Key))
		}
	}
	return out
}
