// Package summary 看板聚合：按负责人统计未签/已签数量与金额。
// “未签”的判据是签字时间戳为空，而不是 ASSINATURA 勾选状态。
package summary

import (
	"sort"

	"github.com/ZegOn01/Dmt-Notas/internal/model"
	"github.com/ZegOn01/Dmt-Notas/internal/view"
)

// ManagerStat 单个负责人的统计
type ManagerStat struct {
	Gestor       string  `json:"gestor"`
	Pending      int     `json:"pending"`
	Signed       int     `json:"signed"`
	PendingValor float64 `json:"pendingValor"`
}

// Overview 全表统计
type Overview struct {
	Total    int           `json:"total"`
	Pending  int           `json:"pending"`
	Signed   int           `json:"signed"`
	Managers []ManagerStat `json:"managers"`
}

// Build 从权威表构建看板统计
func Build(t *model.Table) *Overview {
	o := &Overview{Total: len(t.Rows)}

	byManager := make(map[string]*ManagerStat)
	for i := range t.Rows {
		r := t.Rows[i]
		ms, ok := byManager[r.Gestor]
		if !ok {
			ms = &ManagerStat{Gestor: r.Gestor}
			byManager[r.Gestor] = ms
		}
		if r.GestorAssinatura.Valid {
			o.Signed++
			ms.Signed++
		} else {
			o.Pending++
			ms.Pending++
			ms.PendingValor += r.Valor
		}
	}

	o.Managers = make([]ManagerStat, 0, len(byManager))
	for _, ms := range byManager {
		o.Managers = append(o.Managers, *ms)
	}
	// 未签多的排前面，数量相同按名字稳定排序
	sort.Slice(o.Managers, func(i, j int) bool {
		if o.Managers[i].Pending != o.Managers[j].Pending {
			return o.Managers[i].Pending > o.Managers[j].Pending
		}
		return o.Managers[i].Gestor < o.Managers[j].Gestor
	})
	return o
}

// BuildFor 只统计某个负责人范围内的行（看板的 GESTOR 下拉）
func BuildFor(t *model.Table, gestor string) *Overview {
	v := view.Derive(t, view.OwnerIs(gestor))
	scoped := &model.Table{Schema: t.Schema, Columns: t.Columns, Rows: v.Rows}
	return Build(scoped)
}
