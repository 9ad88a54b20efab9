// Package view 从权威表派生按角色过滤的编辑视图。
// 视图只活在一次“编辑→保存”周期里，不独立持久化；
// 每行通过 Record.Key 保留指回权威行的引用，保存时据此定位合并目标。
package view

import (
	"strings"

	"github.com/ZegOn01/Dmt-Notas/internal/model"
)

// Predicate 行过滤条件
type Predicate func(model.Record) bool

// OwnerIs 只保留负责人等于指定操作者的行（管理员自助视图）
func OwnerIs(actor string) Predicate {
	return func(r model.Record) bool {
		return strings.TrimSpace(r.Gestor) == actor
	}
}

// All 不过滤（管理员全量视图）
func All() Predicate {
	return func(model.Record) bool { return true }
}

// Unsigned 只保留还没有签字时间戳的行（看板用）
func Unsigned() Predicate {
	return func(r model.Record) bool {
		return !r.GestorAssinatura.Valid
	}
}

// View 一个角色范围内的行子集（行是拷贝，可安全交给编辑面修改）
type View struct {
	Rows []model.Record
}

// Derive 派生视图；空结果是合法的，与获取失败是两回事
func Derive(t *model.Table, p Predicate) *View {
	v := &View{}
	for i := range t.Rows {
		if p(t.Rows[i]) {
			v.Rows = append(v.Rows, model.CloneRecord(t.Rows[i]))
		}
	}
	return v
}

// Empty 视图是否为空（调用方应提示“无记录”且不得发起保存）
func (v *View) Empty() bool {
	return len(v.Rows) == 0
}

// Keys 返回视图各行指回权威表的稳定标识
func (v *View) Keys() []model.RowKey {
	keys := make([]model.RowKey, len(v.Rows))
	for i := range v.Rows {
		keys[i] = v.Rows[i].Key
	}
	return keys
}

// Contains 判断某个权威行标识是否在视图范围内
func (v *View) Contains(key model.RowKey) bool {
	for i := range v.Rows {
		if v.Rows[i].Key == key {
			return true
		}
	}
	return false
}
