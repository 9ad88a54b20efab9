// Package reconcile 把角色视图上的编辑合并回权威表。
// 合并是“后编辑者胜出”，没有版本号/etag 之类的乐观并发检查；
// 业务规则（签字/退回标记 false→true 时盖时间戳）在合并时触发，且只触发一次。
package reconcile

import (
	"fmt"
	"time"

	"github.com/ZegOn01/Dmt-Notas/internal/model"
)

// StampRule 盖章规则：Flag 列发生 false→true 跃迁时，把当前时间写入 Stamp 列
type StampRule struct {
	Flag  string
	Stamp string
}

// SignatureRule 签字规则：ASSINATURA 勾选时写 GESTORASSINATURA
func SignatureRule() StampRule {
	return StampRule{Flag: model.ColAssinatura, Stamp: model.ColGestorAssinatura}
}

// ReturnRule 退回规则：DEVOLUCAO 勾选时写 DATA DEVOLUCAO
func ReturnRule() StampRule {
	return StampRule{Flag: model.ColDevolucao, Stamp: model.ColDataDevolucao}
}

// ValidationError 合并后的表级校验失败
// 返回该错误时合并被整体丢弃，权威表保持原样，远端也不会被写
type ValidationError struct {
	Column string
	Keys   []model.RowKey
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: column %s empty on %d row(s)", e.Column, len(e.Keys))
}

// Engine 合并引擎
// Now 可注入，测试里用固定时间保证时间戳可断言
type Engine struct {
	Now func() time.Time
}

// New 创建引擎
func New() *Engine {
	return &Engine{Now: time.Now}
}

// Reconcile 把编辑集合并进权威表（主管自助保存路径）
//  1. 按 Key 定位权威行
//  2. Diff 出字段跃迁
//  3. 命中的盖章规则写入时间戳
//  4. 编辑行的全部字段覆盖权威行
//  5. 表级校验；失败则丢弃合并
//
// 没有权威对应行（Key==0）的编辑行追加为新行；
// 编辑集里不出现的权威行原样保留——编辑永远不会删行
func (en *Engine) Reconcile(auth *model.Table, edits []model.Record, rules []StampRule) (*model.Table, error) {
	out := auth.Clone()
	now := en.stampTime()

	for _, edit := range edits {
		idx := out.FindByKey(edit.Key)
		if idx < 0 {
			rec := model.CloneRecord(edit)
			rec.Key = out.NextKey()
			out.Rows = append(out.Rows, rec)
			continue
		}
		out.Rows[idx] = mergeRow(out.Rows[idx], edit, rules, now)
	}

	if err := validate(out); err != nil {
		return nil, err
	}
	return out, nil
}

// ReplaceAll 管理员全表保存路径：编辑集本身成为新的权威表
// 与 Reconcile 的区别：编辑集里没有的行会被删掉（显式全表替换是唯一的删行途径）
// 盖章规则仍然对着旧权威行比较，保证时间戳只在真正的跃迁上盖一次
func (en *Engine) ReplaceAll(auth *model.Table, edits []model.Record, rules []StampRule) (*model.Table, error) {
	out := &model.Table{
		Schema:  auth.Schema,
		Columns: append([]string(nil), auth.Columns...),
	}
	now := en.stampTime()
	nextKey := auth.NextKey()

	for _, edit := range edits {
		idx := auth.FindByKey(edit.Key)
		if idx < 0 {
			rec := model.CloneRecord(edit)
			rec.Key = nextKey
			nextKey++
			out.Rows = append(out.Rows, rec)
			continue
		}
		out.Rows = append(out.Rows, mergeRow(auth.Rows[idx], edit, rules, now))
	}

	if err := validate(out); err != nil {
		return nil, err
	}
	return out, nil
}

// stampTime 截断到秒：时间戳落盘格式就是秒级，保证内存值与写回值一致
func (en *Engine) stampTime() time.Time {
	return en.Now().Truncate(time.Second)
}

// mergeRow 合并单行：编辑行全量覆盖，再按命中的规则盖章
func mergeRow(authRow, edit model.Record, rules []StampRule, now time.Time) model.Record {
	transitions := Diff(authRow, edit)

	merged := model.CloneRecord(edit)
	merged.Key = authRow.Key

	for _, rule := range rules {
		if flagRaised(transitions, rule.Flag) {
			setStamp(&merged, rule.Stamp, now)
		}
	}
	return merged
}

// setStamp 把时间戳写入指定列
func setStamp(rec *model.Record, column string, now time.Time) {
	switch column {
	case model.ColGestorAssinatura:
		rec.GestorAssinatura = model.NewOptTime(now)
	case model.ColDataDevolucao:
		rec.DataDevolucao = model.NewOptTime(now)
	}
}

// validate 表级不变量：每一行的负责人必须非空
func validate(t *model.Table) error {
	var bad []model.RowKey
	for i := range t.Rows {
		if t.Rows[i].Gestor == "" {
			bad = append(bad, t.Rows[i].Key)
		}
	}
	if len(bad) > 0 {
		return &ValidationError{Column: model.ColGestor, Keys: bad}
	}
	return nil
}
