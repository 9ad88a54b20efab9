package model

import "time"

// RowKey 行的稳定标识
// 在一次 Fetch 内按数据行顺序分配（1 起），0 表示尚无权威行（新增行）
// NF 是自由文本、不保证唯一，所以不能当作主键
type RowKey int

// OptTime 可缺省的时间值
// 远端单元格解析失败或为空时 Valid=false，编码时输出空字符串
type OptTime struct {
	Time  time.Time
	Valid bool
}

// NewOptTime 构造一个有效时间值
func NewOptTime(t time.Time) OptTime {
	return OptTime{Time: t, Valid: true}
}

// Equal 比较两个可缺省时间
func (o OptTime) Equal(other OptTime) bool {
	if o.Valid != other.Valid {
		return false
	}
	if !o.Valid {
		return true
	}
	return o.Time.Equal(other.Time)
}

// Record 一张票据/文档的一行
// 已声明列映射到具名字段，未声明列原样透传在 Extra 中
type Record struct {
	Key RowKey

	NF               string
	Fornecedor       string
	Valor            float64
	Vencimento       OptTime
	Gestor           string
	Assinatura       bool
	GestorAssinatura OptTime
	Devolucao        bool
	DataDevolucao    OptTime
	EntregaGestor    OptTime

	Extra map[string]string
}

// CloneRecord 深拷贝一行（Extra 独立）
func CloneRecord(r Record) Record {
	out := r
	if r.Extra != nil {
		out.Extra = make(map[string]string, len(r.Extra))
		for k, v := range r.Extra {
			out.Extra[k] = v
		}
	}
	return out
}

// Table 权威表：上次 Fetch/Replace 时与远端一致的全量行集合
type Table struct {
	Schema  Schema
	Columns []string // 表头顺序，含补齐的必需列
	Rows    []Record
}

// Clone 深拷贝整张表
func (t *Table) Clone() *Table {
	out := &Table{
		Schema:  t.Schema,
		Columns: append([]string(nil), t.Columns...),
		Rows:    make([]Record, len(t.Rows)),
	}
	for i, r := range t.Rows {
		out.Rows[i] = CloneRecord(r)
	}
	return out
}

// FindByKey 按稳定标识定位行，返回下标；不存在返回 -1
func (t *Table) FindByKey(key RowKey) int {
	if key == 0 {
		return -1
	}
	for i := range t.Rows {
		if t.Rows[i].Key == key {
			return i
		}
	}
	return -1
}

// NextKey 返回比现有行都大的下一个标识（给合并时新增的行用）
func (t *Table) NextKey() RowKey {
	max := RowKey(0)
	for i := range t.Rows {
		if t.Rows[i].Key > max {
			max = t.Rows[i].Key
		}
	}
	return max + 1
}
