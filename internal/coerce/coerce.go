// Package coerce 负责远端“全字符串”单元格与内存类型值之间的双向转换。
// 解码永不失败：解析不了的值退化为默认值/缺省值，并累加退化计数，
// 由调用方作为数据质量信号上报，而不是报错。
package coerce

import (
	"strconv"
	"strings"
	"time"

	"github.com/ZegOn01/Dmt-Notas/internal/model"
)

// 远端表格使用的日期/时间格式（日在前）
const (
	DateLayout     = "02/01/2006"
	DateTimeLayout = "02/01/2006 15:04:05"
)

// Decoder 按 schema 解码一张表，并统计退化的单元格数
type Decoder struct {
	schema   model.Schema
	degraded int
}

// NewDecoder 创建解码器
func NewDecoder(schema model.Schema) *Decoder {
	return &Decoder{schema: schema}
}

// Degraded 返回累计的退化单元格数（非空但解析失败）
func (d *Decoder) Degraded() int {
	return d.degraded
}

// DecodeTable 把远端的二维字符串网格解码为权威表
// 第 0 行是表头；空网格也是合法的，产出零行但带完整必需列的表
func (d *Decoder) DecodeTable(values [][]string) *model.Table {
	t := &model.Table{Schema: d.schema}

	if len(values) > 0 {
		for _, h := range values[0] {
			t.Columns = append(t.Columns, strings.TrimSpace(h))
		}
	}
	// 缺失的必需列以默认值补齐（owner="", signed=false, signed_at=""）
	for _, name := range d.schema.RequiredColumns() {
		if !containsColumn(t.Columns, name) {
			t.Columns = append(t.Columns, name)
		}
	}

	if len(values) <= 1 {
		return t
	}

	for i, row := range values[1:] {
		t.Rows = append(t.Rows, d.decodeRow(t.Columns, row, model.RowKey(i+1)))
	}
	return t
}

// decodeRow 逐列解码一行
func (d *Decoder) decodeRow(columns []string, row []string, key model.RowKey) model.Record {
	rec := model.Record{Key: key}

	for i, col := range columns {
		raw := ""
		if i < len(row) {
			raw = strings.TrimSpace(row[i])
		}

		switch col {
		case model.ColNF:
			rec.NF = raw
		case model.ColFornecedor:
			rec.Fornecedor = raw
		case model.ColValor:
			rec.Valor = d.parseNumber(raw)
		case model.ColVencimento:
			rec.Vencimento = d.parseTime(model.KindDate, raw)
		case model.ColGestor:
			rec.Gestor = raw
		case model.ColAssinatura:
			rec.Assinatura = ParseBool(raw)
		case model.ColGestorAssinatura:
			rec.GestorAssinatura = d.parseTime(model.KindDateTime, raw)
		case model.ColDevolucao:
			rec.Devolucao = ParseBool(raw)
		case model.ColDataDevolucao:
			rec.DataDevolucao = d.parseTime(model.KindDateTime, raw)
		case model.ColEntregaGestor:
			rec.EntregaGestor = d.parseTime(model.KindDate, raw)
		default:
			// 未声明列原样透传
			if rec.Extra == nil {
				rec.Extra = make(map[string]string)
			}
			rec.Extra[col] = raw
		}
	}
	return rec
}

// ParseBool 解码布尔单元格
// 大小写不敏感的 TRUE / VERDADEIRO 为真，其余（含空）一律为假
func ParseBool(s string) bool {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TRUE", "VERDADEIRO":
		return true
	}
	return false
}

// parseNumber 解码数值单元格
// 带逗号的按“点=千分位、逗号=小数点”处理："1.234,56" -> 1234.56
// 解析失败退化为 0 并计数
func (d *Decoder) parseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		d.degraded++
		return 0
	}
	return f
}

// parseTime 解码日期/时间单元格，失败退化为缺省值并计数
func (d *Decoder) parseTime(kind model.ColumnKind, s string) model.OptTime {
	s = strings.TrimSpace(s)
	if s == "" {
		return model.OptTime{}
	}

	layouts := []string{DateLayout, DateTimeLayout}
	if kind == model.KindDateTime {
		layouts = []string{DateTimeLayout, DateLayout}
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return model.NewOptTime(t)
		}
	}
	d.degraded++
	return model.OptTime{}
}

// FormatBool 编码布尔值，固定输出字面量 TRUE / FALSE
func FormatBool(b bool) string {
	if b {
		return "TRUE"
	}
	return "FALSE"
}

// FormatNumber 编码数值
// 输出点号小数；数值在解码端可无损还原（逗号格式不保留）
func FormatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// FormatTime 编码时间值；缺省值编码为空串，绝不输出哨兵字面量
func FormatTime(kind model.ColumnKind, o model.OptTime) string {
	if !o.Valid {
		return ""
	}
	if kind == model.KindDateTime {
		return o.Time.Format(DateTimeLayout)
	}
	return o.Time.Format(DateLayout)
}

// EncodeTable 把权威表编码回远端的二维字符串网格（含表头行）
func EncodeTable(t *model.Table) [][]string {
	out := make([][]string, 0, len(t.Rows)+1)
	out = append(out, append([]string(nil), t.Columns...))
	for i := range t.Rows {
		out = append(out, EncodeRecord(t, t.Rows[i]))
	}
	return out
}

// EncodeRecord 按表头顺序编码一行
func EncodeRecord(t *model.Table, rec model.Record) []string {
	row := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		switch col {
		case model.ColNF:
			row[i] = rec.NF
		case model.ColFornecedor:
			row[i] = rec.Fornecedor
		case model.ColValor:
			row[i] = FormatNumber(rec.Valor)
		case model.ColVencimento:
			row[i] = FormatTime(model.KindDate, rec.Vencimento)
		case model.ColGestor:
			row[i] = rec.Gestor
		case model.ColAssinatura:
			row[i] = FormatBool(rec.Assinatura)
		case model.ColGestorAssinatura:
			row[i] = FormatTime(model.KindDateTime, rec.GestorAssinatura)
		case model.ColDevolucao:
			row[i] = FormatBool(rec.Devolucao)
		case model.ColDataDevolucao:
			row[i] = FormatTime(model.KindDateTime, rec.DataDevolucao)
		case model.ColEntregaGestor:
			row[i] = FormatTime(model.KindDate, rec.EntregaGestor)
		default:
			row[i] = rec.Extra[col]
		}
	}
	return row
}

func containsColumn(columns []string, name string) bool {
	for _, c := range columns {
		if c == name {
			return true
		}
	}
	return false
}
