package model

// 列的语义类型
// 远端表格的单元格一律是字符串，类型只在解码边界生效
type ColumnKind int

const (
	KindText ColumnKind = iota
	KindBool
	KindNumber
	KindDate
	KindDateTime
)

// 标准列名（与共享表格的表头一致，葡语业务命名保持原样）
const (
	ColNF               = "NF"
	ColFornecedor       = "FORNECEDOR"
	ColValor            = "VALOR"
	ColVencimento       = "DT VENC"
	ColGestor           = "GESTOR_RESP"
	ColAssinatura       = "ASSINATURA"
	ColGestorAssinatura = "GESTORASSINATURA"
	ColDevolucao        = "DEVOLUCAO"
	ColDataDevolucao    = "DATA DEVOLUCAO"
	ColEntregaGestor    = "ENTREGA GESTOR"
)

// Column 一列的声明：名称、语义类型、是否必须存在
type Column struct {
	Name     string
	Kind     ColumnKind
	Required bool
}

// Schema 一张逻辑表的列声明
// 解码时检查一次；缺失的 Required 列会以默认值补齐
type Schema struct {
	Columns []Column
}

// Kind 返回列的语义类型，未声明的列按透传文本处理
func (s Schema) Kind(name string) ColumnKind {
	for _, c := range s.Columns {
		if c.Name == name {
			return c.Kind
		}
	}
	return KindText
}

// Declared 判断列是否在 schema 中声明过
func (s Schema) Declared(name string) bool {
	for _, c := range s.Columns {
		if c.Name == name {
			return true
		}
	}
	return false
}

// RequiredColumns 返回所有必须存在的列名
func (s Schema) RequiredColumns() []string {
	out := make([]string, 0, len(s.Columns))
	for _, c := range s.Columns {
		if c.Required {
			out = append(out, c.Name)
		}
	}
	return out
}

// NotasSchema 主表（待签字的票据）的列声明
func NotasSchema() Schema {
	return Schema{Columns: []Column{
		{Name: ColNF, Kind: KindText, Required: true},
		{Name: ColFornecedor, Kind: KindText},
		{Name: ColValor, Kind: KindNumber},
		{Name: ColVencimento, Kind: KindDate},
		{Name: ColGestor, Kind: KindText, Required: true},
		{Name: ColAssinatura, Kind: KindBool, Required: true},
		{Name: ColGestorAssinatura, Kind: KindDateTime, Required: true},
		{Name: ColEntregaGestor, Kind: KindDate},
	}}
}

// DevolucaoSchema 退回表的列声明（在主表基础上增加退回标记与退回时间）
func DevolucaoSchema() Schema {
	s := NotasSchema()
	s.Columns = append(s.Columns,
		Column{Name: ColDevolucao, Kind: KindBool, Required: true},
		Column{Name: ColDataDevolucao, Kind: KindDateTime, Required: true},
	)
	return s
}
