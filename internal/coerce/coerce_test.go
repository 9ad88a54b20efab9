package coerce

import (
	"testing"
	"time"

	"github.com/ZegOn01/Dmt-Notas/internal/model"
)

func TestParseBool_Variants(t *testing.T) {
	t.Parallel()

	trues := []string{"true", "TRUE", "Verdadeiro", "VERDADEIRO", " true "}
	for _, s := range trues {
		if !ParseBool(s) {
			t.Fatalf("ParseBool(%q) want=true got=false", s)
		}
	}

	falses := []string{"", "no", "FALSE", "0", "sim"}
	for _, s := range falses {
		if ParseBool(s) {
			t.Fatalf("ParseBool(%q) want=false got=true", s)
		}
	}
}

func TestDecodeTable_NumericComma(t *testing.T) {
	t.Parallel()

	d := NewDecoder(model.NotasSchema())
	tbl := d.DecodeTable([][]string{
		{"NF", "VALOR", "GESTOR_RESP", "ASSINATURA", "GESTORASSINATURA"},
		{"1001", "1.234,56", "KATIA", "FALSE", ""},
	})

	if len(tbl.Rows) != 1 {
		t.Fatalf("unexpected rows: %d", len(tbl.Rows))
	}
	if got := tbl.Rows[0].Valor; got != 1234.56 {
		t.Fatalf("VALOR want=1234.56 got=%v", got)
	}

	// 编码再解码必须还原同一数值（逗号格式本身不保留）
	encoded := EncodeTable(tbl)
	d2 := NewDecoder(model.NotasSchema())
	tbl2 := d2.DecodeTable(encoded)
	if got := tbl2.Rows[0].Valor; got != 1234.56 {
		t.Fatalf("roundtrip VALOR want=1234.56 got=%v", got)
	}
}

func TestDecodeTable_UnparsableDegradesNeverFails(t *testing.T) {
	t.Parallel()

	d := NewDecoder(model.NotasSchema())
	tbl := d.DecodeTable([][]string{
		{"NF", "VALOR", "DT VENC", "GESTOR_RESP", "ASSINATURA", "GESTORASSINATURA"},
		{"1", "abc", "31/31/2025", "KATIA", "yes", "quinta-feira"},
	})

	rec := tbl.Rows[0]
	if rec.Valor != 0 {
		t.Fatalf("unparsable VALOR want=0 got=%v", rec.Valor)
	}
	if rec.Vencimento.Valid {
		t.Fatalf("unparsable DT VENC should be absent")
	}
	if rec.Assinatura {
		t.Fatalf("'yes' is not a recognized true literal")
	}
	if rec.GestorAssinatura.Valid {
		t.Fatalf("unparsable GESTORASSINATURA should be absent")
	}
	if got := d.Degraded(); got != 3 {
		t.Fatalf("degraded count want=3 got=%d", got)
	}
}

func TestDecodeTable_MissingRequiredColumnsMaterialized(t *testing.T) {
	t.Parallel()

	d := NewDecoder(model.NotasSchema())
	tbl := d.DecodeTable([][]string{
		{"NF", "FORNECEDOR"},
		{"1001", "ACME"},
	})

	for _, want := range []string{"GESTOR_RESP", "ASSINATURA", "GESTORASSINATURA"} {
		found := false
		for _, c := range tbl.Columns {
			if c == want {
				found = true
			}
		}
		if !found {
			t.Fatalf("required column %q not materialized, columns=%v", want, tbl.Columns)
		}
	}

	rec := tbl.Rows[0]
	if rec.Gestor != "" || rec.Assinatura || rec.GestorAssinatura.Valid {
		t.Fatalf("materialized columns must carry defaults: %+v", rec)
	}
}

func TestDecodeTable_EmptyGrid(t *testing.T) {
	t.Parallel()

	d := NewDecoder(model.NotasSchema())
	tbl := d.DecodeTable(nil)
	if len(tbl.Rows) != 0 {
		t.Fatalf("empty grid must decode to zero rows")
	}
	if len(tbl.Columns) != len(model.NotasSchema().RequiredColumns()) {
		t.Fatalf("empty grid must still carry required columns: %v", tbl.Columns)
	}
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	t.Parallel()

	venc, _ := time.Parse(DateLayout, "05/06/2025")
	assinado, _ := time.Parse(DateTimeLayout, "01/06/2025 14:30:00")

	tbl := &model.Table{
		Schema: model.NotasSchema(),
		Columns: []string{
			"NF", "FORNECEDOR", "VALOR", "DT VENC",
			"GESTOR_RESP", "ASSINATURA", "GESTORASSINATURA", "OBS",
		},
		Rows: []model.Record{
			{
				Key: 1, NF: "1001", Fornecedor: "ACME", Valor: 150.5,
				Vencimento: model.NewOptTime(venc), Gestor: "KATIA",
				Assinatura: true, GestorAssinatura: model.NewOptTime(assinado),
				Extra: map[string]string{"OBS": "urgente"},
			},
			{Key: 2, NF: "1002", Gestor: "DANILO"},
		},
	}

	d := NewDecoder(model.NotasSchema())
	got := d.DecodeTable(EncodeTable(tbl))

	if len(got.Rows) != 2 {
		t.Fatalf("rows want=2 got=%d", len(got.Rows))
	}
	r := got.Rows[0]
	if r.NF != "1001" || r.Fornecedor != "ACME" || r.Valor != 150.5 || r.Gestor != "KATIA" {
		t.Fatalf("scalar fields lost: %+v", r)
	}
	if !r.Assinatura || !r.GestorAssinatura.Equal(model.NewOptTime(assinado)) {
		t.Fatalf("signature fields lost: %+v", r)
	}
	if !r.Vencimento.Equal(model.NewOptTime(venc)) {
		t.Fatalf("date lost: %+v", r.Vencimento)
	}
	if r.Extra["OBS"] != "urgente" {
		t.Fatalf("extra column lost: %v", r.Extra)
	}

	// 缺省时间必须编码为空串，再解码仍是缺省
	r2 := got.Rows[1]
	if r2.Vencimento.Valid || r2.GestorAssinatura.Valid || r2.Assinatura {
		t.Fatalf("absent values must survive roundtrip: %+v", r2)
	}
	if d.Degraded() != 0 {
		t.Fatalf("clean roundtrip must not degrade, got %d", d.Degraded())
	}
}
