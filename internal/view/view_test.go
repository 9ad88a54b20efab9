package view

import (
	"testing"
	"time"

	"github.com/ZegOn01/Dmt-Notas/internal/model"
)

func sampleTable() *model.Table {
	return &model.Table{
		Schema:  model.NotasSchema(),
		Columns: []string{"NF", "GESTOR_RESP", "ASSINATURA", "GESTORASSINATURA"},
		Rows: []model.Record{
			{Key: 1, NF: "1001", Gestor: "KATIA"},
			{Key: 2, NF: "1002", Gestor: "DANILO"},
			{Key: 3, NF: "1003", Gestor: "KATIA", Assinatura: true},
		},
	}
}

func TestDerive_OwnerIsolation(t *testing.T) {
	t.Parallel()

	v := Derive(sampleTable(), OwnerIs("KATIA"))
	if len(v.Rows) != 2 {
		t.Fatalf("rows want=2 got=%d", len(v.Rows))
	}
	for _, r := range v.Rows {
		if r.Gestor != "KATIA" {
			t.Fatalf("foreign row leaked into view: %+v", r)
		}
	}
}

func TestDerive_AllKeepsEverything(t *testing.T) {
	t.Parallel()

	v := Derive(sampleTable(), All())
	if len(v.Rows) != 3 {
		t.Fatalf("rows want=3 got=%d", len(v.Rows))
	}
}

func TestDerive_EmptyViewIsValid(t *testing.T) {
	t.Parallel()

	v := Derive(sampleTable(), OwnerIs("NINGUEM"))
	if !v.Empty() {
		t.Fatalf("want empty view")
	}
	if v.Rows != nil && len(v.Rows) != 0 {
		t.Fatalf("unexpected rows: %+v", v.Rows)
	}
}

func TestDerive_RowsAreCopies(t *testing.T) {
	t.Parallel()

	tbl := sampleTable()
	v := Derive(tbl, OwnerIs("KATIA"))

	v.Rows[0].Assinatura = true
	if tbl.Rows[0].Assinatura {
		t.Fatalf("editing the view must not touch the authoritative table")
	}
	if !v.Contains(1) || v.Contains(2) {
		t.Fatalf("back-references wrong: %v", v.Keys())
	}
}

func TestUnsigned(t *testing.T) {
	t.Parallel()

	tbl := sampleTable()
	tbl.Rows[2].GestorAssinatura = model.NewOptTime(time.Now())

	v := Derive(tbl, Unsigned())
	if len(v.Rows) != 2 {
		t.Fatalf("unsigned rows want=2 got=%d", len(v.Rows))
	}
}
