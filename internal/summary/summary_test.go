package summary

import (
	"testing"
	"time"

	"github.com/ZegOn01/Dmt-Notas/internal/model"
)

func testTable() *model.Table {
	now := model.NewOptTime(time.Now())
	return &model.Table{
		Schema:  model.NotasSchema(),
		Columns: []string{"NF", "VALOR", "GESTOR_RESP", "ASSINATURA", "GESTORASSINATURA"},
		Rows: []model.Record{
			{Key: 1, NF: "1", Valor: 100, Gestor: "KATIA"},
			{Key: 2, NF: "2", Valor: 50, Gestor: "KATIA", Assinatura: true, GestorAssinatura: now},
			{Key: 3, NF: "3", Valor: 70, Gestor: "DANILO"},
			{Key: 4, NF: "4", Valor: 30, Gestor: "DANILO"},
			{Key: 5, NF: "5", Valor: 10, Gestor: "HEBERTON", Assinatura: true, GestorAssinatura: now},
		},
	}
}

func TestBuild_Counts(t *testing.T) {
	t.Parallel()

	o := Build(testTable())
	if o.Total != 5 || o.Pending != 3 || o.Signed != 2 {
		t.Fatalf("totals wrong: %+v", o)
	}

	// 未签多的在前：DANILO(2) > KATIA(1) > HEBERTON(0)
	if len(o.Managers) != 3 {
		t.Fatalf("managers want=3 got=%d", len(o.Managers))
	}
	if o.Managers[0].Gestor != "DANILO" || o.Managers[0].Pending != 2 || o.Managers[0].PendingValor != 100 {
		t.Fatalf("DANILO stat wrong: %+v", o.Managers[0])
	}
	if o.Managers[1].Gestor != "KATIA" || o.Managers[1].Pending != 1 || o.Managers[1].PendingValor != 100 {
		t.Fatalf("KATIA stat wrong: %+v", o.Managers[1])
	}
}

func TestBuildFor_SingleManager(t *testing.T) {
	t.Parallel()

	o := BuildFor(testTable(), "KATIA")
	if o.Total != 2 || o.Pending != 1 || o.Signed != 1 {
		t.Fatalf("scoped totals wrong: %+v", o)
	}
	if len(o.Managers) != 1 || o.Managers[0].Gestor != "KATIA" {
		t.Fatalf("scoped managers wrong: %+v", o.Managers)
	}
}
