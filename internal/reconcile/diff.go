package reconcile

import "github.com/ZegOn01/Dmt-Notas/internal/model"

// FieldTransition 同一逻辑行两个版本之间某个字段的变化
type FieldTransition struct {
	Field string
	Old   any
	New   any
}

// Diff 比较同一行的前后两个版本，返回实际发生变化的字段
// 只比较业务字段与透传列，不比较 Key
func Diff(before, after model.Record) []FieldTransition {
	var out []FieldTransition

	add := func(field string, oldVal, newVal any) {
		out = append(out, FieldTransition{Field: field, Old: oldVal, New: newVal})
	}

	if before.NF != after.NF {
		add(model.ColNF, before.NF, after.NF)
	}
	if before.Fornecedor != after.Fornecedor {
		add(model.ColFornecedor, before.Fornecedor, after.Fornecedor)
	}
	if before.Valor != after.Valor {
		add(model.ColValor, before.Valor, after.Valor)
	}
	if !before.Vencimento.Equal(after.Vencimento) {
		add(model.ColVencimento, before.Vencimento, after.Vencimento)
	}
	if before.Gestor != after.Gestor {
		add(model.ColGestor, before.Gestor, after.Gestor)
	}
	if before.Assinatura != after.Assinatura {
		add(model.ColAssinatura, before.Assinatura, after.Assinatura)
	}
	if !before.GestorAssinatura.Equal(after.GestorAssinatura) {
		add(model.ColGestorAssinatura, before.GestorAssinatura, after.GestorAssinatura)
	}
	if before.Devolucao != after.Devolucao {
		add(model.ColDevolucao, before.Devolucao, after.Devolucao)
	}
	if !before.DataDevolucao.Equal(after.DataDevolucao) {
		add(model.ColDataDevolucao, before.DataDevolucao, after.DataDevolucao)
	}
	if !before.EntregaGestor.Equal(after.EntregaGestor) {
		add(model.ColEntregaGestor, before.EntregaGestor, after.EntregaGestor)
	}

	for k, newVal := range after.Extra {
		if oldVal, ok := before.Extra[k]; !ok || oldVal != newVal {
			var old any
			if ok {
				old = oldVal
			}
			add(k, old, newVal)
		}
	}
	for k, oldVal := range before.Extra {
		if _, ok := after.Extra[k]; !ok {
			add(k, oldVal, nil)
		}
	}

	return out
}

// flagRaised 判断某个布尔字段是否发生了 false→true 的跃迁
// true→false 没有任何副作用（刻意保持单向）
func flagRaised(transitions []FieldTransition, field string) bool {
	for _, tr := range transitions {
		if tr.Field != field {
			continue
		}
		oldB, okOld := tr.Old.(bool)
		newB, okNew := tr.New.(bool)
		if okOld && okNew && !oldB && newB {
			return true
		}
	}
	return false
}
