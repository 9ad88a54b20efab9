package api

import (
	"fmt"
	"strings"
	"time"

	"github.com/ZegOn01/Dmt-Notas/internal/coerce"
	"github.com/ZegOn01/Dmt-Notas/internal/model"
)

// recordPayload 一行票据在 JSON 线上的形态
// 日期按远端同款格式传输（日在前），缺省值为空串
type recordPayload struct {
	Key              int               `json:"key"`
	NF               string            `json:"nf"`
	Fornecedor       string            `json:"fornecedor"`
	Valor            float64           `json:"valor"`
	Vencimento       string            `json:"vencimento"`
	Gestor           string            `json:"gestor"`
	Assinatura       bool              `json:"assinatura"`
	GestorAssinatura string            `json:"gestorAssinatura"`
	Devolucao        bool              `json:"devolucao"`
	DataDevolucao    string            `json:"dataDevolucao"`
	EntregaGestor    string            `json:"entregaGestor"`
	Extra            map[string]string `json:"extra,omitempty"`
}

// toPayload 把内存行编码为线上形态
func toPayload(rec model.Record) recordPayload {
	return recordPayload{
		Key:              int(rec.Key),
		NF:               rec.NF,
		Fornecedor:       rec.Fornecedor,
		Valor:            rec.Valor,
		Vencimento:       coerce.FormatTime(model.KindDate, rec.Vencimento),
		Gestor:           rec.Gestor,
		Assinatura:       rec.Assinatura,
		GestorAssinatura: coerce.FormatTime(model.KindDateTime, rec.GestorAssinatura),
		Devolucao:        rec.Devolucao,
		DataDevolucao:    coerce.FormatTime(model.KindDateTime, rec.DataDevolucao),
		EntregaGestor:    coerce.FormatTime(model.KindDate, rec.EntregaGestor),
		Extra:            rec.Extra,
	}
}

// toPayloads 整批编码
func toPayloads(rows []model.Record) []recordPayload {
	out := make([]recordPayload, len(rows))
	for i := range rows {
		out[i] = toPayload(rows[i])
	}
	return out
}

// toRecord 把线上形态解码为内存行
// 与远端解码不同，线上的坏日期是客户端缺陷，直接报错而不是退化
func toRecord(p recordPayload) (model.Record, error) {
	rec := model.Record{
		Key:        model.RowKey(p.Key),
		NF:         p.NF,
		Fornecedor: p.Fornecedor,
		Valor:      p.Valor,
		Gestor:     p.Gestor,
		Assinatura: p.Assinatura,
		Devolucao:  p.Devolucao,
		Extra:      p.Extra,
	}

	var err error
	if rec.Vencimento, err = parseWireTime(p.Vencimento); err != nil {
		return rec, fmt.Errorf("field vencimento: %w", err)
	}
	if rec.GestorAssinatura, err = parseWireTime(p.GestorAssinatura); err != nil {
		return rec, fmt.Errorf("field gestorAssinatura: %w", err)
	}
	if rec.DataDevolucao, err = parseWireTime(p.DataDevolucao); err != nil {
		return rec, fmt.Errorf("field dataDevolucao: %w", err)
	}
	if rec.EntregaGestor, err = parseWireTime(p.EntregaGestor); err != nil {
		return rec, fmt.Errorf("field entregaGestor: %w", err)
	}
	return rec, nil
}

// toRecords 整批解码
func toRecords(payloads []recordPayload) ([]model.Record, error) {
	out := make([]model.Record, len(payloads))
	for i := range payloads {
		rec, err := toRecord(payloads[i])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		out[i] = rec
	}
	return out, nil
}

// parseWireTime 解析线上的日期/时间字符串，空串表示缺省
func parseWireTime(s string) (model.OptTime, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return model.OptTime{}, nil
	}
	for _, layout := range []string{coerce.DateTimeLayout, coerce.DateLayout} {
		if t, err := time.Parse(layout, s); err == nil {
			return model.NewOptTime(t), nil
		}
	}
	return model.OptTime{}, fmt.Errorf("invalid date %q", s)
}
