package store

import (
	"fmt"
	"strings"
	"time"
)

// AuditEntry 一次成功保存的审计记录
type AuditEntry struct {
	ID          int64     `json:"id"`
	Actor       string    `json:"actor"`
	SheetName   string    `json:"sheetName"`
	Action      string    `json:"action"`
	RowCount    int       `json:"rowCount"`
	StampedKeys string    `json:"stampedKeys"`
	CreatedAt   time.Time `json:"createdAt"`
}

// AddAudit 记录一次成功的对账写回
func (s *Store) AddAudit(actor, sheetName, action string, rowCount int, stampedKeys []int) error {
	keys := make([]string, 0, len(stampedKeys))
	for _, k := range stampedKeys {
		keys = append(keys, fmt.Sprintf("%d", k))
	}
	_, err := s.db.Exec(`
		INSERT INTO reconcile_audit (actor, sheet_name, action, row_count, stamped_keys)
		VALUES (?, ?, ?, ?, ?)
	`, actor, sheetName, action, rowCount, strings.Join(keys, ","))
	if err != nil {
		return fmt.Errorf("insert audit failed: %w", err)
	}
	return nil
}

// ListAudit 按时间倒序列出最近的审计记录
func (s *Store) ListAudit(limit int) ([]AuditEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(`
		SELECT id, actor, sheet_name, action, row_count, stamped_keys, created_at
		FROM reconcile_audit ORDER BY id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query audit failed: %w", err)
	}
	defer rows.Close()

	var out []AuditEntry
	for rows.Next() {
		var e AuditEntry
		if err := rows.Scan(&e.ID, &e.Actor, &e.SheetName, &e.Action, &e.RowCount, &e.StampedKeys, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit failed: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// RecordDegradation 记录一次 Fetch 的解码退化单元格数；0 不记，避免噪音
func (s *Store) RecordDegradation(sheetName string, degraded int) error {
	if degraded == 0 {
		return nil
	}
	_, err := s.db.Exec(`
		INSERT INTO decode_stats (sheet_name, degraded) VALUES (?, ?)
	`, sheetName, degraded)
	if err != nil {
		return fmt.Errorf("insert decode stats failed: %w", err)
	}
	return nil
}

// DegradedTotal 某张表累计的退化单元格数
func (s *Store) DegradedTotal(sheetName string) (int, error) {
	var total int
	err := s.db.QueryRow(`
		SELECT COALESCE(SUM(degraded), 0) FROM decode_stats WHERE sheet_name = ?
	`, sheetName).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("query decode stats failed: %w", err)
	}
	return total, nil
}
