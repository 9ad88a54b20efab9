package store

import (
	"database/sql"
	"fmt"
	"time"
)

// Session 一次登录会话
type Session struct {
	Token     string
	User      string
	Admin     bool
	CreatedAt time.Time
}

// CreateSession 写入新会话
func (s *Store) CreateSession(token, user string, admin bool, createdAt time.Time) error {
	admInt := 0
	if admin {
		admInt = 1
	}
	_, err := s.db.Exec(`
		INSERT INTO sessions (token, user, is_admin, created_at) VALUES (?, ?, ?, ?)
	`, token, user, admInt, createdAt.UTC())
	if err != nil {
		return fmt.Errorf("insert session failed: %w", err)
	}
	return nil
}

// GetSession 按 token 查会话；不存在返回 (nil, nil)
func (s *Store) GetSession(token string) (*Session, error) {
	var sess Session
	var admInt int
	err := s.db.QueryRow(`
		SELECT token, user, is_admin, created_at FROM sessions WHERE token = ?
	`, token).Scan(&sess.Token, &sess.User, &admInt, &sess.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query session failed: %w", err)
	}
	sess.Admin = admInt != 0
	return &sess, nil
}

// DeleteSession 删除会话（登出）
func (s *Store) DeleteSession(token string) error {
	if _, err := s.db.Exec("DELETE FROM sessions WHERE token = ?", token); err != nil {
		return fmt.Errorf("delete session failed: %w", err)
	}
	return nil
}

// PurgeSessionsBefore 清掉给定时刻之前创建的过期会话
func (s *Store) PurgeSessionsBefore(cutoff time.Time) error {
	if _, err := s.db.Exec("DELETE FROM sessions WHERE created_at < ?", cutoff.UTC()); err != nil {
		return fmt.Errorf("purge sessions failed: %w", err)
	}
	return nil
}
