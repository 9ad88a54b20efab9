// Package auth 会话层：校验口令、颁发会话 token、确定 current_actor。
// 票据业务对会话层是单向依赖：这里只产出操作者身份，不反向暴露任何业务接口。
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ZegOn01/Dmt-Notas/internal/config"
	"github.com/ZegOn01/Dmt-Notas/internal/store"
)

var (
	ErrInvalidCredentials = errors.New("invalid user or password")
	ErrInvalidSession     = errors.New("invalid session token")
	ErrSessionExpired     = errors.New("session expired")
)

// Actor 一次会话里的操作者身份
type Actor struct {
	Token string `json:"token"`
	User  string `json:"user"`
	Admin bool   `json:"admin"`
}

// Service 登录/会话服务
// Now 可注入，测试里用固定时间驱动过期
type Service struct {
	users     map[string]string
	adminUser string
	ttl       time.Duration
	store     *store.Store
	Now       func() time.Time
}

// New 创建会话服务
func New(cfg config.AuthConfig, st *store.Store) *Service {
	ttl := time.Duration(cfg.SessionTTLMinutes) * time.Minute
	if ttl <= 0 {
		ttl = 8 * time.Hour
	}
	return &Service{
		users:     cfg.Users,
		adminUser: cfg.AdminUser,
		ttl:       ttl,
		store:     st,
		Now:       time.Now,
	}
}

// Login 校验口令并颁发会话
func (s *Service) Login(user, password string) (*Actor, error) {
	if user == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	want, ok := s.users[user]
	if !ok || want != password {
		return nil, ErrInvalidCredentials
	}

	token := uuid.New().String()
	admin := user == s.adminUser
	if err := s.store.CreateSession(token, user, admin, s.Now()); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return &Actor{Token: token, User: user, Admin: admin}, nil
}

// Logout 注销会话；token 不存在也不算错
func (s *Service) Logout(token string) error {
	return s.store.DeleteSession(token)
}

// Check 校验 token 并返回操作者身份
// 过期会话当场删除；没有有效身份就不允许任何角色范围内的操作
func (s *Service) Check(token string) (*Actor, error) {
	if token == "" {
		return nil, ErrInvalidSession
	}
	sess, err := s.store.GetSession(token)
	if err != nil {
		return nil, fmt.Errorf("lookup session: %w", err)
	}
	if sess == nil {
		return nil, ErrInvalidSession
	}
	if s.Now().Sub(sess.CreatedAt) > s.ttl {
		_ = s.store.DeleteSession(token)
		return nil, ErrSessionExpired
	}
	return &Actor{Token: sess.Token, User: sess.User, Admin: sess.Admin}, nil
}
