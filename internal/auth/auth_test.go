package auth

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/ZegOn01/Dmt-Notas/internal/config"
	"github.com/ZegOn01/Dmt-Notas/internal/store"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	st, err := store.New(filepath.Join(t.TempDir(), "dmtnotas.db"))
	if err != nil {
		t.Fatalf("init store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	return New(config.AuthConfig{
		Users:             map[string]string{"KATIA": "1234", "admin": "adm"},
		AdminUser:         "admin",
		SessionTTLMinutes: 60,
	}, st)
}

func TestLogin_Success(t *testing.T) {
	s := newTestService(t)

	actor, err := s.Login("KATIA", "1234")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if actor.User != "KATIA" || actor.Admin || actor.Token == "" {
		t.Fatalf("unexpected actor: %+v", actor)
	}

	got, err := s.Check(actor.Token)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if got.User != "KATIA" {
		t.Fatalf("check user want=KATIA got=%s", got.User)
	}
}

func TestLogin_AdminFlag(t *testing.T) {
	s := newTestService(t)

	actor, err := s.Login("admin", "adm")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if !actor.Admin {
		t.Fatalf("admin user must get admin flag")
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	s := newTestService(t)

	if _, err := s.Login("KATIA", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("want ErrInvalidCredentials got %v", err)
	}
	if _, err := s.Login("DESCONHECIDO", "1234"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("want ErrInvalidCredentials got %v", err)
	}
	if _, err := s.Login("", ""); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("want ErrInvalidCredentials got %v", err)
	}
}

func TestCheck_Expiry(t *testing.T) {
	s := newTestService(t)

	actor, err := s.Login("KATIA", "1234")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	// 把时钟拨过 TTL，会话必须过期并被清掉
	s.Now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if _, err := s.Check(actor.Token); !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("want ErrSessionExpired got %v", err)
	}

	s.Now = time.Now
	if _, err := s.Check(actor.Token); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("expired session must be deleted, got %v", err)
	}
}

func TestLogout(t *testing.T) {
	s := newTestService(t)

	actor, err := s.Login("KATIA", "1234")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := s.Logout(actor.Token); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := s.Check(actor.Token); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("want ErrInvalidSession got %v", err)
	}
}
