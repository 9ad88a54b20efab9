package store

import (
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := New(filepath.Join(t.TempDir(), "dmtnotas.db"))
	if err != nil {
		t.Fatalf("init store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestSessions_CreateGetDelete(t *testing.T) {
	st := newTestStore(t)

	now := time.Now()
	if err := st.CreateSession("tok-1", "KATIA", false, now); err != nil {
		t.Fatalf("create session: %v", err)
	}

	sess, err := st.GetSession("tok-1")
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if sess == nil || sess.User != "KATIA" || sess.Admin {
		t.Fatalf("unexpected session: %+v", sess)
	}

	if err := st.DeleteSession("tok-1"); err != nil {
		t.Fatalf("delete session: %v", err)
	}
	sess, err = st.GetSession("tok-1")
	if err != nil {
		t.Fatalf("get after delete: %v", err)
	}
	if sess != nil {
		t.Fatalf("session must be gone, got %+v", sess)
	}
}

func TestSessions_Purge(t *testing.T) {
	st := newTestStore(t)

	old := time.Now().Add(-2 * time.Hour)
	if err := st.CreateSession("tok-old", "DANILO", false, old); err != nil {
		t.Fatalf("create old: %v", err)
	}
	if err := st.CreateSession("tok-new", "DANILO", false, time.Now()); err != nil {
		t.Fatalf("create new: %v", err)
	}

	if err := st.PurgeSessionsBefore(time.Now().Add(-time.Hour)); err != nil {
		t.Fatalf("purge: %v", err)
	}

	if sess, _ := st.GetSession("tok-old"); sess != nil {
		t.Fatalf("old session must be purged")
	}
	if sess, _ := st.GetSession("tok-new"); sess == nil {
		t.Fatalf("fresh session must survive purge")
	}
}

func TestAudit_AddAndList(t *testing.T) {
	st := newTestStore(t)

	if err := st.AddAudit("KATIA", "Notas", "save", 5, []int{1, 3}); err != nil {
		t.Fatalf("add audit: %v", err)
	}
	if err := st.AddAudit("admin", "Notas", "replace", 7, nil); err != nil {
		t.Fatalf("add audit: %v", err)
	}

	entries, err := st.ListAudit(10)
	if err != nil {
		t.Fatalf("list audit: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries want=2 got=%d", len(entries))
	}
	// 倒序：最后写入的在前
	if entries[0].Actor != "admin" || entries[1].StampedKeys != "1,3" {
		t.Fatalf("unexpected order/content: %+v", entries)
	}
}

func TestDecodeStats(t *testing.T) {
	st := newTestStore(t)

	if err := st.RecordDegradation("Notas", 0); err != nil {
		t.Fatalf("record zero: %v", err)
	}
	if err := st.RecordDegradation("Notas", 3); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := st.RecordDegradation("Notas", 2); err != nil {
		t.Fatalf("record: %v", err)
	}

	total, err := st.DegradedTotal("Notas")
	if err != nil {
		t.Fatalf("total: %v", err)
	}
	if total != 5 {
		t.Fatalf("degraded total want=5 got=%d", total)
	}
}
