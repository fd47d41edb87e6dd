package server

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kash05/court-connect/internal/courtconnect"
	"github.com/kash05/court-connect/internal/wizard"
)

func noSubmit(context.Context, courtconnect.PropertyForm) (string, error) {
	return "", errors.New("unused")
}

func mustCreate(t *testing.T, reg *WizardRegistry, ownerID string) *wizardSession {
	t.Helper()
	sess, err := reg.Create(ownerID, wizard.SubmitFunc(noSubmit))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	return sess
}

func TestWizardRegistryOwnership(t *testing.T) {
	reg := NewWizardRegistry(time.Minute, 100)
	t.Cleanup(reg.Stop)

	sess := mustCreate(t, reg, "owner-1")

	got, err := reg.Get(sess.id, "owner-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != sess {
		t.Error("expected the same session")
	}
	if _, err := reg.Get(sess.id, "owner-2"); !errors.Is(err, ErrNotFound) {
		t.Errorf("other owner: expected ErrNotFound, got %v", err)
	}
	if err := reg.Delete(sess.id, "owner-2"); !errors.Is(err, ErrNotFound) {
		t.Errorf("other owner delete: expected ErrNotFound, got %v", err)
	}
	if err := reg.Delete(sess.id, "owner-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := reg.Get(sess.id, "owner-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("after delete: expected ErrNotFound, got %v", err)
	}
}

func TestWizardRegistryExpiry(t *testing.T) {
	reg := NewWizardRegistry(20*time.Millisecond, 100)
	t.Cleanup(reg.Stop)

	sess := mustCreate(t, reg, "owner-1")
	time.Sleep(40 * time.Millisecond)

	if _, err := reg.Get(sess.id, "owner-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected abandoned session to expire, got %v", err)
	}
}

func TestWizardRegistryCheck(t *testing.T) {
	reg := NewWizardRegistry(time.Minute, 2)
	t.Cleanup(reg.Stop)
	ctx := context.Background()

	mustCreate(t, reg, "owner-1")
	if err := reg.Check(ctx); err != nil {
		t.Fatalf("expected healthy registry, got %v", err)
	}

	mustCreate(t, reg, "owner-2")
	if err := reg.Check(ctx); err == nil {
		t.Fatal("expected a full registry to fail the check")
	}
}

func TestWizardRegistryFullKeepsLiveSessions(t *testing.T) {
	reg := NewWizardRegistry(time.Hour, 3)
	t.Cleanup(reg.Stop)

	var live []*wizardSession
	for i := 0; i < 3; i++ {
		live = append(live, mustCreate(t, reg, "owner-1"))
	}
	if _, err := reg.Create("owner-2", wizard.SubmitFunc(noSubmit)); !errors.Is(err, ErrRegistryFull) {
		t.Fatalf("expected ErrRegistryFull, got %v", err)
	}

	// Give the cache worker time to prune if it were going to.
	time.Sleep(100 * time.Millisecond)
	for i, sess := range live {
		if _, err := reg.Get(sess.id, "owner-1"); err != nil {
			t.Errorf("session %d lost: %v", i, err)
		}
	}
}

func TestWizardRegistryReclaimsExpired(t *testing.T) {
	reg := NewWizardRegistry(20*time.Millisecond, 2)
	t.Cleanup(reg.Stop)

	mustCreate(t, reg, "owner-1")
	mustCreate(t, reg, "owner-1")
	time.Sleep(40 * time.Millisecond)

	if _, err := reg.Create("owner-2", wizard.SubmitFunc(noSubmit)); err != nil {
		t.Fatalf("expected expired sessions to make room, got %v", err)
	}
}
