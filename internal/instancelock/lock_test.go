package instancelock_test

import (
	"errors"
	"path/filepath"
	"testing"

	"myfilms/internal/instancelock"
)

func TestSecondAcquireFailsUntilReleased(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "myfilms.lock")

	first, err := instancelock.Acquire(path)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if _, err := instancelock.Acquire(path); !errors.Is(err, instancelock.ErrHeld) {
		t.Fatalf("expected ErrHeld, got %v", err)
	}
	if err := first.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
	second, err := instancelock.Acquire(path)
	if err != nil {
		t.Fatalf("Acquire after release: %v", err)
	}
	_ = second.Release()

	var nilLock *instancelock.Lock
	if err := nilLock.Release(); err != nil {
		t.Fatalf("nil Release: %v", err)
	}
}
