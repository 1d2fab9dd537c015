package platform

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestSecondInstanceActivatesFirst(t *testing.T) {
	appName := fmt.Sprintf("focustimer-test-%d", time.Now().UnixNano())
	guard, err := AcquireSingleInstance(appName)
	if err != nil {
		t.Skipf("cannot bind test port: %v", err)
	}
	defer guard.Release()

	activated := make(chan struct{}, 1)
	guard.OnActivate(func() { activated <- struct{}{} })

	if _, err := AcquireSingleInstance(appName); !errors.Is(err, ErrAlreadyRunning) {
		t.Fatalf("expected ErrAlreadyRunning, got %v", err)
	}
	select {
	case <-activated:
	case <-time.After(2 * time.Second):
		t.Fatalf("running instance was not activated")
	}
}

func TestPortFromNameIsStable(t *testing.T) {
	first := portFromName("FocusTimer")
	if first != portFromName("FocusTimer") || first < 20000 || first > 39999 {
		t.Fatalf("unexpected port %d", first)
	}
}

func TestConfigDir(t *testing.T) {
	dir, err := ConfigDir()
	if err != nil || dir == "" {
		t.Fatalf("expected a config dir, got %q %v", dir, err)
	}
}
