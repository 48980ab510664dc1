package session

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/wricardo/gridsnake/game/engine"
)

func createTestConfig() *engine.GameConfig {
	config := engine.DefaultConfig()
	config.Name = "Test Config"
	config.Seed = 11
	return config
}

func TestManager_Create(t *testing.T) {
	manager := NewManager()
	config := createTestConfig()

	t.Run("create with custom ID", func(t *testing.T) {
		session, err := manager.Create("test-session", config)
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if session.ID != "test-session" {
			t.Errorf("Expected session ID 'test-session', got '%s'", session.ID)
		}
		if session.Engine == nil {
			t.Error("Expected engine to be initialized")
		}
		if session.CreatedAt.IsZero() || session.LastAccessedAt().IsZero() {
			t.Error("Expected timestamps to be set")
		}
	})

	t.Run("create with auto-generated ID", func(t *testing.T) {
		session, err := manager.Create("", config)
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if len(session.ID) != 4 {
			t.Errorf("Expected 4-character ID, got '%s'", session.ID)
		}
	})

	t.Run("duplicate ID is rejected case-insensitively", func(t *testing.T) {
		_, err := manager.Create("TEST-SESSION", config)
		if !errors.Is(err, ErrSessionAlreadyExists) {
			t.Errorf("Expected ErrSessionAlreadyExists, got %v", err)
		}
	})

	t.Run("invalid config", func(t *testing.T) {
		bad := createTestConfig()
		bad.TickRate = 0
		if _, err := manager.Create("bad", bad); err == nil {
			t.Error("Expected error for invalid config")
		}
	})
}

func TestManager_Get(t *testing.T) {
	manager := NewManager()
	created, _ := manager.Create("AbCd", createTestConfig())

	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{"exact case", "AbCd", false},
		{"lower case", "abcd", false},
		{"upper case", "ABCD", false},
		{"missing", "zzzz", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session, err := manager.Get(tt.id)
			if tt.wantErr {
				if !errors.Is(err, ErrSessionNotFound) {
					t.Errorf("Expected ErrSessionNotFound, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if session != created {
				t.Error("Expected the same session instance")
			}
		})
	}
}

func TestManager_Delete(t *testing.T) {
	manager := NewManager()
	manager.Create("gone", createTestConfig())

	if err := manager.Delete("GONE"); err != nil {
		t.Fatalf("Failed to delete session: %v", err)
	}
	if _, err := manager.Get("gone"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected session to be gone, got %v", err)
	}
	if err := manager.Delete("gone"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound on second delete, got %v", err)
	}
}

func TestManager_List(t *testing.T) {
	manager := NewManager()
	for i := 0; i < 3; i++ {
		if _, err := manager.Create("", createTestConfig()); err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
	}

	if len(manager.List()) != 3 {
		t.Errorf("Expected 3 sessions, got %d", len(manager.List()))
	}
	if manager.Count() != 3 {
		t.Errorf("Expected count 3, got %d", manager.Count())
	}
}

func TestManager_UpdateLastAccessed(t *testing.T) {
	manager := NewManager()
	session, _ := manager.Create("touch", createTestConfig())
	before := session.LastAccessedAt()

	time.Sleep(5 * time.Millisecond)
	if err := manager.UpdateLastAccessed("touch"); err != nil {
		t.Fatalf("Failed to update last accessed: %v", err)
	}

	if !session.LastAccessedAt().After(before) {
		t.Error("Expected last accessed time to move forward")
	}
	if err := manager.UpdateLastAccessed("missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}
}

func TestManager_SessionIsolation(t *testing.T) {
	manager := NewManager()
	a, _ := manager.Create("a", createTestConfig())
	b, _ := manager.Create("b", createTestConfig())

	a.Engine.PressKey(engine.KeyArrowDown)
	a.Engine.Tick()

	if b.Engine.Snapshot().Tick != 0 {
		t.Error("Ticking one session advanced another")
	}
	if b.Engine.Heading() != engine.HeadingRight {
		t.Error("A key press in one session changed another")
	}
}

func TestManager_ConcurrentAccess(t *testing.T) {
	manager := NewManager()
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			session, err := manager.Create("", createTestConfig())
			if err != nil {
				t.Errorf("Failed to create session: %v", err)
				return
			}
			manager.Get(session.ID)
			manager.UpdateLastAccessed(session.ID)
			manager.List()
		}()
	}
	wg.Wait()

	if manager.Count() != 20 {
		t.Errorf("Expected 20 sessions, got %d", manager.Count())
	}
}

func TestManager_SessionIDGeneration(t *testing.T) {
	manager := NewManager()
	seen := make(map[string]bool)

	for i := 0; i < 50; i++ {
		session, err := manager.Create("", createTestConfig())
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if seen[session.ID] {
			t.Fatalf("Duplicate session ID %s", session.ID)
		}
		seen[session.ID] = true

		if strings.ToLower(session.ID) != session.ID {
			t.Errorf("Expected lower-case hex ID, got %s", session.ID)
		}
	}
}
