package session

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/Kiran-879/ResumePilot/internal/config"
)

func TestFileStoreRoundTrip(t *testing.T) {
	store := &FileStore{Path: filepath.Join(t.TempDir(), "nested", "token")}

	// Load before any save is "" without an error.
	token, err := store.Load()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if token != "" {
		t.Errorf("Expected empty token before save, got '%s'", token)
	}

	if err := store.Save("tok-abc"); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	token, err = store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if token != "tok-abc" {
		t.Errorf("Expected 'tok-abc', got '%s'", token)
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	token, _ = store.Load()
	if token != "" {
		t.Errorf("Expected empty token after clear, got '%s'", token)
	}

	// Clearing again is not an error.
	if err := store.Clear(); err != nil {
		t.Errorf("Second clear should be a no-op, got: %v", err)
	}
}

func TestFileStoreTokenFileMode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("file modes are not meaningful on windows")
	}
	store := &FileStore{Path: filepath.Join(t.TempDir(), "token")}
	if err := store.Save("tok"); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	info, err := os.Stat(store.Path)
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("Expected mode 0600, got %o", info.Mode().Perm())
	}
}

func TestFileStoreOverwrite(t *testing.T) {
	store := &FileStore{Path: filepath.Join(t.TempDir(), "token")}
	if err := store.Save("first"); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := store.Save("second"); err != nil {
		t.Fatalf("Overwrite failed: %v", err)
	}
	token, _ := store.Load()
	if token != "second" {
		t.Errorf("Expected 'second', got '%s'", token)
	}
}

func TestMemoryStore(t *testing.T) {
	store := &MemoryStore{}
	if token, _ := store.Load(); token != "" {
		t.Errorf("Expected empty initial token, got '%s'", token)
	}
	_ = store.Save("tok")
	if token, _ := store.Load(); token != "tok" {
		t.Errorf("Expected 'tok', got '%s'", token)
	}
	_ = store.Clear()
	if token, _ := store.Load(); token != "" {
		t.Errorf("Expected cleared token, got '%s'", token)
	}
}

func TestNewStoreSelection(t *testing.T) {
	tests := []struct {
		name        string
		cfg         config.SessionConfig
		expectError bool
	}{
		{
			name: "keyring backend",
			cfg:  config.SessionConfig{Storage: "keyring", TokenName: "authToken", KeyringService: "resumepilot"},
		},
		{
			name: "file backend",
			cfg:  config.SessionConfig{Storage: "file", TokenFile: "/tmp/token"},
		},
		{
			name:        "vault backend without vault client",
			cfg:         config.SessionConfig{Storage: "vault"},
			expectError: true,
		},
		{
			name:        "unknown backend",
			cfg:         config.SessionConfig{Storage: "redis"},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := NewStore(tt.cfg, nil, nil)
			if tt.expectError {
				if err == nil {
					t.Error("Expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if store == nil {
				t.Error("Expected a store")
			}
		})
	}
}
