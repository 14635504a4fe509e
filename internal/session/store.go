package session

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Kiran-879/ResumePilot/internal/config"
	"github.com/Kiran-879/ResumePilot/internal/errors"

	"github.com/zalando/go-keyring"
)

// TokenStore persists the one piece of durable client state: the opaque
// session token, keyed by a fixed name. Load returns "" without an error when
// no token is stored.
type TokenStore interface {
	Load() (string, error)
	Save(token string) error
	Clear() error
}

// NewStore builds the token store selected by configuration.
func NewStore(cfg config.SessionConfig, vault *config.VaultClient, logger *errors.Logger) (TokenStore, error) {
	switch cfg.Storage {
	case "keyring":
		return &KeyringStore{Service: cfg.KeyringService, Key: cfg.TokenName}, nil
	case "file":
		return &FileStore{Path: cfg.TokenFile}, nil
	case "vault":
		if vault == nil {
			return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig,
				"Vault token storage selected but Vault is not configured", nil)
		}
		return &VaultStore{client: vault, logger: logger}, nil
	default:
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("Unknown session storage backend: %s", cfg.Storage), nil)
	}
}

// KeyringStore keeps the token in the OS credential store.
type KeyringStore struct {
	Service string
	Key     string
}

func (s *KeyringStore) Load() (string, error) {
	token, err := keyring.Get(s.Service, s.Key)
	if err != nil {
		if err == keyring.ErrNotFound {
			return "", nil
		}
		return "", errors.NewIOError(errors.ErrCodeTokenStore, "Failed to read token from keyring", err)
	}
	return token, nil
}

func (s *KeyringStore) Save(token string) error {
	if err := keyring.Set(s.Service, s.Key, token); err != nil {
		return errors.NewIOError(errors.ErrCodeTokenStore, "Failed to write token to keyring", err)
	}
	return nil
}

func (s *KeyringStore) Clear() error {
	if err := keyring.Delete(s.Service, s.Key); err != nil && err != keyring.ErrNotFound {
		return errors.NewIOError(errors.ErrCodeTokenStore, "Failed to remove token from keyring", err)
	}
	return nil
}

// FileStore keeps the token in a single mode-0600 file. Writes go through a
// temp file and rename so concurrent readers never see a partial token.
type FileStore struct {
	Path string
}

func (s *FileStore) Load() (string, error) {
	content, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", errors.NewIOError(errors.ErrCodeTokenStore, "Failed to read token file", err)
	}
	return strings.TrimSpace(string(content)), nil
}

func (s *FileStore) Save(token string) error {
	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return errors.NewIOError(errors.ErrCodeTokenStore, "Failed to create token directory", err)
	}

	tmp, err := os.CreateTemp(dir, ".token-*")
	if err != nil {
		return errors.NewIOError(errors.ErrCodeTokenStore, "Failed to create token file", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.WriteString(token + "\n"); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return errors.NewIOError(errors.ErrCodeTokenStore, "Failed to write token file", err)
	}
	if err := tmp.Chmod(0600); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return errors.NewIOError(errors.ErrCodeTokenStore, "Failed to set token file mode", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return errors.NewIOError(errors.ErrCodeTokenStore, "Failed to close token file", err)
	}
	if err := os.Rename(tmpName, s.Path); err != nil {
		_ = os.Remove(tmpName)
		return errors.NewIOError(errors.ErrCodeTokenStore, "Failed to replace token file", err)
	}
	return nil
}

func (s *FileStore) Clear() error {
	if err := os.Remove(s.Path); err != nil && !os.IsNotExist(err) {
		return errors.NewIOError(errors.ErrCodeTokenStore, "Failed to remove token file", err)
	}
	return nil
}

// VaultStore reads the token from Vault for CI and shared-automation use.
// It is read-only: interactive login cannot persist through it, and Clear is
// a local no-op so an expired session doesn't try to mutate Vault.
type VaultStore struct {
	client *config.VaultClient
	logger *errors.Logger
}

func (s *VaultStore) Load() (string, error) {
	token, err := s.client.GetAPIToken()
	if err != nil {
		return "", errors.NewIOError(errors.ErrCodeTokenStore, "Failed to read token from Vault", err)
	}
	return token, nil
}

func (s *VaultStore) Save(string) error {
	return errors.NewConfigError(errors.ErrCodeInvalidConfig,
		"Vault token storage is read-only; log in with a keyring or file backend", nil)
}

func (s *VaultStore) Clear() error {
	if s.logger != nil {
		s.logger.Debug("Vault token storage is read-only, skipping clear")
	}
	return nil
}

// MemoryStore holds the token in memory only. Used by tests and one-shot
// invocations that must not leave a session behind.
type MemoryStore struct {
	mu    sync.Mutex
	token string
}

func (s *MemoryStore) Load() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, nil
}

func (s *MemoryStore) Save(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return nil
}
