package session

import (
	"context"
	"sync"

	"github.com/Kiran-879/ResumePilot/internal/errors"
	"github.com/Kiran-879/ResumePilot/internal/types"
)

// State is the session lifecycle position.
type State int

const (
	// StateUnknown is the initial state, before rehydration resolves.
	// Gated views must render a neutral loading state here, never the
	// authenticated or anonymous screen.
	StateUnknown State = iota
	StateAuthenticated
	StateAnonymous
)

func (s State) String() string {
	switch s {
	case StateAuthenticated:
		return "authenticated"
	case StateAnonymous:
		return "anonymous"
	default:
		return "unknown"
	}
}

// Snapshot is a point-in-time copy of the session for view code.
// IsAuthenticated is true iff both User and Token are present.
type Snapshot struct {
	State           State
	User            *types.UserProfile
	Token           string
	IsAuthenticated bool
	Loading         bool
	Error           string
}

// LoginResult is the structured outcome of a login attempt. Login never
// returns an error for credential problems; forms read Error and Field to
// flag the offending input without a try/catch equivalent.
type LoginResult struct {
	Success bool
	Error   string
	Field   string
}

// RegisterResult is the structured outcome of a registration attempt.
type RegisterResult struct {
	Success bool
	Error   string
}

// Authenticator is the slice of the auth API the session machine needs.
type Authenticator interface {
	Login(ctx context.Context, creds types.Credentials) (*types.LoginResponse, error)
	Register(ctx context.Context, req types.RegisterRequest) (*types.UserProfile, error)
	Profile(ctx context.Context) (*types.UserProfile, error)
}

// Manager owns the authenticated-user/token lifecycle. It is the only writer
// of the persisted token; the API client reads the in-memory copy through
// Token on every request.
type Manager struct {
	mu     sync.RWMutex
	store  TokenStore
	auth   Authenticator
	logger *errors.Logger

	state   State
	user    *types.UserProfile
	token   string
	loading bool
	lastErr string
}

// NewManager creates a session manager in the Unknown state. Bind must be
// called before Rehydrate or Login.
func NewManager(store TokenStore, logger *errors.Logger) *Manager {
	return &Manager{
		store:   store,
		logger:  logger,
		state:   StateUnknown,
		loading: true,
	}
}

// Bind attaches the auth service. Separate from the constructor because the
// API client that backs the service needs this manager's Token first.
func (m *Manager) Bind(auth Authenticator) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.auth = auth
}

// Token returns the current in-memory session token, or "".
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

// Snapshot returns a copy of the current session state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Snapshot{
		State:           m.state,
		User:            m.user,
		Token:           m.token,
		IsAuthenticated: m.state == StateAuthenticated && m.user != nil && m.token != "",
		Loading:         m.loading,
		Error:           m.lastErr,
	}
}

// Rehydrate resolves the initial Unknown state once, at startup. A persisted
// token is verified with a profile fetch; a stale token is cleared rather
// than surfaced as an authenticated session.
func (m *Manager) Rehydrate(ctx context.Context) Snapshot {
	token, err := m.store.Load()
	if err != nil {
		if m.logger != nil {
			m.logger.LogError(err, "Failed to load persisted token")
		}
		m.setAnonymous("")
		return m.Snapshot()
	}

	if token == "" {
		m.setAnonymous("")
		return m.Snapshot()
	}

	m.mu.Lock()
	m.token = token
	m.mu.Unlock()

	user, err := m.auth.Profile(ctx)
	if err != nil {
		if m.logger != nil {
			m.logger.Warn("Persisted token rejected, clearing session", "error", err)
		}
		if cerr := m.store.Clear(); cerr != nil && m.logger != nil {
			m.logger.LogError(cerr, "Failed to clear stale token")
		}
		m.setAnonymous("Invalid token")
		return m.Snapshot()
	}

	m.mu.Lock()
	m.state = StateAuthenticated
	m.user = user
	m.loading = false
	m.lastErr = ""
	m.mu.Unlock()

	if m.logger != nil {
		m.logger.Debug("Session rehydrated", "username", user.Username, "role", string(user.Role))
	}
	return m.Snapshot()
}

// Login authenticates and fetches the profile. Both calls must succeed to
// reach Authenticated; any failure leaves the session Anonymous and comes
// back as a structured result instead of an error.
func (m *Manager) Login(ctx context.Context, creds types.Credentials) LoginResult {
	// A stale token must not outlive a failed login attempt.
	if err := m.store.Clear(); err != nil && m.logger != nil {
		m.logger.LogError(err, "Failed to clear stale token before login")
	}
	m.mu.Lock()
	m.token = ""
	m.user = nil
	m.loading = true
	m.mu.Unlock()

	resp, err := m.auth.Login(ctx, creds)
	if err != nil {
		m.setAnonymous("")
		return loginFailure(err)
	}
	if resp.Token == "" {
		m.setAnonymous("")
		return LoginResult{Success: false, Error: "Login failed"}
	}

	m.mu.Lock()
	m.token = resp.Token
	m.mu.Unlock()

	if err := m.store.Save(resp.Token); err != nil {
		if m.logger != nil {
			m.logger.LogError(err, "Failed to persist session token")
		}
		// The session still works for this process; only persistence failed.
	}

	user, err := m.auth.Profile(ctx)
	if err != nil {
		// Token was issued but the profile fetch failed; tear the
		// half-open session down so the caller sees a clean failure.
		if cerr := m.store.Clear(); cerr != nil && m.logger != nil {
			m.logger.LogError(cerr, "Failed to clear token after profile failure")
		}
		m.mu.Lock()
		m.token = ""
		m.mu.Unlock()
		m.setAnonymous("")
		return loginFailure(err)
	}

	m.mu.Lock()
	m.state = StateAuthenticated
	m.user = user
	m.loading = false
	m.lastErr = ""
	m.mu.Unlock()

	if m.logger != nil {
		m.logger.Info("Login succeeded", "username", user.Username, "role", string(user.Role))
	}
	return LoginResult{Success: true}
}

// Register delegates to the registration endpoint. It never changes session
// state; a freshly registered user still logs in explicitly.
func (m *Manager) Register(ctx context.Context, req types.RegisterRequest) RegisterResult {
	if _, err := m.auth.Register(ctx, req); err != nil {
		if apiErr, ok := errors.AsAPIError(err); ok {
			return RegisterResult{Success: false, Error: apiErr.FormMessage()}
		}
		return RegisterResult{Success: false, Error: "Registration failed. Please try again."}
	}
	return RegisterResult{Success: true}
}

// Logout clears the persisted token and resets state synchronously. No server
// round-trip is awaited.
func (m *Manager) Logout() {
	if err := m.store.Clear(); err != nil && m.logger != nil {
		m.logger.LogError(err, "Failed to clear persisted token on logout")
	}
	m.setAnonymous("")
	if m.logger != nil {
		m.logger.Info("Logged out")
	}
}

// Expire is the global 401 handler: clear the stored token and reset to
// Anonymous no matter which in-flight call hit the failure. The failing
// call's error still propagates to its caller.
func (m *Manager) Expire() {
	if err := m.store.Clear(); err != nil && m.logger != nil {
		m.logger.LogError(err, "Failed to clear persisted token on session expiry")
	}
	m.setAnonymous("Session expired. Please log in again.")
}

func (m *Manager) setAnonymous(errMsg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = StateAnonymous
	m.user = nil
	m.token = ""
	m.loading = false
	m.lastErr = errMsg
}

func loginFailure(err error) LoginResult {
	if apiErr, ok := errors.AsAPIError(err); ok {
		return LoginResult{Success: false, Error: apiErr.Message, Field: apiErr.Field}
	}
	return LoginResult{Success: false, Error: "Login failed. Please check your connection and try again."}
}
