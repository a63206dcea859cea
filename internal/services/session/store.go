// Package session provides the operator auth session store.
//
// The store is the single source of truth for "who is logged in". It owns
// the bearer token and profile, persists them (encrypted) in durable storage
// so a process restart rehydrates the session, and mirrors the profile into
// session-scoped storage for legacy dashboard builds.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/sri-intel/console-service/internal/core/storage"
	domainerrors "github.com/sri-intel/console-service/internal/domain/errors"
	"github.com/sri-intel/console-service/internal/domain/models"
	"github.com/sri-intel/console-service/internal/pkg/encryption"
	"github.com/sri-intel/console-service/internal/services/upstream"
)

// State represents the session lifecycle state.
type State string

const (
	// StateAnonymous means no valid session is held.
	StateAnonymous State = "anonymous"

	// StateAuthenticating means a login call is in flight.
	StateAuthenticating State = "authenticating"

	// StateAuthenticated means a token and profile are held.
	StateAuthenticated State = "authenticated"
)

// genericLoginError is surfaced when the backend gives no usable detail,
// e.g. on transport failures. Callers needing to distinguish connectivity
// from rejected credentials must inspect the returned error.
const genericLoginError = "登录失败，请检查网络连接"

// Store holds the operator session.
//
// Overlapping Login calls are not de-duplicated: whichever call settles last
// owns the resulting token and user (last write wins).
type Store struct {
	upstream  upstream.Client
	durable   storage.Store
	scoped    storage.Store
	encryptor encryption.Encryptor

	mu      sync.Mutex
	state   State
	token   string
	user    *models.User
	lastErr string
}

// Config holds the configuration for the session store.
type Config struct {
	Upstream upstream.Client
	Durable  storage.Store
	Session  storage.Store

	// Encryptor protects token/user blobs at rest. Defaults to NoOp.
	Encryptor encryption.Encryptor
}

// NewStore creates a session store and derives its initial state
// synchronously from durable storage. A stored token yields an authenticated
// state immediately; Restore validates it against the backend.
func NewStore(cfg *Config) (*Store, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if cfg.Upstream == nil {
		return nil, fmt.Errorf("upstream client is required")
	}
	if cfg.Durable == nil {
		return nil, fmt.Errorf("durable store is required")
	}
	if cfg.Session == nil {
		return nil, fmt.Errorf("session store is required")
	}

	encryptor := cfg.Encryptor
	if encryptor == nil {
		encryptor = encryption.NewNoOpEncryptor()
	}

	s := &Store{
		upstream:  cfg.Upstream,
		durable:   cfg.Durable,
		scoped:    cfg.Session,
		encryptor: encryptor,
		state:     StateAnonymous,
	}
	s.hydrate(context.Background())
	return s, nil
}

// hydrate loads a prior session from durable storage. Malformed or
// undecryptable values are treated as no session.
func (s *Store) hydrate(ctx context.Context) {
	raw, err := s.durable.Get(ctx, storage.KeyToken)
	if err != nil || raw == nil {
		return
	}

	token, err := s.encryptor.DecryptString(string(raw))
	if err != nil || token == "" {
		// Stale or foreign-key ciphertext; drop it.
		_, _ = s.durable.Delete(ctx, storage.KeyToken)
		_, _ = s.durable.Delete(ctx, storage.KeyUser)
		return
	}

	var user *models.User
	if rawUser, err := s.durable.Get(ctx, storage.KeyUser); err == nil && rawUser != nil {
		if plain, err := s.encryptor.Decrypt(string(rawUser)); err == nil {
			var u models.User
			if err := json.Unmarshal(plain, &u); err == nil {
				user = &u
			}
		}
	}

	s.mu.Lock()
	s.token = token
	s.user = user
	s.state = StateAuthenticated
	s.mu.Unlock()
}

// Login authenticates the operator against the backend.
//
// On success the token and profile are persisted and applied together; on
// failure the extracted message is stored as the last error, the state stays
// anonymous, and the failure is returned so the caller can react.
func (s *Store) Login(ctx context.Context, creds upstream.Credentials) (*models.User, error) {
	s.mu.Lock()
	s.state = StateAuthenticating
	s.lastErr = ""
	s.mu.Unlock()

	result, err := s.upstream.Login(ctx, creds)
	if err != nil {
		s.mu.Lock()
		s.state = StateAnonymous
		s.lastErr = loginErrorMessage(err)
		s.mu.Unlock()
		return nil, err
	}

	// Persist before applying in memory; token and user land together or
	// not at all.
	if err := s.persist(ctx, result.Token, result.User); err != nil {
		s.mu.Lock()
		s.state = StateAnonymous
		s.lastErr = genericLoginError
		s.mu.Unlock()
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}

	s.mu.Lock()
	s.state = StateAuthenticated
	s.token = result.Token
	s.user = result.User
	s.lastErr = ""
	s.mu.Unlock()

	return result.User, nil
}

// Logout clears the session from storage and memory. It never fails and
// performs no network call.
func (s *Store) Logout(ctx context.Context) {
	_, _ = s.durable.Delete(ctx, storage.KeyToken)
	_, _ = s.durable.Delete(ctx, storage.KeyUser)
	_, _ = s.scoped.Delete(ctx, storage.KeyAuthUser)

	s.mu.Lock()
	s.state = StateAnonymous
	s.token = ""
	s.user = nil
	s.lastErr = ""
	s.mu.Unlock()
}

// Restore validates a rehydrated session against the backend. Without a
// token it is a no-op; an invalid token triggers the same cleanup as Logout.
// Failures are absorbed.
func (s *Store) Restore(ctx context.Context) {
	s.mu.Lock()
	token := s.token
	s.mu.Unlock()

	if token == "" {
		return
	}

	user, err := s.upstream.Me(ctx, token)
	if err != nil {
		s.Logout(ctx)
		return
	}

	_ = s.persist(ctx, token, user)

	s.mu.Lock()
	s.user = user
	s.state = StateAuthenticated
	s.mu.Unlock()
}

// persist writes the token and profile to durable storage and the profile
// mirror to session-scoped storage.
func (s *Store) persist(ctx context.Context, token string, user *models.User) error {
	encToken, err := s.encryptor.EncryptString(token)
	if err != nil {
		return fmt.Errorf("failed to encrypt token: %w", err)
	}

	userJSON, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to marshal user: %w", err)
	}
	encUser, err := s.encryptor.Encrypt(userJSON)
	if err != nil {
		return fmt.Errorf("failed to encrypt user: %w", err)
	}

	if err := s.durable.Set(ctx, storage.KeyToken, []byte(encToken), 0); err != nil {
		return err
	}
	if err := s.durable.Set(ctx, storage.KeyUser, []byte(encUser), 0); err != nil {
		// Roll the token back so no half-written session survives.
		_, _ = s.durable.Delete(ctx, storage.KeyToken)
		return err
	}

	// Legacy mirror; best effort.
	_ = s.scoped.Set(ctx, storage.KeyAuthUser, userJSON, 0)
	return nil
}

// State returns the current session state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// IsAuthenticated reports whether a session is held.
func (s *Store) IsAuthenticated() bool {
	return s.State() == StateAuthenticated
}

// Token returns the current bearer token, or "" when anonymous.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// User returns a copy of the current profile, or nil when anonymous.
func (s *Store) User() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Err returns the human-readable message of the last failed login, or "".
func (s *Store) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// loginErrorMessage extracts the user-facing message from a login failure.
func loginErrorMessage(err error) string {
	if domainErr, ok := domainerrors.GetDomainError(err); ok && domainErr.Message != "" {
		return domainErr.Message
	}
	return genericLoginError
}
