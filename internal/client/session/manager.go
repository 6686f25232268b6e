package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/biblio/internal/client/models"
	"github.com/dmitrijs2005/biblio/internal/common"
	"github.com/dmitrijs2005/biblio/internal/logging"
)

// Authenticator is the remote side of the session lifecycle.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (models.AuthResponse, error)
	Register(ctx context.Context, req models.RegisterRequest) (models.AuthResponse, error)
	Me(ctx context.Context) (models.User, error)
}

// Manager drives the session lifecycle against the remote service.
type Manager struct {
	store  *Store
	auth   Authenticator
	logger logging.Logger

	resolveMu sync.Mutex
}

func NewManager(store *Store, auth Authenticator, logger logging.Logger) *Manager {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Manager{store: store, auth: auth, logger: logger}
}

// Store returns the underlying state holder.
func (m *Manager) Store() *Store {
	return m.store
}

// Login authenticates with an email and password. Service rejections are
// returned unchanged; the session is only touched on success.
func (m *Manager) Login(ctx context.Context, email, password string) (models.User, error) {
	resp, err := m.auth.Login(ctx, email, password)
	if err != nil {
		return models.User{}, err
	}
	return m.accept(ctx, "login", resp)
}

// Register provisions an account and signs into it.
func (m *Manager) Register(ctx context.Context, req models.RegisterRequest) (models.User, error) {
	resp, err := m.auth.Register(ctx, req)
	if err != nil {
		return models.User{}, err
	}
	return m.accept(ctx, "register", resp)
}

func (m *Manager) accept(ctx context.Context, op string, resp models.AuthResponse) (models.User, error) {
	if resp.AccessToken == "" {
		return models.User{}, fmt.Errorf("%s: %w", op, common.ErrNoCredential)
	}
	user := resp.Profile()
	m.store.authenticate(ctx, resp.AccessToken, user)
	m.logger.Info(ctx, "signed in", "op", op, "user_id", user.ID.String())
	return user, nil
}

// ResolveCurrentUser restores the session from the persisted credential.
//
// The first call ends the loading phase exactly once: with no persisted
// credential it finishes anonymous without touching the network, otherwise
// it asks the service who the credential belongs to and falls back to
// anonymous on any failure. Later calls only refresh the profile.
func (m *Manager) ResolveCurrentUser(ctx context.Context) {
	m.resolveMu.Lock()
	defer m.resolveMu.Unlock()

	if snap := m.store.Snapshot(); !snap.Loading {
		if snap.IsAuthenticated {
			m.refresh(ctx, snap.Credential)
		}
		return
	}

	credential := m.store.persisted(ctx)
	if credential == "" {
		m.store.finishResolve(ctx, "", nil)
		return
	}
	if !m.store.beginResolve(ctx, credential) {
		return
	}

	user, err := m.auth.Me(ctx)
	if err != nil {
		logging.LogErrorAt(ctx, m.logger.Warn, "persisted credential rejected", err)
		m.store.finishResolve(ctx, credential, nil)
		return
	}
	m.store.finishResolve(ctx, credential, &user)
}

func (m *Manager) refresh(ctx context.Context, credential string) {
	user, err := m.auth.Me(ctx)
	if err != nil {
		logging.LogErrorAt(ctx, m.logger.Warn, "refresh profile", err)
		return
	}
	m.store.refreshUser(ctx, credential, user)
}

// Logout clears the session. It always succeeds and is idempotent.
func (m *Manager) Logout(ctx context.Context) {
	wasAuthenticated := m.store.Snapshot().IsAuthenticated
	m.store.Clear(ctx)
	if wasAuthenticated {
		m.logger.Info(ctx, "signed out")
	}
}
