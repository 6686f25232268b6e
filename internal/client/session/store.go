package session

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/dmitrijs2005/biblio/internal/client/models"
	"github.com/dmitrijs2005/biblio/internal/client/storage"
	"github.com/dmitrijs2005/biblio/internal/logging"
)

// Session is an immutable view of the authentication state.
//
// IsAuthenticated holds iff Credential is non-empty. Loading is true only
// until the first ResolveCurrentUser completes.
type Session struct {
	Credential      string
	User            *models.User
	IsAuthenticated bool
	Loading         bool
}

// Anonymous reports whether the session carries no credential.
func (s Session) Anonymous() bool {
	return !s.IsAuthenticated
}

// Store is the single writer of Session state.
type Store struct {
	mu       sync.Mutex
	notifyMu sync.Mutex
	current  atomic.Pointer[Session]

	creds  storage.CredentialStore
	logger logging.Logger

	subsMu sync.Mutex
	subs   map[int]func(Session)
	nextID int
}

// NewStore returns a Store in the initial loading state.
func NewStore(creds storage.CredentialStore, logger logging.Logger) *Store {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	s := &Store{
		creds:  creds,
		logger: logger,
		subs:   make(map[int]func(Session)),
	}
	s.current.Store(&Session{Loading: true})
	return s
}

// Snapshot returns the current session. It never blocks on writers.
func (s *Store) Snapshot() Session {
	return *s.current.Load()
}

// Credential returns the current credential, or "" when anonymous.
func (s *Store) Credential() string {
	return s.current.Load().Credential
}

// Subscribe registers fn to receive every published snapshot in write order.
// fn runs on the writer's goroutine and must not write to the Store.
func (s *Store) Subscribe(fn func(Session)) (unsubscribe func()) {
	s.subsMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.subsMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subsMu.Lock()
			delete(s.subs, id)
			s.subsMu.Unlock()
		})
	}
}

// Invalidate drops the credential after the service rejected it.
func (s *Store) Invalidate(ctx context.Context) {
	s.Clear(ctx)
}

// Clear resets to anonymous and wipes the persisted credential. The loading
// flag is left as is. No notification is sent when already anonymous.
func (s *Store) Clear(ctx context.Context) {
	s.update(ctx, func(cur Session) (Session, bool) {
		s.forget(ctx)
		if !cur.IsAuthenticated && cur.User == nil {
			return cur, false
		}
		return Session{Loading: cur.Loading}, true
	})
}

// authenticate publishes an authenticated session and persists the credential.
func (s *Store) authenticate(ctx context.Context, credential string, user models.User) {
	s.update(ctx, func(cur Session) (Session, bool) {
		if err := s.creds.Save(ctx, credential); err != nil {
			logging.LogError(ctx, s.logger, "persist credential", err)
		}
		return Session{
			Credential:      credential,
			User:            &user,
			IsAuthenticated: true,
			Loading:         cur.Loading,
		}, true
	})
}

// beginResolve exposes a persisted credential to the gateway while the
// profile is being fetched. It reports false if loading already finished.
func (s *Store) beginResolve(ctx context.Context, credential string) bool {
	ok := false
	s.update(ctx, func(cur Session) (Session, bool) {
		if !cur.Loading {
			return cur, false
		}
		ok = true
		if cur.Credential == credential {
			return cur, false
		}
		return Session{Credential: credential, IsAuthenticated: true, Loading: true}, true
	})
	return ok
}

// finishResolve ends the loading phase. user is applied only when the
// credential it was resolved for is still current.
func (s *Store) finishResolve(ctx context.Context, credential string, user *models.User) {
	s.update(ctx, func(cur Session) (Session, bool) {
		next := cur
		next.Loading = false
		switch {
		case user == nil:
			if cur.Credential == credential && credential != "" {
				s.forget(ctx)
				next = Session{}
			}
		case cur.Credential == credential:
			u := *user
			next.User = &u
		}
		return next, next != cur
	})
}

// refreshUser replaces the profile when credential is still current.
func (s *Store) refreshUser(ctx context.Context, credential string, user models.User) {
	s.update(ctx, func(cur Session) (Session, bool) {
		if cur.Credential != credential || !cur.IsAuthenticated {
			return cur, false
		}
		next := cur
		next.User = &user
		return next, true
	})
}

func (s *Store) forget(ctx context.Context) {
	if err := s.creds.Clear(ctx); err != nil {
		logging.LogError(ctx, s.logger, "clear persisted credential", err)
	}
}

func (s *Store) persisted(ctx context.Context) string {
	v, err := s.creds.Load(ctx)
	if err != nil {
		logging.LogErrorAt(ctx, s.logger.Warn, "load persisted credential", err)
		return ""
	}
	return v
}

// update applies fn under the write lock. Subscribers are called after the
// lock is released but before the next writer can publish.
func (s *Store) update(ctx context.Context, fn func(cur Session) (Session, bool)) {
	s.mu.Lock()
	next, changed := fn(*s.current.Load())
	if !changed {
		s.mu.Unlock()
		return
	}
	s.current.Store(&next)
	s.subsMu.Lock()
	subs := make([]func(Session), 0, len(s.subs))
	for _, sub := range s.subs {
		subs = append(subs, sub)
	}
	s.subsMu.Unlock()
	s.notifyMu.Lock()
	s.mu.Unlock()
	defer s.notifyMu.Unlock()

	s.logger.Debug(ctx, "session changed", "authenticated", next.IsAuthenticated, "loading", next.Loading)
	for _, sub := range subs {
		sub(next)
	}
}
