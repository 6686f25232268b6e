package session

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/biblio/internal/client/models"
)

// memCreds is an in-memory CredentialStore.
type memCreds struct {
	mu       sync.Mutex
	value    string
	LoadErr  error
	SaveErr  error
	ClearErr error
	Saves    int
	Clears   int
}

func (m *memCreds) Load(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LoadErr != nil {
		return "", m.LoadErr
	}
	return m.value, nil
}

func (m *memCreds) Save(ctx context.Context, credential string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Saves++
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.value = credential
	return nil
}

func (m *memCreds) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Clears++
	if m.ClearErr != nil {
		return m.ClearErr
	}
	m.value = ""
	return nil
}

func (m *memCreds) Value() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.value
}

// fakeAuth answers with canned responses and records what it saw.
type fakeAuth struct {
	mu    sync.Mutex
	store *Store

	LoginResp    models.AuthResponse
	LoginErr     error
	RegisterResp models.AuthResponse
	RegisterErr  error
	MeUser       models.User
	MeErr        error

	LastEmail      string
	LastRegister   models.RegisterRequest
	MeCalls        int
	SeenCredential string
}

func (f *fakeAuth) Login(ctx context.Context, email, password string) (models.AuthResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LastEmail = email
	return f.LoginResp, f.LoginErr
}

func (f *fakeAuth) Register(ctx context.Context, req models.RegisterRequest) (models.AuthResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LastRegister = req
	return f.RegisterResp, f.RegisterErr
}

func (f *fakeAuth) Me(ctx context.Context) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.MeCalls++
	if f.store != nil {
		f.SeenCredential = f.store.Credential()
	}
	return f.MeUser, f.MeErr
}

var errDisk = errors.New("disk I/O error")

// recorder collects published snapshots.
type recorder struct {
	mu    sync.Mutex
	snaps []Session
}

func (r *recorder) record(s Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snaps = append(r.snaps, s)
}

func (r *recorder) all() []Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Session(nil), r.snaps...)
}
