package authgate

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/dmitrijs2005/biblio/internal/client/session"
	"github.com/dmitrijs2005/biblio/internal/common"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeSource is a settable SessionSource.
type fakeSource struct {
	mu   sync.Mutex
	snap session.Session
	subs []func(session.Session)

	Unsubscribed bool
}

func (f *fakeSource) Snapshot() session.Session {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snap
}

func (f *fakeSource) Subscribe(fn func(session.Session)) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subs = append(f.subs, fn)
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.Unsubscribed = true
		f.subs = nil
	}
}

func (f *fakeSource) Set(s session.Session) {
	f.mu.Lock()
	f.snap = s
	subs := append(([]func(session.Session))(nil), f.subs...)
	f.mu.Unlock()
	for _, fn := range subs {
		fn(s)
	}
}

var (
	loading       = session.Session{Loading: true}
	anonymous     = session.Session{}
	authenticated = session.Session{Credential: "tok", IsAuthenticated: true}
)

func TestResolve(t *testing.T) {
	r := NewRouter(&fakeSource{}, nil)
	defer r.Close()

	tests := []struct {
		name   string
		path   string
		state  State
		want   string
		view   View
		action Action
	}{
		{"anonymous on home", common.AuthenticatedHomeRoute, StateAnonymous, "/", ViewLogin, Render},
		{"anonymous on dashboard", common.DashboardRoute, StateAnonymous, "/", ViewLogin, Render},
		{"anonymous on signup", common.SignupRoute, StateAnonymous, "/signup", ViewSignup, Render},
		{"authenticated on login", "/", StateAuthenticated, "/home", ViewHome, Render},
		{"authenticated on signup", "/signup", StateAuthenticated, "/home", ViewHome, Render},
		{"authenticated on dashboard", "/dashboard", StateAuthenticated, "/dashboard", ViewDashboard, Render},
		{"loading on home", "/home", StateLoading, "/home", ViewHome, Placeholder},
		{"loading on login", "/", StateLoading, "/", ViewLogin, Placeholder},
		{"unknown anonymous", "/nowhere", StateAnonymous, "/", ViewLogin, Render},
		{"unknown authenticated", "/nowhere", StateAuthenticated, "/home", ViewHome, Render},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := r.Resolve(tt.path, tt.state)
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Path)
			assert.Equal(t, tt.view, res.View)
			assert.Equal(t, tt.action, res.Decision.Action)
		})
	}
}

func TestResolve_RedirectLoop(t *testing.T) {
	r := NewRouter(&fakeSource{}, nil, Route{Path: "/", View: ViewLogin, Policy: Protected})
	defer r.Close()

	_, err := r.Resolve("/", StateAnonymous)
	require.ErrorIs(t, err, ErrRedirectLoop)
}

func TestNavigate_NeverBlocks(t *testing.T) {
	r := NewRouter(&fakeSource{snap: anonymous}, nil)
	defer r.Close()

	for i := 0; i < 100; i++ {
		r.Navigate(context.Background(), "/signup")
	}
	<-r.Changes()

	res, _, err := r.Activate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/signup", res.Path)
	assert.Equal(t, "/signup", r.Current())
}

func TestActivate_LatestNavigationWins(t *testing.T) {
	r := NewRouter(&fakeSource{snap: anonymous}, nil)
	defer r.Close()

	r.Navigate(context.Background(), "/signup")
	r.Navigate(context.Background(), common.AnonymousEntryRoute)

	res, _, err := r.Activate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/", res.Path)
}

func TestActivate_CancelsPreviousView(t *testing.T) {
	src := &fakeSource{snap: authenticated}
	r := NewRouter(src, nil)
	defer r.Close()

	r.Navigate(context.Background(), "/home")
	res, homeCtx, err := r.Activate(context.Background())
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Equal(t, ViewHome, res.View)

	// same view again: nothing changes
	res, again, err := r.Activate(context.Background())
	require.NoError(t, err)
	assert.False(t, res.Changed)
	assert.Equal(t, homeCtx, again)
	assert.NoError(t, homeCtx.Err())

	r.Navigate(context.Background(), "/dashboard")
	res, dashCtx, err := r.Activate(context.Background())
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.ErrorIs(t, homeCtx.Err(), context.Canceled)
	assert.NoError(t, dashCtx.Err())
}

func TestActivate_FollowsSessionChanges(t *testing.T) {
	src := &fakeSource{snap: loading}
	r := NewRouter(src, nil)
	defer r.Close()

	r.Navigate(context.Background(), "/home")
	res, _, err := r.Activate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Placeholder, res.Decision.Action)
	assert.Equal(t, "/home", res.Path)

	// drain the navigation signal
	<-r.Changes()

	src.Set(authenticated)
	<-r.Changes()
	res, _, err = r.Activate(context.Background())
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Equal(t, Render, res.Decision.Action)
	assert.Equal(t, ViewHome, res.View)

	// session expires: the protected view is left
	src.Set(anonymous)
	<-r.Changes()
	res, _, err = r.Activate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/", res.Path)
	assert.Equal(t, ViewLogin, res.View)
}

func TestNavigate_ConcurrentWithActivate(t *testing.T) {
	r := NewRouter(&fakeSource{snap: authenticated}, nil)
	defer r.Close()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			r.Navigate(context.Background(), "/dashboard")
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			_, _, err := r.Activate(context.Background())
			assert.NoError(t, err)
		}
	}()
	wg.Wait()
}

func TestClose_Unsubscribes(t *testing.T) {
	src := &fakeSource{}
	r := NewRouter(src, nil)

	_, ctx, err := r.Activate(context.Background())
	require.NoError(t, err)

	r.Close()
	assert.True(t, src.Unsubscribed)
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
}
