package authgate

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/biblio/internal/client/session"
	"github.com/dmitrijs2005/biblio/internal/common"
	"github.com/dmitrijs2005/biblio/internal/logging"
)

// maxRedirects bounds redirect chains in Resolve.
const maxRedirects = 4

var ErrRedirectLoop = errors.New("too many redirects")

// View names a renderable screen.
type View string

const (
	ViewLogin     View = "login"
	ViewSignup    View = "signup"
	ViewHome      View = "home"
	ViewDashboard View = "dashboard"
)

// Route binds a path to a view and its policy.
type Route struct {
	Path   string
	View   View
	Policy Policy
}

// DefaultRoutes is the application's route table.
func DefaultRoutes() []Route {
	return []Route{
		{Path: common.AnonymousEntryRoute, View: ViewLogin, Policy: Public},
		{Path: common.SignupRoute, View: ViewSignup, Policy: Public},
		{Path: common.AuthenticatedHomeRoute, View: ViewHome, Policy: Protected},
		{Path: common.DashboardRoute, View: ViewDashboard, Policy: Protected},
	}
}

// Resolution is where a navigation ends up.
type Resolution struct {
	Path     string
	View     View
	Decision Decision
	// Changed is set when the path or action differs from the previous
	// activation, i.e. the view must be (re)entered.
	Changed bool
}

// SessionSource is the part of session.Store the router reads.
type SessionSource interface {
	Snapshot() session.Session
	Subscribe(fn func(session.Session)) (unsubscribe func())
}

// Router tracks the current route. It implements gateway.Navigator.
type Router struct {
	routes map[string]Route
	source SessionSource
	logger logging.Logger

	mu      sync.Mutex
	current string
	pending string
	last    Resolution
	active  bool

	viewCtx    context.Context
	cancelView context.CancelFunc

	changes     chan struct{}
	unsubscribe func()
}

// NewRouter builds a router over routes (DefaultRoutes when empty) and starts
// watching source for changes.
func NewRouter(source SessionSource, logger logging.Logger, routes ...Route) *Router {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if len(routes) == 0 {
		routes = DefaultRoutes()
	}
	r := &Router{
		routes:  make(map[string]Route, len(routes)),
		source:  source,
		logger:  logger,
		current: common.AnonymousEntryRoute,
		changes: make(chan struct{}, 1),
	}
	for _, rt := range routes {
		r.routes[rt.Path] = rt
	}
	r.unsubscribe = source.Subscribe(func(session.Session) { r.signal() })
	return r
}

func (r *Router) signal() {
	select {
	case r.changes <- struct{}{}:
	default:
	}
}

// Changes fires after a navigation command or a session change.
func (r *Router) Changes() <-chan struct{} {
	return r.changes
}

// Navigate records a navigation command. It never blocks; the latest
// command wins and is applied by the next Activate.
func (r *Router) Navigate(ctx context.Context, path string) {
	r.mu.Lock()
	r.pending = path
	r.mu.Unlock()
	r.logger.Debug(ctx, "navigation requested", "path", path)
	r.signal()
}

// Current returns the path of the last activation.
func (r *Router) Current() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Resolve follows redirects from path for state st. Unknown paths redirect
// to the anonymous entry point.
func (r *Router) Resolve(path string, st State) (Resolution, error) {
	for hops := 0; hops <= maxRedirects; hops++ {
		rt, ok := r.routes[path]
		if !ok {
			path = common.AnonymousEntryRoute
			continue
		}
		d := Decide(rt.Policy, st)
		if d.Action != Redirect {
			return Resolution{Path: path, View: rt.View, Decision: d}, nil
		}
		path = d.Target
	}
	return Resolution{}, fmt.Errorf("resolve %q: %w", path, ErrRedirectLoop)
}

// Activate applies the pending navigation (or re-resolves the current path)
// against the current session. When the result differs from the previous
// activation the previous view context is cancelled and a new one derived
// from parent is returned.
func (r *Router) Activate(parent context.Context) (Resolution, context.Context, error) {
	st := ProjectSession(r.source.Snapshot())

	r.mu.Lock()
	defer r.mu.Unlock()

	target := r.current
	if r.pending != "" {
		target = r.pending
		r.pending = ""
	}

	res, err := r.Resolve(target, st)
	if err != nil {
		return Resolution{}, nil, err
	}

	res.Changed = !r.active || res.Path != r.last.Path || res.Decision != r.last.Decision
	if res.Changed {
		if r.cancelView != nil {
			r.cancelView()
		}
		r.viewCtx, r.cancelView = context.WithCancel(parent)
		r.logger.Debug(parent, "route activated",
			"path", res.Path, "view", string(res.View), "action", res.Decision.Action.String(), "state", st.String())
	}

	r.current = res.Path
	r.last = res
	r.active = true
	return res, r.viewCtx, nil
}

// Close stops watching the session and cancels the active view.
func (r *Router) Close() {
	r.unsubscribe()
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancelView != nil {
		r.cancelView()
	}
}
