package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"

	"github.com/dmitrijs2005/biblio/internal/client/api"
	"github.com/dmitrijs2005/biblio/internal/client/authgate"
	"github.com/dmitrijs2005/biblio/internal/client/config"
	"github.com/dmitrijs2005/biblio/internal/client/gateway"
	"github.com/dmitrijs2005/biblio/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/biblio/internal/client/session"
	"github.com/dmitrijs2005/biblio/internal/client/storage"
	"github.com/dmitrijs2005/biblio/internal/client/views"
	"github.com/dmitrijs2005/biblio/internal/logging"
)

type App struct {
	config *config.Config
	logger logging.Logger

	db      *sql.DB
	store   *session.Store
	manager *session.Manager
	router  *authgate.Router

	login     *views.Login
	signup    *views.Signup
	home      *views.Home
	dashboard *views.Dashboard

	reader *bufio.Reader
	out    io.Writer

	view    authgate.View
	viewCtx context.Context
}

// Option customises App construction.
type Option func(*appOptions)

type appOptions struct {
	gatewayOpts []gateway.Option
}

// WithGatewayOptions passes extra options to the request gateway.
func WithGatewayOptions(opts ...gateway.Option) Option {
	return func(o *appOptions) { o.gatewayOpts = append(o.gatewayOpts, opts...) }
}

// NewApp opens the credential store and wires the client together. in and
// out are the user's terminal.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger, in io.Reader, out io.Writer, opts ...Option) (*App, error) {
	var o appOptions
	for _, opt := range opts {
		opt(&o)
	}

	db, err := storage.Open(ctx, c.StorePath)
	if err != nil {
		logging.LogError(ctx, logger, "error initializing database", err)
		return nil, err
	}

	creds := storage.NewMetadataCredentialStore(metadata.NewSQLiteRepository(db))
	store := session.NewStore(creds, logger)
	router := authgate.NewRouter(store, logger)

	gwOpts := append([]gateway.Option{
		gateway.WithLogger(logger),
		gateway.WithTimeout(c.RequestTimeout),
	}, o.gatewayOpts...)
	gw, err := gateway.New(c.APIBaseURL, store, router, gwOpts...)
	if err != nil {
		router.Close()
		_ = db.Close()
		return nil, err
	}

	client := api.NewClient(gw)
	manager := session.NewManager(store, client, logger)

	a := &App{
		config:  c,
		logger:  logger,
		db:      db,
		store:   store,
		manager: manager,
		router:  router,
		reader:  bufio.NewReader(in),
		out:     out,
	}
	a.login = views.NewLogin(manager, router)
	a.signup = views.NewSignup(manager, router)
	a.home = views.NewHome(client, a, logger, c.RecommendationLimit)
	a.dashboard = views.NewDashboard(client, a, logger, c.CatalogPageSize)
	return a, nil
}

// Close releases the router and the database.
func (a *App) Close() error {
	a.router.Close()
	return a.db.Close()
}

// Notify implements views.Notifier.
func (a *App) Notify(ctx context.Context, msg string) {
	fmt.Fprintf(a.out, "[!] %s\n", msg)
}

// Resolve restores the session persisted by a previous run.
func (a *App) Resolve(ctx context.Context) {
	a.manager.ResolveCurrentUser(ctx)
}

// Run restores the session and starts the REPL. It blocks until the user
// exits or input ends.
func (a *App) Run(ctx context.Context) error {
	fmt.Fprintln(a.out, "Welcome to biblio (type 'help' for commands)")
	a.Resolve(ctx)
	a.settle(ctx)
	runREPL(ctx, a, a.status, a.reader, a.out)
	return nil
}

func (a *App) isLoggedIn() bool {
	return a.store.Snapshot().IsAuthenticated
}

func (a *App) status() string {
	snap := a.store.Snapshot()
	switch authgate.ProjectSession(snap) {
	case authgate.StateLoading:
		return "(loading)"
	case authgate.StateAuthenticated:
		if snap.User != nil {
			return fmt.Sprintf("(%s %s)", snap.User.DisplayName(), a.router.Current())
		}
		return fmt.Sprintf("(%s)", a.router.Current())
	default:
		return ""
	}
}

// activeCtx returns the active view's context, falling back to ctx.
func (a *App) activeCtx(ctx context.Context) context.Context {
	if a.viewCtx != nil && a.viewCtx.Err() == nil {
		return a.viewCtx
	}
	return ctx
}

// settle applies pending navigation and session changes and renders the
// resulting view when it changed.
func (a *App) settle(ctx context.Context) {
	res, viewCtx, err := a.router.Activate(ctx)
	if err != nil {
		logging.LogError(ctx, a.logger, "route resolution failed", err)
		return
	}
	if !res.Changed {
		return
	}

	prev := a.view
	a.view = res.View
	a.viewCtx = viewCtx

	if res.Decision.Action == authgate.Placeholder {
		fmt.Fprintln(a.out, "Loading...")
		return
	}

	user := a.store.Snapshot().User
	switch res.View {
	case authgate.ViewLogin:
		if prev == authgate.ViewHome || prev == authgate.ViewDashboard {
			fmt.Fprintln(a.out, "You have been signed out.")
		}
		a.login.Render(a.out)
	case authgate.ViewSignup:
		a.signup.Render(a.out)
	case authgate.ViewHome:
		a.home.Activate(viewCtx, user)
		a.home.Render(a.out)
	case authgate.ViewDashboard:
		a.dashboard.Activate(viewCtx, user)
		a.dashboard.Render(a.out)
	}
}
