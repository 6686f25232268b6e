package cli

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/dmitrijs2005/biblio/internal/client/authgate"
	"github.com/dmitrijs2005/biblio/internal/client/gateway"
	"github.com/dmitrijs2005/biblio/internal/client/models"
	"github.com/dmitrijs2005/biblio/internal/client/session"
	"github.com/dmitrijs2005/biblio/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

func (a *App) requireLogin() bool {
	if a.isLoggedIn() {
		return true
	}
	fmt.Fprintln(a.out, "Please log in first.")
	return false
}

// Login prompts for an email and password and signs in. The password is
// wiped before returning.
func (a *App) Login(ctx context.Context) error {
	if a.isLoggedIn() {
		fmt.Fprintln(a.out, "Already logged in; use 'logout' first.")
		return nil
	}
	a.router.Navigate(ctx, common.AnonymousEntryRoute)

	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.login.Submit(ctx, email, string(password)); err != nil {
		a.login.Render(a.out)
		return err
	}
	fmt.Fprintln(a.out, "Login successful")
	return nil
}

// Signup prompts for the profile and registers a new account.
func (a *App) Signup(ctx context.Context) error {
	if a.isLoggedIn() {
		fmt.Fprintln(a.out, "Already logged in; use 'logout' first.")
		return nil
	}
	a.router.Navigate(ctx, common.SignupRoute)

	name, err := getSimpleText(a.reader, "Enter full name", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	phone, err := getSimpleText(a.reader, "Enter WhatsApp number (optional)", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	req := models.RegisterRequest{Email: email, Password: string(password), Name: name, Phone: phone}
	if err := a.signup.Submit(ctx, req); err != nil {
		a.signup.Render(a.out)
		return err
	}
	fmt.Fprintln(a.out, "Success!")
	return nil
}

// Logout clears the session and the persisted credential.
func (a *App) Logout(ctx context.Context) error {
	a.manager.Logout(ctx)
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

// Home opens the home screen.
func (a *App) Home(ctx context.Context) error {
	if !a.requireLogin() {
		return nil
	}
	a.goTo(ctx, common.AuthenticatedHomeRoute)
	return nil
}

// Dashboard opens the catalog screen.
func (a *App) Dashboard(ctx context.Context) error {
	if !a.requireLogin() {
		return nil
	}
	a.goTo(ctx, common.DashboardRoute)
	return nil
}

// goTo navigates to path and renders it even if it is already current.
func (a *App) goTo(ctx context.Context, path string) {
	if a.router.Current() == path {
		a.rerender(ctx)
		return
	}
	a.router.Navigate(ctx, path)
}

// rerender refreshes the view already on screen; the same session still
// owns it, so its state is kept.
func (a *App) rerender(ctx context.Context) {
	switch a.router.Current() {
	case common.AuthenticatedHomeRoute:
		a.home.Refresh(a.activeCtx(ctx))
		a.home.Render(a.out)
	case common.DashboardRoute:
		a.dashboard.Refresh(a.activeCtx(ctx))
		a.dashboard.Render(a.out)
	}
	a.view = a.viewFor(a.router.Current())
}

func (a *App) viewFor(path string) authgate.View {
	switch path {
	case common.AuthenticatedHomeRoute:
		return authgate.ViewHome
	case common.DashboardRoute:
		return authgate.ViewDashboard
	case common.SignupRoute:
		return authgate.ViewSignup
	default:
		return authgate.ViewLogin
	}
}

// Search runs a catalog search on the dashboard.
func (a *App) Search(ctx context.Context, query string, semantic bool) error {
	if !a.requireLogin() {
		return nil
	}
	if a.router.Current() != common.DashboardRoute {
		a.router.Navigate(ctx, common.DashboardRoute)
		a.settle(ctx)
	}
	if err := a.dashboard.Search(a.activeCtx(ctx), query, semantic); err != nil {
		fmt.Fprintf(a.out, "Search failed: %s\n", gateway.MessageOf(err))
		return err
	}
	a.dashboard.Render(a.out)
	return nil
}

// Borrow borrows a book shown on the current screen.
func (a *App) Borrow(ctx context.Context, id string, force bool) error {
	if !a.requireLogin() {
		return nil
	}
	bookID := models.ID(id)
	vctx := a.activeCtx(ctx)

	var err error
	if a.router.Current() == common.DashboardRoute {
		err = a.dashboard.Borrow(vctx, bookID, force)
		if err == nil {
			a.dashboard.Render(a.out)
		}
	} else {
		err = a.home.Borrow(vctx, bookID, force)
		if err == nil {
			a.home.Render(a.out)
		}
	}
	return err
}

func (a *App) Return(ctx context.Context, id string) error {
	if !a.requireLogin() {
		return nil
	}
	return a.home.Return(a.activeCtx(ctx), models.ID(id))
}

// Borrowings lists the caller's borrowings.
func (a *App) Borrowings(ctx context.Context) error {
	if !a.requireLogin() {
		return nil
	}
	a.home.RefreshBorrowings(a.activeCtx(ctx))
	st := a.home.State()
	if len(st.Borrowings) == 0 {
		fmt.Fprintln(a.out, "No borrowings")
		return nil
	}
	for _, b := range st.Borrowings {
		title := b.BookID.String()
		if b.Book != nil {
			title = b.Book.Title
		}
		fmt.Fprintf(a.out, "%s\t%s\t%s\n", b.ID, title, b.Status)
	}
	return nil
}

func (a *App) StartReading(ctx context.Context, bookID string) error {
	if !a.requireLogin() {
		return nil
	}
	if err := a.home.StartReading(a.activeCtx(ctx), models.ID(bookID)); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Reading session started")
	return nil
}

func (a *App) EndReading(ctx context.Context, pages string) error {
	if !a.requireLogin() {
		return nil
	}
	n, err := strconv.Atoi(pages)
	if err != nil || n < 0 {
		fmt.Fprintln(a.out, "Usage: read-end <pages>")
		return fmt.Errorf("pages %q: %w", pages, common.ErrEmptyField)
	}
	if err := a.home.EndReading(a.activeCtx(ctx), n); err != nil {
		fmt.Fprintf(a.out, "Could not end reading session: %s\n", gateway.MessageOf(err))
		return err
	}
	fmt.Fprintln(a.out, "Reading session ended")
	return nil
}

// Stats shows the profile statistics next to the home screen.
func (a *App) Stats(ctx context.Context) error {
	if !a.requireLogin() {
		return nil
	}
	a.home.LoadProfileStats(a.activeCtx(ctx))
	a.home.Render(a.out)
	return nil
}

// WhoAmI prints the signed-in profile and what the credential says about
// itself.
func (a *App) WhoAmI(ctx context.Context) error {
	snap := a.store.Snapshot()
	if !snap.IsAuthenticated {
		fmt.Fprintln(a.out, "Not signed in")
		return nil
	}
	if snap.User != nil {
		fmt.Fprintf(a.out, "Signed in as %s <%s> (id %s)\n", snap.User.DisplayName(), snap.User.Email, snap.User.ID)
	}

	info := session.InspectCredential(snap.Credential)
	switch {
	case info.Opaque:
		fmt.Fprintln(a.out, "Credential: opaque")
	case info.ExpiresAt.IsZero():
		fmt.Fprintf(a.out, "Credential: subject %q, no expiry\n", info.Subject)
	case info.Expired(time.Now()):
		fmt.Fprintf(a.out, "Credential: subject %q, expired %s\n", info.Subject, info.ExpiresAt.Format(time.RFC3339))
	default:
		fmt.Fprintf(a.out, "Credential: subject %q, expires %s\n", info.Subject, info.ExpiresAt.Format(time.RFC3339))
	}
	return nil
}
