package views

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/dmitrijs2005/biblio/internal/client/gateway"
	"github.com/dmitrijs2005/biblio/internal/client/models"
	"github.com/dmitrijs2005/biblio/internal/common"
)

// Authenticator signs in with an email and password.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (models.User, error)
}

// Registrar provisions an account and signs into it.
type Registrar interface {
	Register(ctx context.Context, req models.RegisterRequest) (models.User, error)
}

// FormState is the display state shared by the login and signup forms.
type FormState struct {
	Email      string
	Error      string
	Submitting bool
}

type form struct {
	mu    sync.Mutex
	state FormState
}

func (f *form) State() FormState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *form) begin(email string) {
	f.mu.Lock()
	f.state = FormState{Email: email, Submitting: true}
	f.mu.Unlock()
}

func (f *form) finish(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state.Submitting = false
	if err != nil {
		f.state.Error = gateway.MessageOf(err)
	}
}

func (f *form) reject(email, msg string) {
	f.mu.Lock()
	f.state = FormState{Email: email, Error: msg}
	f.mu.Unlock()
}

// Login controls the sign-in form.
type Login struct {
	form
	auth Authenticator
	nav  Navigator
}

func NewLogin(auth Authenticator, nav Navigator) *Login {
	return &Login{auth: auth, nav: nav}
}

// Submit signs in. On failure the service message is kept for inline display.
func (l *Login) Submit(ctx context.Context, email, password string) error {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		l.reject(email, msgRequiredFields)
		return fmt.Errorf("login: %w", common.ErrEmptyField)
	}

	l.begin(email)
	_, err := l.auth.Login(ctx, email, password)
	l.finish(err)
	if err != nil {
		return err
	}
	l.nav.Navigate(ctx, common.AuthenticatedHomeRoute)
	return nil
}

func (l *Login) Render(w io.Writer) {
	st := l.State()
	fmt.Fprintln(w, "== Login to biblio ==")
	if st.Error != "" {
		fmt.Fprintf(w, "! %s\n", st.Error)
	}
	fmt.Fprintln(w, "Type 'login' to sign in or 'signup' to create an account.")
}

// Signup controls the registration form.
type Signup struct {
	form
	reg Registrar
	nav Navigator
}

func NewSignup(reg Registrar, nav Navigator) *Signup {
	return &Signup{reg: reg, nav: nav}
}

// Submit registers and signs in.
func (s *Signup) Submit(ctx context.Context, req models.RegisterRequest) error {
	req.Email = strings.TrimSpace(req.Email)
	req.Name = strings.TrimSpace(req.Name)
	req.Phone = strings.TrimSpace(req.Phone)
	if req.Email == "" || req.Password == "" {
		s.reject(req.Email, msgRequiredFields)
		return fmt.Errorf("signup: %w", common.ErrEmptyField)
	}

	s.begin(req.Email)
	_, err := s.reg.Register(ctx, req)
	s.finish(err)
	if err != nil {
		return err
	}
	s.nav.Navigate(ctx, common.AuthenticatedHomeRoute)
	return nil
}

func (s *Signup) Render(w io.Writer) {
	st := s.State()
	fmt.Fprintln(w, "== Create your biblio account ==")
	if st.Error != "" {
		fmt.Fprintf(w, "! %s\n", st.Error)
	}
	fmt.Fprintln(w, "Type 'signup' to register or 'login' if you already have an account.")
}
