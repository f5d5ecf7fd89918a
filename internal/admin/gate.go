// Package admin guards the back-office screens: nothing behind the gate is
// rendered until a session has been confirmed, and the user is sent to the
// login route as soon as that session goes away.
package admin

import (
	"context"
	"log"
	"sync"

	"github.com/njprem/Desa_Wisata_APP_BackEnd/internal/domain"
)

const LoginPath = "/admin/login"

type State int

const (
	StateChecking State = iota
	StateAuthenticated
	StateUnauthenticated
)

func (s State) String() string {
	switch s {
	case StateChecking:
		return "checking"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

// SessionSource is the part of the auth client the gate listens to.
type SessionSource interface {
	GetSession(ctx context.Context) (*domain.AuthSession, error)
	OnAuthStateChange(fn func(domain.AuthEvent, *domain.AuthSession)) (unsubscribe func())
}

// Navigator knows the current route and can leave it.
type Navigator interface {
	Path() string
	Redirect(path string)
}

type GateOptions struct {
	Logger *log.Logger
	// OnChange runs after every state transition.
	OnChange func(State)
}

type Gate struct {
	source SessionSource
	nav    Navigator
	opts   GateOptions

	mu          sync.Mutex
	state       State
	session     *domain.AuthSession
	lookupErr   error
	bypass      bool
	unsubscribe func()
	closed      bool
}

func NewGate(source SessionSource, nav Navigator, opts GateOptions) *Gate {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return &Gate{source: source, nav: nav, opts: opts, state: StateChecking}
}

// Start subscribes to session changes and resolves the initial session.
// A gate started on the login route skips the check and stays open for the
// login form. Landing on the login route later through a redirect does not
// open it.
func (g *Gate) Start(ctx context.Context) State {
	if g.onLoginRoute() {
		g.mu.Lock()
		g.bypass = true
		g.mu.Unlock()
		return g.State()
	}

	unsubscribe := g.source.OnAuthStateChange(g.handleEvent)
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		unsubscribe()
		return StateUnauthenticated
	}
	g.unsubscribe = unsubscribe
	g.mu.Unlock()

	session, err := g.source.GetSession(ctx)
	g.mu.Lock()
	g.lookupErr = err
	g.mu.Unlock()
	if err != nil {
		g.opts.Logger.Printf("admin: get session: %v", err)
		session = nil
	}
	if session == nil || session.Token == "" {
		g.signOut()
		return g.State()
	}
	g.set(StateAuthenticated, session)
	return g.State()
}

// Close drops the session listener. The gate ignores events afterwards.
func (g *Gate) Close() {
	g.mu.Lock()
	unsubscribe := g.unsubscribe
	g.unsubscribe = nil
	g.closed = true
	g.mu.Unlock()
	if unsubscribe != nil {
		unsubscribe()
	}
}

func (g *Gate) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

func (g *Gate) Session() *domain.AuthSession {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.session
}

// Err is the error of the initial session lookup, if it failed. A failed
// lookup leaves the gate unauthenticated without saying the session is gone.
func (g *Gate) Err() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lookupErr
}

// Guard calls render only when protected content may be shown and reports
// whether it did.
func (g *Gate) Guard(render func()) bool {
	g.mu.Lock()
	open := g.bypass || g.state == StateAuthenticated
	g.mu.Unlock()
	if !open {
		return false
	}
	render()
	return true
}

func (g *Gate) handleEvent(event domain.AuthEvent, session *domain.AuthSession) {
	g.mu.Lock()
	closed := g.closed
	g.mu.Unlock()
	if closed {
		return
	}

	switch event {
	case domain.AuthEventSignedIn:
		if session != nil && session.Token != "" {
			g.set(StateAuthenticated, session)
		}
	default:
		if session == nil || event == domain.AuthEventSignedOut || event == domain.AuthEventTokenExpired {
			g.signOut()
		}
	}
}

func (g *Gate) signOut() {
	if prev := g.set(StateUnauthenticated, nil); prev == StateUnauthenticated {
		return
	}
	if !g.onLoginRoute() {
		g.nav.Redirect(LoginPath)
	}
}

func (g *Gate) set(state State, session *domain.AuthSession) State {
	g.mu.Lock()
	prev := g.state
	g.state = state
	g.session = session
	g.mu.Unlock()
	if prev != state && g.opts.OnChange != nil {
		g.opts.OnChange(state)
	}
	return prev
}

func (g *Gate) onLoginRoute() bool {
	return g.nav != nil && g.nav.Path() == LoginPath
}
