package console

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njprem/Desa_Wisata_APP_BackEnd/internal/admin"
	"github.com/njprem/Desa_Wisata_APP_BackEnd/internal/domain"
	"github.com/njprem/Desa_Wisata_APP_BackEnd/internal/listing"
)

type fakeSession struct {
	mu        sync.Mutex
	session   *domain.AuthSession
	err       error
	listeners []func(domain.AuthEvent, *domain.AuthSession)
}

func (f *fakeSession) GetSession(ctx context.Context) (*domain.AuthSession, error) {
	return f.session, f.err
}

func (f *fakeSession) OnAuthStateChange(fn func(domain.AuthEvent, *domain.AuthSession)) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listeners = append(f.listeners, fn)
	return func() {}
}

func (f *fakeSession) signOut() {
	f.mu.Lock()
	fns := slices.Clone(f.listeners)
	f.mu.Unlock()
	for _, fn := range fns {
		fn(domain.AuthEventSignedOut, nil)
	}
}

type fakeUmkmRemote struct {
	rows      []domain.UmkmProduct
	deleted   []uuid.UUID
	updated   map[uuid.UUID]string
	deleteErr error
	onDelete  func()
}

func (f *fakeUmkmRemote) List(ctx context.Context) ([]domain.UmkmProduct, error) {
	return f.rows, nil
}

func (f *fakeUmkmRemote) Delete(ctx context.Context, id uuid.UUID) error {
	if f.onDelete != nil {
		f.onDelete()
	}
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeUmkmRemote) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	if f.updated == nil {
		f.updated = map[uuid.UUID]string{}
	}
	f.updated[id] = status
	return nil
}

var (
	kopiID = uuid.MustParse("aaaa1111-0000-4000-8000-000000000001")
	gulaID = uuid.MustParse("bbbb2222-0000-4000-8000-000000000002")
	tehID  = uuid.MustParse("bbbb3333-0000-4000-8000-000000000003")
)

func umkmRows() []domain.UmkmProduct {
	priceMax := int64(25000)
	return []domain.UmkmProduct{
		{ID: kopiID, Name: "Kopi Robusta", OwnerName: "Bu Sri", Price: 15000, PriceMax: &priceMax, Status: domain.UmkmStatusPending},
		{ID: gulaID, Name: "Gula Aren", OwnerName: "Pak Budi", Price: 20000, Status: domain.UmkmStatusVerified},
		{ID: tehID, Name: "Teh Tubruk", OwnerName: "Bu Ani", Price: 5000, Status: domain.UmkmStatusPending},
	}
}

func newUmkmScreen(input string, remote *fakeUmkmRemote, session *fakeSession) (*Screen[domain.UmkmProduct], *Terminal, *bytes.Buffer) {
	out := &bytes.Buffer{}
	term := NewTerminal(strings.NewReader(input), out)
	quiet := log.New(io.Discard, "", 0)
	ctrl := listing.NewUmkm(remote, listing.Options{Confirmer: term, Notifier: term, Logger: quiet})
	gate := admin.NewGate(session, term, admin.GateOptions{Logger: quiet})
	screen := NewScreen(term, ScreenConfig[domain.UmkmProduct]{
		Title:      "UMKM",
		Path:       "/admin/umkm",
		Controller: ctrl,
		Gate:       gate,
		Columns:    UmkmColumns(nil),
		Verbs:      map[string]string{"verify": "verified", "reject": "rejected"},
	})
	return screen, term, out
}

func signedIn() *fakeSession {
	return &fakeSession{session: &domain.AuthSession{Token: "tok", ExpiresAt: time.Now().Add(time.Hour)}}
}

func TestScreenVerifyAndDelete(t *testing.T) {
	remote := &fakeUmkmRemote{rows: umkmRows()}
	screen, _, out := newUmkmScreen("verify aaaa\ndelete bbbb3\ny\nquit\n", remote, signedIn())

	require.NoError(t, screen.Run(context.Background()))

	assert.Equal(t, "verified", remote.updated[kopiID])
	assert.Equal(t, []uuid.UUID{tehID}, remote.deleted)
	assert.Contains(t, out.String(), "== UMKM (3 of 3) ==")
	assert.Contains(t, out.String(), "== UMKM (2 of 2) ==")
	assert.Contains(t, out.String(), "Rp 15.000 - 25.000")
	assert.Contains(t, out.String(), "verify,reject")
}

func TestScreenDeclinedDeleteKeepsRow(t *testing.T) {
	remote := &fakeUmkmRemote{rows: umkmRows()}
	screen, _, out := newUmkmScreen("delete aaaa\nn\nquit\n", remote, signedIn())

	require.NoError(t, screen.Run(context.Background()))

	assert.Empty(t, remote.deleted)
	assert.Contains(t, out.String(), "cancelled")
}

func TestScreenFilters(t *testing.T) {
	remote := &fakeUmkmRemote{rows: umkmRows()}
	screen, _, out := newUmkmScreen("status pending\nsearch bu\nsearch kopi robusta\nclear\nquit\n", remote, signedIn())

	require.NoError(t, screen.Run(context.Background()))

	text := out.String()
	assert.Contains(t, text, "== UMKM (2 of 3) ==")
	assert.Contains(t, text, `filter: search="kopi robusta" status=pending category=all`)
	assert.Contains(t, text, "== UMKM (1 of 3) ==")
}

func TestScreenSessionLostDuringDelete(t *testing.T) {
	session := signedIn()
	remote := &fakeUmkmRemote{rows: umkmRows(), deleteErr: errors.New("api: 401 session expired")}
	remote.onDelete = session.signOut
	screen, term, out := newUmkmScreen("delete aaaa\ny\n\n", remote, session)

	err := screen.Run(context.Background())

	assert.ErrorIs(t, err, ErrSignedOut)
	assert.Equal(t, admin.LoginPath, term.Path())
	assert.Contains(t, out.String(), "Failed to delete UMKM")
}

func TestScreenWithoutSession(t *testing.T) {
	screen, term, out := newUmkmScreen("quit\n", &fakeUmkmRemote{}, &fakeSession{})

	err := screen.Run(context.Background())

	assert.ErrorIs(t, err, ErrSignedOut)
	assert.Equal(t, admin.LoginPath, term.Path())
	assert.NotContains(t, out.String(), "== UMKM")
	assert.Contains(t, out.String(), "Your session has ended")
}

func TestScreenSessionCheckFailure(t *testing.T) {
	apiDown := errors.New("api: 502 Bad Gateway")
	screen, term, out := newUmkmScreen("quit\n", &fakeUmkmRemote{rows: umkmRows()}, &fakeSession{err: apiDown})

	err := screen.Run(context.Background())

	assert.ErrorIs(t, err, ErrSignedOut)
	assert.ErrorIs(t, err, apiDown)
	assert.Equal(t, admin.LoginPath, term.Path())
	assert.NotContains(t, out.String(), "== UMKM")
	assert.NotContains(t, out.String(), "Your session has ended")
	assert.Contains(t, out.String(), "Could not reach the API")
}

func TestScreenExecErrors(t *testing.T) {
	remote := &fakeUmkmRemote{rows: umkmRows()}
	screen, _, _ := newUmkmScreen("", remote, signedIn())
	require.NoError(t, screen.cfg.Controller.Load(context.Background()))
	ctx := context.Background()

	_, err := screen.Exec(ctx, "dance")
	assert.ErrorContains(t, err, "unknown command")

	_, err = screen.Exec(ctx, "delete bbbb")
	assert.ErrorContains(t, err, "ambiguous")

	_, err = screen.Exec(ctx, "status archived")
	assert.ErrorIs(t, err, listing.ErrUnknownStatus)

	_, err = screen.Exec(ctx, "reject bbbb2")
	assert.ErrorIs(t, err, listing.ErrStatusChangeNotAllowed)

	quit, err := screen.Exec(ctx, "  ")
	assert.NoError(t, err)
	assert.False(t, quit)
}
