package client

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njprem/Desa_Wisata_APP_BackEnd/internal/domain"
)

type apiStub struct {
	mu       sync.Mutex
	requests []*http.Request
	bodies   []map[string]any
	handler  http.HandlerFunc
}

func (s *apiStub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	if r.Body != nil {
		data, _ := io.ReadAll(r.Body)
		if len(data) > 0 {
			_ = json.Unmarshal(data, &body)
		}
	}
	s.mu.Lock()
	s.requests = append(s.requests, r)
	s.bodies = append(s.bodies, body)
	s.mu.Unlock()
	s.handler(w, r)
}

func (s *apiStub) last() (*http.Request, map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests[len(s.requests)-1], s.bodies[len(s.bodies)-1]
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newTestClient(t *testing.T, token string, handler http.HandlerFunc) (*Client, *apiStub) {
	t.Helper()
	stub := &apiStub{handler: handler}
	srv := httptest.NewServer(stub)
	t.Cleanup(srv.Close)
	c, err := New(Options{BaseURL: srv.URL + "/", Token: token, Logger: log.New(io.Discard, "", 0)})
	require.NoError(t, err)
	return c, stub
}

func TestNewRejectsRelativeURL(t *testing.T) {
	_, err := New(Options{BaseURL: "localhost:8080"})
	assert.Error(t, err)
	_, err = New(Options{})
	assert.Error(t, err)
}

func TestSelectSendsPredicatesAndOrder(t *testing.T) {
	rows := []domain.UmkmProduct{
		{ID: uuid.New(), Name: "Kopi", Status: domain.UmkmStatusPending},
		{ID: uuid.New(), Name: "Gula", Status: domain.UmkmStatusVerified},
	}
	c, stub := newTestClient(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"data": rows})
	})

	var got []domain.UmkmProduct
	q := domain.DefaultListQuery().WithEqual("status", "pending")
	require.NoError(t, c.Select(context.Background(), CollectionUmkm, q, &got))

	req, _ := stub.last()
	assert.Equal(t, "/api/v1/admin/umkm", req.URL.Path)
	assert.Equal(t, "pending", req.URL.Query().Get("status"))
	assert.Equal(t, "created_at.desc", req.URL.Query().Get("order"))
	assert.Equal(t, "Bearer tok", req.Header.Get("Authorization"))
	require.Len(t, got, 2)
	assert.Equal(t, rows[0].ID, got[0].ID)
	assert.Equal(t, domain.UmkmStatusVerified, got[1].Status)
}

func TestCollectionUpdateStatusAndDelete(t *testing.T) {
	id := uuid.New()
	c, stub := newTestClient(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPatch:
			writeJSON(w, http.StatusOK, map[string]any{"data": map[string]any{"id": id, "status": "verified"}})
		case http.MethodDelete:
			writeJSON(w, http.StatusOK, map[string]any{"success": true})
		}
	})
	coll := NewCollection[domain.UmkmProduct](c, CollectionUmkm)

	require.NoError(t, coll.UpdateStatus(context.Background(), id, "verified"))
	req, body := stub.last()
	assert.Equal(t, http.MethodPatch, req.Method)
	assert.Equal(t, "/api/v1/admin/umkm/"+id.String(), req.URL.Path)
	assert.Equal(t, map[string]any{"status": "verified"}, body)

	require.NoError(t, coll.Delete(context.Background(), id))
	req, _ = stub.last()
	assert.Equal(t, http.MethodDelete, req.Method)
}

func TestCount(t *testing.T) {
	c, stub := newTestClient(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"count": 4})
	})

	n, err := c.Count(context.Background(), CollectionTourism, domain.ListQuery{Equals: map[string]string{"status": "active"}})

	require.NoError(t, err)
	assert.Equal(t, 4, n)
	req, _ := stub.last()
	assert.Equal(t, "/api/v1/admin/tourism/count", req.URL.Path)
}

func TestVisitors(t *testing.T) {
	c, stub := newTestClient(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"visitors": map[string]any{
			"range":           "30d",
			"page_views":      120,
			"unique_visitors": 45,
			"top_pages":       []map[string]any{{"uri": "/api/v1/tourism/curug-sawer", "views": 80}},
		}})
	})

	stats, err := c.Visitors(context.Background(), domain.VisitorRange30d)

	require.NoError(t, err)
	assert.EqualValues(t, 120, stats.PageViews)
	assert.EqualValues(t, 45, stats.UniqueVisitors)
	require.Len(t, stats.TopPages, 1)
	req, _ := stub.last()
	assert.Equal(t, "/api/v1/admin/dashboard/visitors", req.URL.Path)
	assert.Equal(t, "30d", req.URL.Query().Get("range"))
}

func TestErrorResponsesCarryMessage(t *testing.T) {
	c, _ := newTestClient(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "umkm not found"})
	})

	err := c.Delete(context.Background(), CollectionUmkm, uuid.New())

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "umkm not found", apiErr.Message)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "tok", c.Token(), "non-auth failures keep the session")
}

func TestUnauthorizedSignsOut(t *testing.T) {
	c, _ := newTestClient(t, "stale", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "session expired"})
	})
	var events []domain.AuthEvent
	unsubscribe := c.OnAuthStateChange(func(e domain.AuthEvent, s *domain.AuthSession) {
		events = append(events, e)
		assert.Nil(t, s)
	})
	defer unsubscribe()

	var rows []domain.TourismDestination
	err := c.Select(context.Background(), CollectionTourism, domain.DefaultListQuery(), &rows)

	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, []domain.AuthEvent{domain.AuthEventSignedOut}, events)
	assert.Empty(t, c.Token())
}

func TestGetSession(t *testing.T) {
	t.Run("no token means no session", func(t *testing.T) {
		c, stub := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("unexpected request")
		})
		session, err := c.GetSession(context.Background())
		require.NoError(t, err)
		assert.Nil(t, session)
		assert.Empty(t, stub.requests)
	})

	t.Run("stored token is confirmed", func(t *testing.T) {
		expires := time.Now().Add(time.Hour).UTC().Truncate(time.Second)
		c, stub := newTestClient(t, "saved", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{
				"expires_at": expires,
				"user":       map[string]any{"email": "admin@desa.id"},
			})
		})
		session, err := c.GetSession(context.Background())
		require.NoError(t, err)
		require.NotNil(t, session)
		assert.Equal(t, "saved", session.Token)
		assert.True(t, expires.Equal(session.ExpiresAt))
		assert.Equal(t, "admin@desa.id", session.User.Email)

		_, err = c.GetSession(context.Background())
		require.NoError(t, err)
		assert.Len(t, stub.requests, 1, "cached session is reused")
	})

	t.Run("rejected token", func(t *testing.T) {
		c, _ := newTestClient(t, "revoked", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid session"})
		})
		session, err := c.GetSession(context.Background())
		require.NoError(t, err)
		assert.Nil(t, session)
	})

	t.Run("server failure is an error", func(t *testing.T) {
		c, _ := newTestClient(t, "saved", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "boom"})
		})
		_, err := c.GetSession(context.Background())
		assert.Error(t, err)
	})
}

func TestSignInAndTokenExpiry(t *testing.T) {
	c, stub := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"token":      "fresh",
			"expires_at": time.Now().Add(50 * time.Millisecond),
		})
	})
	events := make(chan domain.AuthEvent, 4)
	c.OnAuthStateChange(func(e domain.AuthEvent, _ *domain.AuthSession) { events <- e })

	session, err := c.SignIn(context.Background(), "admin@desa.id", "secret")
	require.NoError(t, err)
	assert.Equal(t, "fresh", session.Token)
	_, body := stub.last()
	assert.Equal(t, "admin@desa.id", body["email"])

	assert.Equal(t, domain.AuthEventSignedIn, <-events)
	select {
	case e := <-events:
		assert.Equal(t, domain.AuthEventTokenExpired, e)
	case <-time.After(2 * time.Second):
		t.Fatal("token expiry was not reported")
	}
	assert.Empty(t, c.Token())
}

func TestSignOutClearsSessionEvenOnFailure(t *testing.T) {
	c, _ := newTestClient(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "upstream"})
	})
	var events []domain.AuthEvent
	c.OnAuthStateChange(func(e domain.AuthEvent, _ *domain.AuthSession) { events = append(events, e) })

	err := c.SignOut(context.Background())

	assert.Error(t, err)
	assert.Empty(t, c.Token())
	assert.Equal(t, []domain.AuthEvent{domain.AuthEventSignedOut}, events)
}

func TestUnsubscribeStopsEvents(t *testing.T) {
	c, _ := newTestClient(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "nope"})
	})
	called := false
	unsubscribe := c.OnAuthStateChange(func(domain.AuthEvent, *domain.AuthSession) { called = true })
	unsubscribe()
	unsubscribe()

	_ = c.Delete(context.Background(), CollectionArticles, uuid.New())

	assert.False(t, called)
}

func TestGetSessionUnreachableKeepsToken(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	c, err := New(Options{BaseURL: srv.URL, Token: "saved", Timeout: time.Second, Logger: log.New(io.Discard, "", 0)})
	require.NoError(t, err)
	signedOut := false
	c.OnAuthStateChange(func(domain.AuthEvent, *domain.AuthSession) { signedOut = true })

	session, err := c.GetSession(context.Background())

	assert.Error(t, err)
	assert.Nil(t, session)
	assert.Equal(t, "saved", c.Token())
	assert.False(t, signedOut)
}
