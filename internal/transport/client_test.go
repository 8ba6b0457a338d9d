package transport

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/posguard/licadmin/internal/credstore"
	"github.com/posguard/licadmin/internal/domain"
	"github.com/posguard/licadmin/internal/session"
	"github.com/posguard/licadmin/pkg/token"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	claims := &token.Claims{
		Name:  "Dana Ops",
		Phone: "+15550100",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "usr_1",
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)
	return raw
}

func loggedInSession(t *testing.T, exp time.Time) *session.Store {
	t.Helper()
	store := session.New(credstore.NewMemoryStore(), discardLogger())
	store.SetCredentials(signedToken(t, exp), &domain.User{ID: "usr_1", Name: "Dana Ops", Phone: "+15550100"})
	return store
}

func newTestClient(t *testing.T, baseURL string, sess *session.Store) *Client {
	t.Helper()
	c, err := New(baseURL, sess, 5*time.Second, discardLogger())
	require.NoError(t, err)
	return c
}

func TestDo_AttachesBearerAndUnwrapsEnvelope(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"success":true,"data":{"id":"lic_1","key":"ABCD"}}`)
	}))
	defer srv.Close()

	sess := loggedInSession(t, time.Now().Add(time.Hour))
	c := newTestClient(t, srv.URL, sess)

	var out struct {
		ID  string `json:"id"`
		Key string `json:"key"`
	}
	err := c.Do(context.Background(), http.MethodGet, "/api/licenses/lic_1", nil, nil, &out)
	require.NoError(t, err)

	tok, _ := sess.Token()
	assert.Equal(t, "Bearer "+tok, gotAuth)
	assert.Equal(t, "lic_1", out.ID)
	assert.Equal(t, "ABCD", out.Key)
}

func TestDo_WithoutAuthStripsToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		io.WriteString(w, `{"success":true}`)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, loggedInSession(t, time.Now().Add(time.Hour)))

	err := c.Do(context.Background(), http.MethodPost, "/api/auth/login", nil,
		map[string]string{"phone": "+15550100"}, nil, WithoutAuth())
	require.NoError(t, err)
	assert.Empty(t, gotAuth, "login-family requests carry no bearer token")
}

func TestDo_ExpiredTokenAbortsBeforeSending(t *testing.T) {
	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		io.WriteString(w, `{"success":true}`)
	}))
	defer srv.Close()

	sess := loggedInSession(t, time.Now().Add(time.Hour))
	c := newTestClient(t, srv.URL, sess)
	c.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	err := c.Do(context.Background(), http.MethodGet, "/api/licenses", nil, nil, nil)
	assert.ErrorIs(t, err, ErrSessionExpired)
	assert.Zero(t, requests.Load(), "the known-expired token never leaves the process")
	assert.False(t, sess.Snapshot().Authenticated, "session ended locally")
}

func TestDo_UnauthorizedEndsSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	creds := credstore.NewMemoryStore()
	sess := session.New(creds, discardLogger())
	sess.SetCredentials(signedToken(t, time.Now().Add(time.Hour)),
		&domain.User{ID: "usr_1", Phone: "+15550100"})
	c := newTestClient(t, srv.URL, sess)

	err := c.Do(context.Background(), http.MethodGet, "/api/licenses", nil, nil, nil)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.False(t, sess.Snapshot().Authenticated)

	tok, loadErr := creds.LoadToken()
	require.NoError(t, loadErr)
	assert.Empty(t, tok, "durable credentials cleared")
}

func TestDo_ServerRejectionCarriesMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		io.WriteString(w, `{"success":false,"message":"license key already exists"}`)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, loggedInSession(t, time.Now().Add(time.Hour)))

	err := c.Do(context.Background(), http.MethodPost, "/api/licenses", nil, map[string]string{}, nil)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.Status)
	assert.Equal(t, "license key already exists", apiErr.Message)
}

func TestDo_SuccessFalseOn200IsAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"success":false,"message":"quota exceeded"}`)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, loggedInSession(t, time.Now().Add(time.Hour)))

	err := c.Do(context.Background(), http.MethodGet, "/api/licenses", nil, nil, nil)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "quota exceeded", apiErr.Message)
}

func TestDo_UndecodableErrorBodyFallsBackToGenericMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		io.WriteString(w, "<html>upstream unavailable</html>")
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, loggedInSession(t, time.Now().Add(time.Hour)))

	err := c.Do(context.Background(), http.MethodGet, "/api/stats", nil, nil, nil)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Equal(t, genericFailure, apiErr.Message)
}

func TestDo_MissingMessageFallsBackToGeneric(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, `{"success":false}`)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, loggedInSession(t, time.Now().Add(time.Hour)))

	err := c.Do(context.Background(), http.MethodGet, "/api/stats", nil, nil, nil)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, genericFailure, apiErr.Message)
}

func TestDo_EmptySuccessBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, loggedInSession(t, time.Now().Add(time.Hour)))

	err := c.Do(context.Background(), http.MethodPost, "/api/auth/logout", nil, nil, nil)
	assert.NoError(t, err)
}

func TestDo_QueryAndBodyEncoding(t *testing.T) {
	var gotQuery url.Values
	var gotBody []byte
	var gotContentType, gotIdemKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		gotBody, _ = io.ReadAll(r.Body)
		gotContentType = r.Header.Get("Content-Type")
		gotIdemKey = r.Header.Get("Idempotency-Key")
		io.WriteString(w, `{"success":true}`)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, loggedInSession(t, time.Now().Add(time.Hour)))

	query := url.Values{"page": {"2"}, "search": {"cafe"}}
	err := c.Do(context.Background(), http.MethodPost, "/api/payments", query,
		map[string]string{"method": "cash"}, nil, WithIdempotencyKey("idem-1"))
	require.NoError(t, err)

	assert.Equal(t, "2", gotQuery.Get("page"))
	assert.Equal(t, "cafe", gotQuery.Get("search"))
	assert.JSONEq(t, `{"method":"cash"}`, string(gotBody))
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, "idem-1", gotIdemKey)
}

func TestDo_NoSessionSendsAnonymously(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		io.WriteString(w, `{"success":true}`)
	}))
	defer srv.Close()

	sess := session.New(credstore.NewMemoryStore(), discardLogger())
	c := newTestClient(t, srv.URL, sess)

	err := c.Do(context.Background(), http.MethodGet, "/api/health", nil, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}
