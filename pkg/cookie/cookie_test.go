package cookie_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mailsender/pkg/cookie"
)

const secret = "0123456789abcdef0123456789abcdef"

func newManager(t *testing.T) *cookie.Manager {
	t.Helper()
	m, err := cookie.New(cookie.Config{Secret: secret, Secure: true})
	require.NoError(t, err)
	return m
}

// roundTrip copies the cookies set on rec into a fresh request.
func roundTrip(rec *httptest.ResponseRecorder) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func TestNew_ShortSecret(t *testing.T) {
	t.Parallel()

	_, err := cookie.New(cookie.Config{Secret: "short"})
	require.ErrorIs(t, err, cookie.ErrBadSecret)
}

func TestSigned(t *testing.T) {
	t.Parallel()
	m := newManager(t)

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		m.SetSigned(rec, "state", "abc", 300)

		got, err := m.GetSigned(roundTrip(rec), "state")
		require.NoError(t, err)
		require.Equal(t, "abc", got)
	})

	t.Run("missing", func(t *testing.T) {
		t.Parallel()
		_, err := m.GetSigned(httptest.NewRequest(http.MethodGet, "/", nil), "state")
		require.ErrorIs(t, err, cookie.ErrNotFound)
	})

	t.Run("tampered", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		m.SetSigned(rec, "state", "abc", 300)
		c := rec.Result().Cookies()[0]
		_, sig, _ := strings.Cut(c.Value, ".")

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "state", Value: "eHl6." + sig})
		_, err := m.GetSigned(req, "state")
		require.ErrorIs(t, err, cookie.ErrBadSig)
	})

	t.Run("bound to name", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		m.SetSigned(rec, "state", "abc", 300)
		c := rec.Result().Cookies()[0]

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "other", Value: c.Value})
		_, err := m.GetSigned(req, "other")
		require.ErrorIs(t, err, cookie.ErrBadSig)
	})
}

func TestEncrypted(t *testing.T) {
	t.Parallel()
	m := newManager(t)

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		require.NoError(t, m.SetEncrypted(rec, "session", "a@x.com", 3600))

		c := rec.Result().Cookies()[0]
		require.NotContains(t, c.Value, "a@x.com")

		got, err := m.GetEncrypted(roundTrip(rec), "session")
		require.NoError(t, err)
		require.Equal(t, "a@x.com", got)
	})

	t.Run("other secret cannot decrypt", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		require.NoError(t, m.SetEncrypted(rec, "session", "a@x.com", 3600))

		other, err := cookie.New(cookie.Config{Secret: strings.Repeat("z", 32)})
		require.NoError(t, err)
		_, err = other.GetEncrypted(roundTrip(rec), "session")
		require.ErrorIs(t, err, cookie.ErrDecrypt)
	})

	t.Run("garbage", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "session", Value: "!!!"})
		_, err := m.GetEncrypted(req, "session")
		require.ErrorIs(t, err, cookie.ErrDecrypt)
	})
}

func TestAttributesAndDelete(t *testing.T) {
	t.Parallel()
	m, err := cookie.New(cookie.Config{Secret: secret, Domain: "example.com", Secure: true})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	m.SetSigned(rec, "state", "v", 60)
	m.Delete(rec, "session")

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 2)

	set := cookies[0]
	require.Equal(t, "/", set.Path)
	require.Equal(t, "example.com", set.Domain)
	require.Equal(t, 60, set.MaxAge)
	require.True(t, set.Secure)
	require.True(t, set.HttpOnly)
	require.Equal(t, http.SameSiteLaxMode, set.SameSite)

	deleted := cookies[1]
	require.Equal(t, "session", deleted.Name)
	require.Equal(t, -1, deleted.MaxAge)
}
