package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T, operator_password string) {
	t.Helper()
	require.NoError(t, Init("test-key", "test-coder", operator_password))
	t.Cleanup(func() { Init("test-key", "test-coder", "") })
}

func TestEncryptAndSign_RoundTrip(t *testing.T) {
	setup(t, "")
	when := time.Date(2026, time.October, 18, 9, 30, 0, 0, time.UTC)

	token, err := EncryptAndSign(Session{Operator: "host", SessionDate: when})
	require.NoError(t, err)

	s, err := DecryptAndValidate(token)
	require.NoError(t, err)
	assert.Equal(t, "host", s.Operator)
	assert.True(t, when.Equal(s.SessionDate))
}

func TestDecryptAndValidate_Tampered(t *testing.T) {
	setup(t, "")

	token, err := EncryptAndSign(Session{Operator: "host", SessionDate: time.Now()})
	require.NoError(t, err)

	b := []byte(token)
	if b[0] == 'A' {
		b[0] = 'B'
	} else {
		b[0] = 'A'
	}
	_, err = DecryptAndValidate(string(b))
	assert.ErrorIs(t, err, BadCookie)

	_, err = DecryptAndValidate("short")
	assert.ErrorIs(t, err, BadCookie)

	_, err = DecryptAndValidate("not base64!")
	assert.ErrorIs(t, err, BadCookie)
}

func TestDecryptAndValidate_NotASession(t *testing.T) {
	setup(t, "")

	token, err := seal([]byte(`["not", "a", "session"]`))
	require.NoError(t, err)

	_, err = DecryptAndValidate(token)
	assert.ErrorIs(t, err, BadCookie)
}

func TestSession_Expired(t *testing.T) {
	now := time.Date(2026, time.October, 18, 12, 0, 0, 0, time.UTC)

	assert.False(t, Session{SessionDate: now.Add(-6 * 24 * time.Hour)}.Expired(now))
	assert.True(t, Session{SessionDate: now.Add(-8 * 24 * time.Hour)}.Expired(now))
}

func TestDecryptAndValidate_OtherKey(t *testing.T) {
	setup(t, "")
	token, err := EncryptAndSign(Session{Operator: "host", SessionDate: time.Now()})
	require.NoError(t, err)

	require.NoError(t, Init("some-other-key", "test-coder", ""))
	_, err = DecryptAndValidate(token)
	assert.ErrorIs(t, err, BadCookie)
}

func TestLogin(t *testing.T) {
	setup(t, "hunter2")
	assert.True(t, Required())

	_, err := Login("host", "hunter3")
	assert.ErrorIs(t, err, BadPassword)

	s, err := Login("host", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, "host", s.Operator)
}

func TestRequired_NoPassword(t *testing.T) {
	setup(t, "")
	assert.False(t, Required())
}

func TestPutThenGet(t *testing.T) {
	setup(t, "")

	rec := httptest.NewRecorder()
	require.NoError(t, Put(rec, &Session{Operator: "host"}))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "session", cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	s := Get(req)
	require.NotNil(t, s)
	assert.Equal(t, "host", s.Operator)
}

func TestGet_NoCookie(t *testing.T) {
	setup(t, "")
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Nil(t, Get(req))
}

func TestGet_Expired(t *testing.T) {
	setup(t, "")

	token, err := EncryptAndSign(Session{Operator: "host", SessionDate: time.Now().Add(-8 * 24 * time.Hour)})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "session", Value: token})
	assert.Nil(t, Get(req))
}
