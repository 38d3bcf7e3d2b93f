package session

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

var (
	testHashKey  = []byte("very-very-very-very-secret-key32")
	testBlockKey = []byte("a-lot-of-secret!")
)

func TestSetAndGetLastOrg(t *testing.T) {
	service := NewSessionService(testHashKey, testBlockKey)

	w := httptest.NewRecorder()
	require.NoError(t, service.SetLastOrg(w, "prod"))

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, "LastOrg", cookies[0].Name)
	require.NotEqual(t, "prod", cookies[0].Value, "cookie value must be encoded, not plaintext")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])

	org, err := service.GetLastOrg(req)
	require.NoError(t, err)
	require.Equal(t, "prod", org)
}

func TestGetLastOrgNoCookie(t *testing.T) {
	service := NewSessionService(testHashKey, testBlockKey)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, err := service.GetLastOrg(req)
	require.Error(t, err)
}

func TestGetLastOrgTamperedCookie(t *testing.T) {
	service := NewSessionService(testHashKey, testBlockKey)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "LastOrg", Value: "forged-value"})

	_, err := service.GetLastOrg(req)
	require.Error(t, err, "a cookie that fails signature validation must be rejected")
}
