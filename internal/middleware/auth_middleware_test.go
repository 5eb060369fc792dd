package middleware

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "middleware-secret"

func newEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/private", AuthMiddleware(secret), func(c *gin.Context) {
		userID, _ := c.Get("userID")
		username, _ := c.Get("username")
		c.JSON(http.StatusOK, gin.H{"user_id": userID, "username": username})
	})
	return r
}

func claims(exp time.Time) jwt.MapClaims {
	return jwt.MapClaims{"user_id": 42, "username": "alice", "exp": exp.Unix()}
}

func signHS256(t *testing.T, key string, c jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte(key))
	require.NoError(t, err)
	return s
}

func call(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddlewareAcceptsValidToken(t *testing.T) {
	w := call(newEngine(), "Bearer "+signHS256(t, secret, claims(time.Now().Add(time.Hour))))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"user_id":42,"username":"alice"}`, w.Body.String())
}

func TestAuthMiddlewareRejectsMalformedHeader(t *testing.T) {
	valid := signHS256(t, secret, claims(time.Now().Add(time.Hour)))
	for _, header := range []string{
		"",
		"Bearer",
		"Bearer ",
		"Token " + valid,
		"bearer " + valid,
		"Bearer " + valid + " extra",
		valid,
	} {
		w := call(newEngine(), header)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "header %q", header)
	}
}

func TestAuthMiddlewareRejectsNonHMACAlgorithms(t *testing.T) {
	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims(time.Now().Add(time.Hour))).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	es256, err := jwt.NewWithClaims(jwt.SigningMethodES256, claims(time.Now().Add(time.Hour))).SignedString(key)
	require.NoError(t, err)

	for name, token := range map[string]string{"none": none, "ES256": es256} {
		w := call(newEngine(), "Bearer "+token)
		assert.Equal(t, http.StatusUnauthorized, w.Code, name)
	}
}

func TestAuthMiddlewareRejectsExpiredAndForeignTokens(t *testing.T) {
	expired := signHS256(t, secret, claims(time.Now().Add(-time.Minute)))
	w := call(newEngine(), "Bearer "+expired)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	foreign := signHS256(t, "some-other-secret", claims(time.Now().Add(time.Hour)))
	w = call(newEngine(), "Bearer "+foreign)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = call(newEngine(), "Bearer not.a.jwt")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
