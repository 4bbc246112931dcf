package middleware_test

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/hex"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis_rate/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-project-intel/internal/api/middleware"
	"github.com/feral-file/ff-project-intel/internal/mocks"
)

func generateKeyPair(t *testing.T) (*rsa.PrivateKey, string) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	publicPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})

	return key, string(publicPEM)
}

func signToken(t *testing.T, key *rsa.PrivateKey, claims jwt.RegisteredClaims) string {
	token, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func apiKeySubject(key string) string {
	sum := sha256.Sum256([]byte(key))
	return "apikey:" + hex.EncodeToString(sum[:])[:12]
}

func TestAuthenticate(t *testing.T) {
	key, publicPEM := generateKeyPair(t)
	cfg := middleware.AuthConfig{JWTPublicKey: publicPEM, APIKeys: []string{"secret"}}

	valid := signToken(t, key, jwt.RegisteredClaims{
		Subject:   "dashboard",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	expired := signToken(t, key, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	})

	tests := []struct {
		name     string
		header   string
		success  bool
		authType string
		subject  string
	}{
		{name: "api key", header: "ApiKey secret", success: true, authType: middleware.AUTH_TYPE_APIKEY, subject: apiKeySubject("secret")},
		{name: "api key scheme is case insensitive", header: "apikey secret", success: true, authType: middleware.AUTH_TYPE_APIKEY, subject: apiKeySubject("secret")},
		{name: "wrong api key", header: "ApiKey nope"},
		{name: "jwt", header: "Bearer " + valid, success: true, authType: middleware.AUTH_TYPE_JWT, subject: "dashboard"},
		{name: "expired jwt", header: "Bearer " + expired},
		{name: "garbage jwt", header: "Bearer abc.def.ghi"},
		{name: "missing header", header: ""},
		{name: "malformed header", header: "secret"},
		{name: "unsupported type", header: "Basic dXNlcjpwYXNz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := middleware.Authenticate(tt.header, cfg)
			assert.Equal(t, tt.success, result.Success)
			if tt.success {
				assert.Equal(t, tt.authType, result.AuthType)
				assert.Equal(t, tt.subject, result.AuthSubject)
			} else {
				assert.Error(t, result.Error)
			}
		})
	}
}

func TestAuthConfig_Enabled(t *testing.T) {
	assert.False(t, middleware.AuthConfig{}.Enabled())
	assert.False(t, middleware.AuthConfig{APIKeys: []string{""}}.Enabled())
	assert.True(t, middleware.AuthConfig{APIKeys: []string{"k"}}.Enabled())
	assert.True(t, middleware.AuthConfig{JWTPublicKey: "pem"}.Enabled())
}

func TestAuth_Middleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/private", middleware.Auth(middleware.AuthConfig{APIKeys: []string{"secret"}}), func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "ApiKey secret")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthenticate_BadPublicKeyRejectsBearerOnly(t *testing.T) {
	key, _ := generateKeyPair(t)
	authenticator := middleware.NewAuthenticator(middleware.AuthConfig{
		JWTPublicKey: "not a pem",
		APIKeys:      []string{"secret"},
	})

	token := signToken(t, key, jwt.RegisteredClaims{Subject: "dashboard"})
	result := authenticator.Authenticate("Bearer " + token)
	assert.False(t, result.Success)
	assert.ErrorContains(t, result.Error, "failed to parse RSA public key")

	assert.True(t, authenticator.Authenticate("ApiKey secret").Success)
}

func TestAuth_RateLimitsPerAPIKey(t *testing.T) {
	ctrl := gomock.NewController(t)
	limiter := mocks.NewMockRedisRateLimiter(ctrl)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/private",
		middleware.Auth(middleware.AuthConfig{APIKeys: []string{"secret", "other"}}),
		middleware.RateLimit(limiter, 10),
		func(c *gin.Context) { c.String(http.StatusOK, "ok") },
	)

	limit := redis_rate.PerMinute(10)
	limiter.EXPECT().
		Allow(gomock.Any(), middleware.RATE_LIMIT_KEY_PREFIX+"subject:"+apiKeySubject("secret"), limit).
		Return(&redis_rate.Result{Limit: limit, Allowed: 1, Remaining: 9}, nil)
	limiter.EXPECT().
		Allow(gomock.Any(), middleware.RATE_LIMIT_KEY_PREFIX+"subject:"+apiKeySubject("other"), limit).
		Return(&redis_rate.Result{Limit: limit, Allowed: 1, Remaining: 9}, nil)

	for _, key := range []string{"secret", "other"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/private", nil)
		req.Header.Set("Authorization", "ApiKey "+key)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	}
}
