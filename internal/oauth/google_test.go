package oauth_test

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vishalbagda/MidWiseAi/internal/oauth"
)

const clientID = "medwise-test.apps.googleusercontent.com"

type jwksServer struct {
	*httptest.Server
	key  *rsa.PrivateKey
	hits int
}

func newJWKSServer(t *testing.T) *jwksServer {
	t.Helper()
	k, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	s := &jwksServer{key: k}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.hits++
		_ = json.NewEncoder(w).Encode(map[string]any{"keys": []map[string]string{{
			"kty": "RSA", "kid": "k1", "alg": "RS256", "use": "sig",
			"n": base64.RawURLEncoding.EncodeToString(k.N.Bytes()),
			"e": base64.RawURLEncoding.EncodeToString(big.NewInt(int64(k.E)).Bytes()),
		}}})
	}))
	t.Cleanup(s.Close)
	return s
}

func (s *jwksServer) sign(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	tok.Header["kid"] = "k1"
	out, err := tok.SignedString(s.key)
	require.NoError(t, err)
	return out
}

func validClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"iss":            "https://accounts.google.com",
		"aud":            clientID,
		"sub":            "1234567890",
		"email":          "alice@gmail.com",
		"email_verified": true,
		"name":           "Alice",
		"picture":        "https://lh3.googleusercontent.com/a/alice",
		"exp":            time.Now().Add(time.Hour).Unix(),
	}
}

func TestVerifyIDToken_OK(t *testing.T) {
	srv := newJWKSServer(t)
	g := oauth.NewGoogle(clientID, "", "", srv.URL, "")

	u, err := g.VerifyIDToken(context.Background(), srv.sign(t, validClaims()))
	require.NoError(t, err)
	assert.Equal(t, "1234567890", u.Sub)
	assert.Equal(t, "alice@gmail.com", u.Email)
	assert.True(t, u.EmailVerified)

	// второй вызов берёт ключ из кэша
	_, err = g.VerifyIDToken(context.Background(), srv.sign(t, validClaims()))
	require.NoError(t, err)
	assert.Equal(t, 1, srv.hits)
}

func TestVerifyIDToken_Rejects(t *testing.T) {
	srv := newJWKSServer(t)
	g := oauth.NewGoogle(clientID, "", "", srv.URL, "")

	wrongAud := validClaims()
	wrongAud["aud"] = "someone-else"
	wrongIss := validClaims()
	wrongIss["iss"] = "https://evil.example"
	expired := validClaims()
	expired["exp"] = time.Now().Add(-time.Hour).Unix()

	for name, c := range map[string]jwt.MapClaims{"aud": wrongAud, "iss": wrongIss, "exp": expired} {
		_, err := g.VerifyIDToken(context.Background(), srv.sign(t, c))
		assert.ErrorIs(t, err, oauth.ErrInvalidCredential, name)
	}

	other, _ := rsa.GenerateKey(rand.Reader, 2048)
	forged := jwt.NewWithClaims(jwt.SigningMethodRS256, validClaims())
	forged.Header["kid"] = "k1"
	raw, _ := forged.SignedString(other)
	_, err := g.VerifyIDToken(context.Background(), raw)
	assert.ErrorIs(t, err, oauth.ErrInvalidCredential)
}

func TestUserInfo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer ya29.good" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"sub": "42", "email": "bob@gmail.com", "email_verified": "true", "name": "Bob",
		})
	}))
	defer srv.Close()

	g := oauth.NewGoogle(clientID, "", "", "", srv.URL)

	u, err := g.UserInfo(context.Background(), "ya29.good")
	require.NoError(t, err)
	assert.Equal(t, "42", u.Sub)
	assert.Equal(t, "Bob", u.Name)
	assert.True(t, u.EmailVerified)

	_, err = g.UserInfo(context.Background(), "ya29.bad")
	assert.ErrorIs(t, err, oauth.ErrInvalidCredential)
}

func TestExchange_NotConfigured(t *testing.T) {
	g := oauth.NewGoogle(clientID, "", "", "", "")
	_, err := g.Exchange(context.Background(), "4/abc")
	assert.ErrorIs(t, err, oauth.ErrInvalidCredential)
}
