package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
	ggoogle "golang.org/x/oauth2/google"
)

var ErrInvalidCredential = errors.New("invalid google credential")

var googleIssuers = []string{"https://accounts.google.com", "accounts.google.com"}

type GoogleUser struct {
	Sub           string
	Email         string
	EmailVerified bool
	Name          string
	Picture       string
}

type GoogleOAuth struct {
	clientID    string
	cfg         *oauth2.Config
	keys        *JWKS
	userInfoURL string
	http        *http.Client
}

func NewGoogle(clientID, clientSecret, redirectURL, jwksURL, userInfoURL string) *GoogleOAuth {
	hc := &http.Client{Timeout: 10 * time.Second}
	return &GoogleOAuth{
		clientID: clientID,
		cfg: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     ggoogle.Endpoint,
		},
		keys:        NewJWKS(jwksURL, time.Hour, hc),
		userInfoURL: userInfoURL,
		http:        hc,
	}
}

// VerifyIDToken checks signature (Google JWKS), audience, issuer and expiry.
func (g *GoogleOAuth) VerifyIDToken(ctx context.Context, raw string) (*GoogleUser, error) {
	if g.clientID == "" {
		return nil, fmt.Errorf("%w: client id is not configured", ErrInvalidCredential)
	}
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		kid, _ := t.Header["kid"].(string)
		if kid == "" {
			return nil, errors.New("no kid")
		}
		return g.keys.Key(ctx, kid)
	},
		jwt.WithValidMethods([]string{"RS256"}),
		jwt.WithAudience(g.clientID),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCredential, err)
	}

	iss, _ := claims["iss"].(string)
	okIss := false
	for _, want := range googleIssuers {
		if iss == want {
			okIss = true
		}
	}
	if !okIss {
		return nil, fmt.Errorf("%w: bad iss", ErrInvalidCredential)
	}

	u := &GoogleUser{
		Sub:           str(claims["sub"]),
		Email:         str(claims["email"]),
		EmailVerified: truthy(claims["email_verified"]),
		Name:          str(claims["name"]),
		Picture:       str(claims["picture"]),
	}
	if u.Sub == "" || u.Email == "" {
		return nil, fmt.Errorf("%w: missing email/sub", ErrInvalidCredential)
	}
	return u, nil
}

type userInfo struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified any    `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// UserInfo fetches the profile using an opaque access token as bearer.
func (g *GoogleOAuth) UserInfo(ctx context.Context, accessToken string) (*GoogleUser, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, g.http)
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
	}))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.userInfoURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("userinfo: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: userinfo status %d", ErrInvalidCredential, resp.StatusCode)
	}

	var ui userInfo
	if err := json.NewDecoder(resp.Body).Decode(&ui); err != nil {
		return nil, fmt.Errorf("userinfo decode: %w", err)
	}
	if ui.Sub == "" || ui.Email == "" {
		return nil, fmt.Errorf("%w: missing email/sub", ErrInvalidCredential)
	}
	return &GoogleUser{
		Sub: ui.Sub, Email: ui.Email, EmailVerified: truthy(ui.EmailVerified),
		Name: ui.Name, Picture: ui.Picture,
	}, nil
}

// Exchange trades an authorization code for tokens and verifies the id_token.
func (g *GoogleOAuth) Exchange(ctx context.Context, code string) (*GoogleUser, error) {
	if g.cfg.ClientSecret == "" {
		return nil, fmt.Errorf("%w: code flow is not configured", ErrInvalidCredential)
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, g.http)
	tok, err := g.cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: exchange: %v", ErrInvalidCredential, err)
	}
	rawIDToken, ok := tok.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return nil, fmt.Errorf("%w: no id_token", ErrInvalidCredential)
	}
	return g.VerifyIDToken(ctx, rawIDToken)
}

func str(v any) string {
	s, _ := v.(string)
	return s
}

// email_verified приходит то bool, то строкой
func truthy(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return strings.EqualFold(t, "true")
	}
	return false
}
