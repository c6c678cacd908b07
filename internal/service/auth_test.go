package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vishalbagda/MidWiseAi/internal/oauth"
	"github.com/vishalbagda/MidWiseAi/internal/security"
	"github.com/vishalbagda/MidWiseAi/internal/service"
)

const testSecret = "test-secret"

func newAuth(users *memUsers, g *fakeGoogle, pub *fakePub) *service.Auth {
	return &service.Auth{
		Users:    users,
		OAuth:    g,
		Pub:      pub,
		Exchange: "medwise.events",
		Secret:   testSecret,
		TokenTTL: time.Hour,
	}
}

func TestAuth_RegisterThenLogin(t *testing.T) {
	ctx := context.Background()
	users := newMemUsers()
	pub := newFakePub()
	a := newAuth(users, &fakeGoogle{}, pub)

	reg, err := a.Register(ctx, "Alice", "a@example.com", "pw123456", "req-1")
	require.NoError(t, err)
	assert.Equal(t, "Alice", reg.User.Name)
	assert.NotEmpty(t, reg.Token)
	require.Equal(t, 1, users.count())

	stored, _ := users.FindUserByEmail(ctx, "a@example.com")
	require.NotNil(t, stored)
	assert.NotEqual(t, "pw123456", stored.PasswordHash)
	assert.True(t, security.CheckPassword(stored.PasswordHash, "pw123456"))

	login, err := a.Login(ctx, "A@Example.com ", "pw123456", "req-2")
	require.NoError(t, err)
	assert.Equal(t, "Alice", login.User.Name)
	assert.NotEmpty(t, login.Token)

	uid, err := a.Authenticate(login.Token)
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, uid)

	assert.ElementsMatch(t, []string{"user.registered", "user.loggedin"}, pub.wait(2))
}

func TestAuth_RegisterRejects(t *testing.T) {
	ctx := context.Background()
	a := newAuth(newMemUsers(), &fakeGoogle{}, newFakePub())

	_, err := a.Register(ctx, "", "a@example.com", "pw123456", "")
	assert.ErrorIs(t, err, service.ErrInvalidInput)

	_, err = a.Register(ctx, "Bob", "not-an-email", "pw123456", "")
	assert.ErrorIs(t, err, service.ErrInvalidInput)

	_, err = a.Register(ctx, "Bob", "b@example.com", "short", "")
	assert.ErrorIs(t, err, service.ErrInvalidInput)

	_, err = a.Register(ctx, "Bob", "b@example.com", "longenough", "")
	require.NoError(t, err)
	_, err = a.Register(ctx, "Bob again", "b@example.com", "longenough", "")
	assert.ErrorIs(t, err, service.ErrEmailTaken)
}

func TestAuth_LoginWrongCredentials(t *testing.T) {
	ctx := context.Background()
	a := newAuth(newMemUsers(), &fakeGoogle{}, newFakePub())
	_, err := a.Register(ctx, "Alice", "a@example.com", "pw123456", "")
	require.NoError(t, err)

	s, err := a.Login(ctx, "a@example.com", "wrong-pass", "")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	assert.Nil(t, s)

	_, err = a.Login(ctx, "nobody@example.com", "pw123456", "")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)

	_, err = a.Login(ctx, "a@example.com", "", "")
	assert.ErrorIs(t, err, service.ErrInvalidInput)
}

func TestAuth_GoogleCreatesThenRefreshes(t *testing.T) {
	ctx := context.Background()
	users := newMemUsers()
	g := &fakeGoogle{user: &oauth.GoogleUser{Sub: "g-1", Email: "g@example.com", Picture: "p1"}}
	a := newAuth(users, g, newFakePub())

	s, err := a.Google(ctx, "id-token", "", "")
	require.NoError(t, err)
	assert.Equal(t, "id_token", g.kind)
	assert.Equal(t, "Google User", s.User.Name)
	assert.Equal(t, "p1", s.User.Picture)

	g.user = &oauth.GoogleUser{Sub: "g-1", Email: "g@example.com", Name: "Gina", Picture: "p2"}
	s2, err := a.Google(ctx, "access", service.CredentialAccessToken, "")
	require.NoError(t, err)
	assert.Equal(t, "access_token", g.kind)
	assert.Equal(t, s.User.ID, s2.User.ID)
	assert.Equal(t, "Gina", s2.User.Name)
	assert.Equal(t, "p2", s2.User.Picture)
	assert.Equal(t, 1, users.count())
}

func TestAuth_GoogleLinksExistingEmail(t *testing.T) {
	ctx := context.Background()
	users := newMemUsers()
	g := &fakeGoogle{user: &oauth.GoogleUser{Sub: "g-2", Email: "a@example.com", Name: "Alice G", EmailVerified: true}}
	a := newAuth(users, g, newFakePub())

	reg, err := a.Register(ctx, "Alice", "a@example.com", "pw123456", "")
	require.NoError(t, err)

	s, err := a.Google(ctx, "code", service.CredentialCode, "")
	require.NoError(t, err)
	assert.Equal(t, "code", g.kind)
	assert.Equal(t, reg.User.ID, s.User.ID)
	assert.Equal(t, 1, users.count())

	// пароль продолжает работать
	_, err = a.Login(ctx, "a@example.com", "pw123456", "")
	assert.NoError(t, err)
}

func TestAuth_GoogleUnverifiedEmailDoesNotLink(t *testing.T) {
	ctx := context.Background()
	users := newMemUsers()
	g := &fakeGoogle{user: &oauth.GoogleUser{Sub: "other-sub", Email: "victim@example.com", Name: "Mallory"}}
	a := newAuth(users, g, newFakePub())

	reg, err := a.Register(ctx, "Victim", "victim@example.com", "pw123456", "")
	require.NoError(t, err)

	_, err = a.Google(ctx, "id-token", "", "")
	require.ErrorIs(t, err, service.ErrProviderAuth)

	stored, err := users.FindUserByEmail(ctx, "victim@example.com")
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, stored.ID.Hex())
	assert.Equal(t, "Victim", stored.Name)
	assert.Empty(t, stored.GoogleID)
	assert.Equal(t, 1, users.count())

	// новый email без подтверждения: обычная регистрация через google
	g.user = &oauth.GoogleUser{Sub: "new-sub", Email: "fresh@example.com", Name: "Fresh"}
	s, err := a.Google(ctx, "id-token", "", "")
	require.NoError(t, err)
	assert.Equal(t, "Fresh", s.User.Name)
}

func TestAuth_GoogleFailure(t *testing.T) {
	a := newAuth(newMemUsers(), &fakeGoogle{err: errors.New("bad signature")}, newFakePub())

	_, err := a.Google(context.Background(), "forged", "", "")
	assert.ErrorIs(t, err, service.ErrProviderAuth)

	_, err = a.Google(context.Background(), " ", "", "")
	assert.ErrorIs(t, err, service.ErrInvalidInput)
}

func TestAuth_Me(t *testing.T) {
	ctx := context.Background()
	a := newAuth(newMemUsers(), &fakeGoogle{}, newFakePub())
	reg, err := a.Register(ctx, "Alice", "a@example.com", "pw123456", "")
	require.NoError(t, err)

	me, err := a.Me(ctx, reg.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", me.Email)

	_, err = a.Me(ctx, "000000000000000000000000")
	assert.ErrorIs(t, err, service.ErrUnauthorized)

	_, err = a.Authenticate("garbage")
	assert.ErrorIs(t, err, service.ErrUnauthorized)
}
