package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/vishalbagda/MidWiseAi/internal/domain"
	"github.com/vishalbagda/MidWiseAi/internal/helper"
	"github.com/vishalbagda/MidWiseAi/internal/log"
	"github.com/vishalbagda/MidWiseAi/internal/oauth"
	"github.com/vishalbagda/MidWiseAi/internal/queue"
	"github.com/vishalbagda/MidWiseAi/internal/repo"
	"github.com/vishalbagda/MidWiseAi/internal/security"
	"go.uber.org/zap"
)

const (
	CredentialIDToken     = "id_token"
	CredentialAccessToken = "access_token"
	CredentialCode        = "code"
)

const minPasswordLen = 8

type Auth struct {
	Users    UserStore
	OAuth    GoogleVerifier
	Pub      queue.Publisher
	Exchange string
	Secret   string
	TokenTTL time.Duration
}

// Session is what every successful login returns.
type Session struct {
	User  domain.PublicUser `json:"user"`
	Token string            `json:"token"`
}

func (a *Auth) Register(ctx context.Context, name, email, password, reqID string) (*Session, error) {
	name, email = strings.TrimSpace(name), normEmail(email)
	if name == "" || email == "" || password == "" {
		return nil, invalid("Missing required fields", "Name, email and password are required")
	}
	if _, err := mail.ParseAddress(email); err != nil || !strings.Contains(email, "@") {
		return nil, invalid("Invalid email", "Please provide a valid email address")
	}
	if len(password) < minPasswordLen {
		return nil, invalid("Weak password", fmt.Sprintf("Password must be at least %d characters", minPasswordLen))
	}

	existing, err := a.Users.FindUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &domain.User{Email: email, PasswordHash: hash, Name: name, Provider: domain.ProviderLocal}
	if err := a.Users.CreateUser(ctx, u); err != nil {
		// гонка двух регистраций на один email
		if errors.Is(err, repo.ErrEmailExists) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	log.Ctx(ctx).Info("user registered",
		zap.String("user_id", u.ID.Hex()), zap.String("email_h", helper.Hash8(email)))
	queue.PublishAsync(ctx, a.Pub, a.Exchange, queue.KeyUserRegistered, queue.UserRegistered{
		UserID: u.ID.Hex(), EmailH: helper.Hash8(email), Name: u.Name, Provider: u.Provider,
	}, reqID)

	return a.issue(u)
}

func (a *Auth) Login(ctx context.Context, email, password, reqID string) (*Session, error) {
	email = normEmail(email)
	if email == "" || password == "" {
		return nil, invalid("Missing required fields", "Missing email or password")
	}

	u, err := a.Users.FindUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	// у google-аккаунта нет пароля: тоже 401
	if u == nil || u.PasswordHash == "" || !security.CheckPassword(u.PasswordHash, password) {
		log.Ctx(ctx).Info("login rejected", zap.String("email_h", helper.Hash8(email)))
		return nil, ErrInvalidCredentials
	}

	a.loggedIn(ctx, u, domain.ProviderLocal, reqID)
	return a.issue(u)
}

// Google logs in with a provider credential. kind selects how it is verified:
// access_token goes to userinfo, code is exchanged first, anything else is an ID token.
func (a *Auth) Google(ctx context.Context, credential, kind, reqID string) (*Session, error) {
	credential = strings.TrimSpace(credential)
	if credential == "" {
		return nil, invalid("Missing required fields", "Missing Google credential")
	}

	var (
		gu  *oauth.GoogleUser
		err error
	)
	switch kind {
	case CredentialAccessToken:
		gu, err = a.OAuth.UserInfo(ctx, credential)
	case CredentialCode:
		gu, err = a.OAuth.Exchange(ctx, credential)
	case CredentialIDToken, "":
		gu, err = a.OAuth.VerifyIDToken(ctx, credential)
	default:
		return nil, invalid("Invalid credential type", "type must be id_token, access_token or code")
	}
	if err != nil {
		log.Ctx(ctx).Warn("google credential rejected", zap.String("kind", kind), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrProviderAuth, err)
	}
	if gu.Sub == "" || gu.Email == "" {
		return nil, fmt.Errorf("%w: profile has no subject or email", ErrProviderAuth)
	}

	u, err := a.upsertGoogle(ctx, gu, reqID)
	if err != nil {
		return nil, err
	}
	a.loggedIn(ctx, u, domain.ProviderGoogle, reqID)
	return a.issue(u)
}

func (a *Auth) upsertGoogle(ctx context.Context, gu *oauth.GoogleUser, reqID string) (*domain.User, error) {
	name := strings.TrimSpace(gu.Name)
	email := normEmail(gu.Email)

	u, err := a.Users.FindUserByGoogleID(ctx, gu.Sub)
	if err != nil {
		return nil, err
	}
	if u == nil {
		// тот же email уже зарегистрирован паролем: привязываем google к нему
		u, err = a.Users.FindUserByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		// без подтверждённого email не привязываем: иначе это захват аккаунта
		if u != nil && !gu.EmailVerified {
			log.Ctx(ctx).Warn("google email not verified, refusing to link",
				zap.String("user_id", u.ID.Hex()), zap.String("email_h", helper.Hash8(email)))
			return nil, fmt.Errorf("%w: email %s is not verified by the provider", ErrProviderAuth, helper.Hash8(email))
		}
	}

	if u == nil {
		if name == "" {
			name = "Google User"
		}
		u = &domain.User{
			Email:    email,
			Name:     name,
			Picture:  gu.Picture,
			Provider: domain.ProviderGoogle,
			GoogleID: gu.Sub,
		}
		if err := a.Users.CreateUser(ctx, u); err != nil {
			return nil, err
		}
		queue.PublishAsync(ctx, a.Pub, a.Exchange, queue.KeyUserRegistered, queue.UserRegistered{
			UserID: u.ID.Hex(), EmailH: helper.Hash8(email), Name: u.Name, Provider: u.Provider,
		}, reqID)
		return u, nil
	}

	u.GoogleID = gu.Sub
	if name != "" {
		u.Name = name
	}
	if gu.Picture != "" {
		u.Picture = gu.Picture
	}
	if err := a.Users.UpdateGoogleProfile(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Me resolves the caller behind a verified token.
func (a *Auth) Me(ctx context.Context, uid string) (*domain.PublicUser, error) {
	u, err := a.Users.FindUserByID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUnauthorized
	}
	p := u.Public()
	return &p, nil
}

// Authenticate validates a bearer token and returns the user id in it.
func (a *Auth) Authenticate(token string) (string, error) {
	c, err := security.ParseAccess(a.Secret, token)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	return c.UID, nil
}

func (a *Auth) issue(u *domain.User) (*Session, error) {
	tok, err := security.MakeAccess(a.Secret, u.ID.Hex(), u.Email, a.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &Session{User: u.Public(), Token: tok}, nil
}

func (a *Auth) loggedIn(ctx context.Context, u *domain.User, provider, reqID string) {
	queue.PublishAsync(ctx, a.Pub, a.Exchange, queue.KeyUserLoggedIn, queue.UserLoggedIn{
		UserID: u.ID.Hex(), Provider: provider,
	}, reqID)
}

func normEmail(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
