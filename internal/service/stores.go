// Package service holds the MedWise use cases. Handlers stay thin and call in here;
// storage, the model and the OAuth provider come in through the interfaces below.
package service

import (
	"context"
	"time"

	"github.com/vishalbagda/MidWiseAi/internal/domain"
	"github.com/vishalbagda/MidWiseAi/internal/ingest"
	"github.com/vishalbagda/MidWiseAi/internal/oauth"
)

// UserStore: Find* return (nil, nil) when nothing matches.
type UserStore interface {
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)
	FindUserByGoogleID(ctx context.Context, sub string) (*domain.User, error)
	FindUserByID(ctx context.Context, id string) (*domain.User, error)
	CreateUser(ctx context.Context, u *domain.User) error
	UpdateGoogleProfile(ctx context.Context, u *domain.User) error
}

type CenterStore interface {
	ListCenters(ctx context.Context, location string) ([]domain.DonationCenter, error)
}

type ReportStore interface {
	AppendReport(ctx context.Context, r *domain.DonationReport) error
	ListReportsByUser(ctx context.Context, userID string, limit int) ([]domain.DonationReport, error)
}

type HistoryStore interface {
	AddScan(ctx context.Context, rec *domain.ScanRecord) error
	ListScans(ctx context.Context, userID, kind string, limit int) ([]domain.ScanRecord, error)
}

// SessionStore: Get returns (nil, nil) for an unknown id, Delete reports whether
// something was removed.
type SessionStore interface {
	Get(ctx context.Context, id string) (*domain.ChatSession, error)
	Put(ctx context.Context, s *domain.ChatSession) error
	Delete(ctx context.Context, id string) (bool, error)
	Sweep(ctx context.Context, idle time.Duration, now time.Time) (int, error)
}

type GoogleVerifier interface {
	VerifyIDToken(ctx context.Context, raw string) (*oauth.GoogleUser, error)
	UserInfo(ctx context.Context, accessToken string) (*oauth.GoogleUser, error)
	Exchange(ctx context.Context, code string) (*oauth.GoogleUser, error)
}

type TextExtractor interface {
	ExtractText(ctx context.Context, f *ingest.File) (string, error)
}
