package repo

import (
	"context"
	"errors"
	"time"

	"github.com/vishalbagda/MidWiseAi/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"
)

func (s *Store) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.findUser(ctx, bson.M{"email": email})
}

func (s *Store) FindUserByGoogleID(ctx context.Context, sub string) (*domain.User, error) {
	return s.findUser(ctx, bson.M{"google_id": sub})
}

func (s *Store) FindUserByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	return s.findUser(ctx, bson.M{"_id": oid})
}

// nil, nil если не нашли
func (s *Store) findUser(ctx context.Context, filter bson.M) (*domain.User, error) {
	var u domain.User
	err := s.colUsers.FindOne(ctx, filter).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) CreateUser(ctx context.Context, u *domain.User) error {
	sp, ctx := tracer.StartSpanFromContext(ctx, "mongo.users.insert",
		tracer.Tag("provider", u.Provider),
	)
	defer sp.Finish()

	now := time.Now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now
	res, err := s.colUsers.InsertOne(ctx, u)
	if IsDup(err) {
		return ErrEmailExists
	}
	if err != nil {
		sp.SetTag("error", err)
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		u.ID = oid
	}
	return nil
}

// UpdateGoogleProfile links the Google identity and refreshes name/picture.
func (s *Store) UpdateGoogleProfile(ctx context.Context, u *domain.User) error {
	sp, ctx := tracer.StartSpanFromContext(ctx, "mongo.users.update_google")
	defer sp.Finish()

	u.UpdatedAt = time.Now().UTC()
	res, err := s.colUsers.UpdateOne(ctx,
		bson.M{"_id": u.ID},
		bson.M{"$set": bson.M{
			"google_id":  u.GoogleID,
			"name":       u.Name,
			"picture":    u.Picture,
			"updated_at": u.UpdatedAt,
		}},
	)
	if err != nil {
		sp.SetTag("error", err)
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
