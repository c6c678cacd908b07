package repo

import (
	"context"
	"time"

	"github.com/vishalbagda/MidWiseAi/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (s *Store) AddScan(ctx context.Context, rec *domain.ScanRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	_, err := s.colHistory.InsertOne(ctx, rec)
	return err
}

func (s *Store) ListScans(ctx context.Context, userID, kind string, limit int) ([]domain.ScanRecord, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	cur, err := s.colHistory.Find(ctx,
		bson.M{"user_id": userID, "kind": kind},
		options.Find().SetLimit(int64(limit)).SetSort(bson.D{{Key: "created_at", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []domain.ScanRecord{}
	for cur.Next(ctx) {
		var r domain.ScanRecord
		if err := cur.Decode(&r); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, cur.Err()
}
