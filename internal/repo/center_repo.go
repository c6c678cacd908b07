package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/vishalbagda/MidWiseAi/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ListCenters is a pure read: same location, same result.
func (s *Store) ListCenters(ctx context.Context, location string) ([]domain.DonationCenter, error) {
	filter := bson.M{}
	if q := strings.TrimSpace(location); q != "" {
		ci := primitive.Regex{Pattern: regexp.QuoteMeta(q), Options: "i"}
		filter = bson.M{"$or": bson.A{
			bson.M{"city": ci},
			bson.M{"address": ci},
			bson.M{"zip_code": primitive.Regex{Pattern: regexp.QuoteMeta(q)}},
		}}
	}
	cur, err := s.colCenters.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []domain.DonationCenter{}
	for cur.Next(ctx) {
		var c domain.DonationCenter
		if err := cur.Decode(&c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, cur.Err()
}

// SeedCenters inserts the catalog only when the collection is empty.
func (s *Store) SeedCenters(ctx context.Context, centers []domain.DonationCenter) (int, error) {
	n, err := s.colCenters.EstimatedDocumentCount(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 || len(centers) == 0 {
		return 0, nil
	}
	docs := make([]any, 0, len(centers))
	for _, c := range centers {
		c.ID = primitive.NilObjectID
		docs = append(docs, c)
	}
	res, err := s.colCenters.InsertMany(ctx, docs)
	if err != nil {
		return 0, err
	}
	return len(res.InsertedIDs), nil
}

// LoadCentersFile reads the JSON catalog used to seed the collection.
func LoadCentersFile(path string) ([]domain.DonationCenter, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var out []domain.DonationCenter
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return out, nil
}
