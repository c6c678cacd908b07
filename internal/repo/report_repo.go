package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/vishalbagda/MidWiseAi/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"
)

const reportCounter = "donation_reports"

type counter struct {
	ID  string `bson:"_id"`
	Seq int64  `bson:"seq"`
}

// nextSeq атомарно увеличивает счётчик; конкурентные вставки получают разные seq.
func (s *Store) nextSeq(ctx context.Context, name string) (int64, error) {
	var c counter
	err := s.colCounters.FindOneAndUpdate(ctx,
		bson.M{"_id": name},
		bson.M{"$inc": bson.M{"seq": 1}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&c)
	return c.Seq, err
}

// AppendReport assigns the next sequence number and report id, then inserts.
func (s *Store) AppendReport(ctx context.Context, r *domain.DonationReport) error {
	sp, ctx := tracer.StartSpanFromContext(ctx, "mongo.donation_reports.append")
	defer sp.Finish()

	seq, err := s.nextSeq(ctx, reportCounter)
	if err != nil {
		sp.SetTag("error", err)
		return fmt.Errorf("next seq: %w", err)
	}
	r.Seq = seq
	r.ReportID = fmt.Sprintf("DON%06d", seq)
	if r.SubmittedAt.IsZero() {
		r.SubmittedAt = time.Now().UTC()
	}
	if r.Status == "" {
		r.Status = domain.ReportStatusRecorded
	}
	if _, err := s.colReports.InsertOne(ctx, r); err != nil {
		sp.SetTag("error", err)
		return err
	}
	sp.SetTag("report_id", r.ReportID)
	return nil
}

// ListReportsByUser returns the caller's reports, newest first.
func (s *Store) ListReportsByUser(ctx context.Context, userID string, limit int) ([]domain.DonationReport, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	cur, err := s.colReports.Find(ctx, bson.M{"user_id": userID},
		options.Find().SetLimit(int64(limit)).SetSort(bson.D{{Key: "seq", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []domain.DonationReport{}
	for cur.Next(ctx) {
		var r domain.DonationReport
		if err := cur.Decode(&r); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, cur.Err()
}
