package dashboard

import (
	"context"

	"convenz-admin/internal/db"
	"convenz-admin/internal/subscriptions"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Source is the set of reads behind the dashboard.
type Source interface {
	CountVendors(ctx context.Context) (int64, error)
	CountCustomers(ctx context.Context) (int64, error)
	CountBookings(ctx context.Context, statuses ...string) (int64, error)
	SumBookingAmount(ctx context.Context, status string) (float64, error)
	SumSubscriptionPrice(ctx context.Context, statuses ...subscriptions.Status) (float64, error)
	CountSubscriptions(ctx context.Context, status subscriptions.Status) (int64, error)
}

type MongoSource struct {
	vendors       *mongo.Collection
	users         *mongo.Collection
	bookings      *mongo.Collection
	subscriptions *mongo.Collection
}

func NewMongoSource(cols *db.Collections) *MongoSource {
	return &MongoSource{
		vendors:       cols.Vendors,
		users:         cols.Users,
		bookings:      cols.Bookings,
		subscriptions: cols.Subscriptions,
	}
}

func (s *MongoSource) CountVendors(ctx context.Context) (int64, error) {
	return s.vendors.CountDocuments(ctx, bson.M{})
}

func (s *MongoSource) CountCustomers(ctx context.Context) (int64, error) {
	return s.users.CountDocuments(ctx, bson.M{})
}

func (s *MongoSource) CountBookings(ctx context.Context, statuses ...string) (int64, error) {
	return s.bookings.CountDocuments(ctx, bookingStatusIn(statuses))
}

func (s *MongoSource) SumBookingAmount(ctx context.Context, status string) (float64, error) {
	return sum(ctx, s.bookings, bson.M{"bookingStatus": status}, "$amount")
}

func (s *MongoSource) SumSubscriptionPrice(ctx context.Context, statuses ...subscriptions.Status) (float64, error) {
	return sum(ctx, s.subscriptions, subscriptionStatusIn(statuses), "$price")
}

func (s *MongoSource) CountSubscriptions(ctx context.Context, status subscriptions.Status) (int64, error) {
	return s.subscriptions.CountDocuments(ctx, bson.M{"status": status.Filter()})
}

func bookingStatusIn(statuses []string) bson.M {
	return bson.M{"bookingStatus": bson.M{"$in": statuses}}
}

// subscriptionStatusIn matches any of statuses in any casing.
func subscriptionStatusIn(statuses []subscriptions.Status) bson.M {
	patterns := make([]primitive.Regex, 0, len(statuses))
	for _, st := range statuses {
		patterns = append(patterns, st.Filter())
	}
	return bson.M{"status": bson.M{"$in": patterns}}
}

// sumPipeline totals field over the documents matching match. Numeric
// strings are counted; other non-numeric values count as 0.
func sumPipeline(match bson.M, field string) mongo.Pipeline {
	asDouble := bson.D{{Key: "$convert", Value: bson.D{
		{Key: "input", Value: field},
		{Key: "to", Value: "double"},
		{Key: "onError", Value: 0},
		{Key: "onNull", Value: 0},
	}}}
	return mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: asDouble}}},
		}}},
	}
}

// sum runs sumPipeline; no matching documents yields 0.
func sum(ctx context.Context, col *mongo.Collection, match bson.M, field string) (float64, error) {
	cursor, err := col.Aggregate(ctx, sumPipeline(match, field))
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Total float64 `bson:"total"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Total, nil
}
