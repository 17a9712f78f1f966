package customers

import (
	"context"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Repository interface {
	List(ctx context.Context, q userQuery, limit, skip int64) ([]User, error)
	Count(ctx context.Context, q userQuery) (int64, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (User, error)
	SetBlocked(ctx context.Context, id primitive.ObjectID, blocked bool) (User, error)
	// UpsertByPhone applies set to the user with phone, creating the user
	// when none exists.
	UpsertByPhone(ctx context.Context, phone string, set bson.M, now time.Time) (User, error)
}

// MongoRepository reads the users collection owned by the consumer
// application.
type MongoRepository struct {
	col *mongo.Collection
}

func NewRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

func buildQuery(q userQuery) bson.M {
	if !q.Restrict {
		return bson.M{}
	}
	values := make([]interface{}, 0, len(q.UserIDs))
	for _, id := range q.UserIDs {
		if !id.IsZero() {
			values = append(values, id.Value())
		}
	}
	return bson.M{"user_id": bson.M{"$in": values}}
}

// phoneValues matches a phone stored as a string or as a number. Mongo
// compares numbers by value, so one numeric form covers int32, int64 and
// double.
func phoneValues(phone string) []interface{} {
	values := []interface{}{phone}
	if phone == "" || phone[0] < '1' || phone[0] > '9' {
		return values
	}
	if n, err := strconv.ParseInt(phone, 10, 64); err == nil {
		values = append(values, n)
	}
	return values
}

// phoneUpsert builds the filter and update that sync a user by phone. The
// phone and blocked flag are only written when the user is created.
func phoneUpsert(phone string, set bson.M, now time.Time) (bson.M, bson.M) {
	filter := bson.M{"phone": bson.M{"$in": phoneValues(phone)}}
	update := bson.M{
		"$setOnInsert": bson.M{
			"phone":     phone,
			"isBlocked": false,
			"createdAt": now,
		},
	}
	if len(set) > 0 {
		update["$set"] = set
	}
	return filter, update
}

func (r *MongoRepository) List(ctx context.Context, q userQuery, limit, skip int64) ([]User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit).SetSkip(skip)
	}

	cursor, err := r.col.Find(ctx, buildQuery(q), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]User, 0)
	for cursor.Next(ctx) {
		var u User
		if err := cursor.Decode(&u); err != nil {
			return nil, err
		}
		items = append(items, u)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *MongoRepository) Count(ctx context.Context, q userQuery) (int64, error) {
	return r.col.CountDocuments(ctx, buildQuery(q))
}

func (r *MongoRepository) FindByID(ctx context.Context, id primitive.ObjectID) (User, error) {
	var u User
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return User{}, err
	}
	return u, nil
}

func (r *MongoRepository) SetBlocked(ctx context.Context, id primitive.ObjectID, blocked bool) (User, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.M{"$set": bson.M{"isBlocked": blocked}}

	var u User
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&u); err != nil {
		return User{}, err
	}
	return u, nil
}

func (r *MongoRepository) UpsertByPhone(ctx context.Context, phone string, set bson.M, now time.Time) (User, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After).
		SetSort(bson.D{{Key: "createdAt", Value: 1}})

	filter, update := phoneUpsert(phone, set, now)

	var u User
	if err := r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&u); err != nil {
		return User{}, err
	}
	return u, nil
}
