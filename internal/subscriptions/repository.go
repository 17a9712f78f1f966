package subscriptions

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Repository interface {
	Create(ctx context.Context, sub Subscription) error
	FindByID(ctx context.Context, id primitive.ObjectID) (Subscription, error)
	FindLatestByUser(ctx context.Context, userID Ref) (Subscription, error)
	List(ctx context.Context, filter ListFilter) ([]Subscription, error)
	Update(ctx context.Context, id primitive.ObjectID, set bson.M) (Subscription, error)
	Delete(ctx context.Context, id primitive.ObjectID) (bool, error)
	// LatestByUsers returns the newest subscription with status for each of
	// userIDs, keyed by Ref.String().
	LatestByUsers(ctx context.Context, userIDs []Ref, status Status) (map[string]Subscription, error)
	// UserIDs lists the distinct users holding a subscription that matches
	// filter.
	UserIDs(ctx context.Context, filter ListFilter) ([]Ref, error)
}

type MongoRepository struct {
	col *mongo.Collection
}

func NewRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

func listQuery(filter ListFilter) bson.M {
	query := bson.M{}
	if filter.Status != "" {
		query["status"] = filter.Status.Filter()
	}
	if filter.Pack != "" {
		query["currentPack"] = filter.Pack
	}
	return query
}

func latestQuery(userIDs []Ref, status Status) bson.M {
	values := make([]interface{}, 0, len(userIDs))
	for _, id := range userIDs {
		if !id.IsZero() {
			values = append(values, id.Value())
		}
	}
	query := bson.M{"userId": bson.M{"$in": values}}
	if status != "" {
		query["status"] = status.Filter()
	}
	return query
}

func (r *MongoRepository) Create(ctx context.Context, sub Subscription) error {
	_, err := r.col.InsertOne(ctx, sub)
	return err
}

func (r *MongoRepository) FindByID(ctx context.Context, id primitive.ObjectID) (Subscription, error) {
	var sub Subscription
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&sub); err != nil {
		return Subscription{}, err
	}
	return sub, nil
}

func (r *MongoRepository) FindLatestByUser(ctx context.Context, userID Ref) (Subscription, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	var sub Subscription
	if err := r.col.FindOne(ctx, bson.M{"userId": userID.Value()}, opts).Decode(&sub); err != nil {
		return Subscription{}, err
	}
	return sub, nil
}

func (r *MongoRepository) List(ctx context.Context, filter ListFilter) ([]Subscription, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.col.Find(ctx, listQuery(filter), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]Subscription, 0)
	for cursor.Next(ctx) {
		var sub Subscription
		if err := cursor.Decode(&sub); err != nil {
			return nil, err
		}
		items = append(items, sub)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *MongoRepository) Update(ctx context.Context, id primitive.ObjectID, set bson.M) (Subscription, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated Subscription
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&updated); err != nil {
		return Subscription{}, err
	}
	return updated, nil
}

func (r *MongoRepository) Delete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

func (r *MongoRepository) LatestByUsers(ctx context.Context, userIDs []Ref, status Status) (map[string]Subscription, error) {
	out := make(map[string]Subscription, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.col.Find(ctx, latestQuery(userIDs, status), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var sub Subscription
		if err := cursor.Decode(&sub); err != nil {
			return nil, err
		}
		key := sub.UserID.String()
		if _, seen := out[key]; !seen {
			out[key] = sub
		}
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *MongoRepository) UserIDs(ctx context.Context, filter ListFilter) ([]Ref, error) {
	values, err := r.col.Distinct(ctx, "userId", listQuery(filter))
	if err != nil {
		return nil, err
	}

	refs := make([]Ref, 0, len(values))
	for _, v := range values {
		switch id := v.(type) {
		case int32:
			refs = append(refs, IntRef(int64(id)))
		case int64:
			refs = append(refs, IntRef(id))
		case float64:
			refs = append(refs, IntRef(int64(id)))
		case primitive.ObjectID:
			refs = append(refs, ObjectIDRef(id))
		case string:
			refs = append(refs, StringRef(id))
		}
	}
	return refs, nil
}
