package bookings

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Repository interface {
	Create(ctx context.Context, booking Booking) error
	FindByID(ctx context.Context, id primitive.ObjectID) (Booking, error)
	List(ctx context.Context, filter ListFilter, limit, skip int64) ([]Booking, error)
	Count(ctx context.Context, filter ListFilter) (int64, error)
	Update(ctx context.Context, id primitive.ObjectID, set bson.M) (Booking, error)
	Delete(ctx context.Context, id primitive.ObjectID) (bool, error)
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
		query["bookingStatus"] = filter.Status
	}
	if !filter.VendorID.IsZero() {
		query["vendorId"] = filter.VendorID
	}
	return query
}

func (r *MongoRepository) Create(ctx context.Context, booking Booking) error {
	_, err := r.col.InsertOne(ctx, booking)
	return err
}

func (r *MongoRepository) FindByID(ctx context.Context, id primitive.ObjectID) (Booking, error) {
	var booking Booking
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&booking); err != nil {
		return Booking{}, err
	}
	return booking, nil
}

func (r *MongoRepository) List(ctx context.Context, filter ListFilter, limit, skip int64) ([]Booking, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit).SetSkip(skip)
	}

	cursor, err := r.col.Find(ctx, listQuery(filter), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]Booking, 0)
	for cursor.Next(ctx) {
		var b Booking
		if err := cursor.Decode(&b); err != nil {
			return nil, err
		}
		items = append(items, b)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *MongoRepository) Count(ctx context.Context, filter ListFilter) (int64, error) {
	return r.col.CountDocuments(ctx, listQuery(filter))
}

func (r *MongoRepository) Update(ctx context.Context, id primitive.ObjectID, set bson.M) (Booking, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated Booking
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&updated); err != nil {
		return Booking{}, err
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
