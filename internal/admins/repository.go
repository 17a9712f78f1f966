package admins

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Repository interface {
	Create(ctx context.Context, admin Admin) error
	FindByEmail(ctx context.Context, email string) (Admin, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (Admin, error)
	List(ctx context.Context) ([]Admin, error)
	Update(ctx context.Context, id primitive.ObjectID, set bson.M) (Admin, error)
	Delete(ctx context.Context, id primitive.ObjectID) (bool, error)
	ExistsWithRole(ctx context.Context, role string) (bool, error)
}

type MongoRepository struct {
	col *mongo.Collection
}

func NewRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

func (r *MongoRepository) Create(ctx context.Context, admin Admin) error {
	_, err := r.col.InsertOne(ctx, admin)
	return err
}

func (r *MongoRepository) FindByEmail(ctx context.Context, email string) (Admin, error) {
	var admin Admin
	if err := r.col.FindOne(ctx, bson.M{"email": email}).Decode(&admin); err != nil {
		return Admin{}, err
	}
	return admin, nil
}

func (r *MongoRepository) FindByID(ctx context.Context, id primitive.ObjectID) (Admin, error) {
	var admin Admin
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&admin); err != nil {
		return Admin{}, err
	}
	return admin, nil
}

func (r *MongoRepository) List(ctx context.Context) ([]Admin, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]Admin, 0)
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *MongoRepository) Update(ctx context.Context, id primitive.ObjectID, set bson.M) (Admin, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated Admin
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&updated); err != nil {
		return Admin{}, err
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

func (r *MongoRepository) ExistsWithRole(ctx context.Context, role string) (bool, error) {
	n, err := r.col.CountDocuments(ctx, bson.M{"role": role}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
