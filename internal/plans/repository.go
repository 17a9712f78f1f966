package plans

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Repository interface {
	Create(ctx context.Context, plan Plan) error
	FindByID(ctx context.Context, id primitive.ObjectID) (Plan, error)
	List(ctx context.Context, planType string) ([]Plan, error)
	Update(ctx context.Context, id primitive.ObjectID, set bson.M) (Plan, error)
	Delete(ctx context.Context, id primitive.ObjectID) (bool, error)
	// Upsert replaces the plan with the same name and type, inserting it
	// when missing. It reports whether a new document was created.
	Upsert(ctx context.Context, plan Plan) (bool, error)
}

type MongoRepository struct {
	col *mongo.Collection
}

func NewRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

func (r *MongoRepository) Create(ctx context.Context, plan Plan) error {
	_, err := r.col.InsertOne(ctx, plan)
	return err
}

func (r *MongoRepository) FindByID(ctx context.Context, id primitive.ObjectID) (Plan, error) {
	var plan Plan
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&plan); err != nil {
		return Plan{}, err
	}
	return plan, nil
}

func (r *MongoRepository) List(ctx context.Context, planType string) ([]Plan, error) {
	query := bson.M{}
	if planType != "" {
		query["planType"] = planType
	}
	opts := options.Find().SetSort(bson.D{{Key: "price", Value: 1}, {Key: "createdAt", Value: -1}})

	cursor, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]Plan, 0)
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *MongoRepository) Update(ctx context.Context, id primitive.ObjectID, set bson.M) (Plan, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated Plan
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&updated); err != nil {
		return Plan{}, err
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

func (r *MongoRepository) Upsert(ctx context.Context, plan Plan) (bool, error) {
	filter := bson.M{"name": plan.Name, "planType": plan.PlanType}
	update := bson.M{
		"$set": bson.M{
			"price":     plan.Price,
			"duration":  plan.Duration,
			"features":  plan.Features,
			"active":    plan.Active,
			"updatedAt": plan.UpdatedAt,
		},
		"$setOnInsert": bson.M{
			"createdAt": plan.CreatedAt,
		},
	}

	res, err := r.col.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return false, err
	}
	return res.UpsertedCount > 0, nil
}
