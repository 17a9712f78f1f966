package vendors

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Repository interface {
	Create(ctx context.Context, vendor Vendor) error
	FindByID(ctx context.Context, id primitive.ObjectID) (Vendor, error)
	List(ctx context.Context, filter ListFilter, limit, skip int64) ([]Vendor, error)
	Count(ctx context.Context, filter ListFilter) (int64, error)
	Update(ctx context.Context, id primitive.ObjectID, set bson.M) (Vendor, error)
	Delete(ctx context.Context, id primitive.ObjectID) (bool, error)
}

// Sequence hands out vendor numbers. Implemented by db.Sequence.
type Sequence interface {
	Next(ctx context.Context) (int64, error)
}

type MongoRepository struct {
	col *mongo.Collection
}

func NewRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

func (r *MongoRepository) Create(ctx context.Context, vendor Vendor) error {
	_, err := r.col.InsertOne(ctx, vendor)
	return err
}

func (r *MongoRepository) FindByID(ctx context.Context, id primitive.ObjectID) (Vendor, error) {
	var vendor Vendor
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&vendor); err != nil {
		return Vendor{}, err
	}
	return vendor, nil
}

func listQuery(filter ListFilter) bson.M {
	query := bson.M{}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.Pack != "" {
		query["currentPack"] = filter.Pack
	}
	return query
}

func (r *MongoRepository) List(ctx context.Context, filter ListFilter, limit, skip int64) ([]Vendor, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit).SetSkip(skip)
	}

	cursor, err := r.col.Find(ctx, listQuery(filter), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]Vendor, 0)
	for cursor.Next(ctx) {
		var v Vendor
		if err := cursor.Decode(&v); err != nil {
			return nil, err
		}
		items = append(items, v)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *MongoRepository) Count(ctx context.Context, filter ListFilter) (int64, error) {
	return r.col.CountDocuments(ctx, listQuery(filter))
}

func (r *MongoRepository) Update(ctx context.Context, id primitive.ObjectID, set bson.M) (Vendor, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated Vendor
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&updated); err != nil {
		return Vendor{}, err
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

// HighestSequence returns the largest number among stored VEND-NNNNN ids,
// or 0 when there are none.
func (r *MongoRepository) HighestSequence(ctx context.Context) (int64, error) {
	cursor, err := r.col.Aggregate(ctx, highestSequencePipeline())
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Seq int64 `bson:"seq"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Seq, nil
}

// highestSequencePipeline orders vendors by the numeric part of vendorId.
// A string sort would put VEND-100000 below VEND-99999.
func highestSequencePipeline() mongo.Pipeline {
	digits := bson.D{{Key: "$substrCP", Value: bson.A{
		"$vendorId",
		len(vendorIDPrefix),
		bson.D{{Key: "$subtract", Value: bson.A{
			bson.D{{Key: "$strLenCP", Value: "$vendorId"}},
			len(vendorIDPrefix),
		}}},
	}}}
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"vendorId": bson.M{"$regex": "^" + vendorIDPrefix + "[0-9]{1,18}$"}}}},
		{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "seq", Value: bson.D{{Key: "$toLong", Value: digits}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "seq", Value: -1}}}},
		{{Key: "$limit", Value: 1}},
	}
}
