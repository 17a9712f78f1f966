package db

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Sequence is a named monotonic counter stored in the counters collection.
// Values are never handed out twice, even after the documents they numbered
// are deleted.
type Sequence struct {
	col  *mongo.Collection
	name string
}

func NewSequence(col *mongo.Collection, name string) *Sequence {
	return &Sequence{col: col, name: name}
}

func (s *Sequence) Next(ctx context.Context) (int64, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var doc struct {
		Seq int64 `bson:"seq"`
	}
	err := s.col.FindOneAndUpdate(ctx, bson.M{"_id": s.name}, bson.M{"$inc": bson.M{"seq": int64(1)}}, opts).Decode(&doc)
	if err != nil {
		return 0, err
	}
	return doc.Seq, nil
}

// EnsureAtLeast raises the counter to floor when it is lower. Used once at
// startup so a database populated before the counter existed does not
// restart numbering at 1.
func (s *Sequence) EnsureAtLeast(ctx context.Context, floor int64) error {
	_, err := s.col.UpdateOne(ctx,
		bson.M{"_id": s.name},
		bson.M{"$max": bson.M{"seq": floor}},
		options.Update().SetUpsert(true),
	)
	return err
}
