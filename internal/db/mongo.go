package db

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collections are created once at startup and shared by every repository.
// Users and Subscriptions belong to the consumer application: this service
// reads and patches them but never manages their indexes.
type Collections struct {
	Admins        *mongo.Collection
	Vendors       *mongo.Collection
	Users         *mongo.Collection
	Plans         *mongo.Collection
	Subscriptions *mongo.Collection
	Bookings      *mongo.Collection
	Counters      *mongo.Collection
}

func Connect(ctx context.Context, uri, dbName string) (*mongo.Client, *Collections, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, err
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, err
	}

	return client, NewCollections(client.Database(dbName)), nil
}

func NewCollections(db *mongo.Database) *Collections {
	return &Collections{
		Admins:        db.Collection("admins"),
		Vendors:       db.Collection("vendors"),
		Users:         db.Collection("users"),
		Plans:         db.Collection("plans"),
		Subscriptions: db.Collection("subscriptions"),
		Bookings:      db.Collection("bookings"),
		Counters:      db.Collection("counters"),
	}
}

func EnsureIndexes(ctx context.Context, cols *Collections) error {
	indexTimeout, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := cols.Admins.Indexes().CreateMany(indexTimeout, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "role", Value: 1}},
		},
	})
	if err != nil {
		return err
	}

	_, err = cols.Vendors.Indexes().CreateMany(indexTimeout, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "vendorId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "createdAt", Value: -1}},
		},
	})
	if err != nil {
		return err
	}

	_, err = cols.Bookings.Indexes().CreateMany(indexTimeout, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "createdAt", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "bookingStatus", Value: 1}},
		},
	})
	if err != nil {
		return err
	}

	return nil
}
