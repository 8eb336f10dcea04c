package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	countersCollection = "counters"
	visitorsID         = "visitors"
)

type Storage struct {
	client *mongo.Client
	dbName string
}

type counterDoc struct {
	ID    string `bson:"_id"`
	Count int64  `bson:"count"`
}

func New(ctx context.Context, conf *Config) (*Storage, error) {
	client, err := mongo.Connect(ctx, conf.Options())
	if err != nil {
		return nil, err
	}

	return &Storage{client: client, dbName: conf.DBName}, nil
}

func (s *Storage) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *Storage) Close(ctx context.Context) {
	s.client.Disconnect(ctx)
}

// Increment atomically bumps the visitors document, creating it when missing,
// and returns the new value.
func (s *Storage) Increment(ctx context.Context) (int64, error) {
	coll := s.client.Database(s.dbName).Collection(countersCollection)
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var doc counterDoc
	err := coll.FindOneAndUpdate(ctx,
		bson.M{"_id": visitorsID},
		bson.M{"$inc": bson.M{"count": 1}},
		opts,
	).Decode(&doc)
	if err != nil {
		return 0, err
	}

	return doc.Count, nil
}

// Read returns the visitors value, zero if the document does not exist yet.
func (s *Storage) Read(ctx context.Context) (int64, error) {
	coll := s.client.Database(s.dbName).Collection(countersCollection)

	var doc counterDoc
	err := coll.FindOne(ctx, bson.M{"_id": visitorsID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	return doc.Count, nil
}
