package mongo

import (
	"context"

	"scraper/pkg/counter"
)

var MongoTestConf = &Config{
	Host:   "localhost",
	Port:   "27018",
	DBName: "scraper_test",
}

// StorageConnect is a helper function that establishes a connection to the predefined test Mongo instance.
// It returns a connected Storage object or an error if connection fails.
func StorageConnect(ctx context.Context) (*Storage, error) {
	db, err := New(ctx, MongoTestConf)
	if err != nil {
		return nil, counter.ErrConnectDB
	}

	err = db.Ping(ctx)
	if err != nil {
		return nil, counter.ErrDBNotResponding
	}

	return db, nil
}

// RestoreDB drops the counters collection to reset the database state.
// WARNING: Use only in tests to avoid data loss.
func RestoreDB(ctx context.Context, db *Storage) error {
	coll := db.client.Database(db.dbName).Collection(countersCollection)
	return coll.Drop(ctx)
}
