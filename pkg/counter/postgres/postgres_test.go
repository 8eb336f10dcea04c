package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"scraper/pkg/counter"
)

const defaultPostgresPass = "some_pass"

func postgresConf() Config {
	conf := ConfigFromEnv()
	if conf.Host == "" {
		conf.Host = "localhost"
	}
	if conf.Password == "" {
		conf.Password = defaultPostgresPass
	}
	conf.DBName = "scraper_test"

	return conf
}

func storageConnect(ctx context.Context) (*Store, error) {
	conf := postgresConf()
	db, err := New(ctx, conf.ConString())
	if err != nil {
		return nil, counter.ErrConnectDB
	}

	err = db.Ping(ctx)
	if err != nil {
		return nil, counter.ErrDBNotResponding
	}

	return db, nil
}

// truncateVisitors restores the original state of DB for further testing.
func truncateVisitors(db *Store) error {
	_, err := db.db.Exec(context.Background(), "TRUNCATE TABLE visitors")
	return err
}

func TestStore_Increment(t *testing.T) {
	if os.Getenv("POSTGRES_TESTS") == "" {
		t.Skip("set POSTGRES_TESTS=1 to run against a local postgres instance")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := storageConnect(ctx)
	if err != nil {
		t.Fatal(err)
	}

	t.Cleanup(func() {
		err := truncateVisitors(db)
		if err != nil {
			t.Logf("WARNING: unable to restore DB state after the test: %v", err)
		}
		db.Close()
	})

	if err := truncateVisitors(db); err != nil {
		t.Fatalf("failed to truncate visitors: %v", err)
	}

	got, err := db.Read(ctx)
	if err != nil {
		t.Fatalf("unexpected error while reading: %v", err)
	}
	if got != 0 {
		t.Errorf("want count 0, got count %d", got)
	}

	for want := int64(1); want <= 3; want++ {
		got, err := db.Increment(ctx)
		if err != nil {
			t.Fatalf("unexpected error while incrementing: %v", err)
		}
		if got != want {
			t.Errorf("want count %d, got count %d", want, got)
		}
	}

	got, err = db.Read(ctx)
	if err != nil {
		t.Fatalf("unexpected error while reading: %v", err)
	}
	if got != 3 {
		t.Errorf("want count 3, got count %d", got)
	}
}
