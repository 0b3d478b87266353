// Package store keeps the history of scripts run by the shell and the
// variables it persists between sessions, in a bbolt database.
package store

import (
	"time"

	bolt "go.etcd.io/bbolt"
	"src.scenar.sh/pkg/logutil"
	. "src.scenar.sh/pkg/store/storedefs"
)

var logger = logutil.GetLogger("[store] ")

// Names of the buckets.
const (
	bucketCmd = "cmd"
	bucketVar = "var"
)

// Functions that initialize the database. Each file of the package adds the
// initialization of the buckets it uses.
var initDB = map[string]func(*bolt.Tx) error{}

// DBStore is the permanent storage backend for the shell.
type DBStore interface {
	Store
	Close() error
}

type dbStore struct {
	db *bolt.DB
}

// NewStore creates a new Store from the given file.
func NewStore(dbname string) (DBStore, error) {
	db, err := bolt.Open(dbname, 0644, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}
	return NewStoreFromDB(db)
}

// NewStoreFromDB creates a new Store from a bolt DB.
func NewStoreFromDB(db *bolt.DB) (DBStore, error) {
	logger.Println("initializing store")
	defer logger.Println("initialized store")
	st := &dbStore{db}

	err := db.Update(func(tx *bolt.Tx) error {
		for name, fn := range initDB {
			if err := fn(tx); err != nil {
				logger.Printf("%s: %v", name, err)
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return st, nil
}

// Close closes the database.
func (s *dbStore) Close() error {
	return s.db.Close()
}
