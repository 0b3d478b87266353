package store

import (
	bolt "go.etcd.io/bbolt"
	. "src.scenar.sh/pkg/store/storedefs"
)

func init() {
	initDB["initialize variable table"] = func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketVar))
		return err
	}
}

// Var gets the value of a persisted variable.
func (s *dbStore) Var(name string) (string, error) {
	var value string
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketVar))
		v := b.Get([]byte(name))
		if v == nil {
			return ErrNoVar
		}
		value = string(v)
		return nil
	})
	return value, err
}

// SetVar sets the value of a persisted variable.
func (s *dbStore) SetVar(name, value string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketVar))
		return b.Put([]byte(name), []byte(value))
	})
}

// DelVar deletes a persisted variable.
func (s *dbStore) DelVar(name string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketVar))
		return b.Delete([]byte(name))
	})
}

// Vars returns all persisted variables.
func (s *dbStore) Vars() (map[string]string, error) {
	vars := make(map[string]string)
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketVar))
		return b.ForEach(func(k, v []byte) error {
			vars[string(k)] = string(v)
			return nil
		})
	})
	return vars, err
}
