package processor

import (
	dbm "github.com/tendermint/tm-db"
)

// Store is the durable key-addressed storage the host runtime supplies. Get
// returns nil for an absent address; Set persists a whole serialized blob at
// one address atomically.
type Store interface {
	Get(addr string) ([]byte, error)
	Set(addr string, value []byte) error
}

// DBStore adapts a tm-db database to the Store boundary.
type DBStore struct {
	db dbm.DB
}

var _ Store = (*DBStore)(nil)

// NewDBStore wraps db.
func NewDBStore(db dbm.DB) *DBStore {
	return &DBStore{db: db}
}

func (s *DBStore) Get(addr string) ([]byte, error) {
	return s.db.Get([]byte(addr))
}

func (s *DBStore) Set(addr string, value []byte) error {
	return s.db.SetSync([]byte(addr), value)
}
