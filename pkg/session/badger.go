package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// BadgerStore persists history in an embedded BadgerDB at a local path.
// Each session's turns are stored as one JSON-encoded value under the
// session ID key.
type BadgerStore struct {
	db *badger.DB
}

// NewBadgerStore opens or creates a BadgerDB at the given path.
func NewBadgerStore(path string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("opening session store at %s: %w", path, err)
	}
	return &BadgerStore{db: db}, nil
}

var _ Store = (*BadgerStore)(nil)

// Append adds a turn to the session's history.
func (s *BadgerStore) Append(_ context.Context, sessionID string, turn Turn) error {
	if turn.Timestamp.IsZero() {
		turn.Timestamp = time.Now()
	}
	key := []byte(sessionID)
	return s.db.Update(func(txn *badger.Txn) error {
		turns, err := readTurns(txn, key)
		if err != nil {
			return err
		}
		turns = append(turns, turn)
		encoded, err := json.Marshal(turns)
		if err != nil {
			return fmt.Errorf("encoding session %s: %w", sessionID, err)
		}
		return txn.Set(key, encoded)
	})
}

// History returns the session's turns oldest first.
func (s *BadgerStore) History(_ context.Context, sessionID string) ([]Turn, error) {
	var turns []Turn
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		turns, err = readTurns(txn, []byte(sessionID))
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("reading session %s: %w", sessionID, err)
	}
	return turns, nil
}

// Clear removes the session's history.
func (s *BadgerStore) Clear(_ context.Context, sessionID string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		err := txn.Delete([]byte(sessionID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		return err
	})
}

// Close closes the database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

func readTurns(txn *badger.Txn, key []byte) ([]Turn, error) {
	item, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return []Turn{}, nil
	}
	if err != nil {
		return nil, err
	}

	var turns []Turn
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, &turns)
	})
	if err != nil {
		return nil, err
	}
	return turns, nil
}
