package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/mmcdole/picks/internal/domain"
	bolt "go.etcd.io/bbolt"
)

// Bucket names
var (
	bucketSession = []byte("session")
)

const keyIdentity = "identity"

// SessionStore implements domain.SessionStore using BoltDB.
type SessionStore struct {
	db *bolt.DB
	mu sync.RWMutex // Protects memory copy

	// In-memory copy (the only copy in memory-only mode)
	cache map[string][]byte
}

// NewSessionStore opens (or creates) the session database at path.
// An empty path gives a memory-only store.
func NewSessionStore(path string) (*SessionStore, error) {
	if path == "" {
		return &SessionStore{cache: make(map[string][]byte)}, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, err
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketSession)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &SessionStore{db: db, cache: make(map[string][]byte)}, nil
}

func (s *SessionStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// === Generic helpers ===

func (s *SessionStore) get(key string, dest interface{}) (bool, error) {
	s.mu.RLock()
	if data, ok := s.cache[key]; ok {
		s.mu.RUnlock()
		return true, json.Unmarshal(data, dest)
	}
	s.mu.RUnlock()

	if s.db == nil {
		return false, nil
	}

	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketSession)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	if data == nil {
		return false, nil
	}

	s.mu.Lock()
	s.cache[key] = data
	s.mu.Unlock()

	return true, json.Unmarshal(data, dest)
}

func (s *SessionStore) set(key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.cache[key] = data
	s.mu.Unlock()

	if s.db == nil {
		return nil // Memory-only mode
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketSession).Put([]byte(key), data)
	})
}

func (s *SessionStore) delete(key string) error {
	s.mu.Lock()
	delete(s.cache, key)
	s.mu.Unlock()

	if s.db == nil {
		return nil
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketSession)
		if b == nil {
			return nil
		}
		return b.Delete([]byte(key))
	})
}

// === Session ===

// LoadSession returns the persisted identity, or None
func (s *SessionStore) LoadSession() (domain.Option[domain.Identity], error) {
	var id domain.Identity
	ok, err := s.get(keyIdentity, &id)
	if err != nil {
		return domain.None[domain.Identity](), fmt.Errorf("failed to load session: %w", err)
	}
	if !ok || id.Principal.IsAnonymous() {
		return domain.None[domain.Identity](), nil
	}
	return domain.Some(id), nil
}

// SaveSession persists the identity
func (s *SessionStore) SaveSession(identity domain.Identity) error {
	if err := s.set(keyIdentity, identity); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// ClearSession removes the persisted identity
func (s *SessionStore) ClearSession() error {
	if err := s.delete(keyIdentity); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
