package storage

import (
	"encoding/json"
	"time"

	"github.com/cockroachdb/errors"
	bolt "go.etcd.io/bbolt"
	"golang.org/x/oauth2"

	"github.com/pders01/sptui/internal/validation"
)

var (
	credentialsBucket = []byte("credentials")
	tokenKey          = []byte("spotify_token")
)

// ErrTokenNotFound is returned by LoadToken when nothing has been saved yet.
var ErrTokenNotFound = errors.New("no stored token")

type Store struct {
	db *bolt.DB
}

func NewStore(dbPath string) (*Store, error) {
	dbPath, err := validation.EnsureParentDir(dbPath)
	if err != nil {
		return nil, errors.Wrap(err, "preparing token store path")
	}

	db, err := bolt.Open(dbPath, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, errors.Wrap(err, "opening token store")
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, createErr := tx.CreateBucketIfNotExists(credentialsBucket)
		return createErr
	})
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "creating buckets")
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) SaveToken(tok *oauth2.Token) error {
	if tok == nil {
		return errors.New("nil token")
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		data, err := json.Marshal(fromOAuth(tok))
		if err != nil {
			return errors.Wrap(err, "encoding token")
		}
		return tx.Bucket(credentialsBucket).Put(tokenKey, data)
	})
}

func (s *Store) LoadToken() (*oauth2.Token, error) {
	var st StoredToken
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(credentialsBucket).Get(tokenKey)
		if data == nil {
			return ErrTokenNotFound
		}
		return json.Unmarshal(data, &st)
	})
	if err != nil {
		if errors.Is(err, ErrTokenNotFound) {
			return nil, err
		}
		return nil, errors.Wrap(err, "loading token")
	}
	return st.OAuth(), nil
}

// DeleteToken removes the stored token. Deleting a missing token is not an error.
func (s *Store) DeleteToken() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(credentialsBucket).Delete(tokenKey)
	})
}

// HasToken reports whether a token has been saved.
func (s *Store) HasToken() bool {
	found := false
	_ = s.db.View(func(tx *bolt.Tx) error {
		found = tx.Bucket(credentialsBucket).Get(tokenKey) != nil
		return nil
	})
	return found
}
