package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.etcd.io/bbolt"
)

const entriesBucket = "entries"

// BoltBackend implements Backend using a BoltDB file.
type BoltBackend struct {
	db *bbolt.DB
}

// NewBoltBackend opens a BoltDB-backed store at the provided path.
func NewBoltBackend(path string) (*BoltBackend, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	db, err := bbolt.Open(filepath.Clean(path), 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open storage db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(entriesBucket)); err != nil {
			return fmt.Errorf("create entries bucket: %w", err)
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &BoltBackend{db: db}, nil
}

// Close closes the underlying BoltDB database.
func (b *BoltBackend) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}

func (b *BoltBackend) GetEntry(ctx context.Context, namespace, key string) (Entry, bool, error) {
	if err := ctx.Err(); err != nil {
		return Entry{}, false, err
	}

	var (
		entry Entry
		found bool
	)
	err := b.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(entriesBucket))
		if bucket == nil {
			return fmt.Errorf("entries bucket is missing")
		}
		payload := bucket.Get(entryKey(namespace, key))
		if payload == nil {
			return nil
		}
		if err := json.Unmarshal(payload, &entry); err != nil {
			return fmt.Errorf("unmarshal entry: %w", err)
		}
		found = true
		return nil
	})
	if err != nil {
		return Entry{}, false, err
	}

	return entry, found, nil
}

func (b *BoltBackend) PutEntry(ctx context.Context, namespace, key string, entry Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal entry: %w", err)
	}

	return b.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(entriesBucket))
		if bucket == nil {
			return fmt.Errorf("entries bucket is missing")
		}
		return bucket.Put(entryKey(namespace, key), payload)
	})
}

func (b *BoltBackend) Purge(ctx context.Context, now time.Time) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	var removed int64
	err := b.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(entriesBucket))
		if bucket == nil {
			return fmt.Errorf("entries bucket is missing")
		}

		var expired [][]byte
		err := bucket.ForEach(func(k, v []byte) error {
			var entry Entry
			if err := json.Unmarshal(v, &entry); err != nil || entry.Expired(now) {
				expired = append(expired, bytes.Clone(k))
			}
			return nil
		})
		if err != nil {
			return err
		}

		for _, k := range expired {
			if err := bucket.Delete(k); err != nil {
				return fmt.Errorf("delete entry: %w", err)
			}
			removed++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return removed, nil
}

// entryKey joins namespace and key with a NUL so neither can forge the other.
func entryKey(namespace, key string) []byte {
	return []byte(namespace + "\x00" + key)
}
