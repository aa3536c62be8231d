// internal/adapters/boltstore/shelf.go

// Package boltstore keeps shopper carts and wishlists in a local bbolt file.
//
// Layout: one top-level bucket per shelf kind, one nested bucket per shopper,
// keys "<domain>\x00<itemID>" holding a JSON ShelfEntry.
package boltstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/ammerola/storefront-catalog/internal/core/domain"
	"github.com/ammerola/storefront-catalog/internal/core/ports"
)

const schemaVersion = 1

var (
	bucketInternal = []byte("_meta")
	shelfBuckets   = map[domain.ShelfKind][]byte{
		domain.ShelfCart:     []byte("cart"),
		domain.ShelfWishlist: []byte("wishlist"),
	}
)

// ErrUnknownShelf is returned for a shelf kind with no bucket.
var ErrUnknownShelf = errors.New("unknown shelf")

// ShelfStore implements ports.ShelfRepository on bbolt.
type ShelfStore struct {
	db *bolt.DB
}

var _ ports.ShelfRepository = (*ShelfStore)(nil)

// Open opens (or creates) the shelf database at path.
func Open(path string) (*ShelfStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("creating shelf db directory: %w", err)
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening shelf db %s: %w", path, err)
	}

	s := &ShelfStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration: %w", err)
	}
	return s, nil
}

// Close closes the database.
func (s *ShelfStore) Close() error {
	return s.db.Close()
}

// Path returns the filesystem path of the open database.
func (s *ShelfStore) Path() string {
	return s.db.Path()
}

func (s *ShelfStore) migrate() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{shelfBuckets[domain.ShelfCart], shelfBuckets[domain.ShelfWishlist], bucketInternal} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("creating bucket %s: %w", name, err)
			}
		}
		meta := tx.Bucket(bucketInternal)
		if meta.Get([]byte("schema_version")) == nil {
			if err := meta.Put([]byte("schema_version"), []byte(fmt.Sprintf("%d", schemaVersion))); err != nil {
				return err
			}
			return meta.Put([]byte("created_at"), []byte(time.Now().UTC().Format(time.RFC3339)))
		}
		return nil
	})
}

func entryKey(domainName, itemID string) []byte {
	return []byte(domainName + "\x00" + itemID)
}

func shelfBucket(tx *bolt.Tx, shelf domain.ShelfKind) (*bolt.Bucket, error) {
	name, ok := shelfBuckets[shelf]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownShelf, shelf)
	}
	return tx.Bucket(name), nil
}

// Add puts an item on the shelf and returns its resulting quantity. Cart
// quantities accumulate; a wishlist holds each item once.
func (s *ShelfStore) Add(ctx context.Context, shelf domain.ShelfKind, shopperID, domainName, itemID string, qty int) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if qty < 1 {
		qty = 1
	}

	var total int
	err := s.db.Update(func(tx *bolt.Tx) error {
		root, err := shelfBucket(tx, shelf)
		if err != nil {
			return err
		}
		b, err := root.CreateBucketIfNotExists([]byte(shopperID))
		if err != nil {
			return fmt.Errorf("creating shopper bucket: %w", err)
		}

		key := entryKey(domainName, itemID)
		entry := ports.ShelfEntry{Domain: domainName, ItemID: itemID}
		if v := b.Get(key); v != nil {
			if err := json.Unmarshal(v, &entry); err != nil {
				return fmt.Errorf("decoding shelf entry: %w", err)
			}
		}

		if shelf == domain.ShelfWishlist {
			entry.Quantity = 1
		} else {
			entry.Quantity += qty
		}
		total = entry.Quantity

		data, err := json.Marshal(entry)
		if err != nil {
			return fmt.Errorf("encoding shelf entry: %w", err)
		}
		return b.Put(key, data)
	})
	return total, err
}

// Remove deletes an item from the shelf. Removing an absent item is not an error.
func (s *ShelfStore) Remove(ctx context.Context, shelf domain.ShelfKind, shopperID, domainName, itemID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		root, err := shelfBucket(tx, shelf)
		if err != nil {
			return err
		}
		b := root.Bucket([]byte(shopperID))
		if b == nil {
			return nil
		}
		return b.Delete(entryKey(domainName, itemID))
	})
}

// List returns the shelf ordered by domain then item id.
func (s *ShelfStore) List(ctx context.Context, shelf domain.ShelfKind, shopperID string) ([]ports.ShelfEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries := make([]ports.ShelfEntry, 0)
	err := s.db.View(func(tx *bolt.Tx) error {
		root, err := shelfBucket(tx, shelf)
		if err != nil {
			return err
		}
		b := root.Bucket([]byte(shopperID))
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			var e ports.ShelfEntry
			if err := json.Unmarshal(v, &e); err != nil {
				return fmt.Errorf("decoding shelf entry %q: %w", bytes.ReplaceAll(k, []byte{0}, []byte("/")), err)
			}
			entries = append(entries, e)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// Clear removes every item from a shopper's shelf.
func (s *ShelfStore) Clear(ctx context.Context, shelf domain.ShelfKind, shopperID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		root, err := shelfBucket(tx, shelf)
		if err != nil {
			return err
		}
		if root.Bucket([]byte(shopperID)) == nil {
			return nil
		}
		return root.DeleteBucket([]byte(shopperID))
	})
}
