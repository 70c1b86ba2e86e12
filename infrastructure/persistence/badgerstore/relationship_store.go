// Package badgerstore persists relationships in an embedded BadgerDB.
// It is the durable alternative to the in-memory store for standalone
// deployments; the key layout keeps per-node listings a prefix scan away.
package badgerstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/dgraph-io/badger/v4"
	"go.uber.org/zap"

	"pathways/domain/core/entities"
	pkgerrors "pathways/pkg/errors"
)

const (
	linkPrefix   = "link#"
	sourcePrefix = "src#"
	targetPrefix = "tgt#"
	seqKey       = "meta#seq"
)

// RelationshipStore stores relationships in BadgerDB. Records live under
// link#<id>; src#<node>#<id> and tgt#<node>#<id> are index keys with empty
// values pointing back at the record.
type RelationshipStore struct {
	db     *badger.DB
	seq    *badger.Sequence
	logger *zap.Logger
}

// Open opens (or creates) the store at the given directory
func Open(path string, logger *zap.Logger) (*RelationshipStore, error) {
	if path == "" {
		return nil, pkgerrors.NewValidationError("badger store path is required")
	}
	if err := os.MkdirAll(path, 0o750); err != nil {
		return nil, pkgerrors.NewStorageError("create badger directory", err)
	}

	opts := badger.DefaultOptions(path).
		WithLogger(badgerLogger{logger: logger.Named("badger")})

	db, err := badger.Open(opts)
	if err != nil {
		return nil, pkgerrors.NewStorageError("open badger store", err)
	}

	seq, err := db.GetSequence([]byte(seqKey), 128)
	if err != nil {
		_ = db.Close()
		return nil, pkgerrors.NewStorageError("open badger sequence", err)
	}

	return &RelationshipStore{db: db, seq: seq, logger: logger}, nil
}

// Close releases the sequence lease and the database
func (s *RelationshipStore) Close() error {
	if err := s.seq.Release(); err != nil {
		s.logger.Warn("Failed to release badger sequence", zap.Error(err))
	}
	return s.db.Close()
}

// Get retrieves a relationship by id
func (s *RelationshipStore) Get(ctx context.Context, id string) (*entities.Relationship, error) {
	var rel *entities.Relationship
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(linkKey(id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			rel = &entities.Relationship{}
			return json.Unmarshal(val, rel)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, pkgerrors.NewNotFoundError("link " + id)
	}
	if err != nil {
		return nil, pkgerrors.NewStorageError("get link", err)
	}
	return rel, nil
}

// Put inserts or replaces a relationship. First inserts get the next
// sequence number; replacements keep the original one.
func (s *RelationshipStore) Put(ctx context.Context, rel *entities.Relationship) error {
	if rel == nil || rel.ID == "" {
		return pkgerrors.NewValidationError("relationship must have an id")
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		existing, err := readRelationship(txn, rel.ID)
		switch {
		case err == nil:
			rel.Seq = existing.Seq
			// Source or target never change on update, but clearing the
			// old index keys keeps replacements safe regardless.
			if err := txn.Delete(indexKey(sourcePrefix, existing.SourceID, existing.ID)); err != nil {
				return err
			}
			if err := txn.Delete(indexKey(targetPrefix, existing.TargetID, existing.ID)); err != nil {
				return err
			}
		case errors.Is(err, badger.ErrKeyNotFound):
			next, err := s.seq.Next()
			if err != nil {
				return err
			}
			rel.Seq = next + 1
		default:
			return err
		}

		data, err := json.Marshal(rel)
		if err != nil {
			return err
		}
		if err := txn.Set(linkKey(rel.ID), data); err != nil {
			return err
		}
		if err := txn.Set(indexKey(sourcePrefix, rel.SourceID, rel.ID), nil); err != nil {
			return err
		}
		return txn.Set(indexKey(targetPrefix, rel.TargetID, rel.ID), nil)
	})
	if err != nil {
		return pkgerrors.NewStorageError("put link", err)
	}
	return nil
}

// Delete removes a relationship and its index keys. Absent ids are a no-op.
func (s *RelationshipStore) Delete(ctx context.Context, id string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		rel, err := readRelationship(txn, id)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		if err := txn.Delete(indexKey(sourcePrefix, rel.SourceID, rel.ID)); err != nil {
			return err
		}
		if err := txn.Delete(indexKey(targetPrefix, rel.TargetID, rel.ID)); err != nil {
			return err
		}
		return txn.Delete(linkKey(id))
	})
	if err != nil {
		return pkgerrors.NewStorageError("delete link", err)
	}
	return nil
}

// ListBySource returns relationships with the node as source, in creation order
func (s *RelationshipStore) ListBySource(ctx context.Context, nodeID string) ([]*entities.Relationship, error) {
	return s.listByIndex(sourcePrefix, nodeID)
}

// ListByTarget returns relationships with the node as target, in creation order
func (s *RelationshipStore) ListByTarget(ctx context.Context, nodeID string) ([]*entities.Relationship, error) {
	return s.listByIndex(targetPrefix, nodeID)
}

// List returns all relationships in creation order
func (s *RelationshipStore) List(ctx context.Context) ([]*entities.Relationship, error) {
	var result []*entities.Relationship
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(linkPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				rel := &entities.Relationship{}
				if err := json.Unmarshal(val, rel); err != nil {
					return err
				}
				result = append(result, rel)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, pkgerrors.NewStorageError("list links", err)
	}
	sortBySeq(result)
	return result, nil
}

func (s *RelationshipStore) listByIndex(prefix, nodeID string) ([]*entities.Relationship, error) {
	var result []*entities.Relationship
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		keyPrefix := []byte(prefix + nodeID + "#")
		for it.Seek(keyPrefix); it.ValidForPrefix(keyPrefix); it.Next() {
			linkID := string(it.Item().Key()[len(keyPrefix):])
			rel, err := readRelationship(txn, linkID)
			if errors.Is(err, badger.ErrKeyNotFound) {
				// Orphaned index key; skip rather than fail the listing
				continue
			}
			if err != nil {
				return err
			}
			result = append(result, rel)
		}
		return nil
	})
	if err != nil {
		return nil, pkgerrors.NewStorageError("list links by node", err)
	}
	sortBySeq(result)
	return result, nil
}

func readRelationship(txn *badger.Txn, id string) (*entities.Relationship, error) {
	item, err := txn.Get(linkKey(id))
	if err != nil {
		return nil, err
	}
	rel := &entities.Relationship{}
	if err := item.Value(func(val []byte) error { return json.Unmarshal(val, rel) }); err != nil {
		return nil, err
	}
	return rel, nil
}

func linkKey(id string) []byte {
	return []byte(linkPrefix + id)
}

func indexKey(prefix, nodeID, linkID string) []byte {
	return []byte(prefix + nodeID + "#" + linkID)
}

func sortBySeq(rels []*entities.Relationship) {
	sort.Slice(rels, func(i, j int) bool { return rels[i].Seq < rels[j].Seq })
}

// badgerLogger adapts zap to badger's Logger interface
type badgerLogger struct {
	logger *zap.Logger
}

func (l badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

func (l badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}
