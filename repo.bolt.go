package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/boltdb/bolt"
	"go.uber.org/zap"
)

// AuditStorage describes the persistent audit trail store.
type AuditStorage interface {
	Save(ctx context.Context, entry AuditEntry) error
	GetAll(ctx context.Context) ([]AuditEntry, error)
	Close() error
}

type boltAuditStorage struct {
	logger *zap.Logger
	client *bolt.DB
	config *BoltDBConfig
}

// GetBoltDBClient setup the database and the bucket then provides a ready to use client.
func GetBoltDBClient(config *Config) (*bolt.DB, error) {
	db, err := bolt.Open(config.BoltDB.FilePath, 0o600, &bolt.Options{Timeout: config.BoltDB.Timeout})
	if err != nil {
		return nil, fmt.Errorf("failed to open the database, %v", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		if _, errB := tx.CreateBucketIfNotExists([]byte(config.BoltDB.BucketName)); errB != nil {
			return fmt.Errorf("failed to create %s bucket: %v", config.BoltDB.BucketName, errB)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set up bucket: %v", err)
	}
	return db, nil
}

// NewBoltAuditStorage provides an instance of bolt-based audit store.
func NewBoltAuditStorage(logger *zap.Logger, boltConfig *BoltDBConfig, client *bolt.DB) AuditStorage {
	return &boltAuditStorage{
		logger: logger,
		client: client,
		config: boltConfig,
	}
}

// Close shuts down the bolt-based audit store.
func (bs *boltAuditStorage) Close() error {
	return bs.client.Close()
}

// Save inserts an audit entry into the boltdb store. Keys are the
// entry ids, unique by construction, so entries are never overwritten.
func (bs *boltAuditStorage) Save(_ context.Context, entry AuditEntry) error {
	entryBytes, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return bs.client.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bs.config.BucketName)).Put([]byte(entry.At+":"+entry.ID), entryBytes)
	})
}

// GetAll retrieves every audit entry, oldest first. The bucket keys
// start with the record timestamp so the cursor order is already the
// chronological order.
func (bs *boltAuditStorage) GetAll(_ context.Context) ([]AuditEntry, error) {
	tx, err := bs.client.Begin(false)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	c := tx.Bucket([]byte(bs.config.BucketName)).Cursor()

	entries := []AuditEntry{}
	for k, v := c.First(); k != nil; k, v = c.Next() {
		var entry AuditEntry
		if err = json.Unmarshal(v, &entry); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
