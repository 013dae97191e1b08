// Package cache implements the persisted analysis cache: a SQLite
// database (via glebarez/sqlite, a CGO-free driver, and gorm.io/gorm)
// that survives process restarts so reopening a workspace doesn't
// require re-parsing every unchanged file.
//
// Grounded on the teacher's pack-mate termfx-morfx's db/sqlite.go
// (gorm.Open + AutoMigrate, PRAGMA foreign_keys) — swapped to
// glebarez/sqlite since this module doesn't otherwise need CGO and the
// DOMAIN STACK only requires a file-backed cache, not Turso/libsql
// remote replication.
package cache

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/shinyvision/phpls/internal/reference"
	"github.com/shinyvision/phpls/internal/symbol"
)

// entryKind separates the two key-spaces sharing one table (spec §3
// "symbols/<uri> and references/<uri> key-spaces").
type entryKind string

const (
	symbolsKind    entryKind = "symbols"
	referenceKind  entryKind = "references"
)

// entry is the one gorm model backing both key-spaces: kind+uri is the
// primary key, hash lets a caller skip decoding when content is
// unchanged, and blob is a gob-encoded symbol.SymbolTable or
// reference.ReferenceTable.
type entry struct {
	Kind entryKind `gorm:"primaryKey"`
	URI  string    `gorm:"primaryKey"`
	Hash string
	Blob []byte
}

func (entry) TableName() string { return "cache_entries" }

// Cache is the persisted analysis cache for one workspace.
type Cache struct {
	db *gorm.DB
}

// Open creates or reuses a SQLite database at path, migrating its
// schema. debug enables gorm's query logger.
func Open(path string, debug bool) (*Cache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	cfg := &gorm.Config{}
	if debug {
		cfg.Logger = logger.Default.LogMode(logger.Info)
	}

	db, err := gorm.Open(sqlite.Open(path), cfg)
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Exec("PRAGMA foreign_keys = ON")
	}
	if err := db.AutoMigrate(&entry{}); err != nil {
		return nil, fmt.Errorf("migrate cache db: %w", err)
	}
	return &Cache{db: db}, nil
}

// Close releases the underlying database handle.
func (c *Cache) Close() error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// SymbolHash returns the stored hash for uri's SymbolTable entry, "" if
// absent — callers compare this against the document's current content
// hash to decide whether a re-parse is needed at all.
func (c *Cache) SymbolHash(uri string) string {
	return c.hash(symbolsKind, uri)
}

// ReferenceHash returns the stored hash for uri's ReferenceTable entry.
func (c *Cache) ReferenceHash(uri string) string {
	return c.hash(referenceKind, uri)
}

func (c *Cache) hash(kind entryKind, uri string) string {
	var e entry
	if err := c.db.Where("kind = ? AND uri = ?", kind, uri).First(&e).Error; err != nil {
		return ""
	}
	return e.Hash
}

// PutSymbolTable persists table under its URI and hash.
func (c *Cache) PutSymbolTable(table *symbol.SymbolTable) error {
	blob, err := encode(table)
	if err != nil {
		return err
	}
	return c.put(symbolsKind, table.URI, table.Hash, blob)
}

// GetSymbolTable loads a previously persisted SymbolTable for uri, if
// its stored hash matches expectedHash.
func (c *Cache) GetSymbolTable(uri, expectedHash string) (*symbol.SymbolTable, bool) {
	blob, ok := c.get(symbolsKind, uri, expectedHash)
	if !ok {
		return nil, false
	}
	var table symbol.SymbolTable
	if err := decode(blob, &table); err != nil {
		return nil, false
	}
	return &table, true
}

// PutReferenceTable persists table under uri and hash.
func (c *Cache) PutReferenceTable(uri, hash string, table *reference.ReferenceTable) error {
	blob, err := encode(table)
	if err != nil {
		return err
	}
	return c.put(referenceKind, uri, hash, blob)
}

// GetReferenceTable loads a previously persisted ReferenceTable for uri.
func (c *Cache) GetReferenceTable(uri, expectedHash string) (*reference.ReferenceTable, bool) {
	blob, ok := c.get(referenceKind, uri, expectedHash)
	if !ok {
		return nil, false
	}
	var table reference.ReferenceTable
	if err := decode(blob, &table); err != nil {
		return nil, false
	}
	return &table, true
}

// Forget removes every cached entry for uri (both key-spaces), used
// when a file is deleted from the workspace.
func (c *Cache) Forget(uri string) {
	c.db.Where("uri = ?", uri).Delete(&entry{})
}

func (c *Cache) put(kind entryKind, uri, hash string, blob []byte) error {
	e := entry{Kind: kind, URI: uri, Hash: hash, Blob: blob}
	return c.db.Save(&e).Error
}

func (c *Cache) get(kind entryKind, uri, expectedHash string) ([]byte, bool) {
	var e entry
	if err := c.db.Where("kind = ? AND uri = ?", kind, uri).First(&e).Error; err != nil {
		return nil, false
	}
	if expectedHash != "" && e.Hash != expectedHash {
		return nil, false
	}
	return e.Blob, true
}

func encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decode(blob []byte, v any) error {
	return gob.NewDecoder(bytes.NewReader(blob)).Decode(v)
}
