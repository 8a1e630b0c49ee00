package ngpccraft

import (
	"database/sql"
	"fmt"

	"github.com/Tixul/NGPC-craft/tile"
	_ "github.com/mattn/go-sqlite3"
)

// Cache stores encoded results keyed by the digest of their input and the
// encoding budgets.
type Cache struct {
	db *sql.DB
}

// NewCache opens or creates the sqlite database in file.
func NewCache(file string) (*Cache, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_busy_timeout=5000", file))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS encoding (id INTEGER PRIMARY KEY NOT NULL, digest TEXT NOT NULL, max_layers INTEGER NOT NULL, max_palettes INTEGER NOT NULL, data BLOB NOT NULL, UNIQUE(digest, max_layers, max_palettes))"); err != nil {
		db.Close()
		return nil, err
	}

	return &Cache{
		db: db,
	}, nil
}

// Close closes the underlying database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Lookup returns the stored container bytes for digest encoded with opts,
// or nil if there are none.
func (c *Cache) Lookup(digest string, opts tile.Options) ([]byte, error) {
	var data []byte
	switch err := c.db.QueryRow("SELECT data FROM encoding WHERE digest = ? AND max_layers = ? AND max_palettes = ?", digest, opts.MaxLayers, opts.MaxPalettesPerLayer).Scan(&data); err {
	case sql.ErrNoRows:
		return nil, nil
	case nil:
		return data, nil
	default:
		return nil, err
	}
}

// Store saves data for digest encoded with opts, replacing any previous
// entry.
func (c *Cache) Store(digest string, opts tile.Options, data []byte) error {
	if _, err := c.db.Exec("INSERT OR REPLACE INTO encoding (digest, max_layers, max_palettes, data) VALUES (?, ?, ?, ?)", digest, opts.MaxLayers, opts.MaxPalettesPerLayer, data); err != nil {
		return err
	}
	return nil
}

// Len returns the number of cached entries.
func (c *Cache) Len() (int, error) {
	var n int
	if err := c.db.QueryRow("SELECT COUNT(*) FROM encoding").Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// Purge removes every cached entry.
func (c *Cache) Purge() error {
	_, err := c.db.Exec("DELETE FROM encoding")
	return err
}
