package pack

import (
	"crypto/md5"
	"database/sql"
	"encoding/hex"
	"fmt"

	_ "github.com/mattn/go-sqlite3" // Register sqlite3 database driver
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/maptile"
)

const defaultBatchSize = 1000

// NewMbtilesOutputter opens (or creates) an mbtiles database at dsn. Saves
// are batched into transactions of batchSize inserts; batchSize <= 0 uses a
// default of 1000. The given metadata is written into the metadata table
// when the schema is created.
func NewMbtilesOutputter(dsn string, batchSize int, metadata *MbtilesMetadata) (*mbtilesOutputter, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}

	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	if metadata == nil {
		metadata = NewMbtilesMetadata(map[string]string{})
	}

	return &mbtilesOutputter{db: db, batchSize: batchSize, metadata: metadata}, nil
}

type mbtilesOutputter struct {
	db         *sql.DB
	txn        *sql.Tx
	batchSize  int
	batchCount int
	metadata   *MbtilesMetadata
	hasTiles   bool
}

func (o *mbtilesOutputter) Close() error {
	var err error

	if o.txn != nil {
		err = o.txn.Commit()
	}

	if o.db != nil {
		if err2 := o.db.Close(); err2 != nil {
			err = err2
		}
	}

	return err
}

func (o *mbtilesOutputter) CreateTiles() error {
	if o.hasTiles {
		return nil
	}

	if _, err := o.db.Exec(`
		BEGIN TRANSACTION;
		CREATE TABLE IF NOT EXISTS map (
			zoom_level INTEGER NOT NULL,
			tile_column INTEGER NOT NULL,
			tile_row INTEGER NOT NULL,
			tile_id TEXT NOT NULL
		);
		CREATE UNIQUE INDEX IF NOT EXISTS map_index ON map (zoom_level, tile_column, tile_row);
		CREATE TABLE IF NOT EXISTS images (
			tile_data BLOB NOT NULL,
			tile_id TEXT NOT NULL
		);
		CREATE UNIQUE INDEX IF NOT EXISTS images_id ON images (tile_id);
		CREATE TABLE IF NOT EXISTS metadata (
			name TEXT,
			value TEXT
		);
		CREATE UNIQUE INDEX IF NOT EXISTS name ON metadata (name);
		CREATE VIEW IF NOT EXISTS tiles AS
		SELECT
			map.zoom_level AS zoom_level,
			map.tile_column AS tile_column,
			map.tile_row AS tile_row,
			images.tile_data AS tile_data
		FROM map
		JOIN images ON images.tile_id = map.tile_id;
		COMMIT;
	    PRAGMA synchronous=OFF;
	`); err != nil {
		return err
	}

	for _, k := range o.metadata.Keys() {
		v, _ := o.metadata.Get(k)
		if _, err := o.db.Exec("INSERT OR REPLACE INTO metadata (name, value) VALUES (?, ?);", k, v); err != nil {
			return err
		}
	}

	o.hasTiles = true
	return nil
}

func (o *mbtilesOutputter) Save(tile maptile.Tile, data []byte) error {
	if err := o.CreateTiles(); err != nil {
		return err
	}

	if o.txn == nil {
		tx, err := o.db.Begin()
		if err != nil {
			return err
		}
		o.txn = tx
	}

	hash := md5.Sum(data)
	tileID := hex.EncodeToString(hash[:])

	_, err := o.txn.Exec("INSERT OR REPLACE INTO images (tile_id, tile_data) VALUES (?, ?);", tileID, data)
	if err != nil {
		return err
	}

	_, err = o.txn.Exec("INSERT OR REPLACE INTO map (zoom_level, tile_column, tile_row, tile_id) VALUES (?, ?, ?, ?);", tile.Z, tile.X, tile.Y, tileID)
	if err != nil {
		return err
	}

	o.batchCount++

	if o.batchCount%o.batchSize == 0 {
		err := o.txn.Commit()
		if err != nil {
			return err
		}
		o.batchCount = 0
		o.txn = nil
	}

	return err
}

// AssignSpatialMetadata writes the bounds, center and zoom-range keys the
// mbtiles spec defines from the downloaded extent.
func (o *mbtilesOutputter) AssignSpatialMetadata(bounds orb.Bound, minZoom maptile.Zoom, maxZoom maptile.Zoom) error {
	if err := o.CreateTiles(); err != nil {
		return err
	}

	// Commit any open save batch first; its write lock would block the
	// metadata inserts below until sqlite's busy timeout expires.
	if o.txn != nil {
		if err := o.txn.Commit(); err != nil {
			return err
		}
		o.txn = nil
		o.batchCount = 0
	}

	center := bounds.Center()

	o.metadata.Set("bounds", fmt.Sprintf("%f,%f,%f,%f", bounds.Min.X(), bounds.Min.Y(), bounds.Max.X(), bounds.Max.Y()))
	o.metadata.Set("center", fmt.Sprintf("%f,%f,%d", center.X(), center.Y(), minZoom))
	o.metadata.Set("minzoom", fmt.Sprintf("%d", minZoom))
	o.metadata.Set("maxzoom", fmt.Sprintf("%d", maxZoom))

	for _, k := range []string{"bounds", "center", "minzoom", "maxzoom"} {
		v, _ := o.metadata.Get(k)
		if _, err := o.db.Exec("INSERT OR REPLACE INTO metadata (name, value) VALUES (?, ?);", k, v); err != nil {
			return err
		}
	}

	return nil
}
