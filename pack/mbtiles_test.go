package pack

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/maptile"
)

func TestMbtilesRoundTrip(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "test.mbtiles")

	metadata := NewMbtilesMetadata(map[string]string{
		"name":   "satellite",
		"format": "jpg",
	})

	outputter, err := NewMbtilesOutputter(dsn, 0, metadata)
	if err != nil {
		t.Fatalf("couldn't create outputter: %v", err)
	}

	if err := outputter.CreateTiles(); err != nil {
		t.Fatalf("couldn't create schema: %v", err)
	}

	tile := maptile.New(1, 0, 1)
	data := []byte{0xFF, 0xD8, 0xFF, 0x42}

	if err := outputter.Save(tile, data); err != nil {
		t.Fatalf("couldn't save tile: %v", err)
	}

	bounds := orb.Bound{Min: orb.Point{-180, -85}, Max: orb.Point{180, 85}}
	if err := outputter.AssignSpatialMetadata(bounds, 1, 1); err != nil {
		t.Fatalf("couldn't assign metadata: %v", err)
	}

	if err := outputter.Close(); err != nil {
		t.Fatalf("couldn't close outputter: %v", err)
	}

	reader, err := NewMbtilesReader(dsn)
	if err != nil {
		t.Fatalf("couldn't open reader: %v", err)
	}
	defer reader.Close()

	t.Run("get saved tile", func(t *testing.T) {
		got, err := reader.GetTile(tile)
		if err != nil {
			t.Fatalf("GetTile failed: %v", err)
		}
		if got.Data == nil {
			t.Fatal("expected tile data")
		}
		if !bytes.Equal(*got.Data, data) {
			t.Errorf("got %v, want %v", *got.Data, data)
		}
	})

	t.Run("missing tile has nil data", func(t *testing.T) {
		got, err := reader.GetTile(maptile.New(0, 0, 5))
		if err != nil {
			t.Fatalf("GetTile failed: %v", err)
		}
		if got.Data != nil {
			t.Error("expected nil data for a missing tile")
		}
	})

	t.Run("visit all tiles", func(t *testing.T) {
		count := 0
		err := reader.VisitAllTiles(func(visited maptile.Tile, data []byte) {
			count++
			if visited != tile {
				t.Errorf("visited %v, want %v", visited, tile)
			}
		})
		if err != nil {
			t.Fatalf("VisitAllTiles failed: %v", err)
		}
		if count != 1 {
			t.Errorf("visited %d tiles, want 1", count)
		}
	})

	t.Run("metadata", func(t *testing.T) {
		meta, err := reader.Metadata()
		if err != nil {
			t.Fatalf("Metadata failed: %v", err)
		}

		if meta.Name() != "satellite" {
			t.Errorf("name = %q", meta.Name())
		}
		if meta.Format() != "jpg" {
			t.Errorf("format = %q", meta.Format())
		}

		gotBounds, err := meta.Bounds()
		if err != nil {
			t.Fatalf("Bounds failed: %v", err)
		}
		if gotBounds.Min.X() != -180 || gotBounds.Max.Y() != 85 {
			t.Errorf("bounds = %v", gotBounds)
		}

		minZoom, err := meta.MinZoom()
		if err != nil {
			t.Fatalf("MinZoom failed: %v", err)
		}
		maxZoom, err := meta.MaxZoom()
		if err != nil {
			t.Fatalf("MaxZoom failed: %v", err)
		}
		if minZoom != 1 || maxZoom != 1 {
			t.Errorf("zoom range = %d-%d, want 1-1", minZoom, maxZoom)
		}

		center, centerZoom, err := meta.Center()
		if err != nil {
			t.Fatalf("Center failed: %v", err)
		}
		if center.X() != 0 || center.Y() != 0 || centerZoom != 1 {
			t.Errorf("center = %v@%d", center, centerZoom)
		}
	})
}

func TestMbtilesAssignSpatialMetadataMidBatch(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "midbatch.mbtiles")

	// Batch size bigger than the number of saves, so a write transaction
	// is still open when the metadata is assigned.
	outputter, err := NewMbtilesOutputter(dsn, 100, nil)
	if err != nil {
		t.Fatalf("couldn't create outputter: %v", err)
	}

	tiles := []maptile.Tile{
		maptile.New(0, 0, 1),
		maptile.New(0, 1, 1),
		maptile.New(1, 0, 1),
	}

	for i, tile := range tiles {
		if err := outputter.Save(tile, []byte{byte(i)}); err != nil {
			t.Fatalf("couldn't save tile %v: %v", tile, err)
		}
	}

	bounds := orb.Bound{Min: orb.Point{-180, -85}, Max: orb.Point{180, 85}}
	if err := outputter.AssignSpatialMetadata(bounds, 1, 1); err != nil {
		t.Fatalf("couldn't assign metadata with a batch in flight: %v", err)
	}

	// Saves after the metadata flush should start a fresh batch
	if err := outputter.Save(maptile.New(1, 1, 1), []byte{0xFF}); err != nil {
		t.Fatalf("couldn't save tile after assigning metadata: %v", err)
	}

	if err := outputter.Close(); err != nil {
		t.Fatalf("couldn't close outputter: %v", err)
	}

	reader, err := NewMbtilesReader(dsn)
	if err != nil {
		t.Fatalf("couldn't open reader: %v", err)
	}
	defer reader.Close()

	count := 0
	if err := reader.VisitAllTiles(func(maptile.Tile, []byte) { count++ }); err != nil {
		t.Fatalf("VisitAllTiles failed: %v", err)
	}
	if count != 4 {
		t.Errorf("saved %d tiles, want 4", count)
	}

	meta, err := reader.Metadata()
	if err != nil {
		t.Fatalf("Metadata failed: %v", err)
	}
	if _, err := meta.Bounds(); err != nil {
		t.Errorf("bounds metadata missing: %v", err)
	}
}

func TestMbtilesMetadataParseErrors(t *testing.T) {
	tests := []struct {
		name     string
		metadata map[string]string
	}{
		{"missing bounds", map[string]string{}},
		{"short bounds", map[string]string{"bounds": "1,2,3"}},
		{"non-numeric bounds", map[string]string{"bounds": "a,b,c,d"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMbtilesMetadata(tt.metadata)
			if _, err := m.Bounds(); err == nil {
				t.Error("expected an error")
			}
		})
	}
}
