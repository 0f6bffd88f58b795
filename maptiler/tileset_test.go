package maptiler

import "testing"

func TestTileSet_Metadata(t *testing.T) {
	tests := []struct {
		set       TileSet
		name      string
		endpoint  string
		extension string
		minZoom   uint32
		maxZoom   uint32
	}{
		{Contours, "Contours", "contours", "pbf", 9, 14},
		{Countries, "Countries", "countries", "pbf", 0, 11},
		{Hillshading, "Hillshades", "hillshades", "png", 0, 12},
		{Land, "Land", "land", "pbf", 0, 14},
		{Landcover, "Landcover", "landcover", "pbf", 0, 9},
		{MaptilerPlanet, "MaptilerPlanet", "v3", "pbf", 0, 14},
		{MaptilerPlanetLite, "MaptilerPlanetLite", "v3-lite", "pbf", 0, 10},
		{OpenMapTiles, "OpenMapTiles", "v3-openmaptiles", "pbf", 0, 14},
		{OpenMapTilesWGS84, "OpenMapTilesWGS84", "v3-4326", "pbf", 0, 13},
		{Outdoor, "Outdoor", "outdoor", "pbf", 5, 14},
		{Satellite, "Satellite", "satellite", "jpg", 0, 20},
		{SatelliteMediumRes2016, "SatelliteMediumRes2016", "satellite-mediumres", "jpg", 0, 13},
		{SatelliteMediumRes2018, "SatelliteMediumRes2018", "satellite-mediumres-2018", "jpg", 0, 13},
		{Terrain3D, "Terrain3D", "terrain-quantized-mesh", "quantized-mesh-1.0", 0, 13},
		{TerrainRGB, "TerrainRGB", "terrain-rgb", "png", 0, 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.set.String(); got != tt.name {
				t.Errorf("String() = %q, want %q", got, tt.name)
			}
			if got := tt.set.Endpoint(); got != tt.endpoint {
				t.Errorf("Endpoint() = %q, want %q", got, tt.endpoint)
			}
			if got := tt.set.FileExtension(); got != tt.extension {
				t.Errorf("FileExtension() = %q, want %q", got, tt.extension)
			}
			if got := tt.set.MinZoom(); got != tt.minZoom {
				t.Errorf("MinZoom() = %d, want %d", got, tt.minZoom)
			}
			if got := tt.set.MaxZoom(); got != tt.maxZoom {
				t.Errorf("MaxZoom() = %d, want %d", got, tt.maxZoom)
			}
		})
	}

	if len(tests) != len(TileSets()) {
		t.Errorf("expected %d built-in tilesets, got %d", len(tests), len(TileSets()))
	}
}

func TestTileSet_ZoomRangeInvariant(t *testing.T) {
	for _, set := range TileSets() {
		if set.MinZoom() > set.MaxZoom() {
			t.Errorf("%s: MinZoom %d > MaxZoom %d", set, set.MinZoom(), set.MaxZoom())
		}
		if set.MaxZoom() > 20 {
			t.Errorf("%s: MaxZoom %d out of range", set, set.MaxZoom())
		}
	}
}

func TestTileSet_AccessorsAreStable(t *testing.T) {
	for _, set := range TileSets() {
		for i := 0; i < 3; i++ {
			if set.Endpoint() != set.Endpoint() ||
				set.FileExtension() != set.FileExtension() ||
				set.MinZoom() != set.MinZoom() ||
				set.MaxZoom() != set.MaxZoom() {
				t.Fatalf("%s: accessors not stable across calls", set)
			}
		}
	}
}

func TestCustomTileSet(t *testing.T) {
	set := CustomTileSet("foo", "bar")

	if got := set.Endpoint(); got != "foo" {
		t.Errorf("Endpoint() = %q, want %q", got, "foo")
	}
	if got := set.FileExtension(); got != "bar" {
		t.Errorf("FileExtension() = %q, want %q", got, "bar")
	}
	if got := set.String(); got != "foo" {
		t.Errorf("String() = %q, want %q", got, "foo")
	}
	if got := set.MinZoom(); got != 0 {
		t.Errorf("MinZoom() = %d, want 0", got)
	}
	if got := set.MaxZoom(); got != 20 {
		t.Errorf("MaxZoom() = %d, want 20", got)
	}
}

func TestParseTileSet(t *testing.T) {
	set, ok := ParseTileSet("Satellite")
	if !ok {
		t.Fatal("expected Satellite to parse")
	}
	if set != Satellite {
		t.Fatalf("ParseTileSet(Satellite) = %v", set)
	}

	if _, ok := ParseTileSet("nope"); ok {
		t.Fatal("expected unknown name to fail")
	}
}
