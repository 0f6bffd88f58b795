// Package maptiler is a client for the Maptiler Cloud tiles API
// (https://cloud.maptiler.com/tiles/). It validates tile coordinates against
// each tileset's zoom range and fetches raw tile bytes over HTTP.
package maptiler

type tileSetKind int

const (
	kindCustom tileSetKind = iota
	kindContours
	kindCountries
	kindHillshading
	kindLand
	kindLandcover
	kindMaptilerPlanet
	kindMaptilerPlanetLite
	kindOpenMapTiles
	kindOpenMapTilesWGS84
	kindOutdoor
	kindSatellite
	kindSatelliteMediumRes2016
	kindSatelliteMediumRes2018
	kindTerrain3D
	kindTerrainRGB
)

// TileSet identifies one of the tile layers Maptiler Cloud serves. The built-in
// values below cover the hosted tilesets; CustomTileSet addresses endpoints
// that aren't enumerated here. TileSet values are comparable with ==.
type TileSet struct {
	kind      tileSetKind
	endpoint  string
	extension string
}

var (
	// Contours is a contour map of the world, served as vector tiles.
	Contours = TileSet{kind: kindContours}
	// Countries is a (beta) map of the countries of the world.
	Countries = TileSet{kind: kindCountries}
	// Hillshading shows hills as a transparent shaded relief PNG.
	Hillshading = TileSet{kind: kindHillshading}
	// Land is a map of land vs. not land.
	Land = TileSet{kind: kindLand}
	// Landcover stores what kinds of plants grow in specific areas.
	Landcover = TileSet{kind: kindLandcover}
	// MaptilerPlanet is Maptiler's general purpose vector tileset.
	MaptilerPlanet = TileSet{kind: kindMaptilerPlanet}
	// MaptilerPlanetLite is MaptilerPlanet with extra data only in the upper zooms.
	MaptilerPlanetLite = TileSet{kind: kindMaptilerPlanetLite}
	// OpenMapTiles is the OpenMapTiles schema tileset.
	OpenMapTiles = TileSet{kind: kindOpenMapTiles}
	// OpenMapTilesWGS84 is OpenMapTiles reprojected to WGS84 (EPSG:4326).
	OpenMapTilesWGS84 = TileSet{kind: kindOpenMapTilesWGS84}
	// Outdoor is a tileset for outdoor activities like hiking and cycling.
	Outdoor = TileSet{kind: kindOutdoor}
	// Satellite is full resolution satellite imagery, served as JPEG.
	Satellite = TileSet{kind: kindSatellite}
	// SatelliteMediumRes2016 is medium resolution satellite imagery from 2016.
	SatelliteMediumRes2016 = TileSet{kind: kindSatelliteMediumRes2016}
	// SatelliteMediumRes2018 is medium resolution satellite imagery from 2018.
	SatelliteMediumRes2018 = TileSet{kind: kindSatelliteMediumRes2018}
	// Terrain3D is terrain elevation encoded as quantized mesh tiles.
	Terrain3D = TileSet{kind: kindTerrain3D}
	// TerrainRGB is terrain elevation encoded into the RGB channels of a PNG:
	// height = -10000 + ((R * 256 * 256 + G * 256 + B) * 0.1)
	TerrainRGB = TileSet{kind: kindTerrainRGB}
)

// CustomTileSet addresses a Maptiler Cloud tile endpoint that isn't one of the
// built-in tilesets. The endpoint is the path segment under /tiles/ (for
// satellite imagery that would be "satellite") and extension is the file
// suffix the endpoint serves. Neither string is validated; the zoom range is
// assumed to be the full 0-20, which may be wider than what the endpoint
// actually serves.
func CustomTileSet(endpoint string, extension string) TileSet {
	return TileSet{kind: kindCustom, endpoint: endpoint, extension: extension}
}

type tileSetInfo struct {
	name      string
	endpoint  string
	extension string
	minZoom   uint32
	maxZoom   uint32
}

var tileSetTable = map[tileSetKind]tileSetInfo{
	kindContours:               {"Contours", "contours", "pbf", 9, 14},
	kindCountries:              {"Countries", "countries", "pbf", 0, 11},
	kindHillshading:            {"Hillshades", "hillshades", "png", 0, 12},
	kindLand:                   {"Land", "land", "pbf", 0, 14},
	kindLandcover:              {"Landcover", "landcover", "pbf", 0, 9},
	kindMaptilerPlanet:         {"MaptilerPlanet", "v3", "pbf", 0, 14},
	kindMaptilerPlanetLite:     {"MaptilerPlanetLite", "v3-lite", "pbf", 0, 10},
	kindOpenMapTiles:           {"OpenMapTiles", "v3-openmaptiles", "pbf", 0, 14},
	kindOpenMapTilesWGS84:      {"OpenMapTilesWGS84", "v3-4326", "pbf", 0, 13},
	kindOutdoor:                {"Outdoor", "outdoor", "pbf", 5, 14},
	kindSatellite:              {"Satellite", "satellite", "jpg", 0, 20},
	kindSatelliteMediumRes2016: {"SatelliteMediumRes2016", "satellite-mediumres", "jpg", 0, 13},
	kindSatelliteMediumRes2018: {"SatelliteMediumRes2018", "satellite-mediumres-2018", "jpg", 0, 13},
	kindTerrain3D:              {"Terrain3D", "terrain-quantized-mesh", "quantized-mesh-1.0", 0, 13},
	kindTerrainRGB:             {"TerrainRGB", "terrain-rgb", "png", 0, 12},
}

const (
	customMinZoom uint32 = 0
	customMaxZoom uint32 = 20
)

// Endpoint returns the path segment this tileset occupies under /tiles/ on
// the API.
func (t TileSet) Endpoint() string {
	if t.kind == kindCustom {
		return t.endpoint
	}
	return tileSetTable[t.kind].endpoint
}

// FileExtension returns the file suffix of the tiles this tileset serves.
func (t TileSet) FileExtension() string {
	if t.kind == kindCustom {
		return t.extension
	}
	return tileSetTable[t.kind].extension
}

// MinZoom returns the lowest zoom level this tileset serves. Custom tilesets
// report 0 but the real endpoint may start higher.
func (t TileSet) MinZoom() uint32 {
	if t.kind == kindCustom {
		return customMinZoom
	}
	return tileSetTable[t.kind].minZoom
}

// MaxZoom returns the highest zoom level this tileset serves. Custom tilesets
// report 20 but the real endpoint may stop lower.
func (t TileSet) MaxZoom() uint32 {
	if t.kind == kindCustom {
		return customMaxZoom
	}
	return tileSetTable[t.kind].maxZoom
}

// String returns the tileset's display name. For custom tilesets that is the
// endpoint string.
func (t TileSet) String() string {
	if t.kind == kindCustom {
		return t.endpoint
	}
	return tileSetTable[t.kind].name
}

// TileSets returns all built-in tilesets in display-name order.
func TileSets() []TileSet {
	return []TileSet{
		Contours,
		Countries,
		Hillshading,
		Land,
		Landcover,
		MaptilerPlanet,
		MaptilerPlanetLite,
		OpenMapTiles,
		OpenMapTilesWGS84,
		Outdoor,
		Satellite,
		SatelliteMediumRes2016,
		SatelliteMediumRes2018,
		Terrain3D,
		TerrainRGB,
	}
}

// ParseTileSet resolves a built-in tileset by its display name.
func ParseTileSet(name string) (TileSet, bool) {
	for _, t := range TileSets() {
		if t.String() == name {
			return t, true
		}
	}
	return TileSet{}, false
}
