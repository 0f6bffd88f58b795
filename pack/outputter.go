package pack

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/maptile"
)

type TileOutputter interface {
	CreateTiles() error
	Save(tile maptile.Tile, data []byte) error
	AssignSpatialMetadata(bounds orb.Bound, minZoom maptile.Zoom, maxZoom maptile.Zoom) error
	Close() error
}
