package pack

import "github.com/paulmach/orb/maptile"

type TileJob struct {
	Tile maptile.Tile
}

type TileResult struct {
	Tile    maptile.Tile
	Data    []byte
	Elapsed float64
}
