// Package pack bulk-downloads Maptiler Cloud tiles covering a bounding box
// into local archives (mbtiles, pmtiles, a plain directory tree) or S3.
package pack

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/maptile"
)

const webMercatorLatLimit float64 = 85.05112877980659

type GenerateRangesConsumerFunc func(ll maptile.Tile, ur maptile.Tile, z maptile.Zoom)

type GenerateRangesOptions struct {
	Bounds       orb.Bound
	Zooms        []maptile.Zoom
	ConsumerFunc GenerateRangesConsumerFunc
}

type GenerateTilesConsumerFunc func(tile maptile.Tile)

type GenerateTilesOptions struct {
	Bounds       orb.Bound
	Zooms        []maptile.Zoom
	ConsumerFunc GenerateTilesConsumerFunc
	InvertedY    bool
}

// GenerateTileRanges calls the consumer once per zoom level with the
// inclusive tile range covering the bounds. Bounds crossing the antimeridian
// are split into two boxes, and latitudes are clamped to the web mercator
// limit before tiles are computed.
func GenerateTileRanges(opts *GenerateRangesOptions) {
	bounds := opts.Bounds
	zooms := opts.Zooms
	consumer := opts.ConsumerFunc

	var boxes []orb.Bound
	if bounds.Min.X() > bounds.Max.X() {
		boxes = []orb.Bound{
			{
				Min: orb.Point{-180.0, bounds.Min.Y()},
				Max: bounds.Max,
			},
			{
				Min: bounds.Min,
				Max: orb.Point{180.0, bounds.Max.Y()},
			},
		}
	} else {
		boxes = []orb.Bound{bounds}
	}

	for _, box := range boxes {
		clampedBox := orb.Bound{
			Min: orb.Point{
				math.Max(-180.0, box.Min.X()),
				math.Max(-webMercatorLatLimit, box.Min.Y()),
			},
			Max: orb.Point{
				math.Min(180.0-0.00000001, box.Max.X()),
				math.Min(webMercatorLatLimit, box.Max.Y()),
			},
		}

		for _, z := range zooms {
			minTile := maptile.At(clampedBox.Min, z)
			maxTile := maptile.At(clampedBox.Max, z)

			// Flip Y because the XYZ tiling scheme has an inverted Y compared to lat/lon
			maxTile.Y, minTile.Y = minTile.Y, maxTile.Y

			consumer(minTile, maxTile, z)
		}
	}
}

// GenerateTiles calls the consumer once per tile covering the bounds at each
// of the given zooms. With InvertedY set, tiles are emitted with TMS-style Y
// values instead of XYZ.
func GenerateTiles(opts *GenerateTilesOptions) {
	rangeOpts := &GenerateRangesOptions{
		Bounds: opts.Bounds,
		Zooms:  opts.Zooms,
	}

	rangeOpts.ConsumerFunc = func(minTile maptile.Tile, maxTile maptile.Tile, z maptile.Zoom) {
		for x := minTile.X; x <= maxTile.X; x++ {
			for y := minTile.Y; y <= maxTile.Y; y++ {
				tileY := y

				if opts.InvertedY {
					// https://gist.github.com/tmcw/4954720
					tileY = uint32(math.Pow(2.0, float64(z))) - 1 - y
				}

				opts.ConsumerFunc(maptile.New(x, tileY, z))
			}
		}
	}

	GenerateTileRanges(rangeOpts)
}
