package maptiler

import "fmt"

// ZoomTooLargeError is returned when a requested zoom level is above the
// tileset's maximum.
type ZoomTooLargeError struct {
	Zoom uint32
	Set  TileSet
	Max  uint32
}

func (e *ZoomTooLargeError) Error() string {
	return fmt.Sprintf("zoom level %d is too large for the tileset %s (max: %d)", e.Zoom, e.Set, e.Max)
}

// ZoomTooSmallError is returned when a requested zoom level is below the
// tileset's minimum.
type ZoomTooSmallError struct {
	Zoom uint32
	Set  TileSet
	Min  uint32
}

func (e *ZoomTooSmallError) Error() string {
	return fmt.Sprintf("zoom level %d is too small for the tileset %s (min: %d)", e.Zoom, e.Set, e.Min)
}

// XTooLargeError is returned when a tile's x coordinate is out of range for
// the requested zoom level.
type XTooLargeError struct {
	X    uint32
	Zoom uint32
	Max  uint32
}

func (e *XTooLargeError) Error() string {
	return fmt.Sprintf("x coordinate %d is too large for the zoom level %d (max x: %d)", e.X, e.Zoom, e.Max)
}

// YTooLargeError is returned when a tile's y coordinate is out of range for
// the requested zoom level.
type YTooLargeError struct {
	Y    uint32
	Zoom uint32
	Max  uint32
}

func (e *YTooLargeError) Error() string {
	return fmt.Sprintf("y coordinate %d is too large for the zoom level %d (max y: %d)", e.Y, e.Zoom, e.Max)
}

// RequestError wraps a transport-level failure (DNS, connection, TLS, body
// read) from the underlying HTTP client.
type RequestError struct {
	Err error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("server request failed: %v", e.Err)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// HTTPError is returned when the server responds with a non-200 status. The
// response body is discarded.
type HTTPError struct {
	StatusCode int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("server returned HTTP error code: %d", e.StatusCode)
}
