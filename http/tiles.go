// Package http serves tiles out of a downloaded mbtiles archive using the
// same path shape as the Maptiler Cloud API.
package http

import (
	"fmt"
	"log/slog"
	gohttp "net/http"
	"regexp"
	"strconv"

	"github.com/paulmach/orb/maptile"

	"github.com/maptiler-community/go-maptiler/pack"
)

var tilePathRegex = regexp.MustCompile(`^/tiles/[^/]+/(\d+)/(\d+)/(\d+)\.([\w.-]+)$`)

// TilesHandler serves /tiles/{endpoint}/{z}/{x}/{y}.{ext} requests from the
// given mbtiles archive. The endpoint segment is not matched against the
// archive; one handler serves one archive.
func TilesHandler(reader pack.MbtilesReader) gohttp.HandlerFunc {
	return func(w gohttp.ResponseWriter, r *gohttp.Request) {
		requestedTile, extension, err := parseTilePath(r.URL.Path)
		if err != nil {
			gohttp.NotFound(w, r)
			return
		}

		result, err := reader.GetTile(requestedTile)
		if err != nil {
			slog.Error("Error getting tile", "tile", requestedTile, "error", err)
			gohttp.NotFound(w, r)
			return
		}

		if result.Data == nil {
			gohttp.NotFound(w, r)
			return
		}

		w.Header().Set("Content-Type", contentTypeForExtension(extension))
		w.Write(*result.Data)
	}
}

func parseTilePath(url string) (maptile.Tile, string, error) {
	match := tilePathRegex.FindStringSubmatch(url)
	if match == nil {
		return maptile.Tile{}, "", fmt.Errorf("invalid tile path")
	}

	z, err := strconv.ParseUint(match[1], 10, 32)
	if err != nil {
		return maptile.Tile{}, "", err
	}
	x, err := strconv.ParseUint(match[2], 10, 32)
	if err != nil {
		return maptile.Tile{}, "", err
	}
	y, err := strconv.ParseUint(match[3], 10, 32)
	if err != nil {
		return maptile.Tile{}, "", err
	}

	return maptile.New(uint32(x), uint32(y), maptile.Zoom(z)), match[4], nil
}

func contentTypeForExtension(extension string) string {
	switch extension {
	case "pbf", "mvt":
		return "application/x-protobuf"
	case "png":
		return "image/png"
	case "jpg", "jpeg":
		return "image/jpeg"
	case "webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}
