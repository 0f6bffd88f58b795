package pack

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
)

// MbtilesMetadata wraps the key/value pairs of an mbtiles metadata table and
// parses the spatial keys defined by the mbtiles spec.
type MbtilesMetadata struct {
	metadata map[string]string
}

func NewMbtilesMetadata(metadata map[string]string) *MbtilesMetadata {
	return &MbtilesMetadata{
		metadata: metadata,
	}
}

func (m *MbtilesMetadata) Get(k string) (string, bool) {
	v, exists := m.metadata[k]
	return v, exists
}

func (m *MbtilesMetadata) Set(k string, v string) {
	m.metadata[k] = v
}

func (m *MbtilesMetadata) Keys() []string {
	keys := make([]string, 0, len(m.metadata))

	for k := range m.metadata {
		keys = append(keys, k)
	}

	return keys
}

func (m *MbtilesMetadata) Name() string {
	return m.metadata["name"]
}

func (m *MbtilesMetadata) Format() string {
	return m.metadata["format"]
}

// Bounds parses the "bounds" key, a comma-separated west,south,east,north
// tuple in WGS84.
func (m *MbtilesMetadata) Bounds() (orb.Bound, error) {
	var bounds orb.Bound

	strBounds, exists := m.Get("bounds")

	if !exists {
		return bounds, fmt.Errorf("metadata is missing bounds")
	}

	parts := strings.Split(strBounds, ",")

	if len(parts) != 4 {
		return bounds, fmt.Errorf("invalid bounds metadata")
	}

	coords := make([]float64, 4)

	for i, part := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(part), 64)

		if err != nil {
			return bounds, fmt.Errorf("failed to parse bounds coordinate, %w", err)
		}

		coords[i] = f
	}

	bounds = orb.Bound{
		Min: orb.Point{coords[0], coords[1]},
		Max: orb.Point{coords[2], coords[3]},
	}

	return bounds, nil
}

// Center parses the "center" key, a lon,lat,zoom triple.
func (m *MbtilesMetadata) Center() (orb.Point, uint, error) {
	var pt orb.Point

	strCenter, exists := m.Get("center")

	if !exists {
		return pt, 0, fmt.Errorf("metadata is missing center")
	}

	parts := strings.Split(strCenter, ",")

	if len(parts) != 3 {
		return pt, 0, fmt.Errorf("invalid center metadata")
	}

	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)

	if err != nil {
		return pt, 0, fmt.Errorf("failed to parse center lon, %w", err)
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)

	if err != nil {
		return pt, 0, fmt.Errorf("failed to parse center lat, %w", err)
	}

	zoom, err := strconv.Atoi(strings.TrimSpace(parts[2]))

	if err != nil {
		return pt, 0, fmt.Errorf("failed to parse center zoom, %w", err)
	}

	return orb.Point{lon, lat}, uint(zoom), nil
}

func (m *MbtilesMetadata) MinZoom() (uint, error) {
	strMinzoom, exists := m.Get("minzoom")

	if !exists {
		return 0, fmt.Errorf("metadata is missing minzoom")
	}

	i, err := strconv.Atoi(strMinzoom)

	if err != nil {
		return 0, fmt.Errorf("failed to parse minzoom value, %w", err)
	}

	return uint(i), nil
}

func (m *MbtilesMetadata) MaxZoom() (uint, error) {
	strMaxzoom, exists := m.Get("maxzoom")

	if !exists {
		return 0, fmt.Errorf("metadata is missing maxzoom")
	}

	i, err := strconv.Atoi(strMaxzoom)

	if err != nil {
		return 0, fmt.Errorf("failed to parse maxzoom value, %w", err)
	}

	return uint(i), nil
}
