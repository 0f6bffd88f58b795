package pack

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/maptile"
)

type diskOutputter struct {
	root     string
	format   string
	hasTiles bool
}

// NewDiskOutputter writes tiles into a {root}/{z}/{x}/{y}.{format} tree.
// The format should be the tileset's file extension.
func NewDiskOutputter(dsn string, format string) (*diskOutputter, error) {
	root, err := filepath.Abs(dsn)

	if err != nil {
		return nil, err
	}

	o := diskOutputter{
		root:   root,
		format: format,
	}

	return &o, nil
}

func (o *diskOutputter) Close() error {
	return nil
}

func (o *diskOutputter) CreateTiles() error {
	if o.hasTiles {
		return nil
	}

	info, err := os.Stat(o.root)

	if err != nil {

		if os.IsNotExist(err) {

			err := os.MkdirAll(o.root, 0755)

			if err != nil {
				return err
			}
		} else {
			return err
		}

	} else {

		if !info.IsDir() {
			return errors.New("root is already a file")
		}
	}

	o.hasTiles = true
	return nil
}

func (o *diskOutputter) Save(tile maptile.Tile, data []byte) error {
	relPath := fmt.Sprintf("%d/%d/%d.%s", tile.Z, tile.X, tile.Y, o.format)
	absPath := filepath.Join(o.root, relPath)

	root := filepath.Dir(absPath)

	_, err := os.Stat(root)

	if os.IsNotExist(err) {
		err = os.MkdirAll(root, 0755)
	}

	if err != nil {
		return err
	}

	fh, err := os.OpenFile(absPath, os.O_RDWR|os.O_CREATE, 0644)

	if err != nil {
		return err
	}

	defer fh.Close()

	_, err = fh.Write(data)

	if err != nil {
		return err
	}

	return fh.Close()
}

func (o *diskOutputter) AssignSpatialMetadata(bounds orb.Bound, minZoom maptile.Zoom, maxZoom maptile.Zoom) error {
	// A plain directory tree has nowhere to put it
	return nil
}
