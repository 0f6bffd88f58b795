package main

import (
	"flag"
	"log"
	"os"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/maptile"

	"github.com/maptiler-community/go-maptiler/pack"
)

func pathExists(path string) bool {
	_, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return true
}

func main() {
	outputFilename := flag.String("output", "", "The output mbtiles to write to")
	flag.Parse()
	inputFilenames := flag.Args()

	if *outputFilename == "" {
		log.Fatalf("Must specify -output path")
	}

	if len(inputFilenames) == 0 {
		log.Fatalf("Must specify at least one input path")
	}

	log.Printf("Reading %s and writing them to %s", strings.Join(inputFilenames, ", "), *outputFilename)

	// If the output file exists already we shouldn't overwrite it
	if pathExists(*outputFilename) {
		log.Fatalf("Output path %s already exists and cannot be overwritten", *outputFilename)
	}

	// Carry the name/format metadata over from the first input
	firstReader, err := pack.NewMbtilesReader(inputFilenames[0])
	if err != nil {
		log.Fatalf("Couldn't read input mbtiles %s: %+v", inputFilenames[0], err)
	}

	firstMetadata, err := firstReader.Metadata()
	if err != nil {
		log.Fatalf("Couldn't read metadata from %s: %+v", inputFilenames[0], err)
	}
	firstReader.Close()

	metadata := pack.NewMbtilesMetadata(map[string]string{
		"name":   firstMetadata.Name(),
		"format": firstMetadata.Format(),
	})

	outputMbtiles, err := pack.NewMbtilesOutputter(*outputFilename, 0, metadata)
	if err != nil {
		log.Fatalf("Couldn't create output mbtiles: %+v", err)
	}

	if err := outputMbtiles.CreateTiles(); err != nil {
		log.Fatalf("Couldn't create output mbtiles: %+v", err)
	}

	var bounds *orb.Bound
	minZoom := maptile.Zoom(20)
	maxZoom := maptile.Zoom(0)

	for _, inputFilename := range inputFilenames {
		mbtilesReader, err := pack.NewMbtilesReader(inputFilename)
		if err != nil {
			log.Fatalf("Couldn't read input mbtiles %s: %+v", inputFilename, err)
		}

		err = mbtilesReader.VisitAllTiles(func(t maptile.Tile, data []byte) {
			if err := outputMbtiles.Save(t, data); err != nil {
				log.Printf("Couldn't save tile %v: %+v", t, err)
				return
			}

			tb := t.Bound()
			if bounds == nil {
				bounds = &tb
			} else {
				tb = bounds.Union(tb)
				bounds = &tb
			}

			minZoom = min(minZoom, t.Z)
			maxZoom = max(maxZoom, t.Z)
		})
		if err != nil {
			log.Fatalf("Couldn't read tiles from %s: %+v", inputFilename, err)
		}
		mbtilesReader.Close()
	}

	if bounds != nil {
		if err := outputMbtiles.AssignSpatialMetadata(*bounds, minZoom, maxZoom); err != nil {
			log.Fatalf("Failed to assign spatial metadata: %+v", err)
		}
	}

	if err := outputMbtiles.Close(); err != nil {
		log.Fatalf("Error closing output mbtiles: %+v", err)
	}
}
