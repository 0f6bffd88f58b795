package main

import (
	"context"
	"flag"
	"log"
	"os"
	"strings"

	"github.com/maptiler-community/go-maptiler/maptiler"
)

func main() {
	tileSetStr := flag.String("tileset", "Satellite", "Which tileset to fetch from. One of the built-in tileset names.")
	endpointStr := flag.String("endpoint", "", "Custom tile endpoint to fetch from instead of a built-in tileset. Requires -extension.")
	extensionStr := flag.String("extension", "", "File extension for the custom endpoint.")
	x := flag.Uint("x", 0, "Tile X coordinate.")
	y := flag.Uint("y", 0, "Tile Y coordinate.")
	z := flag.Uint("z", 0, "Tile zoom level.")
	apiKey := flag.String("key", "", "Maptiler Cloud API key. Defaults to the MAPTILER_KEY environment variable.")
	outputStr := flag.String("output", "", "Path to write the tile to. Writes to stdout when empty.")
	flag.Parse()

	if *apiKey == "" {
		*apiKey = os.Getenv("MAPTILER_KEY")
	}

	if *apiKey == "" {
		log.Fatalf("API key is required (-key or MAPTILER_KEY)")
	}

	var set maptiler.TileSet
	if *endpointStr != "" {
		if *extensionStr == "" {
			log.Fatalf("-extension is required with -endpoint")
		}

		set = maptiler.CustomTileSet(*endpointStr, *extensionStr)
	} else {
		var ok bool
		set, ok = maptiler.ParseTileSet(*tileSetStr)
		if !ok {
			names := make([]string, 0)
			for _, t := range maptiler.TileSets() {
				names = append(names, t.String())
			}
			log.Fatalf("Unknown tileset %s. Valid tilesets are: %s", *tileSetStr, strings.Join(names, ", "))
		}
	}

	req, err := maptiler.NewTileRequest(set, uint32(*x), uint32(*y), uint32(*z))
	if err != nil {
		log.Fatalf("Invalid tile request: %v", err)
	}

	session := maptiler.New(*apiKey)

	data, err := session.CreateRequest(req).Execute(context.Background())
	if err != nil {
		log.Fatalf("Couldn't fetch tile: %v", err)
	}

	if *outputStr == "" {
		if _, err := os.Stdout.Write(data); err != nil {
			log.Fatalf("Couldn't write tile: %v", err)
		}
		return
	}

	if err := os.WriteFile(*outputStr, data, 0644); err != nil {
		log.Fatalf("Couldn't write tile to %s: %v", *outputStr, err)
	}

	log.Printf("Wrote %d bytes to %s", len(data), *outputStr)
}
