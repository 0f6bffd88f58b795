package main

import (
	"flag"
	"log"
	"net/http"
	"os"
	"regexp"
	"runtime/pprof"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/maptile"
	"github.com/schollz/progressbar/v3"

	"github.com/maptiler-community/go-maptiler/maptiler"
	"github.com/maptiler-community/go-maptiler/pack"
)

var zoomRangeRegex = regexp.MustCompile(`^\d+\-\d+$`)

func calculateExpectedTiles(bounds orb.Bound, zooms []maptile.Zoom) uint32 {
	var total uint32

	pack.GenerateTileRanges(&pack.GenerateRangesOptions{
		Bounds: bounds,
		Zooms:  zooms,
		ConsumerFunc: func(ll maptile.Tile, ur maptile.Tile, z maptile.Zoom) {
			total += (ur.X - ll.X + 1) * (ur.Y - ll.Y + 1)
		},
	})

	return total
}

func parseZooms(zoomsStr string) ([]maptile.Zoom, error) {
	if zoomRangeRegex.MatchString(zoomsStr) {
		zoomRange := strings.Split(zoomsStr, "-")

		minZoom, err := strconv.ParseUint(zoomRange[0], 10, 32)
		if err != nil {
			return nil, err
		}

		maxZoom, err := strconv.ParseUint(zoomRange[1], 10, 32)
		if err != nil {
			return nil, err
		}

		if minZoom > maxZoom {
			log.Fatal("Invalid zoom range")
		}

		zooms := make([]maptile.Zoom, 0, maxZoom-minZoom+1)
		for z := minZoom; z <= maxZoom; z++ {
			zooms = append(zooms, maptile.Zoom(z))
		}

		return zooms, nil
	}

	zoomsStrSplit := strings.Split(zoomsStr, ",")
	zooms := make([]maptile.Zoom, len(zoomsStrSplit))
	for i, zoomStr := range zoomsStrSplit {
		z, err := strconv.ParseUint(strings.TrimSpace(zoomStr), 10, 32)
		if err != nil {
			return nil, err
		}

		zooms[i] = maptile.Zoom(z)
	}

	return zooms, nil
}

func parseBounds(boundingBoxStr string) (orb.Bound, error) {
	boundingBoxStrSplit := strings.Split(boundingBoxStr, ",")
	if len(boundingBoxStrSplit) != 4 {
		log.Fatalf("Bounding box string must be a comma-separated list of 4 numbers")
	}

	boundingBoxFloats := make([]float64, 4)
	for i, bboxStr := range boundingBoxStrSplit {
		bboxFloat, err := strconv.ParseFloat(strings.TrimSpace(bboxStr), 64)
		if err != nil {
			return orb.Bound{}, err
		}

		boundingBoxFloats[i] = bboxFloat
	}

	// south,west,north,east
	return orb.Bound{
		Min: orb.Point{boundingBoxFloats[1], boundingBoxFloats[0]},
		Max: orb.Point{boundingBoxFloats[3], boundingBoxFloats[2]},
	}, nil
}

func processResults(waitGroup *sync.WaitGroup, results chan *pack.TileResult, processor pack.TileOutputter, bar *progressbar.ProgressBar) {
	defer waitGroup.Done()

	counter := 0
	for result := range results {
		err := processor.Save(result.Tile, result.Data)
		if err != nil {
			log.Printf("Couldn't save tile %+v", err)
		}

		counter++
		bar.Add(1)
	}

	bar.Finish()
	log.Printf("Saved %d tiles", counter)
}

func main() {
	tileSetStr := flag.String("tileset", "Satellite", "Which tileset to fetch from. One of the built-in tileset names.")
	endpointStr := flag.String("endpoint", "", "Custom tile endpoint to fetch from instead of a built-in tileset. Requires -extension.")
	extensionStr := flag.String("extension", "", "File extension for the custom endpoint.")
	apiKey := flag.String("key", "", "Maptiler Cloud API key. Defaults to the MAPTILER_KEY environment variable.")
	outputMode := flag.String("output-mode", "mbtiles", "Valid modes are: disk, mbtiles, pmtiles, s3.")
	outputDSN := flag.String("dsn", "", "Path to output file (or directory for disk mode).")
	bucketStr := flag.String("bucket", "", "(For s3 output) The name of the S3 bucket to upload tiles to.")
	prefixStr := flag.String("prefix", "", "(For s3 output) Key prefix for uploaded tiles.")
	boundingBoxStr := flag.String("bounds", "-90.0,-180.0,90.0,180.0", "Comma-separated bounding box in south,west,north,east format. Defaults to the whole world.")
	zoomsStr := flag.String("zooms", "0,1,2,3,4,5,6,7,8,9,10", "Comma-separated list of zoom levels or a '{MIN_ZOOM}-{MAX_ZOOM}' range string.")
	numTileFetchWorkers := flag.Int("workers", 25, "Number of tile fetch workers to use.")
	requestTimeout := flag.Int("timeout", 60, "HTTP client timeout for tile requests.")
	invertedY := flag.Bool("inverted-y", false, "Invert the Y-value of tiles to match the TMS (as opposed to ZXY) tile format.")
	cpuProfile := flag.String("cpuprofile", "", "Enables CPU profiling. Saves the dump to the given path.")
	flag.Parse()

	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
	}

	if *apiKey == "" {
		*apiKey = os.Getenv("MAPTILER_KEY")
	}

	if *apiKey == "" {
		log.Fatalf("API key is required (-key or MAPTILER_KEY)")
	}

	if *outputMode != "s3" && *outputDSN == "" {
		log.Fatalf("Output DSN (-dsn) is required")
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
			log.Fatalf("Unknown tileset %s", *tileSetStr)
		}
	}

	bounds, err := parseBounds(*boundingBoxStr)
	if err != nil {
		log.Fatalf("Bounding box string could not be parsed: %+v", err)
	}

	zooms, err := parseZooms(*zoomsStr)
	if err != nil {
		log.Fatalf("Zoom list could not be parsed: %+v", err)
	}

	// Configure the HTTP client with a timeout and connection pools
	httpClient := &http.Client{
		Timeout: time.Duration(*requestTimeout) * time.Second,
		Transport: &http.Transport{
			MaxIdleConnsPerHost: 500,
			DisableCompression:  true,
		},
	}

	session := maptiler.New(*apiKey, maptiler.WithHTTPClient(httpClient))

	jobCreator, err := pack.NewMaptilerJobGenerator(session, set, bounds, zooms, *invertedY)
	if err != nil {
		log.Fatalf("Failed to create job creator: %s", err)
	}

	metadata := pack.NewMbtilesMetadata(map[string]string{
		"name":   set.String(),
		"format": set.FileExtension(),
	})

	var outputter pack.TileOutputter
	var outputterErr error

	switch *outputMode {
	case "disk":
		outputter, outputterErr = pack.NewDiskOutputter(*outputDSN, set.FileExtension())
	case "mbtiles":
		outputter, outputterErr = pack.NewMbtilesOutputter(*outputDSN, 0, metadata)
	case "pmtiles":
		outputter, outputterErr = pack.NewPmtilesOutputter(*outputDSN, set.FileExtension(), metadata)
	case "s3":
		if *bucketStr == "" {
			log.Fatalf("Bucket name is required for s3 output")
		}

		outputter, outputterErr = pack.NewS3Outputter(*bucketStr, *prefixStr, set.FileExtension())
	default:
		log.Fatalf("Unknown outputter: %s", *outputMode)
	}

	if outputterErr != nil {
		log.Fatalf("Couldn't create %s output: %+v", *outputMode, outputterErr)
	}

	if err := outputter.CreateTiles(); err != nil {
		log.Fatalf("Failed to create %s output: %+v", *outputMode, err)
	}

	log.Printf("Created %s output", *outputMode)

	expectedTiles := calculateExpectedTiles(bounds, zooms)
	bar := progressbar.Default(int64(expectedTiles), "fetching tiles")

	jobs := make(chan *pack.TileJob, 2000)
	results := make(chan *pack.TileResult, 2000)

	// Start up the workers that will fetch tiles
	workerWG := &sync.WaitGroup{}
	for w := 0; w < *numTileFetchWorkers; w++ {
		worker, err := jobCreator.CreateWorker()
		if err != nil {
			log.Fatalf("Couldn't create worker: %+v", err)
		}

		workerWG.Add(1)
		go func(id int) {
			defer workerWG.Done()
			worker(id, jobs, results)
		}(w)
	}

	// Start the worker that receives data from the fetch workers
	resultWG := &sync.WaitGroup{}
	resultWG.Add(1)
	go processResults(resultWG, results, outputter, bar)

	if err := jobCreator.CreateJobs(jobs); err != nil {
		log.Fatalf("Failed to create jobs: %+v", err)
	}

	close(jobs)
	log.Print("Job queue closed")

	// When the workers are done, close the results channel
	workerWG.Wait()
	close(results)
	log.Print("Finished making tile requests")

	// Wait for the results to be written out
	resultWG.Wait()

	minZoom := zooms[0]
	maxZoom := zooms[0]
	for _, z := range zooms {
		minZoom = min(minZoom, z)
		maxZoom = max(maxZoom, z)
	}

	if err := outputter.AssignSpatialMetadata(bounds, minZoom, maxZoom); err != nil {
		log.Printf("Failed to assign spatial metadata: %+v", err)
	}

	if err := outputter.Close(); err != nil {
		log.Fatalf("Error closing outputter: %+v", err)
	}

	log.Print("Finished processing tiles")
}
