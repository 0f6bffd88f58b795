package pack

import (
	"context"
	"log/slog"
	"math/rand"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/maptile"

	"github.com/maptiler-community/go-maptiler/maptiler"
)

// NewMaptilerJobGenerator creates a JobGenerator that fetches tiles for one
// tileset through a Maptiler Cloud session. The requested zooms are checked
// against the tileset's zoom range up front, so a bad zoom list fails here
// instead of producing a stream of per-tile errors.
func NewMaptilerJobGenerator(session *maptiler.Maptiler, set maptiler.TileSet, bounds orb.Bound, zooms []maptile.Zoom, invertedY bool) (JobGenerator, error) {
	for _, z := range zooms {
		if _, err := maptiler.NewTileRequest(set, 0, 0, uint32(z)); err != nil {
			return nil, err
		}
	}

	return &maptilerJobGenerator{
		session:   session,
		set:       set,
		bounds:    bounds,
		zooms:     zooms,
		invertedY: invertedY,
	}, nil
}

type maptilerJobGenerator struct {
	session   *maptiler.Maptiler
	set       maptiler.TileSet
	bounds    orb.Bound
	zooms     []maptile.Zoom
	invertedY bool
}

func (g *maptilerJobGenerator) CreateWorker() (func(id int, jobs chan *TileJob, results chan *TileResult), error) {
	f := func(id int, jobs chan *TileJob, results chan *TileResult) {
		for job := range jobs {
			start := time.Now()

			req, err := maptiler.NewTileRequest(g.set, job.Tile.X, job.Tile.Y, uint32(job.Tile.Z))
			if err != nil {
				slog.Warn("Skipping out-of-range tile", "tile", job.Tile, "error", err)
				continue
			}

			data, err := g.session.CreateRequest(req).Execute(context.Background())
			if err != nil {
				slog.Warn("Skipping tile", "tile", job.Tile, "error", err)
				continue
			}

			results <- &TileResult{
				Tile:    job.Tile,
				Data:    data,
				Elapsed: time.Since(start).Seconds(),
			}

			// Sleep a tiny bit to try to prevent thundering herd
			time.Sleep(time.Duration(rand.Intn(50)) * time.Millisecond)
		}
	}

	return f, nil
}

func (g *maptilerJobGenerator) CreateJobs(jobs chan *TileJob) error {
	GenerateTiles(&GenerateTilesOptions{
		Bounds:    g.bounds,
		Zooms:     g.zooms,
		InvertedY: g.invertedY,
		ConsumerFunc: func(tile maptile.Tile) {
			jobs <- &TileJob{Tile: tile}
		},
	})

	return nil
}
