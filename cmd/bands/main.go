// Command bands solves the band structure of a configured dielectric scene,
// renders the diagram, and optionally records the run in a sqlite store.
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/photonworks/bravais/internal/config"
	"github.com/photonworks/bravais/internal/runsdb"
	"github.com/photonworks/bravais/internal/viz"
	"github.com/photonworks/bravais/lattice"
	"github.com/photonworks/bravais/solver"
)

func main() {
	var (
		configPath    = flag.String("config", "", "scene config JSON (required)")
		dbPath        = flag.String("db", "", "sqlite run store; empty disables recording")
		migrationsDir = flag.String("migrations", "migrations", "directory with schema migrations")
		outPath       = flag.String("out", "bands.png", "band diagram output image")
		epsOut        = flag.String("eps-out", "", "optional permittivity heat map output image")
		csvOut        = flag.String("csv", "", "optional CSV dump of band frequencies")
	)
	flag.Parse()

	if *configPath == "" {
		log.Fatalf("-config is required")
	}

	cfg, err := config.LoadSceneConfig(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	lat, err := cfg.BuildLattice()
	if err != nil {
		log.Fatalf("building lattice: %v", err)
	}

	nh, err := lattice.CountFromFloat(cfg.GetHarmonicCount())
	if err != nil {
		log.Fatalf("harmonic count: %v", err)
	}

	eps, err := cfg.BuildEpsilon(lat)
	if err != nil {
		log.Fatalf("building permittivity: %v", err)
	}

	path, err := solver.NewPath(cfg.GetKPath(), cfg.GetPerSegment())
	if err != nil {
		log.Fatalf("building k path: %v", err)
	}

	sv, err := solver.New(lat, eps, nh, solver.Options{Bands: cfg.GetBands()})
	if err != nil {
		log.Fatalf("building solver: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Printf("solving %d wavevectors with %d harmonics", len(path.Samples), sv.NumHarmonics())
	res, err := sv.Solve(ctx, path)
	if err != nil {
		log.Fatalf("solve: %v", err)
	}

	if *dbPath != "" {
		db, err := runsdb.Open(*dbPath)
		if err != nil {
			log.Fatalf("opening run store: %v", err)
		}
		defer db.Close()
		if err := db.MigrateUp(*migrationsDir); err != nil {
			log.Fatalf("migrating run store: %v", err)
		}
		raw, err := os.ReadFile(*configPath)
		if err != nil {
			log.Fatalf("re-reading config: %v", err)
		}
		if err := db.RecordRun(res, string(raw), lat.Volume(), sv.NumHarmonics()); err != nil {
			log.Fatalf("recording run: %v", err)
		}
		log.Printf("recorded run %s in %s", res.ID, *dbPath)
	}

	if err := viz.BandDiagram(res, *outPath); err != nil {
		log.Fatalf("rendering band diagram: %v", err)
	}
	log.Printf("wrote %s", *outPath)

	if *epsOut != "" {
		d := lat.Dims()
		if err := viz.Heat(eps.Real(), d.Nz/2, "Permittivity", *epsOut); err != nil {
			log.Fatalf("rendering permittivity: %v", err)
		}
		log.Printf("wrote %s", *epsOut)
	}

	if *csvOut != "" {
		if err := writeBandsCSV(*csvOut, res); err != nil {
			log.Fatalf("writing CSV: %v", err)
		}
		log.Printf("wrote %s", *csvOut)
	}
}

// writeBandsCSV dumps one row per path sample: its index, arc distance,
// wavevector, and every band frequency.
func writeBandsCSV(file string, res *solver.Result) error {
	f, err := os.Create(file)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{"index", "distance", "kx", "ky", "kz"}
	for b := 0; b < res.NumBands(); b++ {
		header = append(header, "band"+strconv.Itoa(b))
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for i, freqs := range res.Frequencies {
		row := []string{
			strconv.Itoa(i),
			formatFloat(res.Distances[i]),
			formatFloat(res.Ks[i][0]), formatFloat(res.Ks[i][1]), formatFloat(res.Ks[i][2]),
		}
		for _, v := range freqs {
			row = append(row, formatFloat(v))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
