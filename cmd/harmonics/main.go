// Command harmonics prints the truncated Fourier-harmonic basis of a
// lattice as CSV or JSON, for feeding into external tooling.
package main

import (
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/photonworks/bravais/lattice"
)

func main() {
	var (
		nh         = flag.Float64("nh", 27, "requested harmonic count (must be a whole number)")
		basisSpec  = flag.String("basis", "1,0,0;0,1,0;0,0,1", "lattice basis vectors, rows separated by ';'")
		truncation = flag.String("truncation", "parallelogrammic", "truncation mode")
		format     = flag.String("format", "csv", "output format: csv or json")
		out        = flag.String("out", "", "output file (default stdout)")
	)
	flag.Parse()

	basis, err := parseBasis(*basisSpec)
	if err != nil {
		log.Fatalf("invalid basis: %v", err)
	}

	count, err := lattice.CountFromFloat(*nh)
	if err != nil {
		log.Fatalf("invalid harmonic count: %v", err)
	}

	lat, err := lattice.New(basis, lattice.Options{Truncation: lattice.Truncation(*truncation)})
	if err != nil {
		log.Fatalf("building lattice: %v", err)
	}

	g, err := lat.Harmonics(count)
	if err != nil {
		log.Fatalf("truncating harmonics: %v", err)
	}
	rec, err := lat.ReciprocalVectors()
	if err != nil {
		log.Fatalf("reciprocal basis: %v", err)
	}

	var w io.Writer = os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			log.Fatalf("creating output file: %v", err)
		}
		defer f.Close()
		w = f
	}

	switch *format {
	case "csv":
		err = writeCSV(w, g, rec)
	case "json":
		err = writeJSON(w, g, rec)
	default:
		log.Fatalf("unknown format %q (want csv or json)", *format)
	}
	if err != nil {
		log.Fatalf("writing output: %v", err)
	}
}

// parseBasis reads a 3x3 basis from "a1x,a1y,a1z;a2x,a2y,a2z;a3x,a3y,a3z".
func parseBasis(spec string) (lattice.Basis, error) {
	var basis lattice.Basis
	rows := strings.Split(spec, ";")
	if len(rows) != 3 {
		return basis, fmt.Errorf("want 3 rows separated by ';', got %d", len(rows))
	}
	for i, row := range rows {
		cols := strings.Split(row, ",")
		if len(cols) != 3 {
			return basis, fmt.Errorf("row %d: want 3 comma-separated values, got %d", i, len(cols))
		}
		for j, col := range cols {
			v, err := strconv.ParseFloat(strings.TrimSpace(col), 64)
			if err != nil {
				return basis, fmt.Errorf("row %d column %d: %w", i, j, err)
			}
			basis[i][j] = v
		}
	}
	return basis, nil
}

// physical maps an integer harmonic onto the reciprocal basis.
func physical(h lattice.GVector, rec [3]lattice.Vec3) lattice.Vec3 {
	var k lattice.Vec3
	for axis := 0; axis < 3; axis++ {
		for r := 0; r < 3; r++ {
			k[r] += float64(h[axis]) * rec[axis][r]
		}
	}
	return k
}

func writeCSV(w io.Writer, g []lattice.GVector, rec [3]lattice.Vec3) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"index", "i1", "i2", "i3", "gx", "gy", "gz", "norm"}); err != nil {
		return err
	}
	for n, h := range g {
		k := physical(h, rec)
		row := []string{
			strconv.Itoa(n),
			strconv.Itoa(h[0]), strconv.Itoa(h[1]), strconv.Itoa(h[2]),
			formatFloat(k[0]), formatFloat(k[1]), formatFloat(k[2]),
			formatFloat(k.Norm()),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeJSON(w io.Writer, g []lattice.GVector, rec [3]lattice.Vec3) error {
	type item struct {
		G    lattice.GVector `json:"g"`
		K    lattice.Vec3    `json:"k"`
		Norm float64         `json:"norm"`
	}
	items := make([]item, len(g))
	for n, h := range g {
		k := physical(h, rec)
		items[n] = item{G: h, K: k, Norm: k.Norm()}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(items)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
