// Command photodupe scans a folder for images and reports perceptual
// duplicates and near-duplicates together with their EXIF provenance.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"text/tabwriter"

	"github.com/anatolykoptev/go-photodupe"
	"github.com/facette/natsort"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "photodupe: .env: %v\n", err)
	}

	var (
		dir       = flag.String("dir", ".", "folder to scan")
		asJSON    = flag.Bool("json", false, "print rows as JSON")
		threshold = flag.Int("threshold", envInt("PHOTODUPE_THRESHOLD", photodupe.DefaultThreshold), "maximum Hamming distance for a similar match (0 = default, negative = exact only)")
		exact     = flag.Bool("exact", envBool("PHOTODUPE_EXACT"), "report exact duplicates only")
		grid      = flag.Int("grid", envInt("PHOTODUPE_GRID", photodupe.DefaultGridSize), "sampling grid side (8 gives 64-bit fingerprints)")
		workers   = flag.Int("workers", envInt("PHOTODUPE_WORKERS", 0), "fingerprint workers (0 = GOMAXPROCS)")
		algo      = flag.String("algo", envString("PHOTODUPE_ALGO", "average"), "fingerprint algorithm: average, difference, perception")
		thumbs    = flag.Bool("thumbs", false, "include thumbnail data URLs")
		verbose   = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	cfg := &photodupe.Config{
		GridSize:    *grid,
		Threshold:   *threshold,
		ExactOnly:   *exact,
		Algorithm:   photodupe.ParseAlgorithm(*algo),
		Concurrency: *workers,
		Thumbnails:  *thumbs,
		OnDecodeError: func(name string, err error) {
			slog.Warn("photodupe: not analyzed", "file", name, "error", err.Error())
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, *dir, *asJSON); err != nil {
		slog.Error("photodupe: failed", "error", err.Error())
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *photodupe.Config, dir string, asJSON bool) error {
	uploads, err := collect(dir)
	if err != nil {
		return err
	}
	if len(uploads) == 0 {
		return fmt.Errorf("no image files found in %s", dir)
	}

	records, err := cfg.Analyze(ctx, uploads)
	if err != nil {
		return err
	}
	rows := photodupe.ToRows(records)
	summary := photodupe.Summarize(records)

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Summary photodupe.Summary `json:"summary"`
			Images  []photodupe.Row   `json:"images"`
		}{summary, rows})
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FILE\tLABEL\tSCORE\tCLOSEST\tDEVICE\tTAKEN\tLOCATION")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.Path, r.Label, r.Score, r.ClosestMatch, r.DeviceID, r.DateTime, r.Location)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Printf("\n%d images, %d duplicate, %d similar, %d unique, %d not analyzed, %d devices, %d with GPS, %.1f MB\n",
		summary.TotalImages, summary.Duplicates, summary.Similar, summary.Unique, summary.NotAnalyzed,
		summary.UniqueDevices, summary.WithGPS, summary.TotalSizeMB)
	return nil
}

// collect reads every image under dir in natural path order, so repeated
// runs see the same batch order.
func collect(dir string) ([]photodupe.Upload, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() && photodupe.IsImageFile(p) {
			paths = append(paths, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", dir, err)
	}
	natsort.Sort(paths)

	uploads := make([]photodupe.Upload, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			slog.Warn("photodupe: unreadable file", "file", p, "error", err.Error())
			continue
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			rel = p
		}
		uploads = append(uploads, photodupe.Upload{Path: filepath.ToSlash(rel), Data: data})
	}
	return uploads, nil
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("photodupe: invalid integer in environment, using default", "key", key, "value", v, "default", def)
		return def
	}
	return n
}

func envBool(key string) bool {
	v := os.Getenv(key)
	if v == "" {
		return false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("photodupe: invalid boolean in environment, ignoring", "key", key, "value", v)
		return false
	}
	return b
}
