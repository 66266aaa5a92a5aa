package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/planbiir/gpxroute/internal/chart"
	"github.com/planbiir/gpxroute/internal/config"
	"github.com/planbiir/gpxroute/internal/library"
	"github.com/planbiir/gpxroute/internal/route"
	"github.com/planbiir/gpxroute/internal/store"
	"github.com/planbiir/gpxroute/internal/units"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	var (
		inputFile = flag.String("i", "", "Input GPX file")
		asJSON    = flag.Bool("json", false, "Print the parsed route as JSON")
		chartFile = flag.String("chart", "", "Write an elevation/speed profile chart (HTML)")
		save      = flag.Bool("save", false, "Store the route in the local library")
		list      = flag.Bool("list", false, "List routes in the local library")
		deleteID  = flag.String("delete", "", "Delete a route from the local library by id")
		strict    = flag.Bool("strict", cfg.StrictTimestamps, "Reject tracks whose timestamps go backwards")
		dbPath    = flag.String("db", cfg.DBPath, "Local library database")
		version   = flag.Bool("version", false, "Show version information")
	)

	flag.Usage = func() {
		fmt.Printf("gpxroute - Turn GPX tracks into route summaries\n\n")
		fmt.Printf("usage: gpxroute -i /path/to/file.gpx\n\n")
		fmt.Printf("examples:\n")
		fmt.Printf("  gpxroute -i ride.gpx\n")
		fmt.Printf("  gpxroute -i ride.gpx -chart ride.html\n")
		fmt.Printf("  gpxroute -i \"Morning Hike.gpx\" -save\n")
		fmt.Printf("  gpxroute -list\n\n")
		fmt.Printf("options:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if *version {
		fmt.Println("gpxroute v0.1.0 - GPX route parser")
		os.Exit(0)
	}

	ctx := context.Background()

	if *list || *deleteID != "" {
		lib, closeLib := openLibrary(*dbPath, cfg, nil)
		defer closeLib()

		if *deleteID != "" {
			if err := lib.DeleteRoute(ctx, *deleteID); err != nil {
				fmt.Fprintf(os.Stderr, "Error deleting route: %v\n", err)
				os.Exit(1)
			}
			fmt.Printf("🗑️  Deleted route %s\n", *deleteID)
		}
		if *list {
			if err := printLibrary(ctx, lib); err != nil {
				fmt.Fprintf(os.Stderr, "Error listing routes: %v\n", err)
				os.Exit(1)
			}
		}
		return
	}

	if *inputFile == "" {
		flag.Usage()
		os.Exit(2)
	}

	var opts []route.Option
	if *strict {
		opts = append(opts, route.WithStrictTimestamps())
	}

	fmt.Printf("📖 Reading GPX file: %s\n", *inputFile)
	var r *route.Route
	if *save {
		data, readErr := os.ReadFile(*inputFile)
		if readErr != nil {
			fmt.Fprintf(os.Stderr, "Error reading GPX file: %v\n", readErr)
			os.Exit(1)
		}
		lib, closeLib := openLibrary(*dbPath, cfg, opts)
		defer closeLib()
		r, err = lib.AddRoute(ctx, *inputFile, data)
	} else {
		r, err = route.ParseFile(*inputFile, opts...)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing GPX file: %v\n", err)
		os.Exit(1)
	}

	if *asJSON {
		jsonData, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error marshaling route: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(jsonData))
	} else {
		printRoute(r)
	}

	if *save {
		fmt.Printf("💾 Saved to %s as %s\n", *dbPath, r.ID)
	}

	if *chartFile != "" {
		if err := writeChart(*chartFile, r, cfg.ChartSamples); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing chart: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("📈 Profile chart written: %s\n", *chartFile)
	}
}

func openLibrary(path string, cfg config.Config, opts []route.Option) (*library.Library, func()) {
	s, err := store.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening library: %v\n", err)
		os.Exit(1)
	}
	lib := library.New(s,
		library.WithStorageLimit(cfg.StorageLimitBytes),
		library.WithParseOptions(opts...),
	)
	return lib, func() { s.Close() }
}

func writeChart(path string, r *route.Route, samples int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := chart.RenderProfile(f, r, chart.Options{MaxSamples: samples}); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func printRoute(r *route.Route) {
	fmt.Printf("\n🗺️  %s\n", r.Name)
	fmt.Printf("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
	if r.Description != "" {
		fmt.Printf("📝 %s\n", r.Description)
	}
	fmt.Printf("📅 Date: %s\n", units.FormatDate(r.Date))
	fmt.Printf("📍 Points: %d across %d segments\n", r.PointCount(), len(r.Segments))
	fmt.Printf("📏 Distance: %s\n", units.FormatDistance(r.TotalDistance))
	fmt.Printf("⏱️  Duration: %s\n", units.FormatDuration(r.TotalDuration))
	fmt.Printf("⛰️  Elevation: +%s / -%s\n",
		units.FormatElevation(r.TotalElevationGain), units.FormatElevation(r.TotalElevationLoss))

	for i, seg := range r.Segments {
		fmt.Printf("   • Segment %d: %s, avg %s, max %s\n", i+1,
			units.FormatDistance(seg.Distance), units.FormatSpeed(seg.AvgSpeed), units.FormatSpeed(seg.MaxSpeed))
	}

	if len(r.Waypoints) > 0 {
		fmt.Printf("🚩 Waypoints: %d\n", len(r.Waypoints))
		for _, w := range r.Waypoints {
			fmt.Printf("   • %s", w.Name)
			for _, key := range w.Extensions.Keys() {
				if v, ok := w.Extensions.Value(key); ok {
					unit, _ := w.Extensions.Unit(key)
					fmt.Printf(" %s=%g%s", key, v, unit)
				}
			}
			fmt.Printf("\n")
		}
	}

	for _, issue := range r.Issues {
		fmt.Printf("⚠️  %s\n", issue.Message)
	}
	fmt.Printf("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
}

func printLibrary(ctx context.Context, lib *library.Library) error {
	routes, err := lib.ListRoutes(ctx)
	if err != nil {
		return err
	}
	if len(routes) == 0 {
		fmt.Printf("📭 Library is empty\n")
		return nil
	}

	fmt.Printf("📚 %d routes:\n", len(routes))
	for _, s := range routes {
		fmt.Printf("   %s  %-24s %s  %s  %s\n", s.ID, s.Name, units.FormatDate(s.Date),
			units.FormatDistance(s.TotalDistance), units.FormatDuration(s.TotalDuration))
	}
	return nil
}
