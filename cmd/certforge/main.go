package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"certforge/internal/dataset"
	"certforge/internal/imaging"
	"certforge/internal/region"
	"certforge/internal/render"
	"certforge/internal/server"
	"certforge/internal/textfit"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("certforge %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("certforge - certificate batch generation")
			fmt.Println()
			fmt.Println("Usage: certforge [generate [options]]")
			fmt.Println()
			fmt.Println("Without arguments, certforge runs as an MCP server over stdin/stdout,")
			fmt.Println("exposing the interactive session tools (template_load, region_*,")
			fmt.Println("layout_*, dataset_validate, certificates_generate).")
			fmt.Println()
			fmt.Println("generate options (one-shot batch run):")
			fmt.Println("  -template PATH   Template image (PNG, JPEG, BMP or TIFF)")
			fmt.Println("  -layout PATH     Region layout JSON saved by layout_export")
			fmt.Println("  -data PATH       Dataset file (.csv or .tsv, first row is the header)")
			fmt.Println("  -out DIR         Output directory (default \".\")")
			fmt.Println("  -workers N       Rows rendered concurrently (default: number of CPUs)")
			fmt.Println("  -sample          Render only the first row, as a preview")
			fmt.Println()
			fmt.Println("Other options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables:")
			fmt.Println("  CERTFORGE_LOG_LEVEL=debug    Enable debug logging")
			return
		}
	}

	// Configure logging to stderr (stdout is for MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	logLevel := os.Getenv("CERTFORGE_LOG_LEVEL")
	if logLevel == "debug" {
		log.Printf("certforge v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
	}

	if len(os.Args) > 1 && os.Args[1] == "generate" {
		if err := runGenerate(os.Args[2:]); err != nil {
			log.Fatalf("generate: %v", err)
		}
		return
	}

	srv := server.New()
	if err := srv.Run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// runGenerate performs a non-interactive batch run from a saved layout.
func runGenerate(args []string) error {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	templatePath := fs.String("template", "", "template image path")
	layoutPath := fs.String("layout", "", "region layout JSON path")
	dataPath := fs.String("data", "", "dataset file path (.csv or .tsv)")
	outDir := fs.String("out", ".", "output directory")
	workers := fs.Int("workers", 0, "rows rendered concurrently (0 = number of CPUs)")
	sample := fs.Bool("sample", false, "render only the first row")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *templatePath == "" || *layoutPath == "" || *dataPath == "" {
		return fmt.Errorf("-template, -layout and -data are required")
	}

	tpl, err := imaging.LoadTemplate(*templatePath)
	if err != nil {
		return err
	}
	store := region.NewStore(tpl.Width(), tpl.Height())
	layout, err := region.ReadLayoutFile(*layoutPath)
	if err != nil {
		return err
	}
	if err := store.ImportLayout(layout); err != nil {
		return err
	}

	ds, err := dataset.ReadFile(*dataPath)
	if err != nil {
		return err
	}
	if err := dataset.Validate(ds, store.BoundNames()); err != nil {
		return err
	}
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	renderer := render.NewRenderer(textfit.NewFitter(textfit.NewRegistry()))
	report, err := renderer.RenderBatch(ctx, tpl, store.List(), ds, *outDir, render.BatchOptions{
		Workers:    *workers,
		SampleOnly: *sample,
	})
	if report != nil {
		fmt.Printf("generated %d certificate(s) in %s\n", len(report.Generated), *outDir)
		for _, f := range report.Skipped {
			fmt.Printf("  row %d skipped: %v\n", f.Row, f.Err)
		}
		for _, o := range report.Overflows {
			fmt.Printf("  row %d overflow: %s\n", o.Row, o.Warning)
		}
	}
	return err
}
