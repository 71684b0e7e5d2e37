package main

// Batch document ingestion:
//   go run ./cmd/ingest [-mode auto|primary|secondary] <file.pdf | directory>

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"consent-backend/internal/bootstrap"
	"consent-backend/internal/extract"
	"consent-backend/internal/ingest"
	"consent-backend/internal/shared/config"
)

func main() {
	modeFlag := flag.String("mode", "", "extraction mode: auto, primary, or secondary")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: ingest [-mode auto|primary|secondary] <file.pdf | directory>")
		os.Exit(2)
	}
	target := flag.Arg(0)

	cfg := config.Load()
	ctx := context.Background()

	app, err := bootstrap.Build(ctx, cfg)
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}
	defer app.Close()

	if *modeFlag != "" {
		mode, err := extract.ParseMode(*modeFlag)
		if err != nil {
			log.Fatalf("invalid mode: %v", err)
		}
		app.Ingest.Mode = mode
	}

	info, err := os.Stat(target)
	if err != nil {
		log.Fatalf("cannot stat %s: %v", target, err)
	}

	var results []ingest.FileResult
	if info.IsDir() {
		results, err = app.Ingest.IngestDir(ctx, target)
		if err != nil {
			log.Fatalf("ingest directory: %v", err)
		}
	} else {
		result, err := app.Ingest.IngestFile(ctx, target)
		if err != nil {
			results = []ingest.FileResult{{Filename: target, Err: err}}
		} else {
			results = []ingest.FileResult{{Filename: target, Result: &result}}
		}
	}

	printSummary(results)

	for _, r := range results {
		if r.Err != nil {
			os.Exit(1)
		}
	}
}

func printSummary(results []ingest.FileResult) {
	succeeded := 0
	fmt.Println("\n=== Ingestion Summary ===")
	for _, r := range results {
		if r.Err != nil {
			fmt.Printf("FAIL  %s: %v\n", r.Filename, r.Err)
			continue
		}
		succeeded++
		fmt.Printf("OK    %s -> consent %s (patient %s)\n", r.Filename, r.Result.ConsentID, r.Result.PatientEmail)
		if r.Result.CreatedAccount {
			fmt.Printf("      new account %s, password: %s\n", r.Result.PatientEmail, r.Result.Password)
		}
	}
	fmt.Printf("%d of %d documents ingested\n", succeeded, len(results))
}
