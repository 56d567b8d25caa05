package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"travel-matrix-service/internal/adapters/googlemaps"
	"travel-matrix-service/internal/domain"
	"travel-matrix-service/internal/services"
)

// matrixtool runs the matrix pipeline against a local CSV file, without the
// HTTP server: same validation, same sequential row processing, same export.
func main() {
	input := flag.String("input", "", "path to the input CSV file (required)")
	output := flag.String("output", services.ExportFilename, "path the results CSV is written to")
	modeFlag := flag.String("mode", "driving", "travel mode: driving, walking, bicycling or transit")
	keyFlag := flag.String("key", "", "Google API key (defaults to GOOGLE_MAPS_API_KEY)")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	if *input == "" {
		log.Fatal("-input is required")
	}

	apiKey := strings.TrimSpace(*keyFlag)
	if apiKey == "" {
		apiKey = strings.TrimSpace(os.Getenv("GOOGLE_MAPS_API_KEY"))
	}
	if apiKey == "" {
		log.Fatal("a Google API key is required (-key or GOOGLE_MAPS_API_KEY)")
	}

	mode, err := domain.ParseMode(*modeFlag)
	if err != nil {
		log.Fatal(err)
	}

	if err := run(*input, *output, mode, apiKey); err != nil {
		log.Fatal(err)
	}
}

func run(input, output string, mode domain.Mode, apiKey string) error {
	f, err := os.Open(input)
	if err != nil {
		return fmt.Errorf("open input %q: %w", input, err)
	}
	defer f.Close()

	tbl, err := services.LoadTable(f)
	if err != nil {
		return err
	}
	if err := services.ValidateColumns(tbl); err != nil {
		return err
	}

	provider, err := googlemaps.NewClient(apiKey)
	if err != nil {
		return err
	}

	outcome, err := services.ComputeMatrix(context.Background(), services.MatrixRequest{Table: tbl, Mode: mode}, provider)
	if err != nil {
		return err
	}

	for _, re := range outcome.RowErrors {
		log.Printf("row=%d stage=%s warning=%t err=%v", re.Row, re.Stage, re.Warning, re.Err)
	}

	if len(outcome.Results) == 0 {
		log.Println(services.NoResultsMessage)
		return nil
	}

	out, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("create output %q: %w", output, err)
	}
	defer out.Close()

	if err := services.WriteResultsCSV(out, outcome.Results); err != nil {
		return err
	}

	log.Printf("rows_total=%d processed=%d skipped=%d output=%s",
		outcome.RowsTotal, outcome.RowsProcessed(), outcome.RowsSkipped(), output)
	return nil
}
