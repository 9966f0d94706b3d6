package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"jkauppila.dev/internal/config"
	"jkauppila.dev/internal/handlers"
	"jkauppila.dev/internal/services"
)

// export runs the content pipeline once and writes the result as JSON.
// It fails instead of writing fallback data when the CMS is configured
// but unreachable.
func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := cfg.Log.NewLogger(os.Stderr)

	outputPath := cfg.ExportPath
	if len(args) > 0 {
		outputPath = args[0]
	}

	ctx := context.Background()
	orchestrator, closeCache, err := services.NewOrchestratorFromConfig(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("set up content source: %w", err)
	}
	defer closeCache()

	res := orchestrator.Fetch(ctx)
	if res.Err != nil {
		return res.Err
	}
	logger.Info("fetched projects", "source", res.Source, "count", len(res.Projects))

	data, err := handlers.MarshalSnapshot(res.Projects)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	// Ensure output directory exists
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}

	fmt.Printf("Created %s (%d projects)\n", outputPath, len(res.Projects))
	return nil
}
