// ABOUTME: Command-line benchmark runner for the chat engine
// ABOUTME: Plays benchmark scenarios against the built knowledge base and writes JSON results

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"github.com/2jang/Pawsonality/benchmarks/ragas"
	"github.com/2jang/Pawsonality/internal/app"
	"github.com/2jang/Pawsonality/internal/config"
)

func main() {
	testID := flag.String("test", "", "Run a specific scenario ("+strings.Join(ragas.TestIDs(), ", ")+"). If empty, runs all.")
	outputPath := flag.String("output", "benchmark_results.json", "Output path for JSON results")
	verbose := flag.Bool("verbose", false, "Enable verbose output")
	flag.Parse()

	level := log.InfoLevel
	if *verbose {
		level = log.DebugLevel
	}
	logger := app.NewLogger(os.Stderr, level)

	if err := godotenv.Load(); err != nil {
		logger.Debug("no .env file found, continuing", "err", err)
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("loading config", "err", err)
	}

	a, err := app.Load(cfg, logger)
	if err != nil {
		logger.Fatal("loading knowledge base", "err", err)
	}

	runner, err := ragas.NewBenchmarkRunner(a.Composer, a.Store, logger, *verbose)
	if err != nil {
		logger.Fatal("creating benchmark runner", "err", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Println("========================================")
	fmt.Println("Pawsonality Chat Benchmarks")
	fmt.Println("========================================")
	fmt.Printf("Mode: %s\n\n", a.Composer.Status().Mode)

	scenarios := ragas.GetAllTests()
	if *testID != "" {
		scenario, ok := ragas.GetTest(*testID)
		if !ok {
			logger.Fatal("unknown scenario", "test", *testID, "valid", ragas.TestIDs())
		}
		scenarios = []ragas.TestScenario{scenario}
	}

	results, err := runner.RunTests(ctx, scenarios)
	if err != nil {
		logger.Fatal("benchmark interrupted", "err", err)
	}

	fmt.Println("\n========================================")
	fmt.Println("BENCHMARK SUMMARY")
	fmt.Println("========================================")

	summary := ragas.Summarize(results)
	for _, result := range results {
		fmt.Printf("\n%s: %s\n", result.TestID, result.TestName)
		if result.ErrorMessage != "" {
			fmt.Printf("  Error: %s\n", result.ErrorMessage)
		}
		fmt.Printf("  Faithfulness: %.2f\n", result.FaithfulnessScore)
		fmt.Printf("  Context Recall: %.2f\n", result.ContextRecallScore)
		fmt.Printf("  Hit Rate: %.2f\n", result.HitRate)
		fmt.Printf("  Reciprocal Rank: %.2f\n", result.ReciprocalRank)
		fmt.Printf("  Status: %s\n", result.Status)
	}

	fmt.Println("\n========================================")
	fmt.Printf("Total Tests: %d\n", summary.TotalTests)
	fmt.Printf("Passed: %d\n", summary.Passed)
	fmt.Printf("Failed: %d\n", summary.Failed)
	fmt.Printf("Mean MRR: %.2f\n", summary.MeanMRR)
	fmt.Println("========================================")

	if err := runner.ExportResults(results, *outputPath); err != nil {
		logger.Fatal("exporting results", "err", err)
	}

	if summary.Failed > 0 {
		os.Exit(1)
	}
}
