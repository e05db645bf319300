// ABOUTME: Command-line runner for the intent and dispatch benchmark
// ABOUTME: Scores a labeled corpus and writes the results as JSON

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/harper/mindmate/benchmarks/intent"
	"github.com/harper/mindmate/internal/config"
	"github.com/harper/mindmate/internal/core"
	"github.com/harper/mindmate/internal/logging"
	"github.com/harper/mindmate/internal/models"
)

func main() {
	corpusPath := flag.String("corpus", "", "YAML corpus to score. If empty, uses the built-in corpus.")
	outputPath := flag.String("output", "benchmark_results.json", "Output path for JSON results")
	verbose := flag.Bool("verbose", false, "Print every case and debug logs")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found (continuing anyway): %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger, err := logging.New(*verbose, !*verbose)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	patterns, err := core.LoadPatternLibrary(cfg.PatternsFile)
	if err != nil {
		log.Fatalf("Failed to load patterns: %v", err)
	}
	policy, err := core.ParseAssumptionPolicy(cfg.AssumptionPolicy)
	if err != nil {
		log.Fatalf("Invalid assumption policy: %v", err)
	}

	corpus := intent.DefaultCorpus()
	if *corpusPath != "" {
		corpus, err = intent.LoadCorpus(*corpusPath)
		if err != nil {
			log.Fatalf("Failed to load corpus: %v", err)
		}
	}

	fmt.Println("========================================")
	fmt.Println("MindMate Intent Benchmark")
	fmt.Println("========================================")
	fmt.Printf("Corpus: %s (%d cases), policy: %s\n\n", corpus.Name, len(corpus.Cases), policy)

	runner := intent.NewBenchmarkRunner(intent.RunnerConfig{
		Patterns: patterns,
		Policy:   policy,
		Logger:   logger,
	})
	result, err := runner.Run(context.Background(), corpus)
	if err != nil {
		log.Fatalf("Benchmark failed: %v", err)
	}

	if *verbose {
		for _, c := range result.Cases {
			status := "PASS"
			if !c.Passed() {
				status = "FAIL"
			}
			fmt.Printf("[%s] %-4s %-22s %-22s %q\n", status, c.Case.ID, c.Intent, c.Action, c.Case.Text)
		}
		fmt.Println()
	}

	report := result.Report
	fmt.Println("========================================")
	fmt.Println("BENCHMARK SUMMARY")
	fmt.Println("========================================")
	fmt.Printf("Intent accuracy: %.2f (%d/%d)\n", report.Accuracy, report.Correct, report.Total)
	fmt.Printf("Wake accuracy:   %.2f\n", report.WakeAccuracy)
	fmt.Printf("Action accuracy: %.2f (%d checked)\n\n", report.ActionAccuracy, report.ActionChecked)

	for _, k := range models.AllIntents {
		s := report.PerIntent[k]
		fmt.Printf("%-22s precision %.2f  recall %.2f  f1 %.2f  (n=%d)\n", k, s.Precision, s.Recall, s.F1, s.Support)
	}
	fmt.Println()
	if err := report.Matrix.WriteMatrix(os.Stdout); err != nil {
		log.Fatalf("Failed to print matrix: %v", err)
	}

	failures := result.Failures()
	for _, f := range failures {
		fmt.Printf("\nFAIL %s %q\n  got %s/%s awake=%t, want %s/%s awake=%t\n",
			f.Case.ID, f.Case.Text, f.Intent, f.Action, f.Awake, f.Case.Intent, f.Case.Action, f.Case.Awake)
	}

	if err := intent.ExportResults(result, *outputPath); err != nil {
		log.Fatalf("Failed to export results: %v", err)
	}
	fmt.Printf("\nResults written to %s\n", *outputPath)

	if len(failures) > 0 {
		os.Exit(1)
	}
}
