// Package main provides a performance benchmarking tool for the greenmetrics CLI.
// It generates synthetic analysis exports of different sizes and measures the
// execution time of each pipeline command, treating the first successful run as
// cold and averaging the rest as warm, then writes a CSV summary.
//
// Prerequisites:
// - greenmetrics binary installed and available in PATH
//
// Usage: go run benchmark/main.go [work-dir]
//
//	work-dir: Directory where the synthetic roots are generated
package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// BenchmarkResult holds the result of a benchmark run (cold run and average of warm runs).
type BenchmarkResult struct {
	Corpus   string
	Command  string
	Systems  int
	ColdTime string
	WarmTime string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	WorkDir  string
	Timeout  time.Duration
	Runs     int
	Corpora  map[string]int
	Order    []string
	Commands []string
}

func main() {
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [work-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		WorkDir: os.Args[1],
		Timeout: 5 * time.Minute,
		Runs:    4,
		Corpora: map[string]int{
			"small":  10,
			"medium": 100,
			"large":  1000,
		},
		Order:    []string{"small", "medium", "large"},
		Commands: []string{"flatten", "scores", "churn", "combine", "run"},
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results, config.Commands)
}

// checkPrerequisites verifies that the greenmetrics binary and the work directory exist
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("greenmetrics"); err != nil {
		return fmt.Errorf("greenmetrics binary not found in PATH")
	}
	if err := os.MkdirAll(config.WorkDir, 0o755); err != nil {
		return fmt.Errorf("cannot create work dir %s: %w", config.WorkDir, err)
	}
	return nil
}

// generateCorpus writes a synthetic root with the given number of systems.
// Every system gets the three category files and a few refactoring documents.
func generateCorpus(root string, systems int) error {
	if err := os.RemoveAll(root); err != nil {
		return err
	}
	for i := range systems {
		system := fmt.Sprintf("churn%d-sys%04d-original", i%7, i)
		dir := filepath.Join(root, system)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
		files := map[string]string{
			system + "_maintainability.json": fmt.Sprintf(
				`{"maintainability": %.1f, "volume": %.1f, "duplication": 3.2, "unitSize": 2.9, "volumeInPersonMonths": %d}`,
				1+float64(i%40)/10, 1+float64(i%35)/10, 5+i%50),
			system + "_architecture-quality.json": fmt.Sprintf(
				`{"ratings": {"architecture": 3.1, "systemProperties": {"codeBreakdown": %.1f, "componentFreshness": 2.5}}}`,
				1+float64(i%30)/10),
			system + "_internal_reliability-findings.json": fmt.Sprintf(`{"rating": %.1f}`, 1+float64(i%45)/10),
			system + "-inline-1.json":                      fmt.Sprintf(`{"totalNewFiles": %d, "totalNewVolumeInMonths": 0.25, "totalNewVolumeInLoc": 40}`, i%3),
			system + "-rename-1.json":                      `{}`,
		}
		for name, content := range files {
			if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
				return err
			}
		}
	}
	return nil
}

// runBenchmarks executes all benchmark tests across configured corpora
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d corpora, %v timeout, %d runs per command\n",
		len(config.Order), config.Timeout, config.Runs)

	for _, corpus := range config.Order {
		systems := config.Corpora[corpus]
		root := filepath.Join(config.WorkDir, corpus)
		fmt.Printf("Generating %s corpus (%d systems)\n", corpus, systems)
		if err := generateCorpus(root, systems); err != nil {
			fmt.Printf("Warning: failed to generate %s: %v\n", corpus, err)
			continue
		}

		// Commands run in order, so flatten writes the tables scores and combine read
		for _, command := range config.Commands {
			cold, warm := runBenchmark(config, root, command)
			fmt.Printf("  %-8s Cold time: %s, Warm average: %s\n", command, cold, warm)
			results = append(results, BenchmarkResult{
				Corpus:   corpus,
				Command:  command,
				Systems:  systems,
				ColdTime: cold,
				WarmTime: warm,
			})
		}
	}

	return results
}

// runBenchmark executes a greenmetrics command multiple times and returns the cold time and the warm average
func runBenchmark(config BenchmarkConfig, root, command string) (coldTime, warmAvg string) {
	args := []string{command, root, "--history-backend", "none", "--output", "csv", "--output-file", os.DevNull}

	var times []float64
	for range config.Runs {
		start := time.Now()

		cmd := exec.Command("greenmetrics", args...)

		done := make(chan bool)
		var output []byte
		var cmdErr error

		go func() {
			output, cmdErr = cmd.CombinedOutput()
			done <- true
		}()

		select {
		case <-done:
			if cmdErr == nil && isSuccess(output) {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			_ = cmd.Process.Kill()
		}
	}

	coldTime, warmAvg = "TIMEOUT", "TIMEOUT"
	if len(times) > 0 {
		coldTime = fmt.Sprintf("%.3fs", times[0])
	}
	if len(times) > 1 {
		var sum float64
		for _, t := range times[1:] {
			sum += t
		}
		warmAvg = fmt.Sprintf("%.3fs", sum/float64(len(times)-1))
	}
	return coldTime, warmAvg
}

// isSuccess checks that the command output carries no fatal log line
func isSuccess(output []byte) bool {
	return !strings.Contains(string(output), "Fatal ")
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/greenmetrics_benchmark_%s.csv", timestamp)

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"corpus", "systems", "cmd", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, result := range results {
		record := []string{result.Corpus, fmt.Sprint(result.Systems), result.Command, result.ColdTime, result.WarmTime}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult, commands []string) {
	fmt.Printf("Benchmark complete\n")
	for _, command := range commands {
		fmt.Printf("%s:\n", command)
		for _, result := range results {
			if result.Command == command {
				fmt.Printf("  %-8s (%4d systems): Cold: %s, Warm: %s\n", result.Corpus, result.Systems, result.ColdTime, result.WarmTime)
			}
		}
	}
}
