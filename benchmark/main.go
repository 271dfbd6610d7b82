// Package main provides a performance benchmarking tool for the trendscope CLI.
// It measures execution times of each command over one or more data directories,
// running each command several times with run history off and on,
// and writes a CSV for performance analysis and documentation.
//
// Prerequisites:
// - trendscope binary installed and available in PATH
// - Each data directory holds both series CSV files
//
// Usage: go run benchmark/main.go data-dir [data-dir...]
package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"
)

// BenchmarkResult holds the averages of one command over one data directory.
type BenchmarkResult struct {
	DataDir     string
	Command     string
	NoHistory   string
	WithHistory string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	DataDirs []string
	Timeout  time.Duration
	Runs     int
	Commands map[string][]string
	Order    []string
}

func main() {
	if len(os.Args) < 2 {
		fmt.Printf("Usage: %s data-dir [data-dir...]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		DataDirs: os.Args[1:],
		Timeout:  time.Minute,
		Runs:     5,
		Commands: map[string][]string{
			"summary":   {"summary"},
			"weekday":   {"breakdown", "--by", "weekday"},
			"quarter":   {"breakdown", "--by", "quarter", "--op", "sum"},
			"rows":      {"rows", "--query", "true"},
			"charts":    {"charts", "--output", "json"},
			"chart-png": {"charts", "--png-dir"},
			"export":    {"export", "--output-file"},
		},
		Order: []string{"summary", "weekday", "quarter", "rows", "charts", "chart-png", "export"},
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	workDir, err := os.MkdirTemp("", "trendscope-bench-*")
	if err != nil {
		fmt.Printf("Failed to create work dir: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = os.RemoveAll(workDir) }()

	results := runBenchmarks(config, workDir)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(config, results)
}

// checkPrerequisites verifies that the binary and the data directories exist.
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("trendscope"); err != nil {
		return fmt.Errorf("trendscope binary not found in PATH")
	}
	for _, dir := range config.DataDirs {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			return fmt.Errorf("data directory %s not found", dir)
		}
	}
	return nil
}

// runBenchmarks executes every command over every data directory.
func runBenchmarks(config BenchmarkConfig, workDir string) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d data dirs, %v timeout, %d runs per phase\n",
		len(config.DataDirs), config.Timeout, config.Runs)

	for _, dir := range config.DataDirs {
		fmt.Printf("Benchmarking %s\n", dir)
		for _, name := range config.Order {
			args := append([]string{}, config.Commands[name]...)
			switch name {
			case "chart-png":
				args = append(args, filepath.Join(workDir, "png"))
			case "export":
				args = append(args, filepath.Join(workDir, "export.csv"))
			}
			args = append(args, "--data-dirs", dir)

			noHistory := average(runBenchmark(config, workDir, args, "none"))
			withHistory := average(runBenchmark(config, workDir, args, "sqlite"))
			fmt.Printf("  %-10s no history: %s, with history: %s\n", name, noHistory, withHistory)

			results = append(results, BenchmarkResult{
				DataDir:     dir,
				Command:     name,
				NoHistory:   noHistory,
				WithHistory: withHistory,
			})
		}
	}
	return results
}

// runBenchmark runs a command config.Runs times and returns the successful durations.
func runBenchmark(config BenchmarkConfig, workDir string, args []string, backend string) []float64 {
	var times []float64
	for range config.Runs {
		ctx, cancel := context.WithTimeout(context.Background(), config.Timeout)
		cmd := exec.CommandContext(ctx, "trendscope", append(args, "--run-backend", backend)...)
		cmd.Dir = workDir
		cmd.Env = append(os.Environ(), "HOME="+workDir)

		start := time.Now()
		if err := cmd.Run(); err == nil {
			times = append(times, time.Since(start).Seconds())
		}
		cancel()
	}
	return times
}

func average(times []float64) string {
	if len(times) == 0 {
		return "FAILED"
	}
	var sum float64
	for _, t := range times {
		sum += t
	}
	return fmt.Sprintf("%.3fs", sum/float64(len(times)))
}

// saveResults writes benchmark results to a timestamped CSV file.
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := filepath.Join(os.TempDir(), fmt.Sprintf("trendscope_benchmark_%s.csv", timestamp))

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
	if err := writer.Write([]string{"data_dir", "cmd", "no_history_avg", "with_history_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, r := range results {
		if err := writer.Write([]string{r.DataDir, r.Command, r.NoHistory, r.WithHistory}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return err
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the results grouped by command.
func printSummary(config BenchmarkConfig, results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, name := range config.Order {
		fmt.Printf("%s:\n", name)
		for _, r := range results {
			if r.Command == name {
				fmt.Printf("  %-24s: No history: %s, With history: %s\n", r.DataDir, r.NoHistory, r.WithHistory)
			}
		}
	}
}
