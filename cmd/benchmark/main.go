package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"jumanpp/config"
	"jumanpp/internal/adapter/analyzer"
	"jumanpp/internal/adapter/fs"
	"jumanpp/internal/adapter/jumanpp"
	"jumanpp/internal/logger"
	"jumanpp/internal/port"
)

func main() {
	dir := flag.String("dir", ".", "Directory holding jumanpp.yaml")
	sentence := flag.String("s", "", "Sentence to tokenize")
	file := flag.String("f", "", "File with one sentence per line")
	rounds := flag.Int("n", 10, "Rounds over the sentences")
	server := flag.String("server", "", "Juman++ server host (overrides config)")
	serverPort := flag.Int("port", 0, "Juman++ server port (overrides config)")
	noNormalize := flag.Bool("no-normalize", false, "Skip normalization")
	flag.Parse()

	if *sentence == "" && *file == "" {
		fmt.Println("Usage: go run cmd/benchmark/main.go -s \"すもももももももものうち\" [-n 100]")
		fmt.Println("       go run cmd/benchmark/main.go -f corpus.txt -server localhost")
		fmt.Println("\nMeasures per-sentence latency of the configured analyzer:")
		fmt.Println("  1. Transport round trip (process pipe or server socket)")
		fmt.Println("  2. Juman output parsing and token extraction")
		os.Exit(1)
	}

	cfg, err := config.LoadFromDir(*dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *server != "" {
		cfg.Analyzer.Server = *server
	}
	if *serverPort != 0 {
		cfg.Analyzer.Port = *serverPort
	}

	sentences, err := loadSentences(*sentence, *file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading sentences: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log := logger.FromConfig(os.Stderr, cfg.Logging.Level, cfg.Logging.Format)

	openStart := time.Now()
	transport, err := jumanpp.Open(ctx, jumanpp.Options{
		Command:     cfg.Analyzer.Command,
		Args:        cfg.Analyzer.Args,
		Timeout:     cfg.Analyzer.TimeoutDuration(),
		Pattern:     cfg.Analyzer.Pattern,
		Server:      cfg.Analyzer.Server,
		Port:        cfg.Analyzer.Port,
		Option:      cfg.Analyzer.Option,
		ReadTimeout: cfg.Analyzer.ReadTimeoutDuration(),
	}, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Analyzer not available: %v\n", err)
		os.Exit(1)
	}
	openTime := time.Since(openStart)

	normalizer, err := analyzer.NewNormalizer(cfg.Normalize.DictionaryMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	tok := analyzer.NewTokenizer(transport, normalizer, log)
	defer tok.Close()

	opts := port.TokenizeOptions{Normalize: cfg.Normalize.Enabled && !*noNormalize}

	fmt.Println("TOKENIZER BENCHMARK")
	fmt.Println(strings.Repeat("=", 70))
	if cfg.Analyzer.Server != "" {
		fmt.Printf("Transport: socket %s:%d\n", cfg.Analyzer.Server, cfg.Analyzer.Port)
	} else {
		fmt.Printf("Transport: process %s %s\n", cfg.Analyzer.Command, strings.Join(cfg.Analyzer.Args, " "))
	}
	fmt.Printf("Sentences: %d x %d rounds\n", len(sentences), *rounds)
	fmt.Printf("Open time: %s\n", openTime.Round(time.Microsecond))
	fmt.Println(strings.Repeat("-", 70))

	var latencies []time.Duration
	tokens := 0
	failures := 0
	start := time.Now()
	for r := 0; r < *rounds; r++ {
		for _, s := range sentences {
			t0 := time.Now()
			result, err := tok.Tokenize(ctx, s, opts)
			if err != nil {
				failures++
				fmt.Fprintf(os.Stderr, "  %q: %v\n", s, err)
				continue
			}
			latencies = append(latencies, time.Since(t0))
			tokens += len(result.Tokens)
		}
	}
	total := time.Since(start)

	if len(latencies) == 0 {
		fmt.Fprintln(os.Stderr, "No sentence was tokenized")
		os.Exit(1)
	}

	sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })

	var sum time.Duration
	for _, l := range latencies {
		sum += l
	}

	fmt.Printf("LATENCY:\n")
	fmt.Printf("  Mean: %s\n", (sum / time.Duration(len(latencies))).Round(time.Microsecond))
	fmt.Printf("  P50:  %s\n", percentile(latencies, 0.50).Round(time.Microsecond))
	fmt.Printf("  P95:  %s\n", percentile(latencies, 0.95).Round(time.Microsecond))
	fmt.Printf("  Max:  %s\n", latencies[len(latencies)-1].Round(time.Microsecond))
	fmt.Println(strings.Repeat("=", 70))
	fmt.Printf("THROUGHPUT:\n")
	fmt.Printf("  Sentences/sec: %.1f\n", float64(len(latencies))/total.Seconds())
	fmt.Printf("  Tokens/sec:    %.1f\n", float64(tokens)/total.Seconds())
	if failures > 0 {
		fmt.Printf("  Failures:      %d\n", failures)
	}
}

func loadSentences(sentence, file string) ([]string, error) {
	if file == "" {
		return []string{sentence}, nil
	}
	lines, err := fs.NewWalker(nil, nil).ReadSentences(file)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(lines)+1)
	if sentence != "" {
		out = append(out, sentence)
	}
	for _, l := range lines {
		out = append(out, l.Text)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%s has no sentences", file)
	}
	return out, nil
}

// percentile expects sorted input.
func percentile(sorted []time.Duration, p float64) time.Duration {
	idx := int(float64(len(sorted)-1) * p)
	return sorted[idx]
}
