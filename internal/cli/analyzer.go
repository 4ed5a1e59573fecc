package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"jumanpp/internal/adapter/analyzer"
	"jumanpp/internal/adapter/jumanpp"
)

// openTokenizer connects to the configured analyzer. The caller closes the
// returned tokenizer.
func openTokenizer(ctx context.Context) (*analyzer.Tokenizer, error) {
	a := cfg.Analyzer
	transport, err := jumanpp.Open(ctx, jumanpp.Options{
		Command:     a.Command,
		Args:        a.Args,
		Timeout:     a.TimeoutDuration(),
		Pattern:     a.Pattern,
		Server:      a.Server,
		Port:        a.Port,
		Option:      a.Option,
		ReadTimeout: a.ReadTimeoutDuration(),
	}, log)
	if err != nil {
		return nil, fmt.Errorf("failed to open analyzer: %w", err)
	}

	normalizer, err := analyzer.NewNormalizer(cfg.Normalize.DictionaryMode)
	if err != nil {
		transport.Close()
		return nil, err
	}
	return analyzer.NewTokenizer(transport, normalizer, log), nil
}

// inputSentences returns args when given, otherwise the non-blank lines of r.
func inputSentences(args []string, r io.Reader) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}

	var sentences []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		sentences = append(sentences, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	if len(sentences) == 0 {
		return nil, fmt.Errorf("no input: pass sentences as arguments or on stdin")
	}
	return sentences, nil
}
