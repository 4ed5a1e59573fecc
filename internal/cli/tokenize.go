package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"jumanpp/internal/domain"
	"jumanpp/internal/port"
)

var (
	tokenizeNoNormalize bool
	tokenizeSurface     bool
	tokenizeFeature     bool
	tokenizeList        bool
	tokenizeJSON        bool
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [sentence...]",
	Short: "Tokenize Japanese sentences",
	Long: `Tokenize each sentence with the configured analyzer. Sentences are taken
from the arguments or, when none are given, one per line from stdin.

Examples:
  jumanpp tokenize 私の犬が走った           # One token per line, base forms
  jumanpp tokenize --surface --list 走った   # Surface forms as a list
  cat corpus.txt | jumanpp tokenize --json  # Full token records as JSON`,
	RunE: runTokenize,
}

func init() {
	rootCmd.AddCommand(tokenizeCmd)

	addTokenizeFlags(tokenizeCmd)
	tokenizeCmd.Flags().BoolVar(&tokenizeList, "list", false, "print the list form of each sentence")
}

// addTokenizeFlags registers the flags shared by tokenize and filter.
func addTokenizeFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&tokenizeNoNormalize, "no-normalize", false, "send the sentence to the analyzer as is")
	cmd.Flags().BoolVar(&tokenizeSurface, "surface", false, "output surface forms instead of base forms")
	cmd.Flags().BoolVar(&tokenizeFeature, "feature", false, "include part of speech in list output")
	cmd.Flags().BoolVar(&tokenizeJSON, "json", false, "output JSON")
}

func tokenizeOptions() port.TokenizeOptions {
	return port.TokenizeOptions{
		Normalize: cfg.Normalize.Enabled && !tokenizeNoNormalize,
		Surface:   cfg.Output.Surface || tokenizeSurface,
		Feature:   cfg.Output.Feature || tokenizeFeature,
	}
}

func runTokenize(cmd *cobra.Command, args []string) error {
	sentences, err := commandSentences(cmd, args)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	tok, err := openTokenizer(ctx)
	if err != nil {
		return err
	}
	defer tok.Close()

	opts := tokenizeOptions()
	out := cmd.OutOrStdout()
	for _, s := range sentences {
		if tokenizeList {
			list, err := tok.TokenizeList(ctx, s, opts)
			if err != nil {
				return fmt.Errorf("failed to tokenize %q: %w", s, err)
			}
			if err := writeList(out, list); err != nil {
				return err
			}
			continue
		}

		result, err := tok.Tokenize(ctx, s, opts)
		if err != nil {
			return fmt.Errorf("failed to tokenize %q: %w", s, err)
		}
		if err := writeTokens(out, result.Tokens, result); err != nil {
			return err
		}
	}
	return nil
}

func writeList(w io.Writer, list [][]string) error {
	if tokenizeJSON {
		return json.NewEncoder(w).Encode(list)
	}
	words := make([]string, 0, len(list))
	for _, entry := range list {
		words = append(words, strings.Join(entry, "/"))
	}
	_, err := fmt.Fprintln(w, strings.Join(words, " "))
	return err
}

// writeTokens prints one token per line followed by a blank line, or v as a
// single JSON document.
func writeTokens(w io.Writer, tokens []domain.TokenizedResult, v any) error {
	if tokenizeJSON {
		return json.NewEncoder(w).Encode(v)
	}
	for _, t := range tokens {
		if _, err := fmt.Fprintf(w, "%s\t%s\n", t.Word(), strings.Join(t.TuplePOS, ",")); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w)
	return err
}

// commandSentences reads the sentences for cmd, refusing to wait on an
// interactive stdin.
func commandSentences(cmd *cobra.Command, args []string) ([]string, error) {
	if len(args) == 0 && cmd.InOrStdin() == os.Stdin && stdinIsTerminal() {
		return nil, fmt.Errorf("no input: pass sentences as arguments or on stdin")
	}
	return inputSentences(args, cmd.InOrStdin())
}

// stdinIsTerminal reports whether stdin is interactive.
func stdinIsTerminal() bool {
	info, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
