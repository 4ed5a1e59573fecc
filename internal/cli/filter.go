package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"jumanpp/internal/domain"
)

var (
	filterPOS       []string
	filterStopwords []string
)

var filterCmd = &cobra.Command{
	Use:   "filter [sentence...]",
	Short: "Tokenize sentences and keep tokens by part of speech",
	Long: `Tokenize each sentence, then keep only tokens whose part of speech starts
with one of the --pos paths and whose surface or base form is not a stopword.
An empty POS list keeps every part of speech. Defaults come from the filter
section of the config file.

Examples:
  jumanpp filter --pos 名詞 私の犬が走った
  jumanpp filter --pos 名詞 --pos 動詞,自立 --stopword する 勉強する
  jumanpp filter --surface --feature --json --pos 名詞,固有名詞 < corpus.txt`,
	RunE: runFilter,
}

func init() {
	rootCmd.AddCommand(filterCmd)

	addTokenizeFlags(filterCmd)
	filterCmd.Flags().StringArrayVar(&filterPOS, "pos", nil, "POS path to keep, comma separated (repeatable)")
	filterCmd.Flags().StringArrayVar(&filterStopwords, "stopword", nil, "word to drop (repeatable)")
}

// parsePOSConditions turns "名詞,固有名詞" style paths into conditions.
func parsePOSConditions(paths []string) []domain.POSCondition {
	out := make([]domain.POSCondition, 0, len(paths))
	for _, p := range paths {
		var cond domain.POSCondition
		for _, part := range strings.Split(p, ",") {
			if part = strings.TrimSpace(part); part != "" {
				cond = append(cond, part)
			}
		}
		if len(cond) > 0 {
			out = append(out, cond)
		}
	}
	return out
}

func filterSettings(cmd *cobra.Command) ([]domain.POSCondition, []string) {
	posCondition := cfg.Filter.POSConditions()
	if cmd.Flags().Changed("pos") {
		posCondition = parsePOSConditions(filterPOS)
	}
	stopwords := cfg.Filter.Stopwords
	if cmd.Flags().Changed("stopword") {
		stopwords = filterStopwords
	}
	return posCondition, stopwords
}

func runFilter(cmd *cobra.Command, args []string) error {
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

	posCondition, stopwords := filterSettings(cmd)
	log.Debug("filter settings", "pos", posCondition, "stopwords", stopwords)

	opts := tokenizeOptions()
	out := cmd.OutOrStdout()
	for _, s := range sentences {
		tokenized, err := tok.Tokenize(ctx, s, opts)
		if err != nil {
			return fmt.Errorf("failed to tokenize %q: %w", s, err)
		}
		filtered, err := tok.Filter(tokenized, posCondition, stopwords)
		if err != nil {
			return err
		}
		if err := writeTokens(out, filtered.Tokens, filtered); err != nil {
			return err
		}
	}
	return nil
}
