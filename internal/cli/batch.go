package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"jumanpp/internal/adapter/fs"
	"jumanpp/internal/usecase"
)

var (
	batchOutput     string
	batchNoProgress bool
)

var batchCmd = &cobra.Command{
	Use:   "batch [path]",
	Short: "Tokenize every sentence of a corpus",
	Long: `Tokenize every non-blank line of the corpus files under path and write one
JSON record per sentence. Files are selected by the corpus includes and
excludes of the config file; the filter section applies to every sentence.

Examples:
  jumanpp batch                       # Tokenize *.txt under the current directory
  jumanpp batch ./corpus -o out.jsonl # Write records to a file`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringVarP(&batchOutput, "output", "o", "", "output file (default is stdout)")
	batchCmd.Flags().BoolVar(&batchNoProgress, "no-progress", false, "disable the progress bar")
	batchCmd.Flags().StringArrayVar(&filterPOS, "pos", nil, "POS path to keep, comma separated (repeatable)")
	batchCmd.Flags().StringArrayVar(&filterStopwords, "stopword", nil, "word to drop (repeatable)")
	addTokenizeFlags(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	path := GetRootDir()
	if len(args) > 0 {
		var err error
		path, err = filepath.Abs(args[0])
		if err != nil {
			return fmt.Errorf("invalid path: %w", err)
		}
	}

	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("path does not exist: %w", err)
	}

	var out io.Writer = cmd.OutOrStdout()
	if batchOutput != "" {
		f, err := os.Create(batchOutput)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		out = f
	}
	w := bufio.NewWriter(out)

	ctx := cmd.Context()
	tok, err := openTokenizer(ctx)
	if err != nil {
		return err
	}
	defer tok.Close()

	posCondition, stopwords := filterSettings(cmd)
	walker := fs.NewWalker(cfg.Corpus.Includes, cfg.Corpus.Excludes)
	batchUC := usecase.NewBatchUseCase(walker, walker, tok, usecase.BatchOptions{
		Tokenize:     tokenizeOptions(),
		POSCondition: posCondition,
		Stopwords:    stopwords,
	}, log)

	fmt.Fprintf(os.Stderr, "Scanning %s...\n", path)

	var progress usecase.ProgressFunc
	if !batchNoProgress {
		progress = newProgress()
	}

	start := time.Now()
	result, runErr := batchUC.Run(ctx, path, w, progress)
	if err := w.Flush(); err != nil && runErr == nil {
		runErr = fmt.Errorf("failed to write output: %w", err)
	}
	if runErr != nil {
		return fmt.Errorf("batch failed: %w", runErr)
	}

	fmt.Fprintf(os.Stderr, "\nBatch complete in %s:\n", formatDuration(time.Since(start)))
	fmt.Fprintf(os.Stderr, "  Files processed:     %d\n", result.FilesProcessed)
	fmt.Fprintf(os.Stderr, "  Sentences tokenized: %d\n", result.SentencesTokenized)
	fmt.Fprintf(os.Stderr, "  Tokens emitted:      %d\n", result.TokensEmitted)

	if len(result.Errors) > 0 {
		fmt.Fprintf(os.Stderr, "\nWarnings:\n")
		for _, e := range result.Errors {
			fmt.Fprintf(os.Stderr, "  - %s\n", e)
		}
	}

	if batchOutput != "" {
		fmt.Fprintf(os.Stderr, "\nRecords written to: %s\n", batchOutput)
	}
	return nil
}

// newProgress returns a progress callback drawing on stderr. The bar is
// created on the first call, once the file count is known.
func newProgress() usecase.ProgressFunc {
	var bar *progressbar.ProgressBar
	var barMu sync.Mutex
	var startTime time.Time

	return func(processed, total int, currentFile string) {
		barMu.Lock()
		defer barMu.Unlock()

		if bar == nil {
			startTime = time.Now()
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionEnableColorCodes(true),
				progressbar.OptionShowBytes(false),
				progressbar.OptionSetWidth(40),
				progressbar.OptionShowCount(),
				progressbar.OptionSetDescription("[cyan]Tokenizing[reset]"),
				progressbar.OptionSetTheme(progressbar.Theme{
					Saucer:        "[green]=[reset]",
					SaucerHead:    "[green]>[reset]",
					SaucerPadding: " ",
					BarStart:      "[",
					BarEnd:        "]",
				}),
				progressbar.OptionOnCompletion(func() {
					fmt.Fprintln(os.Stderr)
				}),
			)
		}

		bar.Set(processed)

		if processed > 0 {
			elapsed := time.Since(startTime)
			rate := float64(processed) / elapsed.Seconds()
			remaining := total - processed
			if rate > 0 {
				eta := time.Duration(float64(remaining)/rate) * time.Second
				bar.Describe(fmt.Sprintf("[cyan]Tokenizing[reset] %s ETA: %s", filepath.Base(currentFile), formatDuration(eta)))
			}
		}
	}
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return "<1s"
	}
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		m := int(d.Minutes())
		s := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm%ds", m, s)
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh%dm", h, m)
}
