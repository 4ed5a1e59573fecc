package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/goccy/go-json"

	"jumanpp/internal/domain"
	"jumanpp/internal/logger"
	"jumanpp/internal/port"
)

// ProgressFunc is called after each corpus file.
type ProgressFunc func(processed, total int, currentFile string)

// BatchOptions controls how each corpus sentence is tokenized and filtered.
type BatchOptions struct {
	Tokenize     port.TokenizeOptions
	POSCondition []domain.POSCondition
	Stopwords    []string
}

// BatchRecord is one JSON Lines output record.
type BatchRecord struct {
	Path     string     `json:"path"`
	Line     int        `json:"line"`
	Sentence string     `json:"sentence"`
	Tokens   [][]string `json:"tokens"`
}

// BatchResult summarizes a batch run.
type BatchResult struct {
	FilesProcessed     int
	SentencesTokenized int
	TokensEmitted      int
	Errors             []string
}

// BatchUseCase tokenizes every sentence of a corpus. Sentences are sent one
// at a time since the analyzer handle is exclusively owned.
type BatchUseCase struct {
	walker    port.FileWalker
	reader    port.SentenceReader
	tokenizer port.Tokenizer
	opts      BatchOptions
	log       logger.Logger
}

// NewBatchUseCase creates a new batch use case.
func NewBatchUseCase(
	walker port.FileWalker,
	reader port.SentenceReader,
	tokenizer port.Tokenizer,
	opts BatchOptions,
	log logger.Logger,
) *BatchUseCase {
	if log == nil {
		log = logger.Discard()
	}
	return &BatchUseCase{
		walker:    walker,
		reader:    reader,
		tokenizer: tokenizer,
		opts:      opts,
		log:       log,
	}
}

// Run walks root and writes one record per sentence to out. Per-file and
// per-sentence failures are collected in the result; a closed analyzer
// transport or a cancelled context stops the run.
func (u *BatchUseCase) Run(ctx context.Context, root string, out io.Writer, progress ProgressFunc) (*BatchResult, error) {
	files, err := u.walker.Walk(root)
	if err != nil {
		return nil, fmt.Errorf("failed to walk corpus: %w", err)
	}
	u.log.Info("corpus scanned", "root", root, "files", len(files))

	result := &BatchResult{}
	enc := json.NewEncoder(out)

	for i, file := range files {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		if err := u.processFile(ctx, file.Path, enc, result); err != nil {
			if isFatal(ctx, err) {
				return result, err
			}
			result.Errors = append(result.Errors, fmt.Sprintf("failed to process %s: %v", file.Path, err))
		} else {
			result.FilesProcessed++
		}

		if progress != nil {
			progress(i+1, len(files), file.Path)
		}
	}

	return result, nil
}

func (u *BatchUseCase) processFile(ctx context.Context, path string, enc *json.Encoder, result *BatchResult) error {
	sentences, err := u.reader.ReadSentences(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	for _, s := range sentences {
		tokenized, err := u.tokenizer.Tokenize(ctx, s.Text, u.opts.Tokenize)
		if err != nil {
			if isFatal(ctx, err) {
				return err
			}
			result.Errors = append(result.Errors, fmt.Sprintf("%s:%d: %v", path, s.Line, err))
			u.log.Warn("sentence skipped", "path", path, "line", s.Line, "error", err)
			continue
		}

		filtered, err := u.tokenizer.Filter(tokenized, u.opts.POSCondition, u.opts.Stopwords)
		if err != nil {
			return err
		}

		tokens := filtered.ConvertList()
		if err := enc.Encode(BatchRecord{
			Path:     path,
			Line:     s.Line,
			Sentence: s.Text,
			Tokens:   tokens,
		}); err != nil {
			return &writeError{err: err}
		}
		result.SentencesTokenized++
		result.TokensEmitted += len(tokens)
	}
	return nil
}

type writeError struct {
	err error
}

func (e *writeError) Error() string { return "failed to write record: " + e.err.Error() }
func (e *writeError) Unwrap() error { return e.err }

// isFatal reports errors after which no further sentence can succeed.
func isFatal(ctx context.Context, err error) bool {
	var we *writeError
	return ctx.Err() != nil ||
		errors.As(err, &we) ||
		errors.Is(err, domain.ErrConnectionClosed) ||
		errors.Is(err, domain.ErrNotConfigured)
}
