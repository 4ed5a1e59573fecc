package analyzer

import (
	"context"
	"fmt"
	"unicode/utf8"

	"jumanpp/internal/domain"
	"jumanpp/internal/logger"
	"jumanpp/internal/port"
)

var _ port.Tokenizer = (*Tokenizer)(nil)

// Tokenizer exposes a Juman++ analyzer through the tokenizer interface:
// normalization, analysis through the configured transport, mapping to token
// records and POS/stopword filtering.
//
// A Tokenizer owns its analyzer handle. It is not safe for concurrent use;
// callers sharing one must serialize calls.
type Tokenizer struct {
	analyzer   port.Analyzer
	normalizer port.Normalizer
	log        logger.Logger
}

// NewTokenizer creates a Tokenizer. A nil normalizer selects the ipadic mode.
func NewTokenizer(analyzer port.Analyzer, normalizer port.Normalizer, log logger.Logger) *Tokenizer {
	if normalizer == nil {
		normalizer = &Normalizer{mode: ModeIPADIC}
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Tokenizer{
		analyzer:   analyzer,
		normalizer: normalizer,
		log:        log,
	}
}

// Tokenize analyzes sentence and returns its token records in emission
// order. The returned sentence always carries the input as given, even when
// it was normalized before analysis.
func (t *Tokenizer) Tokenize(ctx context.Context, sentence string, opts port.TokenizeOptions) (*domain.TokenizedSentence, error) {
	if t.analyzer == nil {
		return nil, fmt.Errorf("analyzer transport: %w", domain.ErrNotConfigured)
	}
	if !utf8.ValidString(sentence) {
		return nil, fmt.Errorf("%w: sentence is not valid UTF-8 text", domain.ErrInvalidInput)
	}

	text := sentence
	if opts.Normalize {
		text = t.normalizer.Normalize(sentence)
	}

	list, err := t.analyzer.Analyze(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}

	tokens := make([]domain.TokenizedResult, 0, list.Len())
	for _, m := range list.Morphemes {
		tokens = append(tokens, ExtractMorphologicalInformation(m, opts.Surface, opts.Feature))
	}

	t.log.Debug("tokenized sentence", "runes", utf8.RuneCountInString(sentence), "tokens", len(tokens))
	return domain.NewTokenizedSentence(sentence, tokens), nil
}

// TokenizeList is Tokenize followed by the list-of-lists conversion.
func (t *Tokenizer) TokenizeList(ctx context.Context, sentence string, opts port.TokenizeOptions) ([][]string, error) {
	s, err := t.Tokenize(ctx, sentence, opts)
	if err != nil {
		return nil, err
	}
	return s.ConvertList(), nil
}

// Filter restricts sentence to tokens matching posCondition and not in
// stopwords. Nil conditions and stopwords mean no restriction.
func (t *Tokenizer) Filter(sentence *domain.TokenizedSentence, posCondition []domain.POSCondition, stopwords []string) (*domain.FilteredResult, error) {
	if sentence == nil {
		return nil, fmt.Errorf("%w: tokenized sentence is nil", domain.ErrInvalidInput)
	}
	if stopwords == nil {
		stopwords = []string{}
	}
	return FilterWords(sentence, convertPOSCondition(posCondition), stopwords), nil
}

// Close releases the analyzer transport.
func (t *Tokenizer) Close() error {
	if t.analyzer == nil {
		return nil
	}
	return t.analyzer.Close()
}

// convertPOSCondition copies each condition, passing every component
// through unchanged.
func convertPOSCondition(conditions []domain.POSCondition) []domain.POSCondition {
	out := make([]domain.POSCondition, 0, len(conditions))
	for _, cond := range conditions {
		converted := make(domain.POSCondition, 0, len(cond))
		converted = append(converted, cond...)
		out = append(out, converted)
	}
	return out
}
