package port

import (
	"context"

	"jumanpp/internal/domain"
)

// TokenizeOptions selects normalization and the shape of each record.
type TokenizeOptions struct {
	Normalize bool
	Feature   bool
	Surface   bool
}

type Tokenizer interface {
	Tokenize(ctx context.Context, sentence string, opts TokenizeOptions) (*domain.TokenizedSentence, error)

	TokenizeList(ctx context.Context, sentence string, opts TokenizeOptions) ([][]string, error)

	Filter(sentence *domain.TokenizedSentence, posCondition []domain.POSCondition, stopwords []string) (*domain.FilteredResult, error)
}
