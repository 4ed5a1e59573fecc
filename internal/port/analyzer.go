package port

import (
	"context"

	"jumanpp/internal/domain"
)

// Analyzer runs morphological analysis of one sentence on an external
// analyzer. Implementations hold one exclusively-owned connection or
// process and are not safe for concurrent use.
type Analyzer interface {
	Analyze(ctx context.Context, text string) (*domain.MorphemeList, error)

	Close() error
}
