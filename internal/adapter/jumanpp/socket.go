package jumanpp

import (
	"context"
	"fmt"
	"regexp"

	"jumanpp/internal/domain"
)

// SocketAnalyzer analyzes sentences through a Juman++ server connection.
type SocketAnalyzer struct {
	client  *Client
	pattern *regexp.Regexp
}

// NewSocketAnalyzer wraps an open client with the terminator pattern used
// for every query.
func NewSocketAnalyzer(client *Client, pattern *regexp.Regexp) *SocketAnalyzer {
	return &SocketAnalyzer{client: client, pattern: pattern}
}

// Analyze queries the server and parses the response.
func (a *SocketAnalyzer) Analyze(ctx context.Context, text string) (*domain.MorphemeList, error) {
	resp, err := a.client.Query(ctx, text, a.pattern)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", a.client.Addr(), err)
	}
	return ParseMList(resp)
}

// Close closes the server connection.
func (a *SocketAnalyzer) Close() error {
	return a.client.Close()
}
