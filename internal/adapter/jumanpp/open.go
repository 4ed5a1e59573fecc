package jumanpp

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"jumanpp/internal/domain"
	"jumanpp/internal/logger"
	"jumanpp/internal/port"
)

// DefaultPattern terminates one analyzer response.
const DefaultPattern = "EOS"

// Options selects and configures a transport. Setting Server selects the
// socket transport; otherwise a local process is started.
type Options struct {
	Command string
	Args    []string
	Timeout time.Duration
	Pattern string

	Server      string
	Port        int
	Option      string
	ReadTimeout time.Duration
}

// Open creates the analyzer transport described by opts.
func Open(ctx context.Context, opts Options, log logger.Logger) (port.Analyzer, error) {
	if log == nil {
		log = logger.Discard()
	}

	expr := opts.Pattern
	if expr == "" {
		expr = DefaultPattern
	}
	pattern, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid terminator pattern %q: %v", domain.ErrNotConfigured, expr, err)
	}

	if opts.Server != "" {
		p := opts.Port
		if p == 0 {
			p = DefaultPort
		}
		var option []byte
		if opts.Option != "" {
			option = []byte(opts.Option)
		}
		client, err := Dial(ctx, opts.Server, p, option, log)
		if err != nil {
			return nil, err
		}
		client.ReadTimeout = opts.ReadTimeout
		log.Info("using analyzer server", "server", client.Addr())
		return NewSocketAnalyzer(client, pattern), nil
	}

	if opts.Command == "" {
		return nil, fmt.Errorf("%w: neither analyzer command nor server is set", domain.ErrNotConfigured)
	}
	proc, err := StartProcess(ProcessOptions{
		Command: opts.Command,
		Args:    opts.Args,
		Timeout: opts.Timeout,
		Pattern: pattern,
	}, log)
	if err != nil {
		return nil, err
	}
	log.Info("using analyzer process", "command", opts.Command)
	return proc, nil
}
