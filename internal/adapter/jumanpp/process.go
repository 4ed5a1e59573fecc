package jumanpp

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"regexp"
	"strings"
	"sync"
	"time"

	"jumanpp/internal/domain"
	"jumanpp/internal/logger"
)

// ProcessOptions configures a local analyzer process.
type ProcessOptions struct {
	Command string
	Args    []string
	// Timeout bounds one Analyze call. Zero disables it.
	Timeout time.Duration
	Pattern *regexp.Regexp
}

type lineResult struct {
	line string
	err  error
}

// Process talks to a local Juman++ executable over stdin/stdout, one
// sentence per line.
type Process struct {
	opts   ProcessOptions
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	lines  chan lineResult
	log    logger.Logger
	mu     sync.Mutex
	closed bool
}

// StartProcess checks that the analyzer executable exists and starts it.
func StartProcess(opts ProcessOptions, log logger.Logger) (*Process, error) {
	if log == nil {
		log = logger.Discard()
	}
	if opts.Pattern == nil {
		return nil, fmt.Errorf("%w: terminator pattern is nil", domain.ErrInvalidInput)
	}

	path, err := exec.LookPath(opts.Command)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrBackendUnavailable, opts.Command, err)
	}

	cmd := exec.Command(path, opts.Args...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", path, err)
	}

	p := &Process{
		opts:  opts,
		cmd:   cmd,
		stdin: stdin,
		lines: make(chan lineResult),
		log:   log.With("command", path),
	}
	go p.readLines(stdout)

	p.log.Debug("analyzer process started", "pid", cmd.Process.Pid)
	return p, nil
}

func (p *Process) readLines(r io.Reader) {
	defer close(p.lines)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		p.lines <- lineResult{line: scanner.Text()}
	}
	if err := scanner.Err(); err != nil {
		p.lines <- lineResult{err: err}
	}
}

// Analyze sends one sentence and collects output lines until a line matches
// the terminator pattern. On timeout the process is killed, since its output
// stream can no longer be aligned with requests.
func (p *Process) Analyze(ctx context.Context, text string) (*domain.MorphemeList, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, fmt.Errorf("%w: analyzer process is not running", domain.ErrConnectionClosed)
	}

	if _, err := io.WriteString(p.stdin, text+"\n"); err != nil {
		return nil, fmt.Errorf("write to analyzer: %w", err)
	}

	var timeout <-chan time.Time
	if p.opts.Timeout > 0 {
		timer := time.NewTimer(p.opts.Timeout)
		defer timer.Stop()
		timeout = timer.C
	}

	var out strings.Builder
	for {
		select {
		case res, ok := <-p.lines:
			if !ok {
				p.closeLocked(false)
				return nil, fmt.Errorf("%w: analyzer process exited", domain.ErrConnectionClosed)
			}
			if res.err != nil {
				return nil, fmt.Errorf("read from analyzer: %w", res.err)
			}
			out.WriteString(res.line)
			out.WriteByte('\n')
			if p.opts.Pattern.MatchString(res.line) {
				return ParseMList(out.String())
			}
		case <-timeout:
			p.closeLocked(true)
			return nil, fmt.Errorf("%w after %s", domain.ErrTimeout, p.opts.Timeout)
		case <-ctx.Done():
			p.closeLocked(true)
			return nil, ctx.Err()
		}
	}
}

// Close stops the analyzer process.
func (p *Process) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closeLocked(false)
}

// closeLocked closes stdin and waits for the process to exit. With kill set,
// or when the process keeps stdout open after EOF, it is killed.
func (p *Process) closeLocked(kill bool) error {
	if p.closed {
		return nil
	}
	p.closed = true
	p.stdin.Close()
	if kill {
		p.cmd.Process.Kill()
	}

	// stdout must be fully read before Wait.
	drained := make(chan struct{})
	go func() {
		for range p.lines {
		}
		close(drained)
	}()

	select {
	case <-drained:
	case <-time.After(2 * time.Second):
		p.cmd.Process.Kill()
		<-drained
	}

	err := p.cmd.Wait()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return nil
	}
	return err
}
