package jumanpp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"regexp"
	"strconv"
	"syscall"
	"time"
	"unicode/utf8"

	"jumanpp/internal/domain"
	"jumanpp/internal/logger"
)

// DefaultPort is the port a Juman++ server listens on by default.
const DefaultPort = 12000

const recvChunkSize = 1024

// asciiSpace matches the whitespace stripped from both the request line and
// the accumulated response. Full-width spaces are content, not padding.
const asciiSpace = " \t\n\r\v\f"

// Client is a line-protocol client for a Juman++ analyzer server. It owns
// one TCP connection; queries must not be issued concurrently.
type Client struct {
	conn   net.Conn
	host   string
	port   int
	log    logger.Logger
	closed bool

	// ReadTimeout bounds each Query when the context has no deadline.
	// Zero means a query blocks until the terminator arrives.
	ReadTimeout time.Duration
}

// Dial connects to the analyzer server at host:port. A refused connection is
// reported as domain.ErrConnectionRefused; any other dial error is returned
// unchanged. A non-empty option is sent once right after connecting.
func Dial(ctx context.Context, host string, port int, option []byte, log logger.Logger) (*Client, error) {
	if log == nil {
		log = logger.Discard()
	}

	var d net.Dialer
	addr := net.JoinHostPort(host, strconv.Itoa(port))
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		if errors.Is(err, syscall.ECONNREFUSED) {
			return nil, fmt.Errorf("there is no jumanpp server hostname=%s, port=%d: %w", host, port, domain.ErrConnectionRefused)
		}
		return nil, err
	}

	c := &Client{conn: conn, host: host, port: port, log: log.With("server", addr)}
	if len(option) > 0 {
		if _, err := conn.Write(option); err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to send option: %w", err)
		}
	}

	c.log.Debug("connected to analyzer server")
	return c, nil
}

// Query sends sentence as one line and reads until pattern matches the
// accumulated response. The response is returned stripped and decoded.
func (c *Client) Query(ctx context.Context, sentence string, pattern *regexp.Regexp) (string, error) {
	if !utf8.ValidString(sentence) {
		return "", fmt.Errorf("%w: sentence is not valid UTF-8 text", domain.ErrInvalidInput)
	}
	if pattern == nil {
		return "", fmt.Errorf("%w: terminator pattern is nil", domain.ErrInvalidInput)
	}

	if c.closed {
		return "", fmt.Errorf("%w: connection to %s was closed", domain.ErrConnectionClosed, c.Addr())
	}

	if err := c.setDeadline(ctx); err != nil {
		return "", err
	}

	// Unblock a pending read when ctx is cancelled.
	cancelled := make(chan struct{})
	stop := context.AfterFunc(ctx, func() {
		c.conn.SetDeadline(time.Unix(1, 0))
		close(cancelled)
	})
	defer func() {
		if !stop() {
			<-cancelled
		}
		c.conn.SetDeadline(time.Time{})
	}()

	line := make([]byte, 0, len(sentence)+1)
	line = append(line, bytes.Trim([]byte(sentence), asciiSpace)...)
	line = append(line, '\n')
	if _, err := c.conn.Write(line); err != nil {
		c.abort()
		return "", c.wrapIOError(ctx, "send", err)
	}

	var (
		recv  []byte
		chunk = make([]byte, recvChunkSize)
		reads int
	)
	for {
		n, err := c.conn.Read(chunk)
		if n > 0 {
			recv = append(recv, chunk[:n]...)
			reads++
			if pattern.Match(recv) {
				break
			}
		}
		if err != nil {
			// A reply still in flight would be read as the answer to the
			// next sentence, so the connection cannot be reused.
			c.abort()
			if errors.Is(err, io.EOF) {
				return "", fmt.Errorf("%w: received %d bytes without terminator", domain.ErrConnectionClosed, len(recv))
			}
			return "", c.wrapIOError(ctx, "receive", err)
		}
	}

	c.log.Debug("query answered", "bytes", len(recv), "reads", reads)
	return string(bytes.Trim(recv, asciiSpace)), nil
}

// Close closes the connection. Later queries return
// domain.ErrConnectionClosed.
func (c *Client) Close() error {
	if c == nil || c.conn == nil || c.closed {
		return nil
	}
	c.closed = true
	return c.conn.Close()
}

// abort closes the connection after a failed exchange.
func (c *Client) abort() {
	if err := c.Close(); err != nil {
		c.log.Debug("close after failed query", "error", err)
	}
	c.log.Warn("analyzer connection closed after failed query")
}

// Addr returns host:port of the server.
func (c *Client) Addr() string {
	return net.JoinHostPort(c.host, strconv.Itoa(c.port))
}

func (c *Client) setDeadline(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if dl, ok := ctx.Deadline(); ok {
		return c.conn.SetDeadline(dl)
	}
	if c.ReadTimeout > 0 {
		return c.conn.SetDeadline(time.Now().Add(c.ReadTimeout))
	}
	return nil
}

func (c *Client) wrapIOError(ctx context.Context, op string, err error) error {
	if errors.Is(err, os.ErrDeadlineExceeded) {
		if ctx.Err() != nil {
			return fmt.Errorf("%s: %w", op, ctx.Err())
		}
		return fmt.Errorf("%s: %w", op, domain.ErrTimeout)
	}
	return fmt.Errorf("%s: %w", op, err)
}
