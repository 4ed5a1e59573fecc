package jumanpp

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jumanpp/internal/domain"
)

// fakeServer accepts one connection and answers each request line with
// reply(line), written in pieces of at most chunk bytes.
type fakeServer struct {
	ln       net.Listener
	received chan string
}

func startFakeServer(t *testing.T, chunk int, reply func(line string) string) *fakeServer {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	s := &fakeServer{ln: ln, received: make(chan string, 16)}
	t.Cleanup(func() { ln.Close() })

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		r := bufio.NewReader(conn)
		for {
			line, err := r.ReadString('\n')
			if err != nil {
				return
			}
			s.received <- line
			out := []byte(reply(strings.TrimSuffix(line, "\n")))
			for len(out) > 0 {
				n := chunk
				if n > len(out) {
					n = len(out)
				}
				if _, err := conn.Write(out[:n]); err != nil {
					return
				}
				out = out[n:]
				time.Sleep(2 * time.Millisecond)
			}
		}
	}()
	return s
}

func (s *fakeServer) port() int {
	return s.ln.Addr().(*net.TCPAddr).Port
}

func nounLines(word string, n int) string {
	var sb strings.Builder
	for i := 0; i < n; i++ {
		fmt.Fprintf(&sb, "%s %s %s 名詞 6 普通名詞 1 * 0 * 0 \"代表表記:%s/%s\"\n", word, word, word, word, word)
	}
	return sb.String()
}

func TestClient_QueryAccumulatesPartialReads(t *testing.T) {
	body := nounLines("すもも", 40)
	require.Greater(t, len(body), recvChunkSize)

	srv := startFakeServer(t, 100, func(string) string { return "\n" + body + "EOS\n" })
	c, err := Dial(context.Background(), "127.0.0.1", srv.port(), nil, nil)
	require.NoError(t, err)
	defer c.Close()

	resp, err := c.Query(context.Background(), "  すもももももももものうち \n", regexp.MustCompile("EOS"))
	require.NoError(t, err)

	assert.Equal(t, "すもももももももものうち\n", <-srv.received)
	assert.Equal(t, strings.TrimSpace(body+"EOS"), resp)

	list, err := ParseMList(resp)
	require.NoError(t, err)
	assert.Equal(t, 40, list.Len())
}

func TestClient_SequentialQueries(t *testing.T) {
	srv := startFakeServer(t, 7, func(line string) string { return nounLines(line, 1) + "EOS\n" })
	c, err := Dial(context.Background(), "127.0.0.1", srv.port(), nil, nil)
	require.NoError(t, err)
	defer c.Close()

	for _, word := range []string{"犬", "猫", "鳥"} {
		resp, err := c.Query(context.Background(), word, regexp.MustCompile("EOS"))
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(resp, word+" "), resp)
	}
}

func TestClient_KeepsFullWidthSpace(t *testing.T) {
	srv := startFakeServer(t, 64, func(string) string { return "EOS\n" })
	c, err := Dial(context.Background(), "127.0.0.1", srv.port(), nil, nil)
	require.NoError(t, err)
	defer c.Close()

	_, err = c.Query(context.Background(), "　犬　 ", regexp.MustCompile("EOS"))
	require.NoError(t, err)
	assert.Equal(t, "　犬　\n", <-srv.received)
}

func TestClient_SendsOption(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	got := make(chan string, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		line, _ := bufio.NewReader(conn).ReadString('\n')
		got <- line
	}()

	c, err := Dial(context.Background(), "127.0.0.1", ln.Addr().(*net.TCPAddr).Port, []byte("RUN -e2\n"), nil)
	require.NoError(t, err)
	defer c.Close()

	select {
	case line := <-got:
		assert.Equal(t, "RUN -e2\n", line)
	case <-time.After(2 * time.Second):
		t.Fatal("option payload not received")
	}
}

func TestDial_ConnectionRefused(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	ln.Close()

	_, err = Dial(context.Background(), "127.0.0.1", port, nil, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConnectionRefused))
	assert.Contains(t, err.Error(), "hostname=127.0.0.1")
	assert.Contains(t, err.Error(), fmt.Sprintf("port=%d", port))
}

func TestClient_InvalidUTF8(t *testing.T) {
	srv := startFakeServer(t, 64, func(string) string { return "EOS\n" })
	c, err := Dial(context.Background(), "127.0.0.1", srv.port(), nil, nil)
	require.NoError(t, err)
	defer c.Close()

	_, err = c.Query(context.Background(), "\xff\xfe", regexp.MustCompile("EOS"))
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestClient_ServerClosesBeforeTerminator(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		bufio.NewReader(conn).ReadString('\n')
		conn.Write([]byte("すもも すもも すもも 名詞 6 普通名詞 1 * 0 * 0 NIL\n"))
		conn.Close()
	}()

	c, err := Dial(context.Background(), "127.0.0.1", ln.Addr().(*net.TCPAddr).Port, nil, nil)
	require.NoError(t, err)
	defer c.Close()

	_, err = c.Query(context.Background(), "すもも", regexp.MustCompile("EOS"))
	assert.True(t, errors.Is(err, domain.ErrConnectionClosed))
}

func TestClient_ReadTimeout(t *testing.T) {
	srv := startFakeServer(t, 64, func(string) string { return "no terminator here\n" })
	c, err := Dial(context.Background(), "127.0.0.1", srv.port(), nil, nil)
	require.NoError(t, err)
	defer c.Close()
	c.ReadTimeout = 100 * time.Millisecond

	_, err = c.Query(context.Background(), "犬", regexp.MustCompile("EOS"))
	assert.True(t, errors.Is(err, domain.ErrTimeout))
}

func TestClient_ContextCancel(t *testing.T) {
	srv := startFakeServer(t, 64, func(string) string { return "" })
	c, err := Dial(context.Background(), "127.0.0.1", srv.port(), nil, nil)
	require.NoError(t, err)
	defer c.Close()

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(50*time.Millisecond, cancel)

	_, err = c.Query(ctx, "犬", regexp.MustCompile("EOS"))
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestClient_TimedOutQueryClosesConnection(t *testing.T) {
	var calls int
	srv := startFakeServer(t, 64, func(line string) string {
		calls++
		if calls == 1 {
			time.Sleep(300 * time.Millisecond)
		}
		return nounLines(line, 1) + "EOS\n"
	})
	c, err := Dial(context.Background(), "127.0.0.1", srv.port(), nil, nil)
	require.NoError(t, err)
	defer c.Close()
	c.ReadTimeout = 100 * time.Millisecond

	_, err = c.Query(context.Background(), "犬", regexp.MustCompile("EOS"))
	require.True(t, errors.Is(err, domain.ErrTimeout), err)

	time.Sleep(300 * time.Millisecond)
	resp, err := c.Query(context.Background(), "猫", regexp.MustCompile("EOS"))
	assert.True(t, errors.Is(err, domain.ErrConnectionClosed), err)
	assert.Empty(t, resp)
}

func TestClient_CancelledQueryClosesConnection(t *testing.T) {
	srv := startFakeServer(t, 64, func(string) string { return "" })
	c, err := Dial(context.Background(), "127.0.0.1", srv.port(), nil, nil)
	require.NoError(t, err)
	defer c.Close()

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(50*time.Millisecond, cancel)
	_, err = c.Query(ctx, "犬", regexp.MustCompile("EOS"))
	require.True(t, errors.Is(err, context.Canceled), err)

	_, err = c.Query(context.Background(), "猫", regexp.MustCompile("EOS"))
	assert.True(t, errors.Is(err, domain.ErrConnectionClosed), err)
}

func TestClient_CancelAfterReplyKeepsConnection(t *testing.T) {
	srv := startFakeServer(t, 64, func(line string) string { return nounLines(line, 1) + "EOS\n" })
	c, err := Dial(context.Background(), "127.0.0.1", srv.port(), nil, nil)
	require.NoError(t, err)
	defer c.Close()

	ctx, cancel := context.WithCancel(context.Background())
	_, err = c.Query(ctx, "犬", regexp.MustCompile("EOS"))
	require.NoError(t, err)
	cancel()

	resp, err := c.Query(context.Background(), "猫", regexp.MustCompile("EOS"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(resp, "猫 "), resp)
}

func TestSocketAnalyzer(t *testing.T) {
	srv := startFakeServer(t, 16, func(line string) string { return nounLines(line, 2) + "EOS\n" })
	c, err := Dial(context.Background(), "127.0.0.1", srv.port(), nil, nil)
	require.NoError(t, err)

	a := NewSocketAnalyzer(c, regexp.MustCompile("EOS"))
	defer a.Close()

	list, err := a.Analyze(context.Background(), "犬")
	require.NoError(t, err)
	require.Equal(t, 2, list.Len())
	assert.Equal(t, "犬/犬", list.Morphemes[0].RepName)
}
