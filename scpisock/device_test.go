package scpisock

import (
	"bufio"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Martinxux/SCPI-Command-Sender/logger"
)

// fakeDevice is a scripted SCPI endpoint listening on a loopback port.
//
// The respond function decides, per received line, whether to write a
// response; closeOn decides whether to close the connection after the line.
type fakeDevice struct {
	t       *testing.T
	ln      net.Listener
	respond func(line string) (string, bool)
	closeOn func(line string) bool

	mu    sync.Mutex
	lines []string
}

func startFakeDevice(t *testing.T, respond func(line string) (string, bool)) *fakeDevice {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	d := &fakeDevice{t: t, ln: ln, respond: respond}
	go d.serve()

	t.Cleanup(func() { _ = ln.Close() })

	return d
}

func (d *fakeDevice) serve() {
	for {
		conn, err := d.ln.Accept()
		if err != nil {
			return
		}
		go d.handle(conn)
	}
}

func (d *fakeDevice) handle(conn net.Conn) {
	defer conn.Close()

	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		line := scanner.Text()

		d.mu.Lock()
		d.lines = append(d.lines, line)
		d.mu.Unlock()

		if d.closeOn != nil && d.closeOn(line) {
			return
		}
		if d.respond == nil {
			continue
		}
		if resp, ok := d.respond(line); ok {
			if _, err := conn.Write([]byte(resp + "\n")); err != nil {
				return
			}
		}
	}
}

func (d *fakeDevice) port() int {
	return d.ln.Addr().(*net.TCPAddr).Port
}

func (d *fakeDevice) lineCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	return len(d.lines)
}

func (d *fakeDevice) receivedLines() []string {
	d.mu.Lock()
	defer d.mu.Unlock()

	return append([]string(nil), d.lines...)
}

// waitLineCount waits until the device received at least n lines.
func (d *fakeDevice) waitLineCount(n int, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if d.lineCount() >= n {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}

	return d.lineCount() >= n
}

// echoQuery replies "ok:<line>" to query commands and stays silent otherwise.
func echoQuery(line string) (string, bool) {
	if strings.HasSuffix(strings.TrimSpace(line), "?") {
		return "ok:" + line, true
	}

	return "", false
}

// silent never responds, regardless of command kind.
func silent(string) (string, bool) { return "", false }

func quietLogger() logger.Logger {
	return logger.NewSlog(logger.FatalLevel, false)
}
