package daemon

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

// The control socket carries one exchange per connection: the client writes
// a single line, COMMAND [arg...], and the server replies with a single line
// of JSON. A failed command is answered with {"error": "..."}.
//
// hotclick understands STATUS, RESOLVE <x> <y> and QUIT.

// controlTimeout bounds one exchange on either side.
const controlTimeout = 3 * time.Second

// ErrServerClosed is returned by Start after Close.
var ErrServerClosed = errors.New("control server closed")

// Request is one parsed command line.
type Request struct {
	Cmd  string
	Args []string
}

// ParseRequest splits line into an upper-cased command and its arguments.
// It reports false for a blank line.
func ParseRequest(line string) (Request, bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Request{}, false
	}
	return Request{Cmd: strings.ToUpper(fields[0]), Args: fields[1:]}, true
}

// String renders the request as it travels on the wire.
func (r Request) String() string {
	return strings.Join(append([]string{r.Cmd}, r.Args...), " ")
}

// Ints parses exactly n integer arguments.
func (r Request) Ints(n int) ([]int, error) {
	if len(r.Args) != n {
		return nil, fmt.Errorf("%s takes %d arguments, got %d", r.Cmd, n, len(r.Args))
	}
	out := make([]int, n)
	for i, a := range r.Args {
		v, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("%s: argument %d: %w", r.Cmd, i+1, err)
		}
		out[i] = v
	}
	return out, nil
}

// Handler answers a request with a JSON-encodable value.
type Handler interface {
	Handle(req Request) (any, error)
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(req Request) (any, error)

// Handle calls f(req).
func (f HandlerFunc) Handle(req Request) (any, error) { return f(req) }

// ControlServer serves the control socket. Unix domain sockets are used on
// every platform, including Windows 10 and later.
type ControlServer struct {
	path    string
	handler Handler

	mu     sync.Mutex
	ln     net.Listener
	closed bool
	wg     sync.WaitGroup
}

// NewControlServer creates a server for the socket at path.
func NewControlServer(path string, h Handler) *ControlServer {
	return &ControlServer{path: path, handler: h}
}

// Start listens on the socket, replacing a stale socket file, and serves in
// the background. The socket is readable by the owner only.
func (s *ControlServer) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrServerClosed
	}
	if s.ln != nil {
		return fmt.Errorf("control server already started on %s", s.path)
	}

	os.Remove(s.path)
	ln, err := net.Listen("unix", s.path)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.path, err)
	}
	if err := os.Chmod(s.path, 0o600); err != nil {
		ln.Close()
		return fmt.Errorf("chmod socket: %w", err)
	}
	s.ln = ln

	s.wg.Add(1)
	go s.serve(ln)
	return nil
}

// Close stops accepting, waits for open exchanges and removes the socket
// file. It is safe to call more than once.
func (s *ControlServer) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	ln := s.ln
	s.mu.Unlock()

	if ln == nil {
		return nil
	}
	err := ln.Close()
	s.wg.Wait()
	os.Remove(s.path)
	return err
}

func (s *ControlServer) serve(ln net.Listener) {
	defer s.wg.Done()
	for {
		conn, err := ln.Accept()
		if err != nil {
			// Closed listener or a transient accept failure; only the
			// former ends the loop.
			s.mu.Lock()
			closed := s.closed
			s.mu.Unlock()
			if closed || errors.Is(err, net.ErrClosed) {
				return
			}
			continue
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.answer(conn)
		}()
	}
}

func (s *ControlServer) answer(conn net.Conn) {
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(controlTimeout))

	sc := bufio.NewScanner(conn)
	if !sc.Scan() {
		return
	}
	req, ok := ParseRequest(sc.Text())
	if !ok {
		return
	}

	enc := json.NewEncoder(conn)
	reply, err := s.handle(req)
	if err != nil {
		enc.Encode(errorReply{Error: err.Error()})
		return
	}
	if err := enc.Encode(reply); err != nil {
		enc.Encode(errorReply{Error: "encode reply: " + err.Error()})
	}
}

// handle shields the server from a panicking handler.
func (s *ControlServer) handle(req Request) (reply any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%s failed: %v", req.Cmd, rec)
		}
	}()
	return s.handler.Handle(req)
}

type errorReply struct {
	Error string `json:"error"`
}

// ControlClient talks to a running listener.
type ControlClient struct {
	path string
}

// NewControlClient creates a client for the socket at path.
func NewControlClient(path string) *ControlClient {
	return &ControlClient{path: path}
}

// Raw sends one command line and returns the reply line unparsed.
func (c *ControlClient) Raw(line string) (string, error) {
	conn, err := net.DialTimeout("unix", c.path, controlTimeout)
	if err != nil {
		return "", fmt.Errorf("connect to listener: %w", err)
	}
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(controlTimeout))

	if _, err := fmt.Fprintf(conn, "%s\n", line); err != nil {
		return "", fmt.Errorf("send command: %w", err)
	}

	sc := bufio.NewScanner(conn)
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return "", fmt.Errorf("read reply: %w", err)
		}
		return "", errors.New("listener closed the connection without replying")
	}
	return sc.Text(), nil
}

// Call sends cmd with args and decodes the reply into v, which may be nil.
// An error reply is returned as an error.
func (c *ControlClient) Call(v any, cmd string, args ...string) error {
	req := Request{Cmd: strings.ToUpper(cmd), Args: args}
	line, err := c.Raw(req.String())
	if err != nil {
		return err
	}

	var failure errorReply
	if json.Unmarshal([]byte(line), &failure) == nil && failure.Error != "" {
		return fmt.Errorf("%s: %s", strings.ToLower(req.Cmd), failure.Error)
	}
	if v == nil {
		return nil
	}
	if err := json.Unmarshal([]byte(line), v); err != nil {
		return fmt.Errorf("decode %s reply: %w", strings.ToLower(req.Cmd), err)
	}
	return nil
}
