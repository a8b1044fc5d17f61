package store

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"
	"sync"
	"testing"
)

// authServer speaks just enough RESP for a client handshake: AUTH must carry
// the expected password and PING answers PONG.
type authServer struct {
	ln       net.Listener
	password string

	mu   sync.Mutex
	auth []string
}

func newAuthServer(t *testing.T, password string) *authServer {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	s := &authServer{ln: ln, password: password}
	t.Cleanup(func() { _ = ln.Close() })
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go s.serve(conn)
		}
	}()
	return s
}

func (s *authServer) serve(conn net.Conn) {
	defer conn.Close()
	r := bufio.NewReader(conn)
	authed := s.password == ""
	for {
		args, err := readCommand(r)
		if err != nil {
			return
		}
		var reply string
		switch strings.ToUpper(args[0]) {
		case "AUTH":
			pw := args[len(args)-1]
			s.mu.Lock()
			s.auth = append(s.auth, pw)
			s.mu.Unlock()
			if pw == s.password {
				authed = true
				reply = "+OK\r\n"
			} else {
				reply = "-WRONGPASS invalid password\r\n"
			}
		case "PING":
			if authed {
				reply = "+PONG\r\n"
			} else {
				reply = "-NOAUTH Authentication required.\r\n"
			}
		default:
			reply = "+OK\r\n"
		}
		if _, err := conn.Write([]byte(reply)); err != nil {
			return
		}
	}
}

func readCommand(r *bufio.Reader) ([]string, error) {
	line, err := r.ReadString('\n')
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(line, "*") {
		return nil, fmt.Errorf("unexpected %q", line)
	}
	n, err := strconv.Atoi(strings.TrimSpace(line[1:]))
	if err != nil || n < 1 {
		return nil, fmt.Errorf("bad array header %q", line)
	}
	args := make([]string, 0, n)
	for i := 0; i < n; i++ {
		if _, err := r.ReadString('\n'); err != nil {
			return nil, err
		}
		arg, err := r.ReadString('\n')
		if err != nil {
			return nil, err
		}
		args = append(args, strings.TrimRight(arg, "\r\n"))
	}
	return args, nil
}

func (s *authServer) passwords() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.auth...)
}

func TestRedisPasswordForwarded(t *testing.T) {
	srv := newAuthServer(t, "secret")
	st, err := Open(context.Background(), "redis://"+srv.ln.Addr().String(), "secret")
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()
	got := srv.passwords()
	if len(got) == 0 || got[0] != "secret" {
		t.Fatalf("AUTH passwords = %v", got)
	}
}

func TestRedisWrongPassword(t *testing.T) {
	srv := newAuthServer(t, "secret")
	if _, err := Open(context.Background(), "redis://"+srv.ln.Addr().String(), ""); err == nil {
		t.Fatal("ping succeeded without the password")
	}
}
