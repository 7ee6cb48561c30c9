package httpserver_test

import (
	"bufio"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/d5/node-native/httpresponse"
	"github.com/d5/node-native/httpserver"
	"github.com/d5/node-native/node"
	"github.com/d5/node-native/tcp"
)

// TestMinimalGetRoundTrip exercises S2: a client GET / is parsed, handed to
// the handler, and the handler's response crosses the wire in the exact
// format spec.md §6 specifies.
func TestMinimalGetRoundTrip(t *testing.T) {
	srv := httpserver.NewServer()

	var gotMethod, gotPath, gotHost string
	var gotPort int

	errCh := make(chan error, 1)
	go func() {
		errCh <- node.Start(func() {
			err := srv.Listen(tcp.NetAddr{IP: "127.0.0.1", Port: 0}, 16, func(req *httpserver.Request, resp *httpresponse.Response) {
				gotMethod = req.Method()
				gotPath = req.Path()
				gotHost = req.Host()
				gotPort = req.Port()
				resp.SetHeader("Content-Type", "text/plain")
				_, _ = resp.Write([]byte("OK"))
				_ = resp.End(nil)
			})
			if err != nil {
				t.Errorf("Listen: %v", err)
				node.Default().Stop()
				return
			}

			go func() {
				defer node.Default().Stop()

				addr, aerr := srv.Addr()
				if aerr != nil {
					t.Errorf("Addr: %v", aerr)
					return
				}
				conn, derr := net.DialTimeout("tcp", fmt.Sprintf("127.0.0.1:%d", addr.Port), 2*time.Second)
				if derr != nil {
					t.Errorf("Dial: %v", derr)
					return
				}
				defer conn.Close()

				if _, werr := conn.Write([]byte("GET / HTTP/1.1\r\nHost: h\r\n\r\n")); werr != nil {
					t.Errorf("Write: %v", werr)
					return
				}

				reader := bufio.NewReader(conn)
				statusLine, rerr := reader.ReadString('\n')
				if rerr != nil {
					t.Errorf("ReadString: %v", rerr)
					return
				}
				if want := "HTTP/1.1 200 OK\r\n"; statusLine != want {
					t.Errorf("status line = %q, want %q", statusLine, want)
				}
			}()
		})
	}()

	if err := <-errCh; err != nil {
		t.Fatalf("node.Start: %v", err)
	}

	if gotMethod != "GET" || gotPath != "/" || gotHost != "h" || gotPort != 80 {
		t.Errorf("handler saw method=%q path=%q host=%q port=%d, want GET / h 80",
			gotMethod, gotPath, gotHost, gotPort)
	}
}

// TestMalformedRequestClosesWithoutResponse exercises spec.md §7/§9: on a
// parser failure the peer stream is closed and nothing is written back.
func TestMalformedRequestClosesWithoutResponse(t *testing.T) {
	srv := httpserver.NewServer()

	errCh := make(chan error, 1)
	go func() {
		errCh <- node.Start(func() {
			err := srv.Listen(tcp.NetAddr{IP: "127.0.0.1", Port: 0}, 16, func(req *httpserver.Request, resp *httpresponse.Response) {
				t.Error("handler must not run for a malformed request")
			})
			if err != nil {
				t.Errorf("Listen: %v", err)
				node.Default().Stop()
				return
			}

			go func() {
				defer node.Default().Stop()

				addr, aerr := srv.Addr()
				if aerr != nil {
					t.Errorf("Addr: %v", aerr)
					return
				}
				conn, derr := net.DialTimeout("tcp", fmt.Sprintf("127.0.0.1:%d", addr.Port), 2*time.Second)
				if derr != nil {
					t.Errorf("Dial: %v", derr)
					return
				}
				defer conn.Close()

				if _, werr := conn.Write([]byte("NOTAREQUESTLINE\r\n\r\n")); werr != nil {
					t.Errorf("Write: %v", werr)
					return
				}

				buf := make([]byte, 64)
				n, rerr := conn.Read(buf)
				if n != 0 {
					t.Errorf("expected no response bytes on parse failure, got %q", buf[:n])
				}
				if rerr == nil {
					t.Error("expected the connection to close, got a successful read")
				}
			}()
		})
	}()

	if err := <-errCh; err != nil {
		t.Fatalf("node.Start: %v", err)
	}
}
