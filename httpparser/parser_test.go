package httpparser_test

import (
	"testing"

	"github.com/d5/node-native/api"
	"github.com/d5/node-native/httpparser"
)

func parseWhole(t *testing.T, chunks [][]byte) (*httpparser.HTTPParseResult, *api.Error) {
	t.Helper()
	var result *httpparser.HTTPParseResult
	var parseErr *api.Error
	ctx := httpparser.NewHTTPParserContext(func(r *httpparser.HTTPParseResult, e *api.Error) {
		result = r
		parseErr = e
	})
	for _, c := range chunks {
		if err := ctx.Execute(c); err != nil {
			return nil, err
		}
		if ctx.Done() {
			break
		}
	}
	return result, parseErr
}

const minimalGet = "GET / HTTP/1.1\r\nHost: h\r\n\r\n"

func TestMinimalGetRequest(t *testing.T) {
	result, err := parseWhole(t, [][]byte{[]byte(minimalGet)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Method != "GET" {
		t.Errorf("Method = %q, want GET", result.Method)
	}
	if result.URL.Path != "/" {
		t.Errorf("Path = %q, want /", result.URL.Path)
	}
	if result.Host != "h" {
		t.Errorf("Host = %q, want h", result.Host)
	}
	if result.Port != 80 {
		t.Errorf("Port = %d, want 80", result.Port)
	}
	if result.Major != 1 || result.Minor != 1 {
		t.Errorf("version = %d.%d, want 1.1", result.Major, result.Minor)
	}
	if len(result.Body) != 0 {
		t.Errorf("Body = %v, want empty", result.Body)
	}
}

func TestSplitCallbackRobustness(t *testing.T) {
	whole, werr := parseWhole(t, [][]byte{[]byte(minimalGet)})
	if werr != nil {
		t.Fatalf("whole-chunk parse failed: %v", werr)
	}

	raw := []byte(minimalGet)
	for n := 1; n <= len(raw); n++ {
		var chunks [][]byte
		for i := 0; i < len(raw); i += n {
			end := i + n
			if end > len(raw) {
				end = len(raw)
			}
			chunks = append(chunks, raw[i:end])
		}
		got, err := parseWhole(t, chunks)
		if err != nil {
			t.Fatalf("chunk size %d: unexpected error: %v", n, err)
		}
		if got.Method != whole.Method || got.Host != whole.Host || got.Port != whole.Port {
			t.Errorf("chunk size %d: result diverged: %+v vs %+v", n, got, whole)
		}
	}
}

func TestCaseInsensitiveHostHeaderDerivesHostPort(t *testing.T) {
	raw := "GET /a/b?x=1#frag HTTP/1.1\r\nhOsT: example:81\r\n\r\n"
	result, err := parseWhole(t, [][]byte{[]byte(raw)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := result.Headers.Get("HOST"); got != "example:81" {
		t.Errorf("Headers.Get(HOST) = %q, want example:81", got)
	}
	if result.Host != "example" || result.Port != 81 {
		t.Errorf("host/port = %s:%d, want example:81", result.Host, result.Port)
	}
	if result.URL.Path != "/a/b" || result.URL.Query != "x=1" || result.URL.Fragment != "frag" {
		t.Errorf("URL decomposition wrong: %+v", result.URL)
	}
}

func TestChunkedTransferEncodingRejected(t *testing.T) {
	raw := "POST / HTTP/1.1\r\nHost: h\r\nTransfer-Encoding: chunked\r\n\r\n"
	_, err := parseWhole(t, [][]byte{[]byte(raw)})
	if err == nil {
		t.Fatal("expected error for chunked Transfer-Encoding, got nil")
	}
}

func TestBodyReadByContentLength(t *testing.T) {
	raw := "POST / HTTP/1.1\r\nHost: h\r\nContent-Length: 5\r\n\r\nHELLO"
	result, err := parseWhole(t, [][]byte{[]byte(raw)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(result.Body) != "HELLO" {
		t.Errorf("Body = %q, want HELLO", result.Body)
	}
}

func TestIncompleteRequestNeverCompletes(t *testing.T) {
	ctx := httpparser.NewHTTPParserContext(func(*httpparser.HTTPParseResult, *api.Error) {
		t.Fatal("onComplete must not fire for an incomplete request")
	})
	if err := ctx.Execute([]byte("GET / HTTP/1.1\r\nHos")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ctx.Done() {
		t.Error("Done() = true, want false for an incomplete request")
	}
}
