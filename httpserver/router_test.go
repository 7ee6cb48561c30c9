package httpserver

import (
	"testing"

	"github.com/d5/node-native/handle"
	"github.com/d5/node-native/httpparser"
	"github.com/d5/node-native/httpresponse"
	"github.com/d5/node-native/urlparser"
)

type recordingWriter struct{ data []byte }

func (w *recordingWriter) Write(data []byte, onComplete handle.CompleteCallback) error {
	w.data = append(w.data, data...)
	return nil
}

func newTestRequest(method, path string) *Request {
	result := &httpparser.HTTPParseResult{
		Method:  method,
		Headers: httpparser.NewHeader(),
	}
	url, err := urlparser.Parse(path)
	if err != nil {
		panic(err)
	}
	result.URL = url
	return newRequest(result)
}

func TestRouterMatchesParamSegment(t *testing.T) {
	router := NewRouter()
	var gotID string
	router.Handle("GET", "/users/:id", func(req *Request, resp *httpresponse.Response) {
		gotID = req.Param("id")
		resp.SetStatus(200)
		_ = resp.End(nil)
	})

	req := newTestRequest("GET", "/users/42")
	resp := httpresponse.New(&recordingWriter{})
	router.asHandler()(req, resp)

	if gotID != "42" {
		t.Errorf("Param(id) = %q, want 42", gotID)
	}
}

func TestRouterRoutesListsRegistrationOrder(t *testing.T) {
	router := NewRouter()
	router.Handle("GET", "/users/:id", func(req *Request, resp *httpresponse.Response) {})
	router.Handle("POST", "/users", func(req *Request, resp *httpresponse.Response) {})

	got := router.Routes()
	want := []string{"GET /users/:id", "POST /users"}
	if len(got) != len(want) {
		t.Fatalf("Routes() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Routes()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestRouterNoMatchResponds404(t *testing.T) {
	router := NewRouter()
	req := newTestRequest("GET", "/missing")
	w := &recordingWriter{}
	resp := httpresponse.New(w)
	router.asHandler()(req, resp)

	if len(w.data) == 0 {
		t.Fatal("expected a response to be written for an unmatched route")
	}
	wantPrefix := "HTTP/1.1 404"
	if string(w.data[:len(wantPrefix)]) != wantPrefix {
		t.Errorf("wire bytes = %q, want prefix %q", w.data, wantPrefix)
	}
}
