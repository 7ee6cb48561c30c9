package urlparser_test

import (
	"testing"

	"github.com/d5/node-native/urlparser"
)

func TestParseDecomposesPathQueryFragment(t *testing.T) {
	u, err := urlparser.Parse("/a/b?x=1#frag")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.Path != "/a/b" {
		t.Errorf("Path = %q, want /a/b", u.Path)
	}
	if u.Query != "x=1" {
		t.Errorf("Query = %q, want x=1", u.Query)
	}
	if u.Fragment != "frag" {
		t.Errorf("Fragment = %q, want frag", u.Fragment)
	}
}

func TestParseDefaultsSchemaAndPath(t *testing.T) {
	u, err := urlparser.Parse("/")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.Schema != "HTTP" {
		t.Errorf("Schema = %q, want HTTP", u.Schema)
	}
	if u.Path != "/" {
		t.Errorf("Path = %q, want /", u.Path)
	}
}

func TestParseAbsoluteURL(t *testing.T) {
	u, err := urlparser.Parse("http://example.com:8080/x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.Host != "example.com" {
		t.Errorf("Host = %q, want example.com", u.Host)
	}
	if u.Port != 8080 {
		t.Errorf("Port = %d, want 8080", u.Port)
	}
}
