package httpparser_test

import (
	"testing"

	"github.com/d5/node-native/httpparser"
)

func TestHeaderCaseInsensitiveLookup(t *testing.T) {
	h := httpparser.NewHeader()
	h.Add("hOsT", "example:81")

	for _, key := range []string{"HOST", "host", "Host", "hOsT"} {
		if got := h.Get(key); got != "example:81" {
			t.Errorf("Get(%q) = %q, want example:81", key, got)
		}
	}
}

func TestHeaderCombinesRepeatsExceptSetCookie(t *testing.T) {
	h := httpparser.NewHeader()
	h.Add("X-Thing", "a")
	h.Add("X-Thing", "b")
	if got := h.Combined("X-Thing"); got != "a, b" {
		t.Errorf("Combined = %q, want %q", got, "a, b")
	}

	h.Add("Set-Cookie", "a=1")
	h.Add("Set-Cookie", "b=2")
	if got := h.Values("Set-Cookie"); len(got) != 2 {
		t.Errorf("Set-Cookie values = %v, want 2 entries", got)
	}
}

func TestHeaderSetOverwrites(t *testing.T) {
	h := httpparser.NewHeader()
	h.Add("Content-Type", "text/plain")
	h.Set("Content-Type", "application/json")
	if got := h.Get("Content-Type"); got != "application/json" {
		t.Errorf("Get = %q, want application/json", got)
	}
}
