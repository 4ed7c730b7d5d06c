package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func FuzzCategoryFromPath(f *testing.F) {
	f.Add("/train/good", "/train/")
	f.Add("/train/good123", "/train/")
	f.Add("/train/good-v2", "/train/")
	f.Add("/train/good_v2", "/train/")
	f.Add("/reviews/bad", "/reviews/")
	f.Add("/train/", "/train/")
	f.Add("/train/with/slash", "/train/")

	f.Fuzz(func(t *testing.T, path string, prefix string) {
		category, ok := categoryFromPath(path, prefix)
		if ok {
			if !categoryPathPattern.MatchString(category) {
				t.Fatalf("category %q accepted but does not match pattern", category)
			}
			if strings.Contains(category, "/") {
				t.Fatalf("category %q accepted but still contains slash", category)
			}
		}
	})
}

func FuzzTrainHandlerBody(f *testing.F) {
	f.Add(http.MethodPost, "the quick brown fox")
	f.Add(http.MethodPost, string(bytes.Repeat([]byte("a"), testMaxBodyBytes()+1)))
	f.Add(http.MethodGet, "ignored")

	f.Fuzz(func(t *testing.T, method string, body string) {
		_, mux := newTestServer(t)
		req, err := http.NewRequest(method, "http://example.com/train/good", strings.NewReader(body))
		if err != nil {
			return
		}
		rr := httptest.NewRecorder()
		mux.ServeHTTP(rr, req)

		switch rr.Code {
		case http.StatusOK, http.StatusMethodNotAllowed, http.StatusBadRequest, http.StatusRequestEntityTooLarge:
			// expected statuses
		default:
			t.Fatalf("unexpected status code %d for method=%q bodyLen=%d", rr.Code, method, len(body))
		}

		if rr.Code != http.StatusOK {
			assertJSONErrorShape(t, rr)
		}
	})
}
