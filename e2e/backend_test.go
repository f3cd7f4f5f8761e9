//go:build e2e && unix

package e2e

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

const (
	testAPIKey  = "test-key"
	testDataset = "test-dataset"
)

type searchRequest struct {
	Query      string `json:"query"`
	SearchType string `json:"search_type"`
}

// fakeBackend answers both search endpoints with hits derived from the query
type fakeBackend struct {
	*httptest.Server

	mu      sync.Mutex
	queries map[string][]string // path -> queries
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	b := &fakeBackend{queries: map[string][]string{}}

	mux := http.NewServeMux()
	mux.HandleFunc("/chunk/search", func(w http.ResponseWriter, r *http.Request) {
		q, ok := b.accept(w, r)
		if !ok {
			return
		}
		writeJSON(w, map[string]any{
			"score_chunks": []any{
				map[string]any{"metadata": []any{chunk("c1", "chunk hit for <b>"+q+"</b>")}},
			},
		})
	})
	mux.HandleFunc("/chunk_group/group_oriented_search", func(w http.ResponseWriter, r *http.Request) {
		q, ok := b.accept(w, r)
		if !ok {
			return
		}
		writeJSON(w, map[string]any{
			"group_chunks": []any{
				map[string]any{
					"group_name": "Guides",
					"metadata": []any{
						map[string]any{"metadata": []any{chunk("g1", "group hit for <b>"+q+"</b>")}},
					},
				},
			},
		})
	})

	b.Server = httptest.NewServer(mux)
	t.Cleanup(b.Close)
	return b
}

func (b *fakeBackend) accept(w http.ResponseWriter, r *http.Request) (string, bool) {
	if r.Header.Get("Authorization") != testAPIKey || r.Header.Get("TR-Dataset") != testDataset {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return "", false
	}
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return "", false
	}

	b.mu.Lock()
	b.queries[r.URL.Path] = append(b.queries[r.URL.Path], req.Query)
	b.mu.Unlock()
	return req.Query, true
}

// Queries returns what was searched on path
func (b *fakeBackend) Queries(path string) []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.queries[path]...)
}

func chunk(id, html string) map[string]any {
	return map[string]any{
		"id":         id,
		"chunk_html": html,
		"link":       "https://docs.example/" + id,
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
