package helpers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
)

// Movie is one entry of a mock upstream listing
type Movie struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
}

// MockUpstream is an HTTP listing source whose payload and health can be
// changed between requests
type MockUpstream struct {
	*httptest.Server

	mu     sync.Mutex
	movies map[string][]Movie
	status int
	calls  atomic.Int64
}

// NewMockUpstream starts an upstream serving /3/movie/{category} in the
// {"page":1,"results":[...]} shape
func NewMockUpstream() *MockUpstream {
	u := &MockUpstream{movies: map[string][]Movie{}, status: http.StatusOK}
	u.Server = httptest.NewServer(http.HandlerFunc(u.serve))
	return u
}

func (u *MockUpstream) serve(w http.ResponseWriter, r *http.Request) {
	u.calls.Add(1)

	var category string
	if _, err := fmt.Sscanf(r.URL.Path, "/3/movie/%s", &category); err != nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	u.mu.Lock()
	status := u.status
	movies, ok := u.movies[category]
	u.mu.Unlock()

	if status != http.StatusOK {
		w.WriteHeader(status)
		return
	}
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"page": 1, "results": movies})
}

// SetMovies replaces the listing served for category
func (u *MockUpstream) SetMovies(category string, movies ...Movie) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.movies[category] = movies
}

// SetStatus makes every request answer with status, or serve listings again
// when status is http.StatusOK
func (u *MockUpstream) SetStatus(status int) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.status = status
}

// Calls returns the number of requests received
func (u *MockUpstream) Calls() int64 {
	return u.calls.Load()
}

// Endpoint returns the listing URL of category
func (u *MockUpstream) Endpoint(category string) string {
	return u.URL + "/3/movie/" + category
}
