package testutil

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

type fixture struct {
	status int
	body   string
}

// FixtureServer serves canned pages keyed by request URI (path plus query) and
// counts the requests it receives. Unknown URIs answer 404.
type FixtureServer struct {
	*httptest.Server

	mu       sync.Mutex
	fixtures map[string]fixture
	hits     map[string]int
	total    int
}

// NewFixtureServer starts a FixtureServer that is closed when the test ends.
func NewFixtureServer(t testing.TB) *FixtureServer {
	t.Helper()
	s := &FixtureServer{
		fixtures: make(map[string]fixture),
		hits:     make(map[string]int),
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.Close)
	return s
}

// Handle registers body to be served with 200 for requestURI.
func (s *FixtureServer) Handle(requestURI, body string) {
	s.HandleStatus(requestURI, http.StatusOK, body)
}

// HandleStatus registers a response with an explicit status code.
func (s *FixtureServer) HandleStatus(requestURI string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fixtures[requestURI] = fixture{status: status, body: body}
}

// Hits returns how many requests were made for requestURI.
func (s *FixtureServer) Hits(requestURI string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[requestURI]
}

// TotalHits returns the number of requests served, known or not.
func (s *FixtureServer) TotalHits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total
}

func (s *FixtureServer) serve(w http.ResponseWriter, r *http.Request) {
	key := r.URL.RequestURI()

	s.mu.Lock()
	s.hits[key]++
	s.total++
	f, ok := s.fixtures[key]
	s.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(f.status)
	_, _ = w.Write([]byte(f.body))
}
