package testutil

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
)

// SourceServer serves source lists and their signatures.
type SourceServer struct {
	*httptest.Server

	mu    sync.Mutex
	files map[string][]byte
	hits  map[string]int
	agent string
}

// NewSourceServer starts a server that is closed with the test.
func NewSourceServer(t *testing.T) *SourceServer {
	t.Helper()

	s := &SourceServer{
		files: make(map[string][]byte),
		hits:  make(map[string]int),
	}

	r := chi.NewRouter()
	r.Get("/*", s.serve)
	s.Server = httptest.NewServer(r)
	t.Cleanup(s.Close)

	return s
}

func (s *SourceServer) serve(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	data, ok := s.files[r.URL.Path]
	s.hits[r.URL.Path]++
	s.agent = r.UserAgent()
	s.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/markdown")
	_, _ = w.Write(data)
}

// Put serves data at path.
func (s *SourceServer) Put(path string, data []byte) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[path] = data
	return s.URL + path
}

// Publish serves data at path and its signature at path.minisig.
func (s *SourceServer) Publish(path string, data []byte, signer *Signer) string {
	s.Put(path+".minisig", signer.Sign(data))
	return s.Put(path, data)
}

// Hits returns how often path was requested.
func (s *SourceServer) Hits(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[path]
}

// LastUserAgent returns the User-Agent of the latest request.
func (s *SourceServer) LastUserAgent() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.agent
}
