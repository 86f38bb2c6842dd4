package memory

import (
	"bytes"
	"sort"
	"sync"

	"github.com/dinjou/inconfluential/internal/core/ports/driven"
)

// Ensure DocumentStore implements the interface.
var _ driven.DocumentWriter = (*DocumentStore)(nil)

// DocumentStore is an in-memory implementation of driven.DocumentWriter
// for testing.
type DocumentStore struct {
	mu     sync.RWMutex
	files  map[string][]byte
	writes int
}

// NewDocumentStore creates a new in-memory document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		files: make(map[string][]byte),
	}
}

// WriteIfChanged stores content under path unless identical bytes are
// already stored.
func (s *DocumentStore) WriteIfChanged(path string, content []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.files[path]; ok && bytes.Equal(existing, content) {
		return false
	}
	s.files[path] = bytes.Clone(content)
	s.writes++
	return true
}

// Get returns the stored content for path.
func (s *DocumentStore) Get(path string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	content, ok := s.files[path]
	return content, ok
}

// Paths returns the stored paths in sorted order.
func (s *DocumentStore) Paths() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	paths := make([]string, 0, len(s.files))
	for p := range s.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Writes returns how many writes happened.
func (s *DocumentStore) Writes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.writes
}
