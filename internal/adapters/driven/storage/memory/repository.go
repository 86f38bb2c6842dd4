package memory

import (
	"context"
	"sync"

	"github.com/dinjou/inconfluential/internal/core/ports/driven"
)

// Ensure Repository implements the interface.
var _ driven.Repository = (*Repository)(nil)

// Repository is an in-memory implementation of driven.Repository for
// testing. Each commit records the paths staged since the previous one.
type Repository struct {
	mu      sync.Mutex
	ensured int
	staged  []string
	commits []Commit

	// Err, when set, is returned by every operation.
	Err error
}

// Commit is one recorded commit.
type Commit struct {
	Message string
	Paths   []string
}

// NewRepository creates a new in-memory repository.
func NewRepository() *Repository {
	return &Repository{}
}

// Ensure records that the repository was prepared.
func (r *Repository) Ensure(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.ensured++
	return nil
}

// Stage records path for the next commit.
func (r *Repository) Stage(_ context.Context, path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.staged = append(r.staged, path)
	return nil
}

// Commit records the staged paths under message.
func (r *Repository) Commit(_ context.Context, message string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.commits = append(r.commits, Commit{Message: message, Paths: r.staged})
	r.staged = nil
	return nil
}

// Ensured returns how many times Ensure succeeded.
func (r *Repository) Ensured() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ensured
}

// Staged returns the paths staged since the last commit.
func (r *Repository) Staged() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.staged...)
}

// Commits returns all recorded commits.
func (r *Repository) Commits() []Commit {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Commit(nil), r.commits...)
}
