// Package gogit implements the repository synchronizer with go-git, so a
// run needs no git executable.
package gogit

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/dinjou/inconfluential/internal/core/domain"
	"github.com/dinjou/inconfluential/internal/core/ports/driven"
	"github.com/dinjou/inconfluential/internal/logger"
)

// Ensure Repository implements the interface.
var _ driven.Repository = (*Repository)(nil)

// Default commit identity.
const (
	DefaultAuthorName  = "inconfluential"
	DefaultAuthorEmail = "inconfluential@localhost"
)

// Option configures a Repository.
type Option func(*Repository)

// WithAuthor sets the commit author and committer. Empty values keep the
// defaults.
func WithAuthor(name, email string) Option {
	return func(r *Repository) {
		if name != "" {
			r.authorName = name
		}
		if email != "" {
			r.authorEmail = email
		}
	}
}

// WithClock sets the time source for commit signatures.
func WithClock(now func() time.Time) Option {
	return func(r *Repository) {
		r.now = now
	}
}

// Repository is a git working tree rooted at the export directory.
type Repository struct {
	root        string
	authorName  string
	authorEmail string
	now         func() time.Time
	log         *logger.Logger

	mu   sync.Mutex
	repo *git.Repository
}

// New creates a Repository rooted at root. Nothing touches the disk until
// Ensure is called.
func New(root string, log *logger.Logger, opts ...Option) *Repository {
	r := &Repository{
		root:        root,
		authorName:  DefaultAuthorName,
		authorEmail: DefaultAuthorEmail,
		now:         time.Now,
		log:         log,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Ensure opens the repository at root, initialising it when root has no
// .git directory.
func (r *Repository) Ensure(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, err := r.open()
	return err
}

// open returns the cached repository, opening or initialising it first.
// The caller holds r.mu.
func (r *Repository) open() (*git.Repository, error) {
	if r.repo != nil {
		return r.repo, nil
	}
	if err := os.MkdirAll(r.root, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create %s: %v", domain.ErrRepositoryUnavailable, r.root, err)
	}

	repo, err := git.PlainOpen(r.root)
	switch {
	case err == nil:
		r.log.Info("'%s' is already a Git repository.", r.root)
	case errors.Is(err, git.ErrRepositoryNotExists):
		r.log.Info("Initializing Git repository in '%s'", r.root)
		repo, err = git.PlainInit(r.root, false)
		if err != nil {
			return nil, fmt.Errorf("%w: init %s: %v", domain.ErrRepositoryUnavailable, r.root, err)
		}
	default:
		return nil, fmt.Errorf("%w: open %s: %v", domain.ErrRepositoryUnavailable, r.root, err)
	}
	r.repo = repo
	return repo, nil
}

// Stage adds the file at path to the index. path may be absolute or
// relative to the working directory but must lie inside root.
func (r *Repository) Stage(_ context.Context, path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	repo, err := r.open()
	if err != nil {
		return err
	}
	rel, err := r.relative(path)
	if err != nil {
		return err
	}
	wt, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("worktree: %w", err)
	}
	if _, err := wt.Add(rel); err != nil {
		return fmt.Errorf("git add %s: %w", rel, err)
	}
	r.log.Info("Successfully added '%s' to git staging area", path)
	return nil
}

// Commit records the index as one commit.
func (r *Repository) Commit(_ context.Context, message string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	repo, err := r.open()
	if err != nil {
		return err
	}
	wt, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("worktree: %w", err)
	}

	sig := &object.Signature{Name: r.authorName, Email: r.authorEmail, When: r.now()}
	hash, err := wt.Commit(message, &git.CommitOptions{Author: sig, Committer: sig})
	if err != nil {
		return fmt.Errorf("git commit: %w", err)
	}
	r.log.Info("Committed %s: %s", hash.String()[:7], message)
	return nil
}

func (r *Repository) relative(path string) (string, error) {
	root, err := filepath.Abs(r.root)
	if err != nil {
		return "", fmt.Errorf("resolve root: %w", err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", path, err)
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s is outside %s", domain.ErrInvalidInput, path, root)
	}
	return filepath.ToSlash(rel), nil
}
