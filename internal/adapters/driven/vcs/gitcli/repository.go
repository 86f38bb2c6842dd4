// Package gitcli implements the repository synchronizer by running the git
// executable.
package gitcli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/dinjou/inconfluential/internal/core/domain"
	"github.com/dinjou/inconfluential/internal/core/ports/driven"
	"github.com/dinjou/inconfluential/internal/logger"
)

// Ensure Repository implements the interface.
var _ driven.Repository = (*Repository)(nil)

// DefaultBinary is the git executable looked up on PATH.
const DefaultBinary = "git"

// CommandError is returned when git exits unsuccessfully.
type CommandError struct {
	Args     []string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *CommandError) Error() string {
	msg := strings.TrimSpace(e.Stderr)
	if msg == "" {
		msg = e.Err.Error()
	}
	return fmt.Sprintf("git %s: exit %d: %s", strings.Join(e.Args, " "), e.ExitCode, msg)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// runFunc runs git with args in dir and returns its standard output.
type runFunc func(ctx context.Context, dir string, args ...string) (string, error)

// Option configures a Repository.
type Option func(*Repository)

// WithBinary sets the git executable.
func WithBinary(path string) Option {
	return func(r *Repository) {
		if path != "" {
			r.binary = path
		}
	}
}

// WithAuthor passes user.name and user.email to commits, overriding the
// git configuration. Empty values leave the configuration in charge.
func WithAuthor(name, email string) Option {
	return func(r *Repository) {
		r.authorName = name
		r.authorEmail = email
	}
}

// Repository runs git commands in the export directory.
type Repository struct {
	root        string
	binary      string
	authorName  string
	authorEmail string
	log         *logger.Logger
	run         runFunc
}

// New creates a Repository rooted at root.
func New(root string, log *logger.Logger, opts ...Option) *Repository {
	r := &Repository{
		root:   root,
		binary: DefaultBinary,
		log:    log,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.run == nil {
		r.run = r.exec
	}
	return r
}

// Available reports whether the git executable can be found.
func Available(binary string) bool {
	if binary == "" {
		binary = DefaultBinary
	}
	_, err := exec.LookPath(binary)
	return err == nil
}

// Ensure runs git init when root has no .git directory.
func (r *Repository) Ensure(ctx context.Context) error {
	info, err := os.Stat(filepath.Join(r.root, ".git"))
	if err == nil && info.IsDir() {
		r.log.Info("'%s' is already a Git repository.", r.root)
		return nil
	}
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %v", domain.ErrRepositoryUnavailable, err)
	}

	if err := os.MkdirAll(r.root, 0o755); err != nil {
		return fmt.Errorf("%w: create %s: %v", domain.ErrRepositoryUnavailable, r.root, err)
	}
	r.log.Info("Initializing Git repository in '%s'", r.root)
	if _, err := r.run(ctx, r.root, "init"); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrRepositoryUnavailable, err)
	}
	r.log.Info("Git repository initialized.")
	return nil
}

// Stage runs git add for the absolute form of path.
func (r *Repository) Stage(ctx context.Context, path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", path, err)
	}
	if _, err := r.run(ctx, r.root, "add", "--", abs); err != nil {
		return err
	}
	r.log.Info("Successfully added '%s' to git staging area", path)
	return nil
}

// Commit runs git commit with message.
func (r *Repository) Commit(ctx context.Context, message string) error {
	var args []string
	if r.authorName != "" {
		args = append(args, "-c", "user.name="+r.authorName)
	}
	if r.authorEmail != "" {
		args = append(args, "-c", "user.email="+r.authorEmail)
	}
	args = append(args, "commit", "-m", message)

	if _, err := r.run(ctx, r.root, args...); err != nil {
		return err
	}
	r.log.Info("Successfully committed changes with message: %s", message)
	return nil
}

func (r *Repository) exec(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, r.binary, args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	r.log.Debug("Running %s %s in %s", r.binary, strings.Join(args, " "), dir)
	if err := cmd.Run(); err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		return stdout.String(), &CommandError{Args: args, ExitCode: exitCode, Stderr: stderr.String(), Err: err}
	}
	return stdout.String(), nil
}
