package driven

import "context"

// Repository is the version-control backend holding the mirror.
// Every operation may fail independently; callers log and continue.
type Repository interface {
	// Ensure initialises the repository when it does not exist yet.
	Ensure(ctx context.Context) error

	// Stage records one file's current content for the next commit.
	Stage(ctx context.Context, path string) error

	// Commit creates one commit of everything staged.
	Commit(ctx context.Context, message string) error
}
