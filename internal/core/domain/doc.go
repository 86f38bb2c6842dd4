// Package domain defines the core entities for inconfluential.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - RemotePage: A page snapshot fetched from a Confluence space
//   - PageSummary: One entry of a paginated page listing
//   - RenderedDocument: The Markdown text derived from a RemotePage
//   - RetrievalCursor: Pagination state for one space walk
//   - SpaceResult, RunResult: What a run did, per space and overall
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
