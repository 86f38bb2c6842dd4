// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - WikiClient: Lists and fetches pages from a Confluence space
//   - Converter: Turns a page's storage-format body into Markdown
//   - DocumentWriter: Persists rendered documents, writing only on change
//   - Repository: Version-control init, stage and commit
//
// # Optional Interfaces
//
// These can be nil - the services substitute a no-op:
//
//   - ProgressReporter: Receives progress events for display
//   - Sleeper: Waits during rate-limit backoff (defaults to a context-aware timer)
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, connector, or normaliser package
package driven
