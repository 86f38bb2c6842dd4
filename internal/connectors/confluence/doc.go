// Package confluence provides a client for the Confluence REST API.
//
// The client lists the pages of a space by offset, fetches page bodies in
// storage format together with version metadata, counts pages with CQL and
// resolves titles. Requests are throttled proactively; HTTP 429 responses
// are returned as *domain.RateLimitError so callers decide how to back off.
//
// Authentication uses either HTTP basic auth (username and API token) or a
// bearer personal access token.
package confluence
