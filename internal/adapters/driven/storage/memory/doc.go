// Package memory provides in-memory test doubles for the driven storage
// ports. DocumentStore stands in for the file writer and Repository for a
// git backend; neither is wired into the command line tool, and both are
// meant for service tests that need to inspect what was written or
// committed.
package memory
