// Package connectors holds the clients for remote wikis. Each connector
// implements driven.WikiClient; confluence is the only one so far.
package connectors
