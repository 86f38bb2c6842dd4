// Package progress renders run progress for the terminal.
//
// Plain writes one line per event and suits logs and pipes. Interactive
// drives a bubbletea program with a batch bar and a page bar. Log records
// the same events in the run log. Multi fans events out to several
// reporters.
package progress
