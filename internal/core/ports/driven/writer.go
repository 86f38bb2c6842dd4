package driven

// DocumentWriter persists rendered documents.
type DocumentWriter interface {
	// WriteIfChanged writes content to path only when it differs from the
	// bytes already there. It reports whether a write happened; failures
	// are logged by the implementation and reported as false.
	WriteIfChanged(path string, content []byte) bool
}
