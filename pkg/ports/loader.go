package ports

// DiagramLoader retrieves diagram documents from a library.
type DiagramLoader interface {
	// GetDiagram retrieves the raw document (YAML or JSON) of a diagram by ID.
	GetDiagram(id string) ([]byte, error)

	// ListDiagrams returns the IDs of every diagram in the library.
	ListDiagrams() ([]string, error)
}
