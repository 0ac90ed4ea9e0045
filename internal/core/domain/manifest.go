package domain

// Manifest is the loaded configuration for a run: the file-defined variables
// and the target graph. Both are immutable once loaded.
type Manifest struct {
	Vars  map[string]string
	Graph *Graph
}
