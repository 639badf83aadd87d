package vcf

// Backend parses the body of a structurally valid VCF into gene-scoped
// variant records. Backends are interchangeable: for the same valid input
// every backend must produce equivalent GeneVariants.
type Backend interface {
	// Name identifies the backend in logs.
	Name() string

	// Parse decodes all data rows. Rows for unsupported genes are dropped;
	// malformed individual rows are skipped without error.
	Parse(data []byte) (GeneVariants, error)
}

// DefaultBackend returns the backend used when none is configured:
// the streaming parser, which keeps line context for diagnostics.
func DefaultBackend() Backend {
	return &StreamBackend{}
}

// BackendByName returns the backend registered under name.
// Returns nil for unknown names.
func BackendByName(name string) Backend {
	switch name {
	case "stream":
		return &StreamBackend{}
	case "line":
		return &LineBackend{}
	}
	return nil
}
