package cache

// Keyer derives cache keys. Swapping the keyer changes the key layout
// without touching the code that reads and writes entries.
type Keyer interface {
	// ArtifactKey returns the key of the artifact of one format built
	// from inputs with the given content hash.
	ArtifactKey(inputHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts are the per-format parts of an artifact key.
type ArtifactKeyOpts struct {
	Format  string         `json:"format"`
	Options map[string]any `json:"options,omitempty"` // the format's own overrides
	Tool    string         `json:"tool,omitempty"`    // external program, if any
}

// DefaultKeyer hashes every key component into a fixed-length key.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ArtifactKey returns "artifact:<sha256>" over the hash and opts.
func (DefaultKeyer) ArtifactKey(inputHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", inputHash, opts)
}

var _ Keyer = DefaultKeyer{}
