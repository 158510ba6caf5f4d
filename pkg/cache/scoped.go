package cache

// ScopedKeyer wraps a Keyer with a prefix so separate contexts can share
// one backend without key collisions. The serve command's --cache-prefix
// flag builds one of these, so several deployments can point at the same
// Redis and keep their entries apart.
//
// Example usage:
//
//	// Keys private to one deployment
//	prodKeyer := NewScopedKeyer(NewDefaultKeyer(), "prod:")
//
//	// Unscoped keys for local runs
//	localKeyer := NewDefaultKeyer()
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// SolveKey generates a prefixed key for a solve result.
func (k *ScopedKeyer) SolveKey(problemHash string, opts SolveKeyOpts) string {
	return k.prefix + k.inner.SolveKey(problemHash, opts)
}

// RenderKey generates a prefixed key for a rendered artifact.
func (k *ScopedKeyer) RenderKey(solveHash string, opts RenderKeyOpts) string {
	return k.prefix + k.inner.RenderKey(solveHash, opts)
}
