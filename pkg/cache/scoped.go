package cache

// ScopedKeyer wraps a Keyer with a prefix so several tables or deployments
// can share one Redis instance without colliding.
//
// Example usage:
//
//	staging := NewScopedKeyer(NewDefaultKeyer(), "staging:")
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

// DerivationKey generates a prefixed derivation key.
func (k *ScopedKeyer) DerivationKey(index uint64, opts KeyOpts) string {
	return k.prefix + k.inner.DerivationKey(index, opts)
}

// AnalysisKey generates a prefixed analysis key.
func (k *ScopedKeyer) AnalysisKey(code string, opts KeyOpts) string {
	return k.prefix + k.inner.AnalysisKey(code, opts)
}

// ArtifactKey generates a prefixed artifact key.
func (k *ScopedKeyer) ArtifactKey(index uint64, format string, opts KeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(index, format, opts)
}
